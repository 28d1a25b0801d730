package store

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/component/milvus"
)

// Milvus payload field names.
const (
	fieldDocumentID      = "document_id"
	fieldFilename        = "filename"
	fieldText            = "text"
	fieldPageNumber      = "page_number"
	fieldUploadTimestamp = "upload_timestamp"
)

// noPage encodes a nil page number in the Int64 payload field. Real page
// numbers are 1-indexed.
const noPage = int64(0)

// MilvusIndex implements VectorIndex backed by Milvus.
type MilvusIndex struct {
	client     *milvus.Client
	collection string
	dimension  int
}

// NewMilvusIndex creates a Milvus-backed vector index.
func NewMilvusIndex(client *milvus.Client, collection string, dimension int) *MilvusIndex {
	return &MilvusIndex{
		client:     client,
		collection: collection,
		dimension:  dimension,
	}
}

func (s *MilvusIndex) schema() *milvus.CollectionSchema {
	return &milvus.CollectionSchema{
		Name:        s.collection,
		Description: "Document QA passage collection",
		Dimension:   s.dimension,
		MetaFields: []milvus.MetaField{
			{Name: fieldDocumentID, DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: fieldFilename, DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: fieldText, DataType: entity.FieldTypeVarChar, MaxLen: 65535},
			{Name: fieldPageNumber, DataType: entity.FieldTypeInt64},
			{Name: fieldUploadTimestamp, DataType: entity.FieldTypeVarChar, MaxLen: 64},
		},
	}
}

// Ensure creates the collection and index if they do not exist.
func (s *MilvusIndex) Ensure(ctx context.Context) error {
	return s.client.EnsureCollection(ctx, s.schema())
}

// Upsert writes passages and their embeddings in one batch.
func (s *MilvusIndex) Upsert(ctx context.Context, passages []*model.Passage) error {
	if len(passages) == 0 {
		return nil
	}

	data := &milvus.UpsertData{
		IDs:        make([]string, len(passages)),
		Embeddings: make([][]float32, len(passages)),
		Metadata: map[string][]any{
			fieldDocumentID:      make([]any, len(passages)),
			fieldFilename:        make([]any, len(passages)),
			fieldText:            make([]any, len(passages)),
			fieldPageNumber:      make([]any, len(passages)),
			fieldUploadTimestamp: make([]any, len(passages)),
		},
	}

	for i, p := range passages {
		data.IDs[i] = p.ID
		data.Embeddings[i] = p.Embedding
		data.Metadata[fieldDocumentID][i] = p.DocumentID
		data.Metadata[fieldFilename][i] = p.Filename
		data.Metadata[fieldText][i] = p.Text
		data.Metadata[fieldPageNumber][i] = encodePage(p.PageNumber)
		data.Metadata[fieldUploadTimestamp][i] = p.UploadTimestamp.UTC().Format(time.RFC3339)
	}

	if err := s.client.Upsert(ctx, s.collection, data); err != nil {
		return fmt.Errorf("failed to upsert into milvus: %w", err)
	}

	return nil
}

// Search returns the topK most similar passages to the embedding.
func (s *MilvusIndex) Search(ctx context.Context, embedding []float32, topK int) ([]*VectorHit, error) {
	outputFields := []string{fieldDocumentID, fieldFilename, fieldText, fieldPageNumber}

	results, err := s.client.Search(ctx, s.collection, embedding, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	hits := make([]*VectorHit, 0, len(results))
	for _, r := range results {
		hit := &VectorHit{
			ID:    r.ID,
			Score: r.Score,
		}
		if v, ok := r.Metadata[fieldDocumentID].(string); ok {
			hit.DocumentID = v
		}
		if v, ok := r.Metadata[fieldFilename].(string); ok {
			hit.Filename = v
		}
		if v, ok := r.Metadata[fieldText].(string); ok {
			hit.Text = v
		}
		if v, ok := r.Metadata[fieldPageNumber].(int64); ok {
			hit.PageNumber = decodePage(v)
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Count returns the number of indexed passages.
func (s *MilvusIndex) Count(ctx context.Context) (int64, error) {
	return s.client.CollectionCount(ctx, s.collection)
}

// Reset drops and recreates the collection.
func (s *MilvusIndex) Reset(ctx context.Context) error {
	if err := s.client.DropCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return s.Ensure(ctx)
}

// Close closes the connection.
func (s *MilvusIndex) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func encodePage(page *int) int64 {
	if page == nil {
		return noPage
	}
	return int64(*page)
}

func decodePage(v int64) *int {
	if v == noPage {
		return nil
	}
	page := int(v)
	return &page
}
