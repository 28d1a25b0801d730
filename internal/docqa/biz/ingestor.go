package biz

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/kart-io/docqa/internal/docqa/metrics"
	"github.com/kart-io/docqa/internal/docqa/store"
	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/errors"
)

// pdfContentPlaceholder is stored instead of raw bytes for PDF uploads.
const pdfContentPlaceholder = "PDF content"

// Ingestor runs the document ingestion pipeline: extract, chunk, embed in
// one batch, upsert in one batch, then record document metadata.
type Ingestor struct {
	extractor TextExtractor
	chunker   *Chunker
	embedder  EmbeddingProvider
	index     store.VectorIndex
	docs      store.DocumentStore
	metrics   *metrics.Metrics
}

// NewIngestor creates an ingestor.
func NewIngestor(extractor TextExtractor, chunker *Chunker, embedder EmbeddingProvider, index store.VectorIndex, docs store.DocumentStore) *Ingestor {
	return &Ingestor{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
		docs:      docs,
		metrics:   metrics.Get(),
	}
}

// Ingest processes one uploaded document. Any step failing aborts the whole
// ingestion; index points written before a later failure are left in place.
func (g *Ingestor) Ingest(ctx context.Context, filename string, content []byte) (*model.IngestResult, error) {
	result, err := g.ingest(ctx, filename, content)
	if err != nil {
		g.metrics.RecordIngest(0, err)
		return nil, err
	}
	g.metrics.RecordIngest(result.ChunkCount, nil)
	return result, nil
}

func (g *Ingestor) ingest(ctx context.Context, filename string, content []byte) (*model.IngestResult, error) {
	pages, err := g.extractor.Extract(filename, content)
	if err != nil {
		return nil, err
	}

	chunks := g.chunker.SplitPages(pages)
	if len(chunks) == 0 {
		return nil, errors.ErrEmptyDocument
	}

	documentID := uuid.NewString()
	uploadedAt := time.Now().UTC()

	passages := make([]*model.Passage, len(chunks))
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		passages[i] = &model.Passage{
			ID:              uuid.NewString(),
			DocumentID:      documentID,
			Filename:        filename,
			Text:            chunk.Text,
			PageNumber:      chunk.PageNumber,
			UploadTimestamp: uploadedAt,
		}
		texts[i] = chunk.Text
	}

	// One embedding call per document, not per passage.
	embeddings, err := g.embedder.Embed(ctx, texts)
	if err != nil {
		logger.Errorw("Failed to embed passages", "filename", filename, "error", err)
		return nil, errors.ErrProvider.WithCause(err)
	}
	if len(embeddings) != len(passages) {
		logger.Errorw("Embedding count mismatch", "filename", filename, "passages", len(passages), "embeddings", len(embeddings))
		return nil, errors.ErrProvider.WithMessage("provider returned %d embeddings for %d passages", len(embeddings), len(passages))
	}
	for i := range passages {
		passages[i].Embedding = embeddings[i]
	}

	if err := g.index.Upsert(ctx, passages); err != nil {
		logger.Errorw("Failed to upsert passages", "filename", filename, "document_id", documentID, "error", err)
		return nil, errors.ErrVectorStore.WithCause(err)
	}

	doc := &model.Document{
		DocumentID:      documentID,
		Filename:        filename,
		UploadTimestamp: uploadedAt,
		ChunkCount:      len(passages),
		OriginalContent: originalContent(filename, pages),
	}
	if err := g.docs.InsertDocument(ctx, doc); err != nil {
		logger.Errorw("Failed to insert document metadata", "filename", filename, "document_id", documentID, "error", err)
		return nil, errors.ErrDocumentStore.WithCause(err)
	}

	logger.Infow("Document ingested", "filename", filename, "document_id", documentID, "chunks", len(passages))

	return &model.IngestResult{
		DocumentID: documentID,
		Filename:   filename,
		ChunkCount: len(passages),
	}, nil
}

// originalContent returns the text to store alongside document metadata.
// PDF binaries are not kept; a placeholder marks them.
func originalContent(filename string, pages []model.Page) string {
	if strings.ToLower(filepath.Ext(filename)) == ".pdf" {
		return pdfContentPlaceholder
	}
	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page.Text)
	}
	return sb.String()
}
