package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/kart-io/docqa/internal/docqa/store"
	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/errors"
	docqaopts "github.com/kart-io/docqa/pkg/options/docqa"
)

// EmbeddingProvider generates embedding vectors for texts.
type EmbeddingProvider interface {
	// Embed embeds all texts in one batched call.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle embeds a single text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// GenerationProvider produces a completion for a prompt.
type GenerationProvider interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// TextExtractor turns raw uploads into extracted text pages.
type TextExtractor interface {
	Extract(filename string, content []byte) ([]model.Page, error)
}

// Service is the document QA business interface.
type Service interface {
	// Ingest processes an uploaded document into the knowledge base.
	Ingest(ctx context.Context, filename string, content []byte) (*model.IngestResult, error)

	// Answer answers a question against the knowledge base.
	Answer(ctx context.Context, req *model.AnswerRequest) (*model.AnswerResult, error)

	// History returns the user's conversation history, newest first.
	History(ctx context.Context, userID string) ([]*model.ConversationTurn, error)

	// Documents returns all ingested documents, newest first.
	Documents(ctx context.Context) ([]*model.Document, error)

	// Clear wipes both stores and recreates an empty index collection.
	Clear(ctx context.Context) error

	// Stats reports the size of the knowledge base.
	Stats(ctx context.Context) (*model.Stats, error)
}

// service wires the ingestion and answer pipelines over the stores.
type service struct {
	ingestor *Ingestor
	answerer *Answerer
	index    store.VectorIndex
	docs     store.DocumentStore
	cfg      *docqaopts.Options
}

// NewService creates the document QA service.
func NewService(embedder EmbeddingProvider, generator GenerationProvider, index store.VectorIndex, docs store.DocumentStore, cfg *docqaopts.Options) Service {
	chunker := NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	suggester := NewSuggester(generator)

	return &service{
		ingestor: NewIngestor(NewExtractor(), chunker, embedder, index, docs),
		answerer: NewAnswerer(embedder, generator, suggester, index, docs, cfg),
		index:    index,
		docs:     docs,
		cfg:      cfg,
	}
}

func (s *service) Ingest(ctx context.Context, filename string, content []byte) (*model.IngestResult, error) {
	return s.ingestor.Ingest(ctx, filename, content)
}

func (s *service) Answer(ctx context.Context, req *model.AnswerRequest) (*model.AnswerResult, error) {
	return s.answerer.Answer(ctx, req)
}

func (s *service) History(ctx context.Context, userID string) ([]*model.ConversationTurn, error) {
	turns, err := s.docs.ListTurns(ctx, userID)
	if err != nil {
		return nil, errors.ErrDocumentStore.WithCause(err)
	}
	return turns, nil
}

func (s *service) Documents(ctx context.Context) ([]*model.Document, error) {
	docs, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, errors.ErrDocumentStore.WithCause(err)
	}
	return docs, nil
}

func (s *service) Clear(ctx context.Context) error {
	if err := s.docs.Clear(ctx); err != nil {
		return errors.ErrDocumentStore.WithCause(err)
	}
	if err := s.index.Reset(ctx); err != nil {
		return errors.ErrVectorStore.WithCause(err)
	}

	logger.Infow("Cleared all documents and conversations")
	return nil
}

func (s *service) Stats(ctx context.Context) (*model.Stats, error) {
	docCount, err := s.docs.CountDocuments(ctx)
	if err != nil {
		return nil, errors.ErrDocumentStore.WithCause(err)
	}

	passageCount, err := s.index.Count(ctx)
	if err != nil {
		return nil, errors.ErrVectorStore.WithCause(err)
	}

	return &model.Stats{
		DocumentCount: docCount,
		PassageCount:  passageCount,
		Collection:    s.cfg.Collection,
		EmbeddingDim:  s.cfg.EmbeddingDim,
	}, nil
}
