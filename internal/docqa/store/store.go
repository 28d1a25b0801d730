// Package store provides the storage layer for the document QA service.
//
// It defines abstractions over the vector index holding passage embeddings
// and the document store holding document metadata and conversation history.
package store

import (
	"context"

	"github.com/kart-io/docqa/internal/model"
)

// VectorHit is a passage retrieved by similarity search.
type VectorHit struct {
	// ID is the passage ID.
	ID string
	// DocumentID is the owning document ID.
	DocumentID string
	// Filename is the owning document's filename.
	Filename string
	// Text is the passage text.
	Text string
	// PageNumber is the 1-indexed source page, nil for non-paginated documents.
	PageNumber *int
	// Score is the cosine similarity score.
	Score float32
}

// VectorIndex defines the vector index interface.
type VectorIndex interface {
	// Ensure creates the collection and index if they do not exist.
	Ensure(ctx context.Context) error

	// Upsert writes passages and their embeddings in one batch.
	Upsert(ctx context.Context, passages []*model.Passage) error

	// Search returns the topK most similar passages to the embedding.
	Search(ctx context.Context, embedding []float32, topK int) ([]*VectorHit, error)

	// Count returns the number of indexed passages.
	Count(ctx context.Context) (int64, error)

	// Reset drops and recreates the collection.
	Reset(ctx context.Context) error

	// Close closes the connection.
	Close(ctx context.Context) error
}

// DocumentStore defines the document metadata and conversation store interface.
type DocumentStore interface {
	// EnsureIndexes creates the collection indexes if they do not exist.
	EnsureIndexes(ctx context.Context) error

	// InsertDocument records an ingested document's metadata.
	InsertDocument(ctx context.Context, doc *model.Document) error

	// ListDocuments returns all documents, newest first.
	ListDocuments(ctx context.Context) ([]*model.Document, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int64, error)

	// InsertTurn appends a completed conversation turn.
	InsertTurn(ctx context.Context, turn *model.ConversationTurn) error

	// RecentTurns returns up to limit most recent turns for the user,
	// ordered oldest first.
	RecentTurns(ctx context.Context, userID string, limit int) ([]*model.ConversationTurn, error)

	// ListTurns returns the full history for the user, newest first.
	ListTurns(ctx context.Context, userID string) ([]*model.ConversationTurn, error)

	// Clear removes all documents and conversation turns.
	Clear(ctx context.Context) error

	// Close closes the connection.
	Close() error
}
