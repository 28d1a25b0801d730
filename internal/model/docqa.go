// Package model provides data models for the document QA service.
package model

import (
	"time"
)

// Document represents an uploaded document's metadata.
type Document struct {
	DocumentID      string    `json:"document_id" bson:"document_id"`
	Filename        string    `json:"filename" bson:"filename"`
	UploadTimestamp time.Time `json:"upload_timestamp" bson:"upload_timestamp"`
	ChunkCount      int       `json:"chunk_count" bson:"chunk_count"`
	// OriginalContent holds the raw text for TXT uploads. For PDFs it is the
	// placeholder "PDF content" since the binary is not kept.
	OriginalContent string `json:"original_content,omitempty" bson:"original_content"`
}

// Passage is a chunk of document text together with its embedding and
// provenance, ready for vector indexing.
type Passage struct {
	ID              string
	DocumentID      string
	Filename        string
	Text            string
	PageNumber      *int
	UploadTimestamp time.Time
	Embedding       []float32
}

// Page is a unit of extracted document text. TXT files yield a single page
// with a nil number; PDFs yield one Page per physical page, 1-indexed.
type Page struct {
	Number *int
	Text   string
}

// Reference points at a retrieved passage that grounded an answer.
type Reference struct {
	ChunkID    string  `json:"chunk_id" bson:"chunk_id"`
	DocumentID string  `json:"document_id" bson:"document_id"`
	Filename   string  `json:"filename" bson:"filename"`
	Snippet    string  `json:"snippet" bson:"snippet"`
	PageNumber *int    `json:"page_number" bson:"page_number,omitempty"`
	Score      float32 `json:"score" bson:"score"`
}

// ConversationTurn is one completed question/answer exchange. Suggestions
// are not persisted since they are recomputed per answer.
type ConversationTurn struct {
	UserID     string      `json:"user_id" bson:"user_id"`
	Question   string      `json:"question" bson:"question"`
	Answer     string      `json:"answer" bson:"answer"`
	Reasoning  string      `json:"reasoning" bson:"reasoning"`
	References []Reference `json:"references" bson:"references"`
	Timestamp  time.Time   `json:"timestamp" bson:"timestamp"`
}

// IngestResult summarizes a completed document ingestion.
type IngestResult struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

// AnswerRequest is a question against the indexed documents.
type AnswerRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Question string `json:"question" binding:"required"`
	TopK     int    `json:"top_k"`
}

// AnswerResult is the generated answer with its supporting material.
type AnswerResult struct {
	Answer      string      `json:"answer"`
	Reasoning   string      `json:"reasoning"`
	References  []Reference `json:"references"`
	Suggestions []string    `json:"suggestions"`
}

// Stats reports the size of the knowledge base.
type Stats struct {
	DocumentCount int64  `json:"document_count"`
	PassageCount  int64  `json:"passage_count"`
	Collection    string `json:"collection"`
	EmbeddingDim  int    `json:"embedding_dim"`
}
