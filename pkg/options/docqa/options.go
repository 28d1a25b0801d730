// Package docqaopts provides retrieval pipeline configuration options.
package docqaopts

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Options contains retrieval pipeline configuration.
type Options struct {
	// ChunkSize is the passage window size in words.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the word overlap between consecutive passages.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// TopK is the default number of passages fetched from the index per
	// question. The context window is narrower and fixed by the pipeline.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// Collection is the vector index collection name.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the embedding vector dimension. Must match the
	// configured embedding model (384 for all-MiniLM-class models).
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// HistoryLimit is the number of recent conversation turns included in
	// the generation prompt.
	HistoryLimit int `json:"history-limit" mapstructure:"history-limit"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:    500,
		ChunkOverlap: 80,
		TopK:         4,
		Collection:   "documents",
		EmbeddingDim: 384,
		HistoryLimit: 3,
	}
}

// AddFlags adds flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.ChunkSize, "docqa.chunk-size", o.ChunkSize, "Passage window size in words")
	fs.IntVar(&o.ChunkOverlap, "docqa.chunk-overlap", o.ChunkOverlap, "Word overlap between consecutive passages")
	fs.IntVar(&o.TopK, "docqa.top-k", o.TopK, "Default number of passages fetched per question")
	fs.StringVar(&o.Collection, "docqa.collection", o.Collection, "Vector index collection name")
	fs.IntVar(&o.EmbeddingDim, "docqa.embedding-dim", o.EmbeddingDim, "Embedding vector dimension")
	fs.IntVar(&o.HistoryLimit, "docqa.history-limit", o.HistoryLimit, "Recent turns included in the prompt")
}

// Validate validates the options. An overlap at or above the chunk size would
// make the chunking stride non-positive, so it is rejected here rather than
// discovered at ingest time.
func (o *Options) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("docqa chunk-size must be positive")
	}
	if o.ChunkOverlap < 0 {
		return fmt.Errorf("docqa chunk-overlap must not be negative")
	}
	if o.ChunkOverlap >= o.ChunkSize {
		return fmt.Errorf("docqa chunk-overlap (%d) must be smaller than chunk-size (%d)", o.ChunkOverlap, o.ChunkSize)
	}
	if o.TopK <= 0 {
		return fmt.Errorf("docqa top-k must be positive")
	}
	if o.Collection == "" {
		return fmt.Errorf("docqa collection is required")
	}
	if o.EmbeddingDim <= 0 {
		return fmt.Errorf("docqa embedding-dim must be positive")
	}
	if o.HistoryLimit < 0 {
		return fmt.Errorf("docqa history-limit must not be negative")
	}
	return nil
}
