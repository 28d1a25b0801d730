// Package biz provides business logic for the document QA service.
package biz

import (
	"strings"

	"github.com/kart-io/docqa/internal/model"
)

// Chunk is a piece of document text attributed to its source page.
type Chunk struct {
	// Text is the chunk text, words joined by single spaces.
	Text string
	// PageNumber is the 1-indexed source page, nil for non-paginated input.
	PageNumber *int
}

// Chunker splits text into overlapping word windows.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker. Overlap must be smaller than the chunk size;
// options validation enforces this before construction.
func NewChunker(chunkSize, overlap int) *Chunker {
	return &Chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Split splits text into windows of chunkSize words advancing by
// chunkSize-overlap words. Whitespace runs are collapsed to single spaces.
// Empty or whitespace-only text yields no chunks.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	var chunks []string
	for i := 0; i < len(words); i += stride {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}

	return chunks
}

// SplitPages chunks each page independently so no chunk spans a page
// boundary, preserving page order and attribution.
func (c *Chunker) SplitPages(pages []model.Page) []Chunk {
	var chunks []Chunk
	for _, page := range pages {
		for _, text := range c.Split(page.Text) {
			chunks = append(chunks, Chunk{
				Text:       text,
				PageNumber: page.Number,
			})
		}
	}
	return chunks
}
