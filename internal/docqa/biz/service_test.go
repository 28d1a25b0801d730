package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docqa/internal/model"
	docqaopts "github.com/kart-io/docqa/pkg/options/docqa"
)

func newTestService(gen *mockGenerator, index *mockIndex, docs *mockDocs) Service {
	return NewService(&mockEmbedder{}, gen, index, docs, docqaopts.NewOptions())
}

func TestClearWipesBothStores(t *testing.T) {
	gen := &mockGenerator{responses: []string{"a", "r", "s"}}
	index := &mockIndex{hits: rankedHits(3), count: 3}
	docs := &mockDocs{}
	svc := newTestService(gen, index, docs)

	ctx := context.Background()
	_, err := svc.Ingest(ctx, "doc.txt", []byte("some document text"))
	require.NoError(t, err)
	_, err = svc.Answer(ctx, &model.AnswerRequest{UserID: "u1", Question: "q"})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	assert.True(t, docs.cleared)
	assert.True(t, index.resetCalled)

	// Listings are empty and search returns nothing without erroring.
	listed, err := svc.Documents(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	history, err := svc.History(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, history)

	hits, err := index.Search(ctx, []float32{0.1, 0.2, 0.3}, 4)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStats(t *testing.T) {
	index := &mockIndex{count: 42}
	docs := &mockDocs{docs: []*model.Document{{DocumentID: "d1"}, {DocumentID: "d2"}}}
	svc := newTestService(&mockGenerator{}, index, docs)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.DocumentCount)
	assert.Equal(t, int64(42), stats.PassageCount)
	assert.Equal(t, docqaopts.NewOptions().Collection, stats.Collection)
}
