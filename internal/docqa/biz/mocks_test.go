package biz

import (
	"context"

	"github.com/kart-io/docqa/internal/docqa/store"
	"github.com/kart-io/docqa/internal/model"
)

// mockEmbedder returns a fixed-dimension vector per text and records calls.
// A non-zero batchSize overrides the returned vector count.
type mockEmbedder struct {
	embedCalls  int
	singleCalls int
	lastTexts   []string
	batchSize   int
	err         error
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.embedCalls++
	m.lastTexts = texts
	if m.err != nil {
		return nil, m.err
	}
	n := len(texts)
	if m.batchSize > 0 {
		n = m.batchSize
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = []float32{float32(i), 0.5, 0.25}
	}
	return vectors, nil
}

func (m *mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	m.singleCalls++
	if m.err != nil {
		return nil, m.err
	}
	return []float32{float32(len(text)), 0.5, 0.25}, nil
}

// mockExtractor returns canned pages, bypassing file parsing.
type mockExtractor struct {
	pages []model.Page
	err   error
}

func (m *mockExtractor) Extract(filename string, content []byte) ([]model.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

// generatorCall records one Generate invocation.
type generatorCall struct {
	system string
	prompt string
}

// mockGenerator pops queued responses in call order.
type mockGenerator struct {
	responses []string
	errs      []error
	calls     []generatorCall
}

func (m *mockGenerator) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	i := len(m.calls)
	m.calls = append(m.calls, generatorCall{system: systemPrompt, prompt: prompt})

	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "generated", nil
}

// mockIndex records upserts and serves canned search hits.
type mockIndex struct {
	upserts     [][]*model.Passage
	hits        []*store.VectorHit
	searchTopKs []int
	upsertErr   error
	searchErr   error
	resetCalled bool
	count       int64
}

func (m *mockIndex) Ensure(ctx context.Context) error { return nil }

func (m *mockIndex) Upsert(ctx context.Context, passages []*model.Passage) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, passages)
	return nil
}

func (m *mockIndex) Search(ctx context.Context, embedding []float32, topK int) ([]*store.VectorHit, error) {
	m.searchTopKs = append(m.searchTopKs, topK)
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if topK < len(m.hits) {
		return m.hits[:topK], nil
	}
	return m.hits, nil
}

func (m *mockIndex) Count(ctx context.Context) (int64, error) { return m.count, nil }

func (m *mockIndex) Reset(ctx context.Context) error {
	m.resetCalled = true
	m.hits = nil
	m.count = 0
	return nil
}

func (m *mockIndex) Close(ctx context.Context) error { return nil }

// mockDocs is an in-memory DocumentStore.
type mockDocs struct {
	docs          []*model.Document
	turns         []*model.ConversationTurn
	recent        []*model.ConversationTurn
	insertDocErr  error
	insertTurnErr error
	cleared       bool
}

func (m *mockDocs) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockDocs) InsertDocument(ctx context.Context, doc *model.Document) error {
	if m.insertDocErr != nil {
		return m.insertDocErr
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *mockDocs) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	return m.docs, nil
}

func (m *mockDocs) CountDocuments(ctx context.Context) (int64, error) {
	return int64(len(m.docs)), nil
}

func (m *mockDocs) InsertTurn(ctx context.Context, turn *model.ConversationTurn) error {
	if m.insertTurnErr != nil {
		return m.insertTurnErr
	}
	m.turns = append(m.turns, turn)
	return nil
}

func (m *mockDocs) RecentTurns(ctx context.Context, userID string, limit int) ([]*model.ConversationTurn, error) {
	return m.recent, nil
}

func (m *mockDocs) ListTurns(ctx context.Context, userID string) ([]*model.ConversationTurn, error) {
	return m.turns, nil
}

func (m *mockDocs) Clear(ctx context.Context) error {
	m.cleared = true
	m.docs = nil
	m.turns = nil
	return nil
}

func (m *mockDocs) Close() error { return nil }
