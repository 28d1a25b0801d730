package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/kart-io/docqa/internal/docqa/metrics"
	"github.com/kart-io/docqa/internal/docqa/store"
	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/errors"
	docqaopts "github.com/kart-io/docqa/pkg/options/docqa"
)

const (
	// contextWindow limits how many retrieved passages feed the prompt and
	// references. TopK only controls the index's recall breadth.
	contextWindow = 2

	// snippetLimit caps reference snippets, in characters.
	snippetLimit = 400

	answerSystemPrompt = "You are a helpful AI assistant that answers questions based on provided documents. " +
		"Use the document context to answer questions accurately. If you can't find the answer in the context, say so. " +
		"Provide clear reasoning for your answers."

	reasoningSystemPrompt = "Provide brief reasoning for the given answer."
)

// Answerer runs the retrieval and answer pipeline: history fetch, question
// embedding, similarity search, context assembly, two generation calls,
// suggestions, and turn persistence.
type Answerer struct {
	embedder  EmbeddingProvider
	generator GenerationProvider
	suggester *Suggester
	index     store.VectorIndex
	docs      store.DocumentStore
	cfg       *docqaopts.Options
	metrics   *metrics.Metrics
}

// NewAnswerer creates an answerer.
func NewAnswerer(embedder EmbeddingProvider, generator GenerationProvider, suggester *Suggester, index store.VectorIndex, docs store.DocumentStore, cfg *docqaopts.Options) *Answerer {
	return &Answerer{
		embedder:  embedder,
		generator: generator,
		suggester: suggester,
		index:     index,
		docs:      docs,
		cfg:       cfg,
		metrics:   metrics.Get(),
	}
}

// Answer answers one question. Any failure before the response is returned
// aborts the whole call; no partial turn is persisted.
func (a *Answerer) Answer(ctx context.Context, req *model.AnswerRequest) (*model.AnswerResult, error) {
	result, err := a.answer(ctx, req)
	a.metrics.RecordQuestion(err)
	return result, err
}

func (a *Answerer) answer(ctx context.Context, req *model.AnswerRequest) (*model.AnswerResult, error) {
	topK := req.TopK
	if topK <= 0 {
		topK = a.cfg.TopK
	}

	history, err := a.docs.RecentTurns(ctx, req.UserID, a.cfg.HistoryLimit)
	if err != nil {
		return nil, errors.ErrDocumentStore.WithCause(err)
	}

	embedding, err := a.embedder.EmbedSingle(ctx, req.Question)
	if err != nil {
		logger.Errorw("Failed to embed question", "user_id", req.UserID, "error", err)
		return nil, errors.ErrProvider.WithCause(err)
	}

	searchStart := time.Now()
	hits, err := a.index.Search(ctx, embedding, topK)
	if err != nil {
		logger.Errorw("Failed to search passages", "user_id", req.UserID, "error", err)
		return nil, errors.ErrVectorStore.WithCause(err)
	}
	a.metrics.RecordRetrieval(time.Since(searchStart))

	if len(hits) > contextWindow {
		hits = hits[:contextWindow]
	}

	contextText := buildContext(hits)
	references := buildReferences(hits)

	answer, err := a.generate(ctx, answerSystemPrompt, buildUserPrompt(history, contextText, req.Question))
	if err != nil {
		return nil, errors.ErrProvider.WithCause(err)
	}

	// Reasoning is a second, independent generation call referencing the
	// answer just produced.
	reasoningPrompt := fmt.Sprintf("Based on this question: %q and the answer: %q, explain briefly how you arrived at this answer using the provided document context.", req.Question, answer)
	reasoning, err := a.generate(ctx, reasoningSystemPrompt, reasoningPrompt)
	if err != nil {
		return nil, errors.ErrProvider.WithCause(err)
	}

	suggestions := a.suggester.Suggest(ctx, req.Question, contextText)

	turn := &model.ConversationTurn{
		UserID:     req.UserID,
		Question:   req.Question,
		Answer:     answer,
		Reasoning:  reasoning,
		References: references,
		Timestamp:  time.Now().UTC(),
	}
	if err := a.docs.InsertTurn(ctx, turn); err != nil {
		logger.Errorw("Failed to persist conversation turn", "user_id", req.UserID, "error", err)
		return nil, errors.ErrDocumentStore.WithCause(err)
	}

	logger.Infow("Question answered", "user_id", req.UserID, "references", len(references))

	return &model.AnswerResult{
		Answer:      answer,
		Reasoning:   reasoning,
		References:  references,
		Suggestions: suggestions,
	}, nil
}

func (a *Answerer) generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	start := time.Now()
	out, err := a.generator.Generate(ctx, systemPrompt, prompt)
	a.metrics.RecordGeneration(time.Since(start), err)
	if err != nil {
		logger.Errorw("Generation call failed", "error", err)
	}
	return out, err
}

func buildContext(hits []*store.VectorHit) string {
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
	}
	return strings.Join(texts, "\n\n")
}

func buildReferences(hits []*store.VectorHit) []model.Reference {
	references := make([]model.Reference, len(hits))
	for i, hit := range hits {
		references[i] = model.Reference{
			ChunkID:    hit.ID,
			DocumentID: hit.DocumentID,
			Filename:   hit.Filename,
			Snippet:    snippet(hit.Text),
			PageNumber: hit.PageNumber,
			Score:      hit.Score,
		}
	}
	return references
}

func buildUserPrompt(history []*model.ConversationTurn, contextText, question string) string {
	lines := make([]string, len(history))
	for i, turn := range history {
		lines[i] = fmt.Sprintf("Q: %s\nA: %s", turn.Question, turn.Answer)
	}
	historyText := strings.Join(lines, "\n")

	return fmt.Sprintf(`Previous conversation:
%s

Document context:
%s

Current question: %s

Please provide a detailed answer based on the document context. Explain your reasoning.`, historyText, contextText, question)
}

// snippet truncates text to snippetLimit characters with an ellipsis suffix.
func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= snippetLimit {
		return text
	}
	return string(runes[:snippetLimit]) + "..."
}
