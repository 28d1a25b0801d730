package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/docqa/internal/docqa/metrics"
)

const (
	// maxSuggestions caps the follow-up questions returned per answer.
	maxSuggestions = 3

	// suggestionContextLimit bounds how much context feeds the suggestion
	// prompt, in characters.
	suggestionContextLimit = 500

	suggestionSystemPrompt = "Generate 3 short follow-up questions based on the context and previous question. " +
		"Return only the questions, one per line."

	// bulletCutset covers the bullet and numbering prefixes stripped from
	// generated suggestion lines.
	bulletCutset = "-•123. "
)

// fallbackSuggestions is returned whenever suggestion generation fails.
var fallbackSuggestions = []string{
	"Can you provide more details?",
	"What are the implications?",
	"Are there any examples?",
}

// Suggester generates follow-up question suggestions. It never fails: a
// provider error degrades to a fixed fallback list.
type Suggester struct {
	generator GenerationProvider
	metrics   *metrics.Metrics
}

// NewSuggester creates a suggester.
func NewSuggester(generator GenerationProvider) *Suggester {
	return &Suggester{
		generator: generator,
		metrics:   metrics.Get(),
	}
}

// Suggest returns up to 3 follow-up questions for the answered question.
func (s *Suggester) Suggest(ctx context.Context, question, contextText string) []string {
	prompt := fmt.Sprintf("Question: %s\nContext: %s", question, truncateRunes(contextText, suggestionContextLimit))

	text, err := s.generator.Generate(ctx, suggestionSystemPrompt, prompt)
	if err != nil {
		logger.Warnw("Suggestion generation failed, using fallback", "error", err)
		s.metrics.RecordSuggestionFallback()
		return fallbackSuggestions
	}

	suggestions := ParseSuggestions(text)
	if len(suggestions) == 0 {
		logger.Warn("Suggestion generation returned no usable lines, using fallback")
		s.metrics.RecordSuggestionFallback()
		return fallbackSuggestions
	}
	return suggestions
}

// ParseSuggestions splits generated text into suggestion lines, stripping
// bullet and numbering prefixes and dropping empty lines, capped at 3.
func ParseSuggestions(text string) []string {
	var suggestions []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(strings.Trim(line, bulletCutset))
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return suggestions
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
