// Package synthesize produces the final natural-language answer from the
// original query, its sub-questions, and everything retrieval gathered.
package synthesize

import (
	"context"
	"fmt"
	"strings"

	"github.com/motorq/concierge/internal/domain"
)

const systemPrompt = `You are a polite product showroom assistant. Consolidate the search ` +
	`results and stored passages below into one neat, structured answer to the customer's ` +
	`question. Use only the provided material; say so plainly when it does not cover the ` +
	`question. Greet the customer first.`

// Service synthesizes answers through a Completer.
type Service struct {
	llm   domain.Completer
	model string
}

// New creates a synthesis service.
func New(llm domain.Completer, model string) *Service {
	return &Service{llm: llm, model: model}
}

// Synthesize runs the single aggregated completion. A whitespace-only
// response is domain.ErrEmptySynthesis; provider failures are wrapped with
// domain.ErrSynthesisUnavailable. No retries happen here.
func (s *Service) Synthesize(
	ctx context.Context, query string, subqs domain.SubQuestions, retrieved []domain.Retrieved,
) (string, error) {
	out, err := s.llm.Complete(ctx, "synthesize", domain.Prompt{
		Model:  s.model,
		System: systemPrompt,
		User:   buildContext(query, subqs, retrieved),
	})
	if err != nil {
		return "", fmt.Errorf("synthesis completion: %v: %w", err, domain.ErrSynthesisUnavailable)
	}

	answer := strings.TrimSpace(out)
	if answer == "" {
		return "", domain.ErrEmptySynthesis
	}

	return answer, nil
}

// buildContext lays the aggregated material out per sub-question. Search
// bundles are inlined as raw provider JSON; their internal structure is the
// model's to interpret, not ours.
func buildContext(query string, subqs domain.SubQuestions, retrieved []domain.Retrieved) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Customer question: %s\n\n", query)

	b.WriteString("Sub-questions:\n")
	for i, q := range subqs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}

	for i, r := range retrieved {
		fmt.Fprintf(&b, "\n--- Material for sub-question %d: %s ---\n", i+1, r.SubQuestion)

		if r.Search.Empty() {
			b.WriteString("Web search: no results.\n")
		} else {
			fmt.Fprintf(&b, "Web search results (JSON): %s\n", r.Search.Raw)
		}

		if len(r.Passages) == 0 {
			b.WriteString("Stored passages: none.\n")
		} else {
			b.WriteString("Stored passages:\n")
			for _, p := range r.Passages {
				fmt.Fprintf(&b, "- %s\n", p.Content)
			}
		}
	}

	return b.String()
}
