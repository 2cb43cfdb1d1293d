// Package decompose expands one user query into an ordered list of
// sub-questions via a deterministic language-model call.
package decompose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/motorq/concierge/internal/domain"
)

const systemPrompt = `You split a customer's product question into narrower sub-questions ` +
	`that together cover the original question. Respond with ONLY a JSON object of the exact ` +
	`shape {"questions": ["...", "..."]} and nothing else. No prose, no code fences.`

// Service decomposes queries through a Completer.
type Service struct {
	llm   domain.Completer
	model string
}

// New creates a decomposition service.
func New(llm domain.Completer, model string) *Service {
	return &Service{llm: llm, model: model}
}

// decomposition is the fixed output contract. Any deviation from this shape
// fails the request; downstream fan-out cardinality depends on it.
type decomposition struct {
	Questions []string `json:"questions"`
}

// Decompose produces the sub-question set for one query. Provider failures
// surface as-is; contract violations surface as domain.ErrDecomposition.
// No retries happen here; retry policy belongs to the orchestrating layer.
func (s *Service) Decompose(ctx context.Context, query string) (domain.SubQuestions, error) {
	out, err := s.llm.Complete(ctx, "decompose", domain.Prompt{
		Model:         s.model,
		System:        systemPrompt,
		User:          query,
		Deterministic: true,
	})
	if err != nil {
		return nil, fmt.Errorf("decompose completion: %w", err)
	}

	return parse(out)
}

// parse applies the strict shape policy: the raw model output must be exactly
// the contract JSON. Loose natural-language output is rejected, never repaired.
func parse(raw string) (domain.SubQuestions, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	var d decomposition
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: malformed output: %v", domain.ErrDecomposition, err)
	}
	// Trailing content after the JSON object is a contract violation too.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content after JSON object", domain.ErrDecomposition)
	}
	if d.Questions == nil {
		return nil, fmt.Errorf("%w: missing questions key", domain.ErrDecomposition)
	}

	return domain.NewSubQuestions(d.Questions)
}
