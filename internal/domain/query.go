package domain

import (
	"fmt"
	"strings"
)

// NormalizeQuery canonicalizes a user query for use as a cache key.
// Identity is the literal trimmed text; no case folding or stemming.
func NormalizeQuery(q string) string {
	return strings.TrimSpace(q)
}

// SubQuestions is the ordered decomposition of one user query.
// A valid set is non-empty and contains no blank entries.
type SubQuestions []string

// NewSubQuestions validates raw decomposition output into a SubQuestions set.
func NewSubQuestions(questions []string) (SubQuestions, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", ErrDecomposition)
	}
	out := make(SubQuestions, 0, len(questions))
	for i, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, fmt.Errorf("%w: blank question at position %d", ErrDecomposition, i)
		}
		out = append(out, q)
	}
	return out, nil
}
