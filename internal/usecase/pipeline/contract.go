package pipeline

import (
	"context"

	"github.com/motorq/concierge/internal/domain"
)

// Cache is the response cache. Lookup treats store failures as misses;
// Store is best-effort.
type Cache interface {
	Lookup(ctx context.Context, query string) (string, bool)
	Store(ctx context.Context, query, answer string)
}

// Decomposer expands one query into ordered sub-questions.
type Decomposer interface {
	Decompose(ctx context.Context, query string) (domain.SubQuestions, error)
}

// Coordinator fans retrieval out per sub-question, one result slot each,
// input order preserved.
type Coordinator interface {
	RetrieveAll(ctx context.Context, subqs domain.SubQuestions) []domain.Retrieved
}

// Synthesizer produces the final answer text from the aggregated context.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, subqs domain.SubQuestions, retrieved []domain.Retrieved) (string, error)
}

// Processor is the pipeline entry point the transport layer calls.
type Processor interface {
	Process(ctx context.Context, userQuery string) domain.Result
}
