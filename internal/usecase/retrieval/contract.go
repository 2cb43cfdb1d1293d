package retrieval

import (
	"context"

	"github.com/motorq/concierge/internal/domain"
)

// Searcher is the web search capability for one sub-question.
type Searcher interface {
	Search(ctx context.Context, query string) (domain.SearchBundle, error)
}

// Retriever returns the top-k most similar stored passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.Passage, error)
}
