// Package passage retrieves the most similar stored passages for a query
// from a pre-populated vector index.
package passage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/db"
	"github.com/motorq/concierge/internal/domain"
)

// store is the consumer interface for vector retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Repo implements similarity retrieval over a named FT index.
type Repo struct {
	store  store
	embed  Embedder
	index  string
	logger *zap.Logger
}

// New creates a passage repository attached to an existing index.
func New(s store, embed Embedder, index string, logger *zap.Logger) *Repo {
	return &Repo{store: s, embed: embed, index: index, logger: logger}
}

// Retrieve returns up to k passages in descending similarity order.
// A missing or empty index yields an empty slice, not an error, so synthesis
// can proceed with reduced context. Store or embedding failures are wrapped
// with domain.ErrIndexUnavailable for the coordinator's degrade policy.
func (r *Repo) Retrieve(ctx context.Context, query string, k int) ([]domain.Passage, error) {
	if k <= 0 {
		k = 3
	}

	vector, err := r.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %v: %w", err, domain.ErrIndexUnavailable)
	}

	q := &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"__content", "__vector_score", "source"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			r.logger.Warn("passage index absent, retrieving nothing", zap.String("index", r.index))
			return nil, nil
		}
		return nil, fmt.Errorf("search knn %s: %v: %w", r.index, err, domain.ErrIndexUnavailable)
	}

	return parsePassages(sr), nil
}

// parsePassages converts db.SearchResult into passages, preserving the
// index's descending-similarity order.
func parsePassages(sr *db.SearchResult) []domain.Passage {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	passages := make([]domain.Passage, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		p := domain.Passage{Score: entry.Score}

		meta := make(map[string]string, len(entry.Fields))
		for name, value := range entry.Fields {
			if name == "__content" {
				p.Content = value
				continue
			}
			meta[name] = value
		}
		meta["key"] = entry.Key
		p.Metadata = meta

		passages = append(passages, p)
	}

	return passages
}
