// Package retrieval fans one sub-question set out across the web search and
// passage retrieval adapters, joining all results before returning.
package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/motorq/concierge/internal/domain"
	"github.com/motorq/concierge/internal/logger"
	"github.com/motorq/concierge/internal/metrics"
)

// Coordinator runs per-sub-question adapter calls concurrently.
type Coordinator struct {
	search      Searcher
	passages    Retriever
	topK        int
	callTimeout time.Duration
}

// New creates a fan-out coordinator. topK and callTimeout fall back to the
// deployment defaults (3 passages, 15s per adapter call) when non-positive.
func New(search Searcher, passages Retriever, topK int, callTimeout time.Duration) *Coordinator {
	if topK <= 0 {
		topK = 3
	}
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	return &Coordinator{
		search:      search,
		passages:    passages,
		topK:        topK,
		callTimeout: callTimeout,
	}
}

// RetrieveAll resolves search results and passages for every sub-question.
// The output always has exactly one slot per sub-question, in input order:
// a failed or timed-out adapter call degrades its slot's contribution to
// empty instead of dropping the slot or aborting siblings.
func (c *Coordinator) RetrieveAll(ctx context.Context, subqs domain.SubQuestions) []domain.Retrieved {
	results := make([]domain.Retrieved, len(subqs))

	var g errgroup.Group
	for i, q := range subqs {
		results[i].SubQuestion = q
		results[i].Search = domain.EmptyBundle(q)

		// The two calls per sub-question write to disjoint fields of one
		// pre-allocated slot, so no locking is needed.
		g.Go(func() error {
			c.searchOne(ctx, q, &results[i])
			return nil
		})
		g.Go(func() error {
			c.retrieveOne(ctx, q, &results[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Coordinator) searchOne(ctx context.Context, q string, slot *domain.Retrieved) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	bundle, err := c.search.Search(callCtx, q)
	if err != nil {
		metrics.AdapterFailuresTotal.WithLabelValues("search").Inc()
		logger.FromContext(ctx).Warn("web search degraded to empty",
			zap.String("sub_question", q),
			zap.Error(err),
		)
		return
	}
	slot.Search = bundle
}

func (c *Coordinator) retrieveOne(ctx context.Context, q string, slot *domain.Retrieved) {
	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	passages, err := c.passages.Retrieve(callCtx, q, c.topK)
	if err != nil {
		metrics.AdapterFailuresTotal.WithLabelValues("index").Inc()
		logger.FromContext(ctx).Warn("passage retrieval degraded to empty",
			zap.String("sub_question", q),
			zap.Error(err),
		)
		return
	}
	slot.Passages = passages
}
