// Package pipeline orchestrates the cache-first retrieval-augmented query
// flow: cache check, decomposition, fan-out retrieval, synthesis, write-back.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/domain"
	"github.com/motorq/concierge/internal/logger"
	"github.com/motorq/concierge/internal/metrics"
)

// Service is the pipeline orchestrator.
type Service struct {
	cache       Cache
	decomposer  Decomposer
	coordinator Coordinator
	synthesizer Synthesizer
}

var _ Processor = (*Service)(nil)

// New creates a pipeline orchestrator.
func New(cache Cache, decomposer Decomposer, coordinator Coordinator, synthesizer Synthesizer) *Service {
	return &Service{
		cache:       cache,
		decomposer:  decomposer,
		coordinator: coordinator,
		synthesizer: synthesizer,
	}
}

// Process runs one query through the pipeline and always returns a terminal
// Result. Stage failures never escape as panics or raw errors; synthesized
// answers are written back best-effort, and an empty synthesis maps to the
// fixed fallback without poisoning the cache.
func (s *Service) Process(ctx context.Context, userQuery string) (res domain.Result) {
	log := logger.FromContext(ctx)

	// The caller contract promises a well-formed Result on every path.
	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panic", zap.Any("panic", r))
			res = domain.Failed(fmt.Errorf("pipeline panic: %v", r))
		}
		metrics.PipelineRequestsTotal.WithLabelValues(string(res.Outcome())).Inc()
	}()

	query := domain.NormalizeQuery(userQuery)
	if query == "" {
		return domain.NoResult(errors.New("blank query"))
	}

	// CACHE_CHECK — keyed on the original, unmodified query text.
	if answer, ok := s.lookupCache(ctx, query); ok {
		log.Info("answer served from cache", zap.String("query", query))
		return domain.Answered(answer, map[string]string{"source": "cache"})
	}

	// DECOMPOSE — a contract violation ends the request without an answer;
	// a provider failure is a terminal pipeline failure.
	subqs, err := s.decompose(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrDecomposition) {
			log.Warn("decomposition rejected", zap.String("query", query), zap.Error(err))
			return domain.NoResult(err)
		}
		log.Error("decomposition failed", zap.String("query", query), zap.Error(err))
		return domain.Failed(err)
	}

	// RETRIEVE — fan-out joins fully before synthesis; partial adapter
	// failures have already been degraded to empty slots inside.
	retrieved := s.retrieve(ctx, subqs)

	// SYNTHESIZE
	answer, err := s.synthesize(ctx, query, subqs, retrieved)
	if err != nil {
		if errors.Is(err, domain.ErrEmptySynthesis) {
			log.Warn("synthesis returned nothing", zap.String("query", query))
			return domain.NoResult(err)
		}
		log.Error("synthesis failed", zap.String("query", query), zap.Error(err))
		return domain.Failed(err)
	}

	// CACHE_WRITE — best-effort; the answer is returned regardless.
	s.writeCache(ctx, query, answer)

	return domain.Answered(answer, map[string]string{
		"source":        "synthesis",
		"sub_questions": strconv.Itoa(len(subqs)),
	})
}

func (s *Service) lookupCache(ctx context.Context, query string) (string, bool) {
	defer observeStage("cache_check")()
	return s.cache.Lookup(ctx, query)
}

func (s *Service) decompose(ctx context.Context, query string) (domain.SubQuestions, error) {
	defer observeStage("decompose")()
	return s.decomposer.Decompose(ctx, query)
}

func (s *Service) retrieve(ctx context.Context, subqs domain.SubQuestions) []domain.Retrieved {
	defer observeStage("retrieve")()
	return s.coordinator.RetrieveAll(ctx, subqs)
}

func (s *Service) synthesize(
	ctx context.Context, query string, subqs domain.SubQuestions, retrieved []domain.Retrieved,
) (string, error) {
	defer observeStage("synthesize")()
	return s.synthesizer.Synthesize(ctx, query, subqs, retrieved)
}

func (s *Service) writeCache(ctx context.Context, query, answer string) {
	defer observeStage("cache_write")()
	s.cache.Store(ctx, query, answer)
}

func observeStage(stage string) func() {
	start := time.Now()
	return func() {
		metrics.PipelineStageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}
