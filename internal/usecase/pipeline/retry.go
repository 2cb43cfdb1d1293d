package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/motorq/concierge/internal/domain"
	"github.com/motorq/concierge/internal/logger"
)

// Retrying is a bounded-retry decorator around a Processor. It retries only
// Failed outcomes: NoResult means the pipeline completed and decided there is
// no answer (a strict decomposition rejection is deterministic, rerunning it
// just burns tokens).
type Retrying struct {
	inner     Processor
	attempts  int
	baseDelay time.Duration
}

var _ Processor = (*Retrying)(nil)

// NewRetrying wraps inner with up to attempts extra runs and exponential
// backoff starting at baseDelay. attempts <= 0 disables retries.
func NewRetrying(inner Processor, attempts int, baseDelay time.Duration) *Retrying {
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	return &Retrying{inner: inner, attempts: attempts, baseDelay: baseDelay}
}

// Process runs the pipeline, retrying terminal failures with backoff.
func (r *Retrying) Process(ctx context.Context, userQuery string) domain.Result {
	res := r.inner.Process(ctx, userQuery)

	delay := r.baseDelay
	for attempt := 1; attempt <= r.attempts && res.Outcome() == domain.OutcomeFailed; attempt++ {
		logger.FromContext(ctx).Warn("retrying failed pipeline run",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.attempts),
			zap.Error(res.Reason()),
		)

		select {
		case <-ctx.Done():
			return domain.Failed(ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2

		res = r.inner.Process(ctx, userQuery)
	}

	return res
}
