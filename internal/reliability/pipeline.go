package reliability

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/yungbote/neurobridge-backend/internal/platform/apierr"
)

// Pipeline composes the four reliability primitives outer to inner: circuit
// breaker, rate limiter, per-call timeout, retry. The retry loop runs
// entirely inside the breaker's Execute so individual transient errors
// within an eventually-successful operation are not reported to the
// breaker; only the aggregate outcome of the retry loop counts as a single
// breaker success or failure.
type Pipeline struct {
	breaker *gobreaker.CircuitBreaker
	limiter rateLimiter
	retrier *Retrier
	timeout time.Duration
}

type rateLimiter interface {
	Wait(ctx context.Context) error
}

func NewPipeline(breaker *gobreaker.CircuitBreaker, limiter rateLimiter, retrier *Retrier, timeout time.Duration) *Pipeline {
	return &Pipeline{breaker: breaker, limiter: limiter, retrier: retrier, timeout: timeout}
}

// Execute runs fn under the composed reliability policy. fn should return
// backoff.Permanent(err) for errors that must not be retried.
func (p *Pipeline) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		if p.limiter != nil {
			if werr := p.limiter.Wait(ctx); werr != nil {
				return nil, werr
			}
		}
		cctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return nil, p.retrier.Do(cctx, func() error {
			return fn(cctx)
		})
	})
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return apierr.BreakerOpen(err)
	}
	return err
}
