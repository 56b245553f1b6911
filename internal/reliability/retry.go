package reliability

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig configures an exponential backoff retry loop.
type RetryConfig struct {
	BaseDelay     time.Duration
	Multiplier    float64
	MaxAttempts   int
	MaxTotalWait  time.Duration
	JitterPercent float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		BaseDelay:     time.Second,
		Multiplier:    2,
		MaxAttempts:   5,
		MaxTotalWait:  31 * time.Second,
		JitterPercent: 0.25,
	}
}

// Retrier wraps cenkalti/backoff/v4 with a fixed attempt ceiling on top of
// its elapsed-time ceiling.
type Retrier struct {
	cfg RetryConfig
}

func NewRetrier(cfg RetryConfig) *Retrier {
	return &Retrier{cfg: cfg}
}

// Do runs fn, retrying on any non-nil, non-Permanent error returned by fn.
// Wrap a terminal error in backoff.Permanent(err) from inside fn to stop
// retrying immediately (e.g. on a validation failure from a 4xx response).
func (r *Retrier) Do(ctx context.Context, fn func() error) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = r.cfg.BaseDelay
	expo.Multiplier = r.cfg.Multiplier
	expo.RandomizationFactor = r.cfg.JitterPercent
	expo.MaxElapsedTime = r.cfg.MaxTotalWait

	bo := backoff.WithContext(expo, ctx)
	withMax := backoff.WithMaxRetries(bo, uint64(maxAttemptsToRetries(r.cfg.MaxAttempts)))

	return backoff.Retry(fn, withMax)
}

func maxAttemptsToRetries(maxAttempts int) int {
	if maxAttempts <= 1 {
		return 0
	}
	return maxAttempts - 1
}
