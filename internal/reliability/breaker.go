package reliability

import (
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls trip/reset behaviour of a per-provider circuit
// breaker. Window is the rolling counting period; the breaker trips when at
// least MinVolume requests have been seen in Window and the failure ratio
// meets or exceeds FailureRatio.
type BreakerConfig struct {
	Name         string
	Window       time.Duration
	FailureRatio float64
	MinVolume    uint32
	ResetTimeout time.Duration
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		Window:       10 * time.Second,
		FailureRatio: 0.5,
		MinVolume:    10,
		ResetTimeout: 30 * time.Second,
	}
}

// NewBreaker builds a sony/gobreaker circuit breaker from a BreakerConfig.
func NewBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		Interval:    cfg.Window,
		Timeout:     cfg.ResetTimeout,
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinVolume {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
	})
}
