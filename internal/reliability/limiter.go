package reliability

import (
	"golang.org/x/time/rate"
)

// NewLimiter builds a token-bucket limiter from a requests-per-minute
// budget; burst capacity equals the per-minute budget so a caller can spend
// a full minute's allowance in one burst after being idle.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
}
