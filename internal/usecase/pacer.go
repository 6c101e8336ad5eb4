package usecase

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out per-repository API work so that at most one unit of
// work proceeds per interval. A non-positive interval disables pacing.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer that admits one call per interval.
func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
