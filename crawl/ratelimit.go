package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/scrape"
	"golang.org/x/time/rate"
)

var _ scrape.Pacer = (*Pacer)(nil)

// Pacer spaces requests to a single site using a token bucket with a burst
// of 1: the first Wait returns immediately and each later Wait returns at
// least delay after the previous one.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer enforcing delay between requests.
// A delay of zero or less disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may be issued.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
