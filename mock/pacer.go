package mock

import (
	"context"

	"github.com/fwojciec/scrape"
)

var _ scrape.Pacer = (*Pacer)(nil)

// Pacer is a mock implementation of scrape.Pacer.
type Pacer struct {
	WaitFn func(ctx context.Context) error
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.WaitFn(ctx)
}
