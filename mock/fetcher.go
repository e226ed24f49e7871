package mock

import (
	"context"

	"github.com/fwojciec/scrape"
)

var _ scrape.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of scrape.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*scrape.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*scrape.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
