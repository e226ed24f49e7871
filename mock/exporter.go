package mock

import (
	"context"

	"github.com/fwojciec/scrape"
)

var _ scrape.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of scrape.Exporter.
type Exporter struct {
	ExportCrawlFn     func(ctx context.Context, result *scrape.CrawlResult) (string, error)
	ExportDirectoryFn func(ctx context.Context, result *scrape.DirectoryResult) (string, error)
	ExportDetailsFn   func(ctx context.Context, result *scrape.DetailResult) (string, error)
}

func (e *Exporter) ExportCrawl(ctx context.Context, result *scrape.CrawlResult) (string, error) {
	return e.ExportCrawlFn(ctx, result)
}

func (e *Exporter) ExportDirectory(ctx context.Context, result *scrape.DirectoryResult) (string, error) {
	return e.ExportDirectoryFn(ctx, result)
}

func (e *Exporter) ExportDetails(ctx context.Context, result *scrape.DetailResult) (string, error) {
	return e.ExportDetailsFn(ctx, result)
}
