package scrape

import (
	"context"
	"time"
)

// CrawlResult is the outcome of a depth-bounded site crawl.
// Errors never stop population of Pages; callers inspect Errors
// to assess completeness.
type CrawlResult struct {
	URL       string        `json:"url"`
	Timestamp time.Time     `json:"timestamp"`
	Depth     int           `json:"depth"`
	Pages     []*PageRecord `json:"pages"`
	Errors    []string      `json:"errors"`
}

// DirectoryResult is the outcome of a membership directory crawl.
type DirectoryResult struct {
	URL       string           `json:"url"`
	Timestamp time.Time        `json:"timestamp"`
	Members   []*MemberSummary `json:"members"`
	Errors    []string         `json:"errors"`
}

// DetailResult is the outcome of crawling member detail pages.
type DetailResult struct {
	Timestamp time.Time         `json:"timestamp"`
	Members   []*DetailedMember `json:"members"`
	Errors    []string          `json:"errors"`
}

// Format identifies an export format.
type Format string

// Supported export formats.
const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatExcel  Format = "excel"
	FormatSQLite Format = "sqlite"
)

// Exporter writes crawl results to a destination.
// Each method returns the path of the written file.
type Exporter interface {
	ExportCrawl(ctx context.Context, result *CrawlResult) (string, error)
	ExportDirectory(ctx context.Context, result *DirectoryResult) (string, error)
	ExportDetails(ctx context.Context, result *DetailResult) (string, error)
}
