package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

var _ scrape.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter and logs every written file.
type LoggingExporter struct {
	next   scrape.Exporter
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter.
func NewLoggingExporter(next scrape.Exporter, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, logger: logger}
}

func (e *LoggingExporter) log(ctx context.Context, kind string, rows int, path string, err error, begin time.Time) {
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelError
	}
	e.logger.Log(ctx, level, "export",
		"kind", kind,
		"rows", rows,
		"path", path,
		"duration", time.Since(begin),
		"err", err,
	)
}

// ExportCrawl delegates to the wrapped exporter.
func (e *LoggingExporter) ExportCrawl(ctx context.Context, result *scrape.CrawlResult) (path string, err error) {
	defer func(begin time.Time) {
		e.log(ctx, "crawl", len(result.Pages), path, err, begin)
	}(time.Now())
	return e.next.ExportCrawl(ctx, result)
}

// ExportDirectory delegates to the wrapped exporter.
func (e *LoggingExporter) ExportDirectory(ctx context.Context, result *scrape.DirectoryResult) (path string, err error) {
	defer func(begin time.Time) {
		e.log(ctx, "directory", len(result.Members), path, err, begin)
	}(time.Now())
	return e.next.ExportDirectory(ctx, result)
}

// ExportDetails delegates to the wrapped exporter.
func (e *LoggingExporter) ExportDetails(ctx context.Context, result *scrape.DetailResult) (path string, err error) {
	defer func(begin time.Time) {
		e.log(ctx, "details", len(result.Members), path, err, begin)
	}(time.Now())
	return e.next.ExportDetails(ctx, result)
}
