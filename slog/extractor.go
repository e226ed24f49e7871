package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

var (
	_ scrape.PageExtractor   = (*LoggingPageExtractor)(nil)
	_ scrape.MemberExtractor = (*LoggingMemberExtractor)(nil)
)

// LoggingPageExtractor wraps a PageExtractor with debug logging.
type LoggingPageExtractor struct {
	next   scrape.PageExtractor
	logger *slog.Logger
}

// NewLoggingPageExtractor creates a new LoggingPageExtractor.
func NewLoggingPageExtractor(next scrape.PageExtractor, logger *slog.Logger) *LoggingPageExtractor {
	return &LoggingPageExtractor{next: next, logger: logger}
}

// ExtractPage delegates to the wrapped extractor and logs the outcome.
func (e *LoggingPageExtractor) ExtractPage(resp *scrape.Response) (rec *scrape.PageRecord, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin), "err", err}
		if resp != nil {
			attrs = append(attrs, "url", resp.URL)
		}
		if rec != nil {
			attrs = append(attrs,
				"page_type", rec.Extracted.Type,
				"links", len(rec.Links),
				"content_length", len(rec.Content),
			)
		}
		e.logger.Debug("extract page", attrs...)
	}(time.Now())
	return e.next.ExtractPage(resp)
}

// LoggingMemberExtractor wraps a MemberExtractor with debug logging.
type LoggingMemberExtractor struct {
	next   scrape.MemberExtractor
	logger *slog.Logger
}

// NewLoggingMemberExtractor creates a new LoggingMemberExtractor.
func NewLoggingMemberExtractor(next scrape.MemberExtractor, logger *slog.Logger) *LoggingMemberExtractor {
	return &LoggingMemberExtractor{next: next, logger: logger}
}

// ExtractListing delegates to the wrapped extractor and logs the member count.
func (e *LoggingMemberExtractor) ExtractListing(html string, baseURL string) (members []*scrape.MemberSummary, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract listing",
			"url", baseURL,
			"members", len(members),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractListing(html, baseURL)
}

// ExtractDetail delegates to the wrapped extractor.
func (e *LoggingMemberExtractor) ExtractDetail(html string, baseURL string) (detail *scrape.MemberDetail, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("extract detail",
			"url", baseURL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractDetail(html, baseURL)
}
