package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/mock"
	scrapeslog "github.com/fwojciec/scrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingPageExtractor_ExtractPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.PageExtractor{
		ExtractPageFn: func(resp *scrape.Response) (*scrape.PageRecord, error) {
			return &scrape.PageRecord{
				URL:       resp.URL,
				Content:   "abc",
				Links:     []scrape.LinkRef{{URL: "https://classicist.org/a"}},
				Extracted: scrape.PageData{Type: scrape.PageTypeIssue},
			}, nil
		},
	}

	e := scrapeslog.NewLoggingPageExtractor(inner, debugLogger(&buf))
	rec, err := e.ExtractPage(&scrape.Response{URL: "https://classicist.org/issue/1/"})

	require.NoError(t, err)
	assert.Equal(t, "https://classicist.org/issue/1/", rec.URL)
	output := buf.String()
	assert.Contains(t, output, "msg=\"extract page\"")
	assert.Contains(t, output, "page_type=issue")
	assert.Contains(t, output, "links=1")
	assert.Contains(t, output, "content_length=3")
}

func TestLoggingMemberExtractor(t *testing.T) {
	t.Parallel()

	t.Run("logs listing member count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.MemberExtractor{
			ExtractListingFn: func(string, string) ([]*scrape.MemberSummary, error) {
				return []*scrape.MemberSummary{{Name: "A"}, {Name: "B"}}, nil
			},
		}

		e := scrapeslog.NewLoggingMemberExtractor(inner, debugLogger(&buf))
		members, err := e.ExtractListing("<html></html>", "https://www.classicist.org/membership-directory/")

		require.NoError(t, err)
		assert.Len(t, members, 2)
		assert.Contains(t, buf.String(), "members=2")
	})

	t.Run("logs detail errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.MemberExtractor{
			ExtractDetailFn: func(string, string) (*scrape.MemberDetail, error) {
				return nil, errors.New("bad html")
			},
		}

		e := scrapeslog.NewLoggingMemberExtractor(inner, debugLogger(&buf))
		_, err := e.ExtractDetail("", "https://www.classicist.org/m/a")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"bad html\"")
	})
}

func TestLoggingExporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	inner := &mock.Exporter{
		ExportCrawlFn: func(context.Context, *scrape.CrawlResult) (string, error) {
			return "out/scraped_data.json", nil
		},
	}

	e := scrapeslog.NewLoggingExporter(inner, slog.New(slog.NewTextHandler(&buf, nil)))
	path, err := e.ExportCrawl(context.Background(), &scrape.CrawlResult{Pages: []*scrape.PageRecord{{}, {}}})

	require.NoError(t, err)
	assert.Equal(t, "out/scraped_data.json", path)
	output := buf.String()
	assert.Contains(t, output, "kind=crawl")
	assert.Contains(t, output, "rows=2")
	assert.Contains(t, output, "path=out/scraped_data.json")
}
