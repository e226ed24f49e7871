package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func crawlFixture() *scrape.CrawlResult {
	return &scrape.CrawlResult{
		URL:       "https://www.classicist.org/",
		Timestamp: fixedTime,
		Depth:     2,
		Pages: []*scrape.PageRecord{
			{
				URL:         "https://www.classicist.org/articles/on-the-orders/",
				Title:       "On the Orders",
				StatusCode:  200,
				ContentType: "text/html",
				Metadata:    map[string]string{"title": "On the Orders"},
				Content:     "The   Doric\norder.",
				Links: []scrape.LinkRef{
					{URL: "https://www.classicist.org/", Text: "Home"},
					{URL: "https://www.classicist.org/about/", Text: "About"},
				},
				Extracted: scrape.PageData{
					Type:     scrape.PageTypeHomepage,
					Keywords: []string{"Doric"},
					Authors:  []scrape.Author{{Name: "Jane Smith", Source: scrape.AuthorSourceMeta}},
				},
			},
		},
		Errors: []string{"failed to scrape https://www.classicist.org/x: boom"},
	}
}

func TestJSONExporter_ExportCrawl(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exp := fs.NewJSONExporter(dir, fs.WithClock(fixedClock))

	path, err := exp.ExportCrawl(context.Background(), crawlFixture())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "scraped_data_20250314_092653.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	info := doc["export_info"].(map[string]any)
	assert.Equal(t, "crawl", info["kind"])
	assert.Equal(t, "https://www.classicist.org/", info["source"])
	assert.Equal(t, "scrape", info["tool"])

	scraping := doc["scraping_info"].(map[string]any)
	assert.InDelta(t, 2, scraping["depth"], 0)
	assert.InDelta(t, 1, scraping["pages_found"], 0)
	assert.Len(t, scraping["errors"], 1)

	pages := doc["pages"].([]any)
	require.Len(t, pages, 1)
	page := pages[0].(map[string]any)
	assert.Equal(t, "On the Orders", page["title"])
	assert.InDelta(t, 2, page["links_count"], 0)
	assert.Equal(t, "The Doric order.", page["content_preview"])
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("crawl", func(t *testing.T) {
		t.Parallel()
		exp := fs.NewJSONExporter(t.TempDir(), fs.WithClock(fixedClock))
		want := crawlFixture()

		path, err := exp.ExportCrawl(context.Background(), want)
		require.NoError(t, err)
		got, err := fs.ReadResultJSON(path)

		require.NoError(t, err)
		require.NotNil(t, got.Crawl)
		assert.Nil(t, got.Directory)
		assert.Nil(t, got.Details)
		assert.Equal(t, want.URL, got.Crawl.URL)
		assert.True(t, want.Timestamp.Equal(got.Crawl.Timestamp))
		assert.Equal(t, want.Depth, got.Crawl.Depth)
		assert.Equal(t, want.Errors, got.Crawl.Errors)
		assert.Equal(t, want.Pages, got.Crawl.Pages)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		exp := fs.NewJSONExporter(t.TempDir(), fs.WithClock(fixedClock))
		want := &scrape.DirectoryResult{
			URL: "https://www.classicist.org/membership-directory/",
			Members: []*scrape.MemberSummary{
				{Name: "Acme Studio", DetailURL: "https://www.classicist.org/member/acme/", Certified: true, ChapterID: "12"},
			},
		}

		path, err := exp.ExportDirectory(context.Background(), want)
		require.NoError(t, err)
		got, err := fs.ReadResultJSON(path)

		require.NoError(t, err)
		require.NotNil(t, got.Directory)
		assert.Equal(t, want.URL, got.Directory.URL)
		assert.Equal(t, want.Members, got.Directory.Members)
		assert.Equal(t, []string{}, got.Directory.Errors)
	})

	t.Run("details", func(t *testing.T) {
		t.Parallel()
		exp := fs.NewJSONExporter(t.TempDir(), fs.WithClock(fixedClock))
		want := &scrape.DetailResult{
			Members: []*scrape.DetailedMember{{
				MemberSummary: scrape.MemberSummary{Name: "Acme Studio"},
				MemberDetail: scrape.MemberDetail{
					Phone:       "(555) 123-4567",
					City:        "Charleston",
					State:       "SC",
					SocialMedia: []scrape.SocialLink{{Platform: "facebook", URL: "https://facebook.com/acme"}},
					Photos:      []scrape.Photo{},
					Highlights:  []string{"Award 2020"},
				},
			}},
			Errors: []string{"failed to scrape details for Other: boom"},
		}

		path, err := exp.ExportDetails(context.Background(), want)
		require.NoError(t, err)
		got, err := fs.ReadResultJSON(path)

		require.NoError(t, err)
		require.NotNil(t, got.Details)
		assert.Equal(t, want.Members, got.Details.Members)
		assert.Equal(t, want.Errors, got.Details.Errors)
	})
}

func TestJSONExporter_CanceledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exp := fs.NewJSONExporter(dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := exp.ExportCrawl(ctx, crawlFixture())

	require.ErrorIs(t, err, context.Canceled)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadResultJSON(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := fs.ReadResultJSON(filepath.Join(t.TempDir(), "nope.json"))
		assert.Equal(t, scrape.ENOTFOUND, scrape.ErrorCode(err))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := fs.ReadResultJSON(path)
		assert.Equal(t, scrape.EINVALID, scrape.ErrorCode(err))
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "other.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"export_info":{"kind":"other"}}`), 0o644))

		_, err := fs.ReadResultJSON(path)
		assert.Equal(t, scrape.EINVALID, scrape.ErrorCode(err))
	})
}
