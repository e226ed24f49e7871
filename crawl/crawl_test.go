package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/crawl"
	"github.com/fwojciec/scrape/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageExtractor returns a record with the given links for every response.
func pageExtractor(links map[string][]string) *mock.PageExtractor {
	return &mock.PageExtractor{
		ExtractPageFn: func(resp *scrape.Response) (*scrape.PageRecord, error) {
			rec := &scrape.PageRecord{URL: resp.URL, StatusCode: resp.StatusCode, Links: []scrape.LinkRef{}}
			for _, l := range links[resp.URL] {
				rec.Links = append(rec.Links, scrape.LinkRef{URL: l})
			}
			return rec, nil
		},
	}
}

func okFetcher(fetched *[]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*scrape.Response, error) {
			if fetched != nil {
				*fetched = append(*fetched, url)
			}
			return &scrape.Response{URL: url, StatusCode: 200, HTML: "<html></html>"}, nil
		},
		CloseFn: func() error { return nil },
	}
}

func TestCrawler_CrawlSite(t *testing.T) {
	t.Parallel()

	const seed = "https://classicist.org/"
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("depth 1 with no links yields one page", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: okFetcher(nil),
			Pages:   pageExtractor(nil),
			Now:     func() time.Time { return fixed },
		}

		result, err := c.CrawlSite(context.Background(), seed, 1)

		require.NoError(t, err)
		assert.Len(t, result.Pages, 1)
		assert.Empty(t, result.Errors)
		assert.Equal(t, seed, result.URL)
		assert.Equal(t, 1, result.Depth)
		assert.Equal(t, fixed, result.Timestamp)
	})

	t.Run("depth 1 never follows links", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := &crawl.Crawler{
			Fetcher: okFetcher(&fetched),
			Pages:   pageExtractor(map[string][]string{seed: {"https://classicist.org/about/"}}),
		}

		result, err := c.CrawlSite(context.Background(), seed, 1)

		require.NoError(t, err)
		assert.Len(t, result.Pages, 1)
		assert.Equal(t, []string{seed}, fetched)
	})

	t.Run("caps children at ten", func(t *testing.T) {
		t.Parallel()

		var children []string
		for i := range 15 {
			children = append(children, fmt.Sprintf("https://classicist.org/article/%d/", i))
		}
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: okFetcher(&fetched),
			Pages:   pageExtractor(map[string][]string{seed: children}),
		}

		result, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Len(t, result.Pages, 11)
		assert.Empty(t, result.Errors)
		require.Len(t, fetched, 11)
		assert.Equal(t, seed, fetched[0])
		assert.Equal(t, children[:10], fetched[1:])
	})

	t.Run("children are unique, in scope and exclude the seed", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := &crawl.Crawler{
			Fetcher: okFetcher(&fetched),
			Pages: pageExtractor(map[string][]string{seed: {
				"https://classicist.org/issue/1/",
				seed,
				"https://example.com/issue/2/",
				"https://classicist.org/wp-admin/",
				"https://classicist.org/issue/1/#toc",
				"https://classicist.org/about/",
			}}),
		}

		_, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Equal(t, []string{
			seed,
			"https://classicist.org/issue/1/",
			"https://classicist.org/about/",
		}, fetched)
	})

	t.Run("records child failures and continues", func(t *testing.T) {
		t.Parallel()

		bad := "https://classicist.org/issue/2/"
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*scrape.Response, error) {
					if url == bad {
						return nil, &scrape.FetchError{URL: url, StatusCode: 500}
					}
					return &scrape.Response{URL: url, StatusCode: 200}, nil
				},
			},
			Pages: pageExtractor(map[string][]string{seed: {
				"https://classicist.org/issue/1/", bad, "https://classicist.org/issue/3/",
			}}),
		}

		result, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Len(t, result.Pages, 3)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "failed to scrape "+bad+": fetch "+bad+": HTTP 500", result.Errors[0])
	})

	t.Run("seed timeout yields no pages and one error", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*scrape.Response, error) {
					return nil, &scrape.FetchError{URL: url, Err: context.DeadlineExceeded}
				},
			},
			Pages: pageExtractor(nil),
		}

		result, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Empty(t, result.Pages)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], seed)
	})

	t.Run("extraction failure counts as a child error", func(t *testing.T) {
		t.Parallel()

		child := "https://classicist.org/about/"
		c := &crawl.Crawler{
			Fetcher: okFetcher(nil),
			Pages: &mock.PageExtractor{
				ExtractPageFn: func(resp *scrape.Response) (*scrape.PageRecord, error) {
					if resp.URL == child {
						return nil, scrape.Errorf(scrape.EINVALID, "failed to parse HTML")
					}
					return &scrape.PageRecord{URL: resp.URL, Links: []scrape.LinkRef{{URL: child}}}, nil
				},
			},
		}

		result, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Len(t, result.Pages, 1)
		assert.Equal(t, []string{"failed to scrape " + child + ": failed to parse HTML"}, result.Errors)
	})

	t.Run("waits on the pacer before every fetch", func(t *testing.T) {
		t.Parallel()

		waits := 0
		c := &crawl.Crawler{
			Fetcher: okFetcher(nil),
			Pages:   pageExtractor(map[string][]string{seed: {"/issue/1/", "/issue/2/"}}),
			Pacer: &mock.Pacer{WaitFn: func(context.Context) error {
				waits++
				return nil
			}},
		}

		_, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Equal(t, 3, waits)
	})

	t.Run("cancellation returns partial result", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (*scrape.Response, error) {
					if url != seed {
						cancel()
						return nil, &scrape.FetchError{URL: url, Err: ctx.Err()}
					}
					return &scrape.Response{URL: url, StatusCode: 200}, nil
				},
			},
			Pages: pageExtractor(map[string][]string{seed: {"/issue/1/", "/issue/2/"}}),
		}

		result, err := c.CrawlSite(ctx, seed, 2)

		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, result)
		assert.Len(t, result.Pages, 1)
		assert.Empty(t, result.Errors)
	})

	t.Run("uses the configured classifier", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := &crawl.Crawler{
			Fetcher: okFetcher(&fetched),
			Pages:   pageExtractor(map[string][]string{seed: {"https://partner.org/x"}}),
			Classifier: &mock.LinkClassifier{
				ClassifyFn: func(raw, _ string) scrape.Classification {
					return scrape.Classification{URL: raw, InScope: true, Bucket: scrape.PageTypeHomepage}
				},
			},
		}

		_, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Equal(t, []string{seed, "https://partner.org/x"}, fetched)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		var events []crawl.ProgressType
		c := &crawl.Crawler{
			Fetcher:  okFetcher(nil),
			Pages:    pageExtractor(map[string][]string{seed: {"/issue/1/"}}),
			Progress: func(e crawl.ProgressEvent) { events = append(events, e.Type) },
		}

		_, err := c.CrawlSite(context.Background(), seed, 2)

		require.NoError(t, err)
		assert.Equal(t, []crawl.ProgressType{
			crawl.ProgressStarted, crawl.ProgressCompleted, crawl.ProgressCompleted, crawl.ProgressFinished,
		}, events)
	})
}

func TestCrawler_CrawlDirectory(t *testing.T) {
	t.Parallel()

	const dir = "https://www.classicist.org/membership-directory/"

	t.Run("extracts members from the listing", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: okFetcher(nil),
			Members: &mock.MemberExtractor{
				ExtractListingFn: func(_ string, baseURL string) ([]*scrape.MemberSummary, error) {
					assert.Equal(t, dir, baseURL)
					return []*scrape.MemberSummary{{Name: "Acme"}, {Name: "Beta"}}, nil
				},
			},
		}

		result, err := c.CrawlDirectory(context.Background(), dir)

		require.NoError(t, err)
		assert.Len(t, result.Members, 2)
		assert.Empty(t, result.Errors)
	})

	t.Run("records fetch failure", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*scrape.Response, error) {
					return nil, &scrape.FetchError{URL: url, Err: errors.New("connection refused")}
				},
			},
		}

		result, err := c.CrawlDirectory(context.Background(), dir)

		require.NoError(t, err)
		assert.Empty(t, result.Members)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], dir)
	})
}

func TestCrawler_CrawlDetails(t *testing.T) {
	t.Parallel()

	members := []*scrape.MemberSummary{
		{Name: "A", DetailURL: "https://www.classicist.org/m/a"},
		{Name: "No URL"},
		{Name: "B", DetailURL: "https://www.classicist.org/m/b"},
		{Name: "C", DetailURL: "https://www.classicist.org/m/c"},
		{Name: "D", DetailURL: "https://www.classicist.org/m/d"},
	}

	detailExtractor := &mock.MemberExtractor{
		ExtractDetailFn: func(_ string, baseURL string) (*scrape.MemberDetail, error) {
			return &scrape.MemberDetail{About: "from " + baseURL}, nil
		},
	}

	t.Run("windows members with detail URLs", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		c := &crawl.Crawler{Fetcher: okFetcher(&fetched), Members: detailExtractor}

		result, err := c.CrawlDetails(context.Background(), members, 2, 1)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://www.classicist.org/m/b", "https://www.classicist.org/m/c"}, fetched)
		require.Len(t, result.Members, 2)
		assert.Equal(t, "B", result.Members[0].Name)
		assert.Equal(t, "from https://www.classicist.org/m/b", result.Members[0].About)
	})

	t.Run("zero limit takes the rest", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: okFetcher(nil), Members: detailExtractor}

		result, err := c.CrawlDetails(context.Background(), members, 0, 2)

		require.NoError(t, err)
		assert.Len(t, result.Members, 2)
	})

	t.Run("start beyond the end is empty", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{Fetcher: okFetcher(nil), Members: detailExtractor}

		result, err := c.CrawlDetails(context.Background(), members, 10, 40)

		require.NoError(t, err)
		assert.Empty(t, result.Members)
		assert.Empty(t, result.Errors)
	})

	t.Run("records per-member failures", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*scrape.Response, error) {
					if url == "https://www.classicist.org/m/a" {
						return nil, &scrape.FetchError{URL: url, StatusCode: 404}
					}
					return &scrape.Response{URL: url, StatusCode: 200}, nil
				},
			},
			Members: detailExtractor,
		}

		result, err := c.CrawlDetails(context.Background(), members, 10, 0)

		require.NoError(t, err)
		assert.Len(t, result.Members, 3)
		assert.Equal(t, []string{
			"failed to scrape details for A: fetch https://www.classicist.org/m/a: HTTP 404",
		}, result.Errors)
	})
}
