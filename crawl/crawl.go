// Package crawl provides single-site crawling orchestration.
// It coordinates link classification, fetching, pacing and extraction
// of pages and membership directory records.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/scrape"
)

// DefaultMaxChildren is the number of child pages fetched from a seed page.
const DefaultMaxChildren = 10

// Crawler orchestrates depth-bounded crawls of a single site.
// Each crawl runs strictly sequentially: one fetch at a time, paced by Pacer.
type Crawler struct {
	Fetcher scrape.Fetcher
	Pages   scrape.PageExtractor
	Members scrape.MemberExtractor

	// Classifier scopes discovered links. When nil, a classifier for the
	// seed URL's host is used.
	Classifier scrape.LinkClassifier

	// Pacer spaces consecutive fetches. When nil, fetches are not paced.
	Pacer scrape.Pacer

	// MaxChildren caps the child pages fetched per crawl.
	// Zero means DefaultMaxChildren.
	MaxChildren int

	Logger   *slog.Logger
	Progress ProgressFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// CrawlSite fetches the seed page and, when depth is greater than 1, up to
// MaxChildren in-scope pages linked from it.
//
// A seed failure ends the crawl with no pages and a single error. Child
// failures are recorded and skipped. The result is always non-nil; the
// returned error is non-nil only when ctx is canceled, in which case the
// result holds whatever was collected so far.
func (c *Crawler) CrawlSite(ctx context.Context, seedURL string, depth int) (*scrape.CrawlResult, error) {
	result := &scrape.CrawlResult{
		URL:       seedURL,
		Timestamp: c.now(),
		Depth:     depth,
		Pages:     []*scrape.PageRecord{},
		Errors:    []string{},
	}
	log := c.logger().With("seed", seedURL)

	frontier := NewFrontier(c.maxChildren() + 1)
	frontier.Push(seedURL)
	seed, _ := frontier.Pop()

	c.progress(ProgressEvent{Type: ProgressStarted, Total: 1, URL: seed})

	page, err := c.fetchPage(ctx, seed)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		log.Warn("seed fetch failed", "err", err)
		result.Errors = append(result.Errors, fmt.Sprintf("failed to scrape %s: %v", seed, err))
		c.progress(ProgressEvent{Type: ProgressFailed, Completed: 1, Total: 1, URL: seed, Error: err})
		c.progress(ProgressEvent{Type: ProgressFinished, Completed: 1, Total: 1})
		return result, nil
	}
	result.Pages = append(result.Pages, page)

	if depth > 1 {
		classifier, err := c.classifier(seedURL)
		if err != nil {
			return result, err
		}
		for _, link := range page.Links {
			cls := classifier.Classify(link.URL, page.URL)
			if !cls.InScope {
				log.Debug("skip link", "url", link.URL)
				continue
			}
			frontier.Push(cls.URL)
		}
	}

	total := 1 + frontier.Len()
	c.progress(ProgressEvent{Type: ProgressCompleted, Completed: 1, Total: total, URL: seed})
	log.Info("seed fetched", "children", frontier.Len())

	completed := 1
	for {
		url, ok := frontier.Pop()
		if !ok {
			break
		}
		page, err := c.fetchPage(ctx, url)
		completed++
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			log.Warn("child fetch failed", "url", url, "err", err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to scrape %s: %v", url, err))
			c.progress(ProgressEvent{Type: ProgressFailed, Completed: completed, Total: total, URL: url, Error: err})
			continue
		}
		result.Pages = append(result.Pages, page)
		c.progress(ProgressEvent{Type: ProgressCompleted, Completed: completed, Total: total, URL: url})
	}

	c.progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})
	log.Info("crawl finished", "pages", len(result.Pages), "errors", len(result.Errors))
	return result, nil
}

// CrawlDirectory fetches a single membership directory page and extracts
// its listing. Failures are recorded in the result.
func (c *Crawler) CrawlDirectory(ctx context.Context, directoryURL string) (*scrape.DirectoryResult, error) {
	result := &scrape.DirectoryResult{
		URL:       directoryURL,
		Timestamp: c.now(),
		Members:   []*scrape.MemberSummary{},
		Errors:    []string{},
	}
	log := c.logger().With("directory", directoryURL)

	c.progress(ProgressEvent{Type: ProgressStarted, Total: 1, URL: directoryURL})

	members, err := c.fetchListing(ctx, directoryURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		log.Warn("directory fetch failed", "err", err)
		result.Errors = append(result.Errors, fmt.Sprintf("failed to scrape %s: %v", directoryURL, err))
		c.progress(ProgressEvent{Type: ProgressFailed, Completed: 1, Total: 1, URL: directoryURL, Error: err})
	} else {
		result.Members = members
		c.progress(ProgressEvent{Type: ProgressCompleted, Completed: 1, Total: 1, URL: directoryURL})
	}

	c.progress(ProgressEvent{Type: ProgressFinished, Completed: 1, Total: 1})
	log.Info("directory crawled", "members", len(result.Members))
	return result, nil
}

// CrawlDetails fetches the detail pages of members that have a detail URL,
// taking limit members starting at index startFrom of that subset.
// A limit of zero or less takes every remaining member.
// Failures are recorded per member and skipped.
func (c *Crawler) CrawlDetails(ctx context.Context, members []*scrape.MemberSummary, limit, startFrom int) (*scrape.DetailResult, error) {
	result := &scrape.DetailResult{
		Timestamp: c.now(),
		Members:   []*scrape.DetailedMember{},
		Errors:    []string{},
	}
	log := c.logger()

	batch := selectDetailBatch(members, limit, startFrom)
	total := len(batch)
	c.progress(ProgressEvent{Type: ProgressStarted, Total: total})

	for i, m := range batch {
		detail, err := c.fetchDetail(ctx, m.DetailURL)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			log.Warn("detail fetch failed", "name", m.Name, "url", m.DetailURL, "err", err)
			result.Errors = append(result.Errors, fmt.Sprintf("failed to scrape details for %s: %v", m.Name, err))
			c.progress(ProgressEvent{Type: ProgressFailed, Completed: i + 1, Total: total, URL: m.DetailURL, Error: err})
			continue
		}
		result.Members = append(result.Members, &scrape.DetailedMember{
			MemberSummary: *m,
			MemberDetail:  *detail,
		})
		c.progress(ProgressEvent{Type: ProgressCompleted, Completed: i + 1, Total: total, URL: m.DetailURL})
	}

	c.progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	log.Info("details crawled", "members", len(result.Members), "errors", len(result.Errors))
	return result, nil
}

// selectDetailBatch returns the window [startFrom, startFrom+limit) of the
// members that have a detail URL.
func selectDetailBatch(members []*scrape.MemberSummary, limit, startFrom int) []*scrape.MemberSummary {
	var withURL []*scrape.MemberSummary
	for _, m := range members {
		if m != nil && m.DetailURL != "" {
			withURL = append(withURL, m)
		}
	}
	startFrom = max(startFrom, 0)
	if startFrom >= len(withURL) {
		return nil
	}
	end := len(withURL)
	if limit > 0 {
		end = min(end, startFrom+limit)
	}
	return withURL[startFrom:end]
}

// fetch waits for the pacer and fetches url.
func (c *Crawler) fetch(ctx context.Context, url string) (*scrape.Response, error) {
	if c.Pacer != nil {
		if err := c.Pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return c.Fetcher.Fetch(ctx, url)
}

func (c *Crawler) fetchPage(ctx context.Context, url string) (*scrape.PageRecord, error) {
	resp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.Pages.ExtractPage(resp)
}

func (c *Crawler) fetchListing(ctx context.Context, url string) ([]*scrape.MemberSummary, error) {
	resp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.Members.ExtractListing(resp.HTML, resp.URL)
}

func (c *Crawler) fetchDetail(ctx context.Context, url string) (*scrape.MemberDetail, error) {
	resp, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.Members.ExtractDetail(resp.HTML, resp.URL)
}

func (c *Crawler) classifier(seedURL string) (scrape.LinkClassifier, error) {
	if c.Classifier != nil {
		return c.Classifier, nil
	}
	return NewClassifierForURL(seedURL)
}

func (c *Crawler) maxChildren() int {
	if c.MaxChildren <= 0 {
		return DefaultMaxChildren
	}
	return c.MaxChildren
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Crawler) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Crawler) progress(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}
