package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/crawl"
	"github.com/fwojciec/scrape/fs"
	"github.com/fwojciec/scrape/goquery"
	scrapeslog "github.com/fwojciec/scrape/slog"
)

// directoryMarker identifies membership directory URLs.
const directoryMarker = "membership-directory"

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	exp, closeExp, err := newExporter(deps, c.Format, c.OutputDir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}
	defer closeExp()

	fetcher, err := deps.NewFetcher(c.FetchFlags)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}
	defer fetcher.Close()

	crawler := newCrawler(deps, fetcher, c.FetchFlags)
	crawler.MaxChildren = c.MaxChildren

	var path string
	if strings.Contains(c.URL, directoryMarker) {
		result, err := crawler.CrawlDirectory(deps.Ctx, c.URL)
		if err != nil {
			return err
		}
		printErrors(deps.Stdout, result.Errors)
		fmt.Fprintf(deps.Stdout, "Found %d members\n", len(result.Members))
		if path, err = exp.ExportDirectory(deps.Ctx, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
			return err
		}
	} else {
		result, err := crawler.CrawlSite(deps.Ctx, c.URL, c.Depth)
		if err != nil {
			return err
		}
		printErrors(deps.Stdout, result.Errors)
		fmt.Fprintf(deps.Stdout, "Scraped %d pages\n", len(result.Pages))
		if path, err = exp.ExportCrawl(deps.Ctx, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
			return err
		}
		if c.Summary {
			summary, err := fs.ExportSummary(c.OutputDir, result, deps.Now())
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
				return err
			}
			fmt.Fprintf(deps.Stdout, "Summary written to: %s\n", summary)
		}
	}

	fmt.Fprintf(deps.Stdout, "Data exported to: %s\n", path)
	return nil
}

// newCrawler wires a crawler over fetcher with goquery extraction,
// pacing and progress output.
func newCrawler(deps *Dependencies, fetcher scrape.Fetcher, flags FetchFlags) *crawl.Crawler {
	extractor := goquery.NewExtractor()
	return &crawl.Crawler{
		Fetcher:  fetcher,
		Pages:    scrapeslog.NewLoggingPageExtractor(extractor, deps.Logger),
		Members:  scrapeslog.NewLoggingMemberExtractor(extractor, deps.Logger),
		Pacer:    crawl.NewPacer(flags.Delay),
		Logger:   deps.Logger,
		Progress: printProgress(deps.Stdout),
		Now:      deps.Now,
	}
}

func printProgress(w io.Writer) crawl.ProgressFunc {
	return func(e crawl.ProgressEvent) {
		if line := crawl.FormatProgress(e); line != "" {
			fmt.Fprintln(w, line)
		}
	}
}

func printErrors(w io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "%d errors:\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}
