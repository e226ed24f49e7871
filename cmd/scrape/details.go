package main

import (
	"fmt"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/bloom"
	"github.com/fwojciec/scrape/fs"
)

// Run executes the details command.
func (c *DetailsCmd) Run(deps *Dependencies) error {
	members, err := fs.ReadMembersCSV(c.InputFile)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Loaded %d members from %s\n", len(members), c.InputFile)

	var history *bloom.Filter
	if c.SkipScraped {
		history, err = loadHistory(historyPath(c.OutputDir))
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
			return err
		}
		remaining := unscraped(members, history)
		fmt.Fprintf(deps.Stdout, "Skipping %d members scraped in earlier runs\n", len(members)-len(remaining))
		members = remaining
	}

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
	result, err := crawler.CrawlDetails(deps.Ctx, members, c.Limit, c.StartFrom)
	if err != nil {
		return err
	}
	printErrors(deps.Stdout, result.Errors)
	fmt.Fprintf(deps.Stdout, "Scraped details for %d members\n", len(result.Members))

	path, err := exp.ExportDetails(deps.Ctx, result)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Data exported to: %s\n", path)

	if history != nil {
		for _, m := range result.Members {
			history.Add(m.DetailURL)
		}
		if err := saveHistory(historyPath(c.OutputDir), history); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
			return err
		}
	}
	return nil
}
