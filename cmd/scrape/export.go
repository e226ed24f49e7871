package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/fs"
	"github.com/fwojciec/scrape/sqlite"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	result, err := c.readResult(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	dir := c.OutputDir
	if c.Output != "" {
		dir = filepath.Dir(c.Output)
	}

	exp, closeExp, err := newExporter(deps, c.Format, dir)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}
	defer closeExp()

	var path string
	switch {
	case result.Crawl != nil:
		path, err = exp.ExportCrawl(deps.Ctx, result.Crawl)
	case result.Directory != nil:
		path, err = exp.ExportDirectory(deps.Ctx, result.Directory)
	default:
		path, err = exp.ExportDetails(deps.Ctx, result.Details)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	// A database accumulates runs, so it stays at its own path.
	if c.Output != "" && scrape.Format(c.Format) != scrape.FormatSQLite && path != c.Output {
		if err := os.Rename(path, c.Output); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
		path = c.Output
	}

	fmt.Fprintf(deps.Stdout, "Data exported to: %s\n", path)
	return nil
}

// readResult loads the input file: a JSON export, or the run c.RunID of a
// SQLite database.
func (c *ExportCmd) readResult(deps *Dependencies) (*fs.Result, error) {
	if c.RunID == "" {
		return fs.ReadResultJSON(c.InputFile)
	}

	db := sqlite.NewDB(c.InputFile)
	if err := db.Open(); err != nil {
		return nil, err
	}
	defer db.Close()
	return readStoredRun(deps, sqlite.NewStore(db), c.RunID)
}

// readStoredRun rebuilds the result of a stored run.
func readStoredRun(deps *Dependencies, store *sqlite.Store, id string) (*fs.Result, error) {
	run, err := store.FindRunByID(deps.Ctx, id)
	if err != nil {
		return nil, err
	}

	if run.Kind == sqlite.KindCrawl {
		pages, err := store.FindPages(deps.Ctx, run.ID)
		if err != nil {
			return nil, err
		}
		return &fs.Result{Crawl: &scrape.CrawlResult{
			URL:       run.SourceURL,
			Timestamp: run.CrawledAt,
			Depth:     run.Depth,
			Pages:     pages,
			Errors:    run.Errors,
		}}, nil
	}

	members, err := store.FindMembers(deps.Ctx, run.ID)
	if err != nil {
		return nil, err
	}
	switch run.Kind {
	case sqlite.KindDirectory:
		summaries := make([]*scrape.MemberSummary, len(members))
		for i, m := range members {
			summaries[i] = &m.MemberSummary
		}
		return &fs.Result{Directory: &scrape.DirectoryResult{
			URL:       run.SourceURL,
			Timestamp: run.CrawledAt,
			Members:   summaries,
			Errors:    run.Errors,
		}}, nil
	case sqlite.KindDetails:
		return &fs.Result{Details: &scrape.DetailResult{
			Timestamp: run.CrawledAt,
			Members:   members,
			Errors:    run.Errors,
		}}, nil
	default:
		return nil, scrape.Errorf(scrape.EINVALID, "unknown run kind: %s", run.Kind)
	}
}
