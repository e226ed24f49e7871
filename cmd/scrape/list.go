package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/sqlite"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Targets are the known crawl entry points.
var Targets = []string{
	DefaultURL,
	"https://classicist.org/issues/",
	"https://classicist.org/archives/",
	"https://classicist.org/about/",
	"https://www.classicist.org/membership-directory/",
}

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if c.Type == "targets" {
		return listTargets(deps)
	}
	return c.listData(deps)
}

func listTargets(deps *Dependencies) error {
	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"#", "Target"})
	for i, target := range Targets {
		t.AppendRow(table.Row{i + 1, target})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

func (c *ListCmd) listData(deps *Dependencies) error {
	info, err := os.Stat(c.DataDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
		fmt.Fprintf(deps.Stdout, "No data directory found at %s\n", c.DataDir)
		return nil
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"File", "Size", "Modified"})
	var files int
	var dbPath string
	err = filepath.WalkDir(c.DataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(c.DataDir, path)
		if err != nil {
			rel = path
		}
		if rel == DatabaseName {
			dbPath = path
		}
		t.AppendRow(table.Row{rel, humanize.Bytes(uint64(info.Size())), humanize.RelTime(info.ModTime(), deps.Now(), "ago", "from now")})
		files++
		return nil
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	if files == 0 {
		fmt.Fprintf(deps.Stdout, "No data files found in %s\n", c.DataDir)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Data files in %s:\n", c.DataDir)
	t.SetStyle(table.StyleRounded)
	t.Render()

	if dbPath != "" {
		return listRuns(deps, dbPath)
	}
	return nil
}

// listRuns prints the runs stored in the database at path.
func listRuns(deps *Dependencies, path string) error {
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	defer db.Close()

	runs, err := sqlite.NewStore(db).FindRuns(deps.Ctx, sqlite.RunFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scrape.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Runs in %s:\n", path)
	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"Run", "Kind", "Source", "Items", "Errors", "Exported"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.ID, r.Kind, r.SourceURL, r.ItemCount, len(r.Errors), humanize.RelTime(r.ExportedAt, deps.Now(), "ago", "from now")})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
