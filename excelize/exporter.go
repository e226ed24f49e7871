// Package excelize exports crawl results as spreadsheets.
package excelize

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/fs"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	DataSheet     = "Scraped Data"
	MetadataSheet = "Metadata"
)

// Ensure Exporter implements scrape.Exporter at compile time.
var _ scrape.Exporter = (*Exporter)(nil)

// Exporter writes results as .xlsx workbooks with a data sheet holding the
// flattened table and a metadata sheet of key/value pairs.
type Exporter struct {
	dir string
	now func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock sets the clock used to stamp file names.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter creates an Exporter writing into dir.
func NewExporter(dir string, opts ...Option) *Exporter {
	e := &Exporter{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExportCrawl writes one row per page.
func (e *Exporter) ExportCrawl(ctx context.Context, r *scrape.CrawlResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.write(scrape.CrawlTable(r), [][2]string{
		{"source", r.URL},
		{"timestamp", r.Timestamp.Format(time.RFC3339)},
		{"depth", strconv.Itoa(r.Depth)},
		{"pages_found", strconv.Itoa(len(r.Pages))},
		{"errors", strconv.Itoa(len(r.Errors))},
	})
}

// ExportDirectory writes one row per member.
func (e *Exporter) ExportDirectory(ctx context.Context, r *scrape.DirectoryResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.write(scrape.DirectoryTable(r), [][2]string{
		{"source", r.URL},
		{"timestamp", r.Timestamp.Format(time.RFC3339)},
		{"members_found", strconv.Itoa(len(r.Members))},
		{"errors", strconv.Itoa(len(r.Errors))},
	})
}

// ExportDetails writes one row per member with detail columns.
func (e *Exporter) ExportDetails(ctx context.Context, r *scrape.DetailResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.write(scrape.DetailTable(r), [][2]string{
		{"timestamp", r.Timestamp.Format(time.RFC3339)},
		{"members_found", strconv.Itoa(len(r.Members))},
		{"errors", strconv.Itoa(len(r.Errors))},
	})
}

func (e *Exporter) write(t scrape.Table, meta [][2]string) (string, error) {
	now := e.now()
	meta = append(meta, [2]string{"exported_at", now.Format(time.RFC3339)}, [2]string{"tool", fs.Tool})

	f, err := Workbook(t, meta)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := fs.FileName(e.dir, "xlsx", now)
	err = fs.WriteFile(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	})
	if err != nil {
		return "", scrape.Errorf(scrape.EINTERNAL, "failed to write %s: %v", path, err)
	}
	return path, nil
}

// Workbook builds a workbook holding t on the data sheet and meta on the
// metadata sheet. The caller closes the returned file.
func Workbook(t scrape.Table, meta [][2]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		_ = f.Close()
		return nil, scrape.Errorf(scrape.EINTERNAL, "failed to name sheet: %v", err)
	}
	if err := setRows(f, DataSheet, append([][]string{t.Header}, t.Rows...)); err != nil {
		_ = f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(MetadataSheet); err != nil {
		_ = f.Close()
		return nil, scrape.Errorf(scrape.EINTERNAL, "failed to add sheet: %v", err)
	}
	rows := make([][]string, 0, len(meta)+1)
	rows = append(rows, []string{"key", "value"})
	for _, kv := range meta {
		rows = append(rows, []string{kv[0], kv[1]})
	}
	if err := setRows(f, MetadataSheet, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func setRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return scrape.Errorf(scrape.EINTERNAL, "invalid cell: %v", err)
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return scrape.Errorf(scrape.EINTERNAL, "failed to set %s!%s: %v", sheet, cell, err)
			}
		}
	}
	return nil
}
