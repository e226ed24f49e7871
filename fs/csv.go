package fs

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fwojciec/scrape"
)

// Ensure CSVExporter implements scrape.Exporter at compile time.
var _ scrape.Exporter = (*CSVExporter)(nil)

// CSVExporter writes results as flattened CSV tables.
type CSVExporter struct {
	files
}

// NewCSVExporter creates a CSVExporter writing into dir.
func NewCSVExporter(dir string, opts ...Option) *CSVExporter {
	return &CSVExporter{files: newFiles(dir, opts)}
}

// ExportCrawl writes one row per page.
func (e *CSVExporter) ExportCrawl(ctx context.Context, r *scrape.CrawlResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.write(scrape.CrawlTable(r))
}

// ExportDirectory writes one row per member.
func (e *CSVExporter) ExportDirectory(ctx context.Context, r *scrape.DirectoryResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.write(scrape.DirectoryTable(r))
}

// ExportDetails writes one row per member with detail columns.
func (e *CSVExporter) ExportDetails(ctx context.Context, r *scrape.DetailResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.write(scrape.DetailTable(r))
}

func (e *CSVExporter) write(t scrape.Table) (string, error) {
	path := FileName(e.dir, "csv", e.now())
	err := WriteFile(path, func(w io.Writer) error {
		return WriteTable(w, t)
	})
	if err != nil {
		return "", scrape.Errorf(scrape.EINTERNAL, "failed to write %s: %v", path, err)
	}
	return path, nil
}

// WriteTable writes t as CSV, header first.
func WriteTable(w io.Writer, t scrape.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadMembersCSV reads directory members from a CSV file with a header row.
// Columns are matched by name and only "name" is required. Rows without a
// name are skipped.
func ReadMembersCSV(path string) ([]*scrape.MemberSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scrape.Errorf(scrape.ENOTFOUND, "file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, scrape.Errorf(scrape.EINVALID, "empty CSV file: %s", path)
		}
		return nil, scrape.Errorf(scrape.EINVALID, "invalid CSV in %s: %v", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, scrape.Errorf(scrape.EINVALID, "CSV %s has no name column", path)
	}

	members := []*scrape.MemberSummary{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, scrape.Errorf(scrape.EINVALID, "invalid CSV in %s: %v", path, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		m := &scrape.MemberSummary{
			Name:         field("name"),
			DetailURL:    field("detail_url"),
			DataTitle:    field("data_title"),
			ProfessionID: field("profession_id"),
			ChapterID:    field("chapter_id"),
			LevelID:      field("level_id"),
		}
		if m.Name == "" {
			continue
		}
		m.Certified, _ = strconv.ParseBool(field("certified"))
		members = append(members, m)
	}
	return members, nil
}
