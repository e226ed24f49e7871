package main

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/excelize"
	"github.com/fwojciec/scrape/fs"
	scrapeslog "github.com/fwojciec/scrape/slog"
	"github.com/fwojciec/scrape/sqlite"
)

// DatabaseName is the SQLite file kept in the output directory.
const DatabaseName = "scrape.db"

// newExporter returns the exporter for format writing into dir, wrapped
// with logging. The caller calls the returned close function when done.
func newExporter(deps *Dependencies, format, dir string) (scrape.Exporter, func() error, error) {
	noop := func() error { return nil }

	var exp scrape.Exporter
	closeFn := noop
	switch scrape.Format(format) {
	case scrape.FormatJSON:
		exp = fs.NewJSONExporter(dir, fs.WithClock(deps.Now))
	case scrape.FormatCSV:
		exp = fs.NewCSVExporter(dir, fs.WithClock(deps.Now))
	case scrape.FormatExcel:
		exp = excelize.NewExporter(dir, excelize.WithClock(deps.Now))
	case scrape.FormatSQLite:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
		db := sqlite.NewDB(filepath.Join(dir, DatabaseName))
		if err := db.Open(); err != nil {
			return nil, nil, err
		}
		exp, closeFn = sqlite.NewStore(db), db.Close
	default:
		return nil, nil, scrape.Errorf(scrape.EINVALID, "unsupported format: %s", format)
	}

	return scrapeslog.NewLoggingExporter(exp, deps.Logger), closeFn, nil
}
