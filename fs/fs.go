// Package fs writes crawl results to files and reads them back.
package fs

import (
	"io"
	"os"
	"path/filepath"
	"time"
)

// Tool is recorded as the producer of exported files.
const Tool = "scrape"

// fileTimeLayout is the timestamp embedded in output file names.
const fileTimeLayout = "20060102_150405"

// FileName returns the path of a data file with extension ext in dir,
// stamped with t.
func FileName(dir, ext string, t time.Time) string {
	return filepath.Join(dir, "scraped_data_"+t.Format(fileTimeLayout)+"."+ext)
}

// SummaryFileName returns the path of a text summary in dir, stamped with t.
func SummaryFileName(dir string, t time.Time) string {
	return filepath.Join(dir, "summary_"+t.Format(fileTimeLayout)+".txt")
}

// Option configures a file exporter.
type Option func(*files)

// WithClock sets the clock used to stamp file names and export info.
func WithClock(now func() time.Time) Option {
	return func(f *files) {
		f.now = now
	}
}

// files holds the settings shared by file exporters.
type files struct {
	dir string
	now func() time.Time
}

func newFiles(dir string, opts []Option) files {
	f := files{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// WriteFile writes path atomically. Content goes to a temporary file in
// the same directory, which is renamed over path once write succeeds and
// removed otherwise.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
