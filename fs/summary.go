package fs

import (
	"io"
	"time"

	"github.com/fwojciec/scrape"
)

// ExportSummary writes the text summary of a crawl into dir and returns
// its path.
func ExportSummary(dir string, r *scrape.CrawlResult, now time.Time) (string, error) {
	path := SummaryFileName(dir, now)
	err := WriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, scrape.FormatSummary(r, now))
		return err
	})
	if err != nil {
		return "", err
	}
	return path, nil
}
