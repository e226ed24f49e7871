package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/scrape"
	"github.com/fwojciec/scrape/bloom"
	scrapefs "github.com/fwojciec/scrape/fs"
)

// HistoryName is the file in the output directory remembering which
// detail pages earlier runs scraped.
const HistoryName = "details_scraped.bloom"

// History sizing. A false positive skips a member that was never scraped;
// at one in a thousand a rerun without --skip-scraped recovers it.
const (
	historyCapacity          = 20000
	historyFalsePositiveRate = 0.001
)

// loadHistory reads the history file at path, or starts an empty one if
// it does not exist.
func loadHistory(path string) (*bloom.Filter, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return bloom.NewFilter(historyCapacity, historyFalsePositiveRate), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return bloom.ReadFilter(f)
}

func saveHistory(path string, h *bloom.Filter) error {
	return scrapefs.WriteFile(path, func(w io.Writer) error {
		_, err := h.WriteTo(w)
		return err
	})
}

// unscraped returns the members whose detail URL h has not recorded.
// Members without a detail URL are kept; the crawler skips them anyway.
func unscraped(members []*scrape.MemberSummary, h *bloom.Filter) []*scrape.MemberSummary {
	var out []*scrape.MemberSummary
	for _, m := range members {
		if m.DetailURL != "" && h.Test(m.DetailURL) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func historyPath(dir string) string {
	return filepath.Join(dir, HistoryName)
}
