// Package bloom remembers URLs across runs with a Bloom filter.
package bloom

import (
	"io"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/scrape"
)

// Filter records URLs in a Bloom filter. Test may report a URL that was
// never added, at roughly the rate the filter was sized for; it never
// misses one that was.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// ReadFilter decodes a filter written by WriteTo.
func ReadFilter(r io.Reader) (*Filter, error) {
	f := &bloom.BloomFilter{}
	if _, err := f.ReadFrom(r); err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "invalid URL filter: %v", err)
	}
	return &Filter{f: f}, nil
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// WriteTo encodes the filter to w.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	return f.f.WriteTo(w)
}
