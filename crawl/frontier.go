package crawl

import (
	"strings"
	"sync"

	"github.com/fwojciec/scrape"
)

// Compile-time interface verification.
var _ scrape.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier with exact deduplication.
// It accepts at most limit distinct URLs over its lifetime.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	queue []string
	limit int
}

// NewFrontier creates a Frontier that accepts up to limit URLs.
// A limit of zero or less means no limit.
func NewFrontier(limit int) *Frontier {
	return &Frontier{
		seen:  make(map[string]struct{}),
		limit: limit,
	}
}

// Push adds a URL to the frontier.
// Returns false if the URL has already been seen or the frontier is full.
// URL fragments are stripped before deduplication; URLs differing only by
// fragment are considered duplicates.
func (f *Frontier) Push(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(rawURL)
	if _, ok := f.seen[url]; ok {
		return false
	}
	if f.limit > 0 && len(f.seen) >= f.limit {
		return false
	}
	f.seen[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the next URL in first-seen order.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.seen[stripFragment(rawURL)]
	return ok
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
