package scrape

import "context"

// URLFrontier holds not-yet-fetched URLs in first-seen order.
type URLFrontier interface {
	// Push adds a URL to the frontier.
	// Returns false if the URL has already been seen or the frontier is full.
	Push(url string) bool

	// Pop returns the next URL in first-seen order.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// Pacer spaces out consecutive requests to the target site.
type Pacer interface {
	// Wait blocks until the next request may be issued.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}
