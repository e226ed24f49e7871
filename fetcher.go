package scrape

import (
	"context"
	"fmt"
)

// Response is a fetched and fully rendered page.
type Response struct {
	// URL is the final URL after redirects.
	URL         string
	StatusCode  int
	ContentType string
	Header      map[string]string

	// HTML is the rendered document.
	HTML string
}

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch navigates to the URL, waits for the page to render,
	// and returns the rendered document with response metadata.
	// Network failures, timeouts and non-2xx statuses are returned as *FetchError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases transport resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// FetchError reports a transport-level failure for a single URL.
type FetchError struct {
	URL string

	// StatusCode is set when the server answered with a non-2xx status.
	StatusCode int

	Err error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
