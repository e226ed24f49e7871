package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Ensure Fetcher implements scrape.Fetcher at compile time.
var _ scrape.Fetcher = (*Fetcher)(nil)

// Default fetch settings.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultRenderDelay = 2 * time.Second
)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Pages are rendered in a Session that replaces Chrome periodically.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	session     *Session
	timeout     time.Duration
	renderDelay time.Duration
	maxPages    int
	bin         string
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch timeout covering navigation, load and render.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRenderDelay sets how long to wait after the load event so that
// client-side scripts can finish rendering.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithMaxPages sets the number of pages rendered before the browser is recycled.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// WithBrowserBin sets the Chrome/Chromium binary to launch.
func WithBrowserBin(path string) Option {
	return func(f *Fetcher) {
		f.bin = path
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:     DefaultTimeout,
		renderDelay: DefaultRenderDelay,
		maxPages:    DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	session, err := NewSession(WithPagesPerProcess(f.maxPages), WithBinary(f.bin))
	if err != nil {
		return nil, err
	}
	f.session = session
	return f, nil
}

// Fetch navigates to the URL, waits for the page to load and render,
// and returns the rendered HTML with the main document's response metadata.
// Failures, including timeouts and non-2xx statuses, are *scrape.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*scrape.Response, error) {
	if f.closed.Load() {
		return nil, scrape.Errorf(scrape.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, &scrape.FetchError{URL: url, Err: err}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.session.NewPage()
	if err != nil {
		return nil, fetchError(ctx, url, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	// Capture the main document response; later subresources are ignored.
	var document *proto.NetworkResponse
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		document = e.Response
		return true
	})

	if err := page.Navigate(url); err != nil {
		return nil, fetchError(ctx, url, err)
	}
	waitDocument()
	if err := ctx.Err(); err != nil {
		return nil, &scrape.FetchError{URL: url, Err: err}
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fetchError(ctx, url, err)
	}

	if f.renderDelay > 0 {
		select {
		case <-time.After(f.renderDelay):
		case <-ctx.Done():
			return nil, &scrape.FetchError{URL: url, Err: ctx.Err()}
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fetchError(ctx, url, err)
	}

	resp := &scrape.Response{URL: url, HTML: html, Header: map[string]string{}}
	if info, err := page.Info(); err == nil && info.URL != "" {
		resp.URL = info.URL
	}
	if document != nil {
		resp.StatusCode = document.Status
		resp.ContentType = document.MIMEType
		resp.Header = headers(document.Headers)
		if document.URL != "" {
			resp.URL = document.URL
		}
	}
	if resp.StatusCode != 0 && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, &scrape.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.session.Close()
}

// PID returns the process ID of the running browser.
func (f *Fetcher) PID() int {
	return f.session.PID()
}

// fetchError wraps err for url, preferring the context error when the
// fetch was canceled or timed out.
func fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &scrape.FetchError{URL: url, Err: err}
}

func headers(h proto.NetworkHeaders) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = jsonString(v)
	}
	return out
}

func jsonString(v gson.JSON) string {
	if s, ok := v.Val().(string); ok {
		return s
	}
	return v.String()
}
