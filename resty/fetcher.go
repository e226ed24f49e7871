// Package resty implements scrape.Fetcher over plain HTTP using go-resty.
// It returns server-rendered HTML only; no scripts are executed.
package resty

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/fwojciec/scrape"
	"github.com/go-resty/resty/v2"
)

// Ensure Fetcher implements scrape.Fetcher at compile time.
var _ scrape.Fetcher = (*Fetcher)(nil)

// Default client settings.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "scrape/0.1.0 (Educational Purpose)"

	maxRedirects = 10
)

// Fetcher retrieves HTML with a single HTTP GET per URL.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client *resty.Client
}

// Option configures a Fetcher.
type Option func(*resty.Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		c.SetHeader("user-agent", ua)
	}
}

// NewFetcher creates a Fetcher with a cookie jar and redirect limit.
func NewFetcher(opts ...Option) *Fetcher {
	client := resty.New()
	jar, _ := cookiejar.New(nil)
	client.SetCookieJar(jar)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("user-agent", DefaultUserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml")

	for _, opt := range opts {
		opt(client)
	}
	return &Fetcher{client: client}
}

// Fetch performs a GET request and returns the body with response metadata.
// Transport failures, timeouts and non-2xx statuses are *scrape.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*scrape.Response, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &scrape.FetchError{URL: url, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &scrape.FetchError{URL: url, StatusCode: res.StatusCode()}
	}

	resp := &scrape.Response{
		URL:         url,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Header:      flatten(res.Header()),
		HTML:        string(res.Body()),
	}
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		resp.URL = raw.Request.URL.String()
	}
	return resp, nil
}

// Close releases idle connections.
func (f *Fetcher) Close() error {
	f.client.GetClient().CloseIdleConnections()
	return nil
}

func flatten(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
