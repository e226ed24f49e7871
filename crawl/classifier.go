package crawl

import (
	"net/url"
	"strings"

	"github.com/fwojciec/scrape"
)

var _ scrape.LinkClassifier = (*Classifier)(nil)

// DefaultDeny lists URL substrings that are never crawled:
// administrative paths, feeds, comment endpoints, taxonomy listings,
// share links and non-HTTP schemes.
var DefaultDeny = []string{
	"/wp-admin",
	"/wp-login",
	"/wp-json",
	"/feed",
	"/comments",
	"/tag/",
	"/category/",
	"/author/",
	"/xmlrpc.php",
	"?replytocom=",
	"?share=",
	"mailto:",
	"tel:",
	"javascript:",
}

// Classifier decides crawl scope by host and a substring denylist.
// It performs no I/O.
type Classifier struct {
	// Domain must occur in a URL's host for the URL to be in scope.
	Domain string

	// Deny holds substrings that exclude a URL when present.
	Deny []string
}

// NewClassifier creates a Classifier for domain with the default denylist.
func NewClassifier(domain string) *Classifier {
	return &Classifier{
		Domain: strings.ToLower(domain),
		Deny:   DefaultDeny,
	}
}

// NewClassifierForURL creates a Classifier scoped to the host of seedURL.
// A leading "www." is dropped so both forms of the host stay in scope.
func NewClassifierForURL(seedURL string) (*Classifier, error) {
	u, err := url.Parse(seedURL)
	if err != nil || u.Hostname() == "" {
		return nil, scrape.Errorf(scrape.EINVALID, "invalid seed URL %q", seedURL)
	}
	return NewClassifier(strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")), nil
}

// Classify resolves rawURL against currentPageURL and reports its scope and bucket.
func (c *Classifier) Classify(rawURL, currentPageURL string) scrape.Classification {
	raw := strings.TrimSpace(rawURL)
	out := scrape.Classification{URL: raw, Bucket: scrape.PageTypeForURL(raw)}

	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "?") {
		return out
	}
	lower := strings.ToLower(raw)
	for _, pattern := range c.Deny {
		if strings.Contains(lower, pattern) {
			return out
		}
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return out
	}
	if base, err := url.Parse(currentPageURL); err == nil {
		ref = base.ResolveReference(ref)
	}
	out.URL = ref.String()
	out.Bucket = scrape.PageTypeForURL(out.URL)

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return out
	}
	host := strings.ToLower(ref.Hostname())
	if host == "" || c.Domain == "" || !strings.Contains(host, c.Domain) {
		return out
	}
	resolved := strings.ToLower(out.URL)
	for _, pattern := range c.Deny {
		if strings.Contains(resolved, pattern) {
			return out
		}
	}

	out.InScope = true
	return out
}
