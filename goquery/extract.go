package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrape"
)

// ExtractLinks returns every anchor with an href, resolved against base.
// Links keep document order and are not filtered; scope decisions belong
// to the link classifier.
func ExtractLinks(doc *goquery.Document, base *url.URL) []scrape.LinkRef {
	var links []scrape.LinkRef
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		links = append(links, scrape.LinkRef{
			URL:   resolved,
			Text:  strings.TrimSpace(sel.Text()),
			Title: strings.TrimSpace(sel.AttrOr("title", "")),
		})
	})
	return links
}

// resolveURL resolves href against base.
// Returns empty string if href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// parseBase parses an absolute page URL.
func parseBase(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, scrape.Errorf(scrape.EINVALID, "URL %q is not absolute", rawURL)
	}
	return u, nil
}

// parseDocument parses HTML into a goquery document.
func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrape.Errorf(scrape.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}
