package goquery

import (
	"strings"

	"github.com/fwojciec/scrape"
)

// Ensure Extractor implements the extraction interfaces.
var (
	_ scrape.PageExtractor   = (*Extractor)(nil)
	_ scrape.MemberExtractor = (*Extractor)(nil)
)

// Extractor parses rendered HTML with goquery.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPage builds the page record for a fetched response.
// Relative links are resolved against the response URL.
func (e *Extractor) ExtractPage(resp *scrape.Response) (*scrape.PageRecord, error) {
	if resp == nil {
		return nil, scrape.Errorf(scrape.EINVALID, "nil response")
	}
	base, err := parseBase(resp.URL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(resp.HTML)
	if err != nil {
		return nil, err
	}

	links := ExtractLinks(doc, base)
	if links == nil {
		links = []scrape.LinkRef{}
	}

	return &scrape.PageRecord{
		URL:         base.String(),
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		StatusCode:  resp.StatusCode,
		ContentType: resp.ContentType,
		Metadata:    ExtractMetadata(doc),
		Content:     LocateContent(doc),
		Links:       links,
		Extracted:   ExtractPageData(doc, base),
	}, nil
}

// ExtractListing returns the members listed on a directory page.
func (e *Extractor) ExtractListing(html string, baseURL string) ([]*scrape.MemberSummary, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return ExtractListing(doc, base), nil
}

// ExtractDetail returns the fields of a member detail page.
func (e *Extractor) ExtractDetail(html string, baseURL string) (*scrape.MemberDetail, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return ExtractDetail(doc, base), nil
}
