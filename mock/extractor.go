package mock

import "github.com/fwojciec/scrape"

var (
	_ scrape.PageExtractor   = (*PageExtractor)(nil)
	_ scrape.MemberExtractor = (*MemberExtractor)(nil)
)

// PageExtractor is a mock implementation of scrape.PageExtractor.
type PageExtractor struct {
	ExtractPageFn func(resp *scrape.Response) (*scrape.PageRecord, error)
}

func (e *PageExtractor) ExtractPage(resp *scrape.Response) (*scrape.PageRecord, error) {
	return e.ExtractPageFn(resp)
}

// MemberExtractor is a mock implementation of scrape.MemberExtractor.
type MemberExtractor struct {
	ExtractListingFn func(html string, baseURL string) ([]*scrape.MemberSummary, error)
	ExtractDetailFn  func(html string, baseURL string) (*scrape.MemberDetail, error)
}

func (e *MemberExtractor) ExtractListing(html string, baseURL string) ([]*scrape.MemberSummary, error) {
	return e.ExtractListingFn(html, baseURL)
}

func (e *MemberExtractor) ExtractDetail(html string, baseURL string) (*scrape.MemberDetail, error) {
	return e.ExtractDetailFn(html, baseURL)
}
