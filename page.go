package scrape

import "strings"

// PageType is the semantic role of a page.
type PageType string

// Page types, in classification priority order.
const (
	PageTypeArticle  PageType = "article"
	PageTypeIssue    PageType = "issue"
	PageTypeArchive  PageType = "archive"
	PageTypeAbout    PageType = "about"
	PageTypeHomepage PageType = "homepage"
)

// PageTypeForURL buckets a URL by path substrings.
// Article paths win over issue paths, issue over archive, archive over about.
// Anything else is a homepage.
func PageTypeForURL(rawURL string) PageType {
	u := strings.ToLower(rawURL)
	switch {
	case strings.Contains(u, "/article/") || strings.Contains(u, "/post/"):
		return PageTypeArticle
	case strings.Contains(u, "/issue/") || strings.Contains(u, "/issues/"):
		return PageTypeIssue
	case strings.Contains(u, "/archive"):
		return PageTypeArchive
	case strings.Contains(u, "about"):
		return PageTypeAbout
	default:
		return PageTypeHomepage
	}
}

// PageRecord is the extraction result for one fetched page.
type PageRecord struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	StatusCode  int               `json:"status_code"`
	ContentType string            `json:"content_type"`
	Metadata    map[string]string `json:"metadata"`
	Content     string            `json:"content"`
	Links       []LinkRef         `json:"links"`
	Extracted   PageData          `json:"extracted_data"`
}

// LinkRef is an anchor found on a page. URL is always absolute.
type LinkRef struct {
	URL   string `json:"url"`
	Text  string `json:"text"`
	Title string `json:"title"`
}

// PageData holds the type-specific fields of a page.
// Exactly one of Article, Issue, Archive is set for the matching Type;
// about and homepage pages carry no payload.
type PageData struct {
	Type     PageType     `json:"page_type"`
	Article  *ArticleData `json:"article,omitempty"`
	Issue    *IssueData   `json:"issue,omitempty"`
	Archive  *ArchiveData `json:"archive,omitempty"`
	Keywords []string     `json:"keywords"`
	Authors  []Author     `json:"authors"`
}

// ArticleData holds the fields of an article page.
type ArticleData struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Content  string `json:"content"`
}

// IssueData holds the fields of an issue page.
type IssueData struct {
	IssueNumber string        `json:"issue_number,omitempty"`
	Year        string        `json:"year,omitempty"`
	Title       string        `json:"title"`
	Articles    []ArticleLink `json:"articles"`
}

// ArticleLink is an article listed on an issue page.
type ArticleLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ArchiveData holds the fields of an archive page.
type ArchiveData struct {
	Issues []IssueLink `json:"issues"`
}

// IssueLink is an issue listed on an archive page.
type IssueLink struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	IssueNumber string `json:"issue_number,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Author sources.
const (
	AuthorSourceMeta      = "meta"
	AuthorSourceExtracted = "extracted"
)

// Author is a person credited on a page.
type Author struct {
	Name   string `json:"name"`
	Source string `json:"type"`
}

// PageExtractor turns a fetched page into a PageRecord.
type PageExtractor interface {
	// ExtractPage parses the response HTML and returns the page record.
	// Missing optional fields are left at their defaults; only unparseable
	// input is an error.
	ExtractPage(resp *Response) (*PageRecord, error)
}
