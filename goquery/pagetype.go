package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrape"
)

// maxKeywords caps the keywords kept per page.
const maxKeywords = 20

var (
	issueNumberRE = regexp.MustCompile(`(?i)(?:issue|volume)\s+(\d+)`)
	yearRE        = regexp.MustCompile(`(\d{4})`)
	articleHrefRE = regexp.MustCompile(`/article/|/post/`)
	issueHrefRE   = regexp.MustCompile(`/issue/|/issues/`)

	// Words are separated by spaces within a line; text from separate
	// elements sits on separate lines and never joins into one match.
	keywordRE = regexp.MustCompile(`\b[A-Z][a-z]+(?:[^\S\n]+[A-Z][a-z]+)?\b`)

	authorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`by[^\S\n]+([A-Z][a-z]+[^\S\n]+[A-Z][a-z]+)`),
		regexp.MustCompile(`([A-Z][a-z]+[^\S\n]+[A-Z][a-z]+),?[^\S\n]+Ph\.?D\.?`),
		regexp.MustCompile(`Prof\.?[^\S\n]+([A-Z][a-z]+[^\S\n]+[A-Z][a-z]+)`),
	}
)

// stopwords are capitalized words too common to be keywords.
var stopwords = map[string]bool{
	"The": true, "And": true, "For": true, "With": true,
	"That": true, "This": true, "From": true, "Have": true,
	"Not": true, "But": true, "You": true,
}

var articleTitleStrategies = TextEach("h1", ".entry-title", ".post-title", "title")

var abstractStrategies = TextEach(".abstract", ".summary", ".excerpt", `[class*="abstract"]`)

var issueHeadingStrategies = TextEach(".issue-title", ".issue-number", "h1", "title")

// ExtractPageData builds the type-specific payload for a page.
// The type comes from the page URL; keywords and authors are collected
// for every type.
func ExtractPageData(doc *goquery.Document, base *url.URL) scrape.PageData {
	data := scrape.PageData{
		Type:     scrape.PageTypeForURL(base.String()),
		Keywords: ExtractKeywords(doc),
		Authors:  ExtractAuthors(doc),
	}

	switch data.Type {
	case scrape.PageTypeArticle:
		data.Article = extractArticle(doc)
	case scrape.PageTypeIssue:
		data.Issue = extractIssue(doc, base)
	case scrape.PageTypeArchive:
		data.Archive = extractArchive(doc, base)
	case scrape.PageTypeAbout, scrape.PageTypeHomepage:
	}

	return data
}

func extractArticle(doc *goquery.Document) *scrape.ArticleData {
	return &scrape.ArticleData{
		Title:    FirstOf(doc, articleTitleStrategies...),
		Abstract: FirstOf(doc, abstractStrategies...),
		Content:  LocateContent(doc),
	}
}

func extractIssue(doc *goquery.Document, base *url.URL) *scrape.IssueData {
	heading := FirstOf(doc, issueHeadingStrategies...)
	issue := &scrape.IssueData{
		Title:    heading,
		Articles: []scrape.ArticleLink{},
	}
	issue.IssueNumber, issue.Year = issueNumberAndYear(heading)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if !articleHrefRE.MatchString(href) {
			return
		}
		issue.Articles = append(issue.Articles, scrape.ArticleLink{
			Title: strings.TrimSpace(sel.Text()),
			URL:   resolveURL(base, href),
		})
	})

	return issue
}

func extractArchive(doc *goquery.Document, base *url.URL) *scrape.ArchiveData {
	archive := &scrape.ArchiveData{Issues: []scrape.IssueLink{}}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := sel.AttrOr("href", "")
		if !issueHrefRE.MatchString(href) {
			return
		}
		text := strings.TrimSpace(sel.Text())
		link := scrape.IssueLink{
			Title: text,
			URL:   resolveURL(base, href),
		}
		link.IssueNumber, link.Year = issueNumberAndYear(text)
		archive.Issues = append(archive.Issues, link)
	})

	return archive
}

func issueNumberAndYear(s string) (number, year string) {
	if m := issueNumberRE.FindStringSubmatch(s); m != nil {
		number = m[1]
	}
	if m := yearRE.FindStringSubmatch(s); m != nil {
		year = m[1]
	}
	return number, year
}

// ExtractKeywords returns the meta keywords followed by capitalized one- or
// two-word phrases from the body text. Stopwords and words of three letters
// or fewer are dropped, duplicates removed and the list capped at maxKeywords.
func ExtractKeywords(doc *goquery.Document) []string {
	keywords := []string{}
	seen := make(map[string]bool)
	add := func(k string) bool {
		if k == "" || seen[k] {
			return len(keywords) < maxKeywords
		}
		seen[k] = true
		keywords = append(keywords, k)
		return len(keywords) < maxKeywords
	}

	if meta, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		for k := range strings.SplitSeq(meta, ",") {
			if !add(strings.TrimSpace(k)) {
				return keywords
			}
		}
	}

	for _, match := range keywordRE.FindAllString(bodyText(doc), -1) {
		match = strings.Join(strings.Fields(match), " ")
		if stopwords[match] || len(match) <= 3 {
			continue
		}
		if !add(match) {
			break
		}
	}

	return keywords
}

// ExtractAuthors returns the meta author followed by names matched anywhere
// in the body text. Names are deduplicated case-insensitively.
func ExtractAuthors(doc *goquery.Document) []scrape.Author {
	authors := []scrape.Author{}
	seen := make(map[string]bool)
	add := func(name, source string) {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		authors = append(authors, scrape.Author{Name: name, Source: source})
	}

	if meta, ok := doc.Find(`meta[name="author"]`).First().Attr("content"); ok {
		add(meta, scrape.AuthorSourceMeta)
	}

	text := bodyText(doc)
	for _, re := range authorPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(strings.Join(strings.Fields(m[1]), " "), scrape.AuthorSourceExtracted)
		}
	}

	return authors
}

// bodyText returns the text of the whole body, one text node per line.
func bodyText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return blockText(body)
}
