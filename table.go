package scrape

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// previewLength is the maximum number of characters in a content preview.
const previewLength = 200

// Table is a flattened, tabular view of a result.
type Table struct {
	Header []string
	Rows   [][]string
}

var crawlHeader = []string{
	"url", "timestamp", "title", "status_code", "content_type", "page_type",
	"authors", "keywords", "content_length", "content_preview", "links_count",
	"issue_number", "year", "abstract",
}

// CrawlTable flattens a crawl result into one row per page.
// An empty result yields a single row holding the crawl URL and timestamp.
func CrawlTable(r *CrawlResult) Table {
	ts := r.Timestamp.Format(time.RFC3339)
	t := Table{Header: crawlHeader}
	for _, p := range r.Pages {
		var issueNumber, year, abstract string
		switch {
		case p.Extracted.Issue != nil:
			issueNumber = p.Extracted.Issue.IssueNumber
			year = p.Extracted.Issue.Year
		case p.Extracted.Article != nil:
			abstract = p.Extracted.Article.Abstract
		}
		names := make([]string, 0, len(p.Extracted.Authors))
		for _, a := range p.Extracted.Authors {
			names = append(names, a.Name)
		}
		t.Rows = append(t.Rows, []string{
			p.URL,
			ts,
			p.Title,
			strconv.Itoa(p.StatusCode),
			p.ContentType,
			string(p.Extracted.Type),
			strings.Join(names, "; "),
			strings.Join(p.Extracted.Keywords, "; "),
			strconv.Itoa(len(p.Content)),
			ContentPreview(p.Content),
			strconv.Itoa(len(p.Links)),
			issueNumber,
			year,
			abstract,
		})
	}
	if len(t.Rows) == 0 {
		row := make([]string, len(crawlHeader))
		row[0] = r.URL
		row[1] = ts
		t.Rows = append(t.Rows, row)
	}
	return t
}

var memberHeader = []string{
	"name", "detail_url", "data_title", "certified", "profession_id", "chapter_id", "level_id",
}

var detailHeader = []string{
	"mailing_address", "phone", "email", "field", "city", "state", "about",
	"social_media", "photos", "logo", "highlights",
}

func memberRow(m *MemberSummary) []string {
	return []string{
		m.Name,
		m.DetailURL,
		m.DataTitle,
		strconv.FormatBool(m.Certified),
		m.ProfessionID,
		m.ChapterID,
		m.LevelID,
	}
}

// DirectoryTable flattens a directory result into one row per member.
func DirectoryTable(r *DirectoryResult) Table {
	t := Table{Header: memberHeader}
	for _, m := range r.Members {
		t.Rows = append(t.Rows, memberRow(m))
	}
	return t
}

// DetailTable flattens a detail result into one row per member,
// with summary columns followed by detail columns.
// Lists are joined with "; ".
func DetailTable(r *DetailResult) Table {
	header := append(append([]string{}, memberHeader...), detailHeader...)
	t := Table{Header: header}
	for _, m := range r.Members {
		social := make([]string, 0, len(m.SocialMedia))
		for _, s := range m.SocialMedia {
			social = append(social, s.Platform+": "+s.URL)
		}
		photos := make([]string, 0, len(m.Photos))
		for _, p := range m.Photos {
			photos = append(photos, p.URL)
		}
		row := memberRow(&m.MemberSummary)
		row = append(row,
			m.MailingAddress,
			m.Phone,
			m.Email,
			m.Field,
			m.City,
			m.State,
			m.About,
			strings.Join(social, "; "),
			strings.Join(photos, "; "),
			m.Logo,
			strings.Join(m.Highlights, "; "),
		)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ContentPreview collapses whitespace and truncates content to a short preview.
func ContentPreview(content string) string {
	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) <= previewLength {
		return collapsed
	}
	return string(runes[:previewLength]) + "..."
}

// FormatSummary renders a human-readable report of a crawl.
func FormatSummary(r *CrawlResult, now time.Time) string {
	rule := strings.Repeat("=", 50)
	sub := strings.Repeat("-", 30)

	var b strings.Builder
	b.WriteString("SCRAPING SUMMARY\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Source URL: %s\n", r.URL)
	fmt.Fprintf(&b, "Scraping Depth: %d\n", r.Depth)
	fmt.Fprintf(&b, "Timestamp: %s\n\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Pages Scraped: %d\n", len(r.Pages))
	fmt.Fprintf(&b, "Errors: %d\n\n", len(r.Errors))

	if len(r.Pages) > 0 {
		b.WriteString("PAGE DETAILS:\n")
		b.WriteString(sub + "\n")
		for i, p := range r.Pages {
			title := p.Title
			if title == "" {
				title = "No title"
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, title)
			fmt.Fprintf(&b, "   URL: %s\n", p.URL)
			fmt.Fprintf(&b, "   Type: %s\n", p.Extracted.Type)
			fmt.Fprintf(&b, "   Status: %d\n", p.StatusCode)
			fmt.Fprintf(&b, "   Content Length: %d\n", len(p.Content))
			if len(p.Extracted.Authors) > 0 {
				authors := p.Extracted.Authors[:min(3, len(p.Extracted.Authors))]
				names := make([]string, 0, len(authors))
				for _, a := range authors {
					names = append(names, a.Name)
				}
				fmt.Fprintf(&b, "   Authors: %s\n", strings.Join(names, ", "))
			}
			b.WriteString("\n")
		}
	}

	if len(r.Errors) > 0 {
		b.WriteString("ERRORS:\n")
		b.WriteString(sub + "\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated by scrape on %s\n", now.Format(time.RFC3339))
	return b.String()
}
