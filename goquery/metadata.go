package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var authorStrategies = []Strategy{
	Attr(`meta[name="author"]`, "content"),
	Attr(`meta[property="article:author"]`, "content"),
	Text(".author"),
	Text(".byline"),
	Text(`[class*="author"]`),
}

var dateStrategies = []Strategy{
	Attr(`meta[property="article:published_time"]`, "content"),
	Attr(`meta[name="date"]`, "content"),
	Attr("time[datetime]", "datetime"),
	Text(".date"),
	Text(".published"),
	Text(`[class*="date"]`),
}

// ExtractMetadata collects page metadata.
//
// Every meta tag with a key (name, else property) and non-empty content is
// kept; when keys repeat the last tag wins. The "author" and "date" keys are
// then resolved from their own ordered strategies, where the first match wins.
func ExtractMetadata(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)

	if title := doc.Find("title").First(); title.Length() > 0 {
		meta["title"] = strings.TrimSpace(title.Text())
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key := strings.TrimSpace(sel.AttrOr("name", ""))
		if key == "" {
			key = strings.TrimSpace(sel.AttrOr("property", ""))
		}
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if key == "" || content == "" {
			return
		}
		meta[key] = content
	})

	if author := FirstOf(doc, authorStrategies...); author != "" {
		meta["author"] = author
	}
	if date := FirstOf(doc, dateStrategies...); date != "" {
		meta["date"] = date
	}

	return meta
}
