package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrape"
)

// Class token prefixes carrying directory facet IDs.
const (
	professionPrefix = "profession-"
	chapterPrefix    = "chapter-"
	levelPrefix      = "level-"
)

// ExtractListing returns one summary per directory list item.
// Items without a named title anchor are skipped.
func ExtractListing(doc *goquery.Document, base *url.URL) []*scrape.MemberSummary {
	members := []*scrape.MemberSummary{}
	doc.Find(".list-item").Each(func(_ int, item *goquery.Selection) {
		anchor := item.Find(".list-item-title-name a").First()
		if anchor.Length() == 0 {
			return
		}
		name := strings.TrimSpace(anchor.Text())
		if name == "" {
			return
		}

		m := &scrape.MemberSummary{
			Name:      name,
			DataTitle: strings.TrimSpace(item.AttrOr("data-title", "")),
			Certified: item.Find(".certified").Length() > 0,
		}
		if href := strings.TrimSpace(anchor.AttrOr("href", "")); href != "" {
			m.DetailURL = resolveURL(base, href)
		}
		for _, class := range strings.Fields(item.AttrOr("class", "")) {
			switch {
			case strings.HasPrefix(class, professionPrefix):
				m.ProfessionID = strings.TrimPrefix(class, professionPrefix)
			case strings.HasPrefix(class, chapterPrefix):
				m.ChapterID = strings.TrimPrefix(class, chapterPrefix)
			case strings.HasPrefix(class, levelPrefix):
				m.LevelID = strings.TrimPrefix(class, levelPrefix)
			}
		}
		members = append(members, m)
	})
	return members
}
