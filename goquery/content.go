package goquery

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order; the first one that matches wins.
var contentSelectors = []string{
	"main",
	"article",
	".post-content",
	".entry-content",
	".content",
	"#content",
	`div[class*="content"]`,
	`div[class*="post"]`,
}

// chromeSelectors are removed from a located content block.
const chromeSelectors = "script, style, nav, footer"

// blockSelectors are the candidates for the largest-block fallback.
const blockSelectors = "p, div, section, article"

// minBlockLength is the number of characters a fallback block must exceed.
const minBlockLength = 100

// LocateContent returns the main textual content of a document.
//
// The first content selector that matches wins; its first element is cloned,
// stripped of scripts, styles, navigation and footers, and its text returned
// one line per text node. Without a match, the largest text block over
// minBlockLength characters is used, and failing that the whole document text.
// The document is not modified.
func LocateContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		match := doc.Find(selector)
		if match.Length() == 0 {
			continue
		}
		clone := match.First().Clone()
		clone.Find(chromeSelectors).Remove()
		return blockText(clone)
	}

	var best *goquery.Selection
	bestLen := 0
	doc.Find(blockSelectors).Each(func(_ int, sel *goquery.Selection) {
		n := utf8.RuneCountInString(compactText(sel))
		if n > minBlockLength && n > bestLen {
			best, bestLen = sel, n
		}
	})
	if best != nil {
		return blockText(best)
	}

	return blockText(doc.Selection)
}
