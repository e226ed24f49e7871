package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy produces a candidate value for one field of a document.
// An empty string means the strategy found nothing.
type Strategy func(doc *goquery.Document) string

// FirstOf runs strategies in order and returns the first non-empty value.
func FirstOf(doc *goquery.Document, strategies ...Strategy) string {
	for _, s := range strategies {
		if v := s(doc); v != "" {
			return v
		}
	}
	return ""
}

// Text reads the trimmed text of the first element matching selector.
func Text(selector string) Strategy {
	return func(doc *goquery.Document) string {
		return strings.TrimSpace(doc.Find(selector).First().Text())
	}
}

// Block reads the text of the first element matching selector
// with one line per text node.
func Block(selector string) Strategy {
	return func(doc *goquery.Document) string {
		return blockText(doc.Find(selector).First())
	}
}

// Attr reads an attribute of the first element matching selector.
func Attr(selector, name string) Strategy {
	return func(doc *goquery.Document) string {
		v, _ := doc.Find(selector).First().Attr(name)
		return strings.TrimSpace(v)
	}
}

// TextEach runs Text for each selector in order.
func TextEach(selectors ...string) []Strategy {
	out := make([]Strategy, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, Text(s))
	}
	return out
}

// BlockEach runs Block for each selector in order.
func BlockEach(selectors ...string) []Strategy {
	out := make([]Strategy, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, Block(s))
	}
	return out
}
