package mock

import "github.com/fwojciec/scrape"

var _ scrape.LinkClassifier = (*LinkClassifier)(nil)

// LinkClassifier is a mock implementation of scrape.LinkClassifier.
type LinkClassifier struct {
	ClassifyFn func(rawURL, currentPageURL string) scrape.Classification
}

func (c *LinkClassifier) Classify(rawURL, currentPageURL string) scrape.Classification {
	return c.ClassifyFn(rawURL, currentPageURL)
}
