package scrape

// Classification is the frontier decision for a discovered URL.
type Classification struct {
	// URL is the absolute form of the classified URL.
	URL     string
	InScope bool
	Bucket  PageType
}

// LinkClassifier decides whether a discovered link belongs to the crawl.
type LinkClassifier interface {
	// Classify resolves rawURL against currentPageURL and reports whether it
	// is in scope and which page type it likely is. It performs no I/O.
	Classify(rawURL, currentPageURL string) Classification
}
