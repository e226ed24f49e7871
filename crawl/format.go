package crawl

import "fmt"

// progressURLWidth is the display width of URLs in progress lines.
const progressURLWidth = 60

// FormatProgress renders a progress event as a single status line.
// Started and finished events render as summaries.
func FormatProgress(e ProgressEvent) string {
	switch e.Type {
	case ProgressStarted:
		if e.URL != "" {
			return fmt.Sprintf("Scraping %s", e.URL)
		}
		return fmt.Sprintf("Scraping %d pages", e.Total)
	case ProgressCompleted:
		return fmt.Sprintf("[%d/%d] ok   %s", e.Completed, e.Total, TruncateURL(e.URL, progressURLWidth))
	case ProgressFailed:
		return fmt.Sprintf("[%d/%d] fail %s: %v", e.Completed, e.Total, TruncateURL(e.URL, progressURLWidth), e.Error)
	case ProgressFinished:
		return fmt.Sprintf("Done: %d/%d processed", e.Completed, e.Total)
	default:
		return ""
	}
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
