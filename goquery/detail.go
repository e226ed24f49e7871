package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrape"
)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`),
	regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
}

var addressStrategies = BlockEach(
	".address",
	".mailing-address",
	`[class*="address"]`,
	".location",
	".contact",
	`[class*="contact"]`,
)

var locationStrategies = BlockEach(
	".location",
	".city",
	".address",
	`[class*="location"]`,
)

var phoneStrategies = append(
	TextEach(".phone", ".telephone", ".tel", `[class*="phone"]`),
	schemeLink("tel:"),
)

var emailStrategies = append(
	TextEach(".email", `[class*="email"]`),
	schemeLink("mailto:"),
)

var fieldStrategies = TextEach(
	".field",
	".classification",
	".profession",
	".category",
	`[class*="field"]`,
	`[class*="prof"]`,
)

var aboutStrategies = TextEach(
	".about",
	".description",
	".bio",
	".summary",
	`[class*="about"]`,
	`[class*="bio"]`,
	`[class*="desc"]`,
)

var highlightSelectors = []string{
	".highlight",
	".achievement",
	".award",
	".feature",
	`[class*="highlight"]`,
	`[class*="award"]`,
}

// socialPlatforms maps host substrings to platforms, in match order.
var socialPlatforms = []struct {
	substr   string
	platform string
}{
	{"facebook", scrape.PlatformFacebook},
	{"twitter", scrape.PlatformTwitter},
	{"linkedin", scrape.PlatformLinkedIn},
	{"instagram", scrape.PlatformInstagram},
	{"youtube", scrape.PlatformYouTube},
}

// socialMarkers select anchors treated as social media links.
var socialMarkers = []string{"facebook", "twitter", "linkedin", "instagram", "youtube", "social"}

const photoContainers = "main, article, .content, .entry-content, .member, .profile, .gallery"

// logoContainers marks an image, or any element around it, as a logo.
const logoContainers = `[class*="logo"]`

var (
	photoSrcMarkers     = []string{"member", "firm", "company", "photo"}
	photoAltMarkers     = []string{"photo", "portrait", "project", "work"}
	photoExcludeMarkers = []string{"icon", "sprite", "avatar"}
)

// minPhotoSrcLength is the length a photo src must exceed.
const minPhotoSrcLength = 10

// schemeLink reads the first anchor whose href starts with scheme,
// preferring its text and falling back to the href without the scheme.
func schemeLink(scheme string) Strategy {
	return func(doc *goquery.Document) string {
		a := doc.Find(`a[href^="` + scheme + `"]`).First()
		if a.Length() == 0 {
			return ""
		}
		if text := strings.TrimSpace(a.Text()); text != "" {
			return text
		}
		v := strings.TrimPrefix(strings.TrimSpace(a.AttrOr("href", "")), scheme)
		if i := strings.IndexByte(v, '?'); i >= 0 {
			v = v[:i]
		}
		return v
	}
}

// ExtractDetail reads the fields of a member detail page.
// Each field takes the first non-empty value from its strategies.
func ExtractDetail(doc *goquery.Document, base *url.URL) *scrape.MemberDetail {
	d := &scrape.MemberDetail{
		SocialMedia: []scrape.SocialLink{},
		Photos:      []scrape.Photo{},
		Highlights:  []string{},
	}

	d.MailingAddress = FirstOf(doc, addressStrategies...)
	d.Phone = FirstOf(doc, phoneStrategies...)
	if d.Phone == "" {
		d.Phone = phoneFromBlock(d.MailingAddress)
	}
	d.Email = FirstOf(doc, emailStrategies...)
	d.Field = FirstOf(doc, fieldStrategies...)
	d.About = FirstOf(doc, aboutStrategies...)
	d.City, d.State = cityState(doc, d.MailingAddress)

	d.SocialMedia = extractSocial(doc, base)
	d.Logo, d.Photos = extractImages(doc, base)
	d.Highlights = extractHighlights(doc)

	return d
}

// cityState splits the first line of the first location block that holds
// a comma into city and state.
func cityState(doc *goquery.Document, address string) (city, state string) {
	candidates := make([]string, 0, len(locationStrategies)+1)
	for _, s := range locationStrategies {
		candidates = append(candidates, s(doc))
	}
	candidates = append(candidates, address)

	for _, c := range candidates {
		parts := strings.Split(firstLine(c), ",")
		if len(parts) < 2 {
			continue
		}
		city = strings.TrimSpace(parts[0])
		state = strings.TrimSpace(parts[1])
		if city != "" || state != "" {
			return city, state
		}
	}
	return "", ""
}

// phoneFromBlock scans the lines after the first for a phone number.
func phoneFromBlock(block string) string {
	lines := strings.Split(block, "\n")
	if len(lines) < 2 {
		return ""
	}
	for _, re := range phonePatterns {
		for _, line := range lines[1:] {
			if m := re.FindString(line); m != "" {
				return m
			}
		}
	}
	return ""
}

func extractSocial(doc *goquery.Document, base *url.URL) []scrape.SocialLink {
	links := []scrape.SocialLink{}
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) || !containsAny(strings.ToLower(href), socialMarkers) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, scrape.SocialLink{
			Platform: socialPlatform(resolved),
			URL:      resolved,
			Text:     strings.TrimSpace(a.Text()),
		})
	})
	return links
}

func socialPlatform(rawURL string) string {
	target := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		target = strings.ToLower(u.Host)
	}
	for _, p := range socialPlatforms {
		if strings.Contains(target, p.substr) {
			return p.platform
		}
	}
	return scrape.PlatformOther
}

// extractImages returns the first logo image and the content photos.
// An image is a logo when its src or alt mentions one or it sits in an
// element whose class does.
func extractImages(doc *goquery.Document, base *url.URL) (string, []scrape.Photo) {
	var logo string
	photos := []scrape.Photo{}
	seen := make(map[string]bool)

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		alt := strings.TrimSpace(img.AttrOr("alt", ""))
		if src == "" {
			return
		}
		lsrc, lalt := strings.ToLower(src), strings.ToLower(alt)

		if strings.Contains(lsrc, "logo") || strings.Contains(lalt, "logo") ||
			img.Closest(logoContainers).Length() > 0 {
			if logo == "" {
				logo = resolveURL(base, src)
			}
			return
		}

		if strings.HasPrefix(lsrc, "data:") || len(src) <= minPhotoSrcLength ||
			containsAny(lsrc, photoExcludeMarkers) {
			return
		}
		if !containsAny(lsrc, photoSrcMarkers) &&
			img.Closest(photoContainers).Length() == 0 &&
			!containsAny(lalt, photoAltMarkers) {
			return
		}

		resolved := resolveURL(base, src)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		photos = append(photos, scrape.Photo{URL: resolved, Alt: alt})
	})

	return logo, photos
}

func extractHighlights(doc *goquery.Document) []string {
	highlights := []string{}
	seen := make(map[string]bool)
	for _, selector := range highlightSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.Join(strings.Fields(sel.Text()), " ")
			if text == "" || seen[text] {
				return
			}
			seen[text] = true
			highlights = append(highlights, text)
		})
	}
	return highlights
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
