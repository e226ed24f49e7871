package scrape

// MemberSummary is one entry of a membership directory listing.
// Name is the only required field.
type MemberSummary struct {
	Name         string `json:"name"`
	DetailURL    string `json:"detail_url,omitempty"`
	DataTitle    string `json:"data_title,omitempty"`
	Certified    bool   `json:"certified"`
	ProfessionID string `json:"profession_id,omitempty"`
	ChapterID    string `json:"chapter_id,omitempty"`
	LevelID      string `json:"level_id,omitempty"`
}

// MemberDetail holds the fields found on a member's detail page.
// All fields default to empty.
type MemberDetail struct {
	MailingAddress string       `json:"mailing_address"`
	Phone          string       `json:"phone"`
	Email          string       `json:"email"`
	About          string       `json:"about"`
	Field          string       `json:"field"`
	City           string       `json:"city"`
	State          string       `json:"state"`
	SocialMedia    []SocialLink `json:"social_media"`
	Photos         []Photo      `json:"photos"`
	Logo           string       `json:"logo"`
	Highlights     []string     `json:"highlights"`
}

// Social media platforms.
const (
	PlatformFacebook  = "facebook"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformOther     = "other"
)

// SocialLink is a link to a member's social media profile.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Text     string `json:"text"`
}

// Photo is a content image on a member's detail page.
type Photo struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// DetailedMember is a directory entry merged with its detail page.
type DetailedMember struct {
	MemberSummary
	MemberDetail
}

// MemberExtractor extracts directory listings and member detail pages.
type MemberExtractor interface {
	// ExtractListing returns one summary per listing item that has a name.
	// Relative detail URLs are resolved against baseURL.
	ExtractListing(html string, baseURL string) ([]*MemberSummary, error)

	// ExtractDetail returns the fields found on a member detail page.
	ExtractDetail(html string, baseURL string) (*MemberDetail, error)
}
