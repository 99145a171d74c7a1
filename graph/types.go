package graph

// Site identifies a SharePoint site collection.
type Site struct {
	ID          string
	Name        string
	DisplayName string
	WebURL      string
}

// Drive is a document library within a site.
type Drive struct {
	ID        string
	Name      string
	DriveType string
	WebURL    string
}

// Item represents a SharePoint drive item (file or folder).
// Fields are normalized from the Graph API response; callers never see raw API data.
type Item struct {
	ID           string
	Name         string
	Path         string // drive-relative, derived from the parent reference
	ParentID     string
	Size         int64
	Modified     string // lastModifiedDateTime as returned by the server, unparsed
	WebURL       string
	MimeType     string
	IsFolder     bool
	ChildCount   int    // folders only; zero otherwise
	DownloadURL  string // pre-authenticated, ephemeral; NEVER log
	QuickXorHash string // base64-encoded content hash; empty when the server reports none
}
