package graph

import (
	"fmt"
	"net/url"
	"strings"
)

// BaseURL is the production Microsoft Graph API endpoint.
const BaseURL = "https://graph.microsoft.com/v1.0"

const sharePointDomain = ".sharepoint.com"

// NormalizeSiteName canonicalizes a tenant host name: surrounding
// whitespace is trimmed, the name is lowercased, and the
// ".sharepoint.com" domain is appended when missing. An empty input
// stays empty.
func NormalizeSiteName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	if !strings.HasSuffix(name, sharePointDomain) {
		name += sharePointDomain
	}

	return name
}

// encodePathSegments URL-encodes each segment of a slash-separated path.
// Characters like #, ?, %, and spaces are encoded per-segment so the
// resulting path is safe for interpolation into Graph API URLs.
func encodePathSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}

// SiteURL returns the lookup path for a site identified by host name.
// A non-empty sitePath addresses a site below the host and must carry
// its leading slash, e.g. "/sites/marketing".
func SiteURL(host, sitePath string) string {
	if sitePath == "" {
		return "/sites/" + host
	}

	return "/sites/" + host + ":" + sitePath
}

// DrivesURL returns the path listing the document libraries of a site.
func DrivesURL(siteID string) string {
	return fmt.Sprintf("/sites/%s/drives", siteID)
}

// DriveRootURL returns the path of a drive's root folder.
func DriveRootURL(siteID, driveID string) string {
	return fmt.Sprintf("/sites/%s/drives/%s/root", siteID, driveID)
}

// ItemURL returns the metadata path of an item addressed by its
// drive-relative path. An empty or "/" itemPath addresses the drive root.
func ItemURL(siteID, driveID, itemPath string) string {
	itemPath = strings.Trim(itemPath, "/")
	if itemPath == "" {
		return DriveRootURL(siteID, driveID)
	}

	return DriveRootURL(siteID, driveID) + ":/" + encodePathSegments(itemPath)
}

// ContentURL returns the content path of a file item. itemPath must name
// an item, not the drive root.
func ContentURL(siteID, driveID, itemPath string) string {
	return ItemURL(siteID, driveID, itemPath) + ":/content"
}

// ChildrenURL returns the listing path for a folder's direct children.
// The drive root uses the plain /root/children form; any other folder
// uses the colon-addressed form.
func ChildrenURL(siteID, driveID, folderPath string) string {
	folderPath = strings.Trim(folderPath, "/")
	if folderPath == "" {
		return DriveRootURL(siteID, driveID) + "/children"
	}

	return ItemURL(siteID, driveID, folderPath) + ":/children"
}

// ItemByIDURL returns the metadata path of an item addressed by its
// server-assigned identifier.
func ItemByIDURL(siteID, driveID, itemID string) string {
	return fmt.Sprintf("/sites/%s/drives/%s/items/%s", siteID, driveID, itemID)
}
