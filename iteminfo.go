package sharepoint

import "github.com/tonimelisma/sharepoint-go/graph"

// ItemInfo describes one file or folder in a document library.
//
// Path is the item's drive-relative path with a leading slash, derived
// from the server's parent reference (e.g. "/Reports/Q1.csv"). Modified
// carries the server's lastModifiedDateTime string unparsed; Graph
// timestamps are ISO-8601 and sort lexically.
//
// ItemInfo is a plain value: two instances built from the same field
// values compare equal with ==.
type ItemInfo struct {
	Name     string
	Path     string
	Size     int64
	Modified string
	ID       string
	WebURL   string
}

// FileInfo and FolderInfo are aliases of ItemInfo kept for callers of
// earlier releases. Files and folders share one record type; the folder
// case is recognized by the operation that produced the value, not by
// the type.
type (
	FileInfo   = ItemInfo
	FolderInfo = ItemInfo
)

func newItemInfo(it *graph.Item) ItemInfo {
	return ItemInfo{
		Name:     it.Name,
		Path:     it.Path,
		Size:     it.Size,
		Modified: it.Modified,
		ID:       it.ID,
		WebURL:   it.WebURL,
	}
}
