package sharepoint

import (
	"errors"

	"github.com/tonimelisma/sharepoint-go/graph"
)

// Configuration errors: a required identifier is missing. Operations
// return these before any network request is attempted.
var (
	ErrSiteNotResolved  = errors.New("sharepoint: site ID not set, call ResolveSite or UseSite first")
	ErrDriveNotResolved = errors.New("sharepoint: drive ID not set, call ResolveDrive or UseDrive first")
)

// ErrEmptySuffix rejects search suffixes that normalize to nothing
// (empty string or a bare "."), which would otherwise match everything.
var ErrEmptySuffix = errors.New("sharepoint: search suffix must not be empty")

// Transport sentinels re-exported from the graph package so callers can
// branch without a second import. errors.Is matches either spelling.
var (
	ErrNotFound      = graph.ErrNotFound
	ErrUnauthorized  = graph.ErrUnauthorized
	ErrForbidden     = graph.ErrForbidden
	ErrNoDownloadURL = graph.ErrNoDownloadURL
	ErrHashMismatch  = graph.ErrHashMismatch
)
