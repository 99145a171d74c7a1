package sharepoint

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tonimelisma/sharepoint-go/graph"
)

// normalizeSuffix guarantees a leading dot and rejects suffixes that
// normalize to nothing.
func normalizeSuffix(suffix string) (string, error) {
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}

	if suffix == "." {
		return "", ErrEmptySuffix
	}

	return norm.NFC.String(suffix), nil
}

// matchesSuffix reports whether name ends with the normalized suffix.
// Comparison is case-sensitive; both sides are NFC-normalized so
// composed and decomposed spellings of the same name compare equal.
func matchesSuffix(name, suffix string) bool {
	return strings.HasSuffix(norm.NFC.String(name), suffix)
}

// SearchFilesBySuffix returns the files directly inside folderPath
// (drive root when empty) whose name ends with suffix. A suffix without
// a leading dot gets one prepended, so "csv" and ".csv" behave
// identically; matching is case-sensitive.
func (m *Manager) SearchFilesBySuffix(ctx context.Context, suffix, folderPath string) ([]ItemInfo, error) {
	return m.searchFlat(ctx, suffix, folderPath, false)
}

// SearchFoldersBySuffix is SearchFilesBySuffix for folders.
func (m *Manager) SearchFoldersBySuffix(ctx context.Context, suffix, folderPath string) ([]ItemInfo, error) {
	return m.searchFlat(ctx, suffix, folderPath, true)
}

// SearchFilesBySuffixRecursive applies the same filter at every level of
// a depth-first traversal seeded at folderPath, accumulating matches
// from all levels into one ordered collection: all matches within a
// folder precede matches found deeper in its subfolders.
func (m *Manager) SearchFilesBySuffixRecursive(ctx context.Context, suffix, folderPath string) ([]ItemInfo, error) {
	return m.searchRecursive(ctx, suffix, folderPath, false)
}

// SearchFoldersBySuffixRecursive is the folder variant of
// SearchFilesBySuffixRecursive. A matching folder is still descended
// into; its own children are searched like any other folder's.
func (m *Manager) SearchFoldersBySuffixRecursive(ctx context.Context, suffix, folderPath string) ([]ItemInfo, error) {
	return m.searchRecursive(ctx, suffix, folderPath, true)
}

func (m *Manager) searchFlat(ctx context.Context, suffix, folderPath string, wantFolders bool) ([]ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	sfx, err := normalizeSuffix(suffix)
	if err != nil {
		return nil, err
	}

	items, err := m.client.ListChildren(ctx, m.siteID, m.driveID, folderPath)
	if err != nil {
		return nil, err
	}

	matches := collectMatches(items, sfx, wantFolders)

	m.logger.Info("suffix search complete",
		slog.String("suffix", sfx),
		slog.String("folder_path", folderPath),
		slog.Bool("folders", wantFolders),
		slog.Int("matches", len(matches)),
	)

	return matches, nil
}

func (m *Manager) searchRecursive(ctx context.Context, suffix, folderPath string, wantFolders bool) ([]ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	sfx, err := normalizeSuffix(suffix)
	if err != nil {
		return nil, err
	}

	var matches []ItemInfo
	if err := m.searchTree(ctx, sfx, folderPath, wantFolders, &matches); err != nil {
		return nil, err
	}

	m.logger.Info("recursive suffix search complete",
		slog.String("suffix", sfx),
		slog.String("folder_path", folderPath),
		slog.Bool("folders", wantFolders),
		slog.Int("matches", len(matches)),
	)

	return matches, nil
}

// searchTree lists one folder, appends its matches, then recurses into
// each subfolder in listing order. Matches at a shallower level thus
// precede matches at deeper levels.
func (m *Manager) searchTree(ctx context.Context, suffix, folderPath string, wantFolders bool, acc *[]ItemInfo) error {
	items, err := m.client.ListChildren(ctx, m.siteID, m.driveID, folderPath)
	if err != nil {
		return err
	}

	*acc = append(*acc, collectMatches(items, suffix, wantFolders)...)

	for i := range items {
		if !items[i].IsFolder {
			continue
		}

		if err := m.searchTree(ctx, suffix, joinRemotePath(folderPath, items[i].Name), wantFolders, acc); err != nil {
			return err
		}
	}

	return nil
}

// collectMatches filters one listing by item kind and name suffix,
// preserving listing order.
func collectMatches(items []graph.Item, suffix string, wantFolders bool) []ItemInfo {
	var matches []ItemInfo

	for i := range items {
		if items[i].IsFolder != wantFolders {
			continue
		}

		if !matchesSuffix(items[i].Name, suffix) {
			continue
		}

		matches = append(matches, newItemInfo(&items[i]))
	}

	return matches
}
