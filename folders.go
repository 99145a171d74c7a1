package sharepoint

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tonimelisma/sharepoint-go/graph"
)

// ListFolder returns the direct children of the folder at folderPath
// (drive root when empty), in the order the server lists them. One
// listing request is issued; very large folders are truncated to the
// server's first page.
func (m *Manager) ListFolder(ctx context.Context, folderPath string) ([]ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	items, err := m.client.ListChildren(ctx, m.siteID, m.driveID, folderPath)
	if err != nil {
		return nil, err
	}

	infos := make([]ItemInfo, 0, len(items))
	for i := range items {
		infos = append(infos, newItemInfo(&items[i]))
	}

	return infos, nil
}

// CreateFolder creates a folder named name under parentPath (drive root
// when empty) and returns the created item. An existing folder of the
// same name surfaces as graph.ErrConflict.
func (m *Manager) CreateFolder(ctx context.Context, parentPath, name string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, fmt.Errorf("sharepoint: folder name is required")
	}

	item, err := m.client.CreateFolder(ctx, m.siteID, m.driveID, parentPath, name)
	if err != nil {
		return nil, err
	}

	m.logger.Info("folder created", slog.String("path", item.Path))

	info := newItemInfo(item)

	return &info, nil
}

// DownloadFolder mirrors the folder at remotePath into a local directory
// tree and returns the local root. An empty localDir defaults to the
// folder's base name. Children are processed strictly sequentially in
// listing order; files transfer via their pre-authenticated download
// URLs, subfolders recurse. Directory creation is idempotent, so an
// empty remote folder still yields the local directory. A failure
// mid-tree leaves already-written files in place.
func (m *Manager) DownloadFolder(ctx context.Context, remotePath, localDir string) (string, error) {
	if err := m.requireDrive(); err != nil {
		return "", err
	}

	if localDir == "" {
		localDir = path.Base(strings.Trim(remotePath, "/"))
		if localDir == "" || localDir == "." {
			localDir = "."
		}
	}

	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return "", fmt.Errorf("sharepoint: creating %s: %w", localDir, err)
	}

	m.logger.Info("downloading folder",
		slog.String("path", remotePath),
		slog.String("local_dir", localDir),
	)

	if err := m.downloadFolderTree(ctx, remotePath, localDir); err != nil {
		return "", err
	}

	m.logger.Info("folder downloaded",
		slog.String("path", remotePath),
		slog.String("local_dir", localDir),
	)

	return localDir, nil
}

// downloadFolderTree lists one folder and walks its children in listing
// order: files stream from the download URL already present in the
// listing, folders recurse after their local directory exists. A file
// the listing carries no download URL for is skipped with a warning.
func (m *Manager) downloadFolderTree(ctx context.Context, remotePath, localDir string) error {
	items, err := m.client.ListChildren(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return err
	}

	for i := range items {
		item := &items[i]

		if item.IsFolder {
			subDir := filepath.Join(localDir, item.Name)
			if err := os.MkdirAll(subDir, 0o755); err != nil {
				return fmt.Errorf("sharepoint: creating %s: %w", subDir, err)
			}

			subPath := joinRemotePath(remotePath, item.Name)
			if err := m.downloadFolderTree(ctx, subPath, subDir); err != nil {
				return err
			}

			continue
		}

		if item.DownloadURL == "" {
			m.logger.Warn("child has no download URL, skipping",
				slog.String("path", item.Path),
			)

			continue
		}

		if err := m.downloadChild(ctx, item, filepath.Join(localDir, item.Name)); err != nil {
			return err
		}

		m.logger.Debug("file downloaded", slog.String("path", item.Path))
	}

	return nil
}

// downloadChild streams one child file to disk, verifying content hashes
// when the listing carried them.
func (m *Manager) downloadChild(ctx context.Context, item *graph.Item, localPath string) error {
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("sharepoint: creating %s: %w", localPath, err)
	}

	_, dlErr := m.client.DownloadItemContent(ctx, item, f)
	closeErr := f.Close()

	if dlErr != nil {
		return dlErr
	}

	if closeErr != nil {
		return fmt.Errorf("sharepoint: closing %s: %w", localPath, closeErr)
	}

	return nil
}

// DeleteFolder removes the folder at the given path with a single delete
// request; the service cascades to all descendants. Permanent and
// non-reversible. A missing folder surfaces as ErrNotFound.
func (m *Manager) DeleteFolder(ctx context.Context, remotePath string) error {
	if err := m.requireDrive(); err != nil {
		return err
	}

	if err := m.client.DeleteByPath(ctx, m.siteID, m.driveID, remotePath); err != nil {
		return err
	}

	m.logger.Info("folder deleted", slog.String("path", remotePath))

	return nil
}

// MoveFolder moves the folder at remotePath under destParent and returns
// the updated item. The whole subtree moves implicitly since children are
// addressed relative to their parent.
func (m *Manager) MoveFolder(ctx context.Context, remotePath, destParent string) (*ItemInfo, error) {
	return m.moveByPath(ctx, remotePath, destParent)
}

// joinRemotePath joins drive-relative path segments, treating the root
// as empty.
func joinRemotePath(base, name string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return name
	}

	return base + "/" + name
}
