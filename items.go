package sharepoint

import (
	"context"
	"fmt"
	"log/slog"
)

// Stat returns the metadata record of the item at remotePath (drive root
// when empty). A missing item surfaces as ErrNotFound.
func (m *Manager) Stat(ctx context.Context, remotePath string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	item, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return nil, err
	}

	info := newItemInfo(item)

	return &info, nil
}

// DownloadItem downloads whatever remotePath points at. The kind comes
// from the item's metadata (folder facet), never from path heuristics:
// files are written to localPath as with DownloadFileTo, folders are
// mirrored as with DownloadFolder. Returns the local path written.
func (m *Manager) DownloadItem(ctx context.Context, remotePath, localPath string) (string, error) {
	if err := m.requireDrive(); err != nil {
		return "", err
	}

	item, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return "", err
	}

	if item.IsFolder {
		return m.DownloadFolder(ctx, remotePath, localPath)
	}

	return m.DownloadFileTo(ctx, remotePath, localPath)
}

// DeleteItem removes whatever remotePath points at, file or folder. The
// kind is resolved first; folder deletion cascades server-side.
func (m *Manager) DeleteItem(ctx context.Context, remotePath string) error {
	if err := m.requireDrive(); err != nil {
		return err
	}

	item, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return err
	}

	if item.IsFolder {
		return m.DeleteFolder(ctx, remotePath)
	}

	return m.DeleteFile(ctx, remotePath)
}

// MoveItem moves whatever remotePath points at into destFolder and
// returns the updated item.
func (m *Manager) MoveItem(ctx context.Context, remotePath, destFolder string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	item, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return nil, err
	}

	if item.IsFolder {
		return m.MoveFolder(ctx, remotePath, destFolder)
	}

	return m.MoveFile(ctx, remotePath, destFolder)
}

// RenameItem gives the item at remotePath a new name within its current
// parent and returns the updated item.
func (m *Manager) RenameItem(ctx context.Context, remotePath, newName string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	if newName == "" {
		return nil, fmt.Errorf("sharepoint: new name is required")
	}

	src, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: resolving %s: %w", remotePath, err)
	}

	renamed, err := m.client.MoveItem(ctx, m.siteID, m.driveID, src.ID, "", newName)
	if err != nil {
		return nil, err
	}

	m.logger.Info("item renamed",
		slog.String("path", remotePath),
		slog.String("new_name", newName),
	)

	info := newItemInfo(renamed)

	return &info, nil
}
