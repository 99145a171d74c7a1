package sharepoint

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DownloadFile fetches the file at the given drive-relative path and
// returns its content. The whole file is buffered in memory; use
// DownloadFileTo for large files. A missing file surfaces as ErrNotFound.
// When the server reports a quickXorHash for the item, the received
// bytes are checked against it and a mismatch surfaces as ErrHashMismatch.
func (m *Manager) DownloadFile(ctx context.Context, remotePath string) ([]byte, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := m.client.Download(ctx, m.siteID, m.driveID, remotePath, &buf); err != nil {
		return nil, err
	}

	m.logger.Info("file downloaded",
		slog.String("path", remotePath),
		slog.Int("size", buf.Len()),
	)

	return buf.Bytes(), nil
}

// DownloadFileTo streams the file at remotePath into localPath, creating
// parent directories as needed. An empty localPath defaults to the file's
// base name in the current directory. Returns the written path. A failed
// transfer, including a content hash mismatch, leaves whatever was
// already written; there is no rollback.
func (m *Manager) DownloadFileTo(ctx context.Context, remotePath, localPath string) (string, error) {
	if err := m.requireDrive(); err != nil {
		return "", err
	}

	if localPath == "" {
		localPath = path.Base(strings.Trim(remotePath, "/"))
	}

	if dir := filepath.Dir(localPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("sharepoint: creating local directory: %w", err)
		}
	}

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("sharepoint: creating %s: %w", localPath, err)
	}

	n, dlErr := m.client.Download(ctx, m.siteID, m.driveID, remotePath, f)
	closeErr := f.Close()

	if dlErr != nil {
		return "", dlErr
	}

	if closeErr != nil {
		return "", fmt.Errorf("sharepoint: closing %s: %w", localPath, closeErr)
	}

	m.logger.Info("file downloaded",
		slog.String("path", remotePath),
		slog.String("local_path", localPath),
		slog.Int64("size", n),
	)

	return localPath, nil
}

// UploadFile reads the local file into memory and uploads it into
// destFolder. An empty name defaults to the local base name. Content
// larger than graph.SimpleUploadMaxSize is rejected by the server;
// chunked upload sessions are not implemented.
func (m *Manager) UploadFile(ctx context.Context, localPath, destFolder, name string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: reading %s: %w", localPath, err)
	}

	if name == "" {
		name = filepath.Base(localPath)
	}

	return m.UploadBytes(ctx, content, destFolder, name)
}

// UploadBytes uploads in-memory content as destFolder/name in a single
// content request and returns the created item as the server reports it.
// The destination folder must already exist.
func (m *Manager) UploadBytes(ctx context.Context, content []byte, destFolder, name string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, fmt.Errorf("sharepoint: upload name is required")
	}

	item, err := m.client.SimpleUpload(
		ctx, m.siteID, m.driveID, destFolder, name,
		bytes.NewReader(content), int64(len(content)),
	)
	if err != nil {
		return nil, err
	}

	m.logger.Info("file uploaded",
		slog.String("path", item.Path),
		slog.Int64("size", item.Size),
	)

	info := newItemInfo(item)

	return &info, nil
}

// DeleteFile removes the file at the given path. A missing file surfaces
// as ErrNotFound; delete does not tolerate "already gone".
func (m *Manager) DeleteFile(ctx context.Context, remotePath string) error {
	if err := m.requireDrive(); err != nil {
		return err
	}

	if err := m.client.DeleteByPath(ctx, m.siteID, m.driveID, remotePath); err != nil {
		return err
	}

	m.logger.Info("file deleted", slog.String("path", remotePath))

	return nil
}

// MoveFile moves the file at remotePath into destFolder and returns the
// updated item. The destination folder's ID is resolved first; moving to
// the file's current parent is a server-side no-op that preserves the
// item ID.
func (m *Manager) MoveFile(ctx context.Context, remotePath, destFolder string) (*ItemInfo, error) {
	return m.moveByPath(ctx, remotePath, destFolder)
}

// moveByPath resolves the source item and destination folder IDs, then
// patches the item's parent reference. Shared by the file, folder, and
// unified move operations.
func (m *Manager) moveByPath(ctx context.Context, remotePath, destFolder string) (*ItemInfo, error) {
	if err := m.requireDrive(); err != nil {
		return nil, err
	}

	src, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, remotePath)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: resolving %s: %w", remotePath, err)
	}

	dest, err := m.client.GetItemByPath(ctx, m.siteID, m.driveID, destFolder)
	if err != nil {
		return nil, fmt.Errorf("sharepoint: resolving destination %s: %w", destFolder, err)
	}

	moved, err := m.client.MoveItem(ctx, m.siteID, m.driveID, src.ID, dest.ID, "")
	if err != nil {
		return nil, err
	}

	m.logger.Info("item moved",
		slog.String("path", remotePath),
		slog.String("destination", destFolder),
		slog.String("item_id", moved.ID),
	)

	info := newItemInfo(moved)

	return &info, nil
}
