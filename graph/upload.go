package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// SimpleUploadMaxSize is the Graph API limit for single-request content
// uploads (4 MB). Larger files need resumable upload sessions, which this
// client does not implement.
const SimpleUploadMaxSize = 4 * 1024 * 1024

// SimpleUpload uploads file content in a single PUT request to the
// content URL of folderPath/name (drive root when folderPath is empty).
// The content is sent with application/octet-stream content type.
// Intermediate folders are not created; a missing parent surfaces as
// ErrNotFound.
func (c *Client) SimpleUpload(
	ctx context.Context, siteID, driveID, folderPath, name string, r io.Reader, size int64,
) (*Item, error) {
	c.logger.Debug("simple upload",
		slog.String("drive_id", driveID),
		slog.String("folder_path", folderPath),
		slog.String("name", name),
		slog.Int64("size", size),
	)

	if size > SimpleUploadMaxSize {
		c.logger.Warn("content exceeds the single-request upload limit",
			slog.String("name", name),
			slog.Int64("size", size),
		)
	}

	path := ContentURL(siteID, driveID, uploadPath(folderPath, name))

	resp, err := c.doRaw(ctx, http.MethodPut, path, "application/octet-stream", r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res driveItemResource
	if decErr := json.NewDecoder(resp.Body).Decode(&res); decErr != nil {
		return nil, fmt.Errorf("graph: decoding upload response: %w", decErr)
	}

	item := res.toItem()

	return &item, nil
}

// uploadPath joins a destination folder path and a file name into one
// drive-relative path. Per-segment encoding happens later in ContentURL.
func uploadPath(folderPath, name string) string {
	folderPath = strings.Trim(folderPath, "/")
	if folderPath == "" {
		return name
	}

	return folderPath + "/" + name
}
