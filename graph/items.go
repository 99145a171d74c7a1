package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// driveItemResource mirrors the Graph API driveItem JSON exactly.
// Unexported — callers use Item via toItem() normalization.
type driveItemResource struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Size                 int64        `json:"size"`
	LastModifiedDateTime string       `json:"lastModifiedDateTime"`
	WebURL               string       `json:"webUrl"`
	ParentReference      *parentRef   `json:"parentReference"`
	File                 *fileFacet   `json:"file"`
	Folder               *folderFacet `json:"folder"`
	DownloadURL          string       `json:"@microsoft.graph.downloadUrl"` //nolint:tagliatelle // Graph API annotation key
}

type parentRef struct {
	ID      string `json:"id"`
	DriveID string `json:"driveId"`
	Path    string `json:"path"`
}

type fileFacet struct {
	MimeType string      `json:"mimeType"`
	Hashes   *hashesType `json:"hashes"`
}

type hashesType struct {
	QuickXorHash string `json:"quickXorHash"`
}

type folderFacet struct {
	ChildCount int `json:"childCount"`
}

type childrenResponse struct {
	Value    []driveItemResource `json:"value"`
	NextLink string              `json:"@odata.nextLink"` //nolint:tagliatelle // OData annotation key
}

type createFolderRequest struct {
	Name             string      `json:"name"`
	Folder           folderFacet `json:"folder"`
	ConflictBehavior string      `json:"@microsoft.graph.conflictBehavior"` //nolint:tagliatelle // Graph API annotation key
}

type moveItemRequest struct {
	ParentReference *moveParentRef `json:"parentReference,omitempty"`
	Name            string         `json:"name,omitempty"`
}

type moveParentRef struct {
	ID string `json:"id"`
}

// toItem normalizes a Graph API driveItem response into our Item type.
func (d *driveItemResource) toItem() Item {
	item := Item{
		ID:          d.ID,
		Name:        d.Name,
		Size:        d.Size,
		Modified:    d.LastModifiedDateTime,
		WebURL:      d.WebURL,
		IsFolder:    d.Folder != nil,
		DownloadURL: d.DownloadURL,
	}

	var parentPath string

	if d.ParentReference != nil {
		item.ParentID = d.ParentReference.ID
		parentPath = d.ParentReference.Path
	}

	item.Path = itemPath(parentPath, d.Name)

	if d.Folder != nil {
		item.ChildCount = d.Folder.ChildCount
	}

	if d.File != nil {
		item.MimeType = d.File.MimeType

		if d.File.Hashes != nil {
			item.QuickXorHash = d.File.Hashes.QuickXorHash
		}
	}

	return item
}

// itemPath derives the drive-relative path of an item from its parent
// reference path. Parent paths look like "/drives/{id}/root:/Reports";
// the portion after the last colon is the parent's own drive-relative
// path (empty for children of the root, which yields "/name").
func itemPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}

	rel := parentPath
	if i := strings.LastIndex(parentPath, ":"); i >= 0 {
		rel = parentPath[i+1:]
	}

	return rel + "/" + name
}

// fetchItem fetches a single drive item from the given API path and decodes it.
func (c *Client) fetchItem(ctx context.Context, apiPath string) (*Item, error) {
	resp, err := c.Do(ctx, http.MethodGet, apiPath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res driveItemResource
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("graph: decoding item response: %w", err)
	}

	item := res.toItem()

	return &item, nil
}

// GetItemByPath retrieves a drive item by its path relative to the drive
// root. An empty path resolves the drive root itself.
func (c *Client) GetItemByPath(ctx context.Context, siteID, driveID, remotePath string) (*Item, error) {
	c.logger.Debug("getting item by path",
		slog.String("drive_id", driveID),
		slog.String("path", remotePath),
	)

	return c.fetchItem(ctx, ItemURL(siteID, driveID, remotePath))
}

// ListChildren returns the direct children of a folder identified by
// path (drive root when empty). A single listing request is issued; when
// the server indicates further pages, they are not followed and a debug
// line records the truncation.
func (c *Client) ListChildren(ctx context.Context, siteID, driveID, folderPath string) ([]Item, error) {
	c.logger.Debug("listing children",
		slog.String("drive_id", driveID),
		slog.String("folder_path", folderPath),
	)

	resp, err := c.Do(ctx, http.MethodGet, ChildrenURL(siteID, driveID, folderPath), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cr childrenResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("graph: decoding children response: %w", err)
	}

	items := make([]Item, 0, len(cr.Value))
	for i := range cr.Value {
		items = append(items, cr.Value[i].toItem())
	}

	if cr.NextLink != "" {
		c.logger.Debug("children listing truncated to first page",
			slog.String("folder_path", folderPath),
			slog.Int("returned", len(items)),
		)
	}

	return items, nil
}

// CreateFolder creates a new folder under the given parent path (drive
// root when empty). Uses conflictBehavior "fail" — returns ErrConflict
// (409) on name collision.
func (c *Client) CreateFolder(ctx context.Context, siteID, driveID, parentPath, name string) (*Item, error) {
	c.logger.Debug("creating folder",
		slog.String("drive_id", driveID),
		slog.String("parent_path", parentPath),
		slog.String("name", name),
	)

	reqBody := createFolderRequest{
		Name:             name,
		Folder:           folderFacet{},
		ConflictBehavior: "fail",
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("graph: marshaling create folder request: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPost, ChildrenURL(siteID, driveID, parentPath), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res driveItemResource
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("graph: decoding create folder response: %w", err)
	}

	item := res.toItem()

	return &item, nil
}

// ErrMoveNoChanges is returned when MoveItem is called with both newParentID
// and newName empty — at least one must be specified.
var ErrMoveNoChanges = errors.New("graph: MoveItem requires at least one of newParentID or newName")

// MoveItem moves and/or renames an item addressed by its server ID.
// At least one of newParentID or newName must be non-empty.
func (c *Client) MoveItem(ctx context.Context, siteID, driveID, itemID, newParentID, newName string) (*Item, error) {
	if newParentID == "" && newName == "" {
		return nil, ErrMoveNoChanges
	}

	c.logger.Debug("moving item",
		slog.String("drive_id", driveID),
		slog.String("item_id", itemID),
		slog.String("new_parent_id", newParentID),
		slog.String("new_name", newName),
	)

	req := moveItemRequest{}
	if newParentID != "" {
		req.ParentReference = &moveParentRef{ID: newParentID}
	}

	if newName != "" {
		req.Name = newName
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("graph: marshaling move request: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPatch, ItemByIDURL(siteID, driveID, itemID), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res driveItemResource
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("graph: decoding move response: %w", err)
	}

	item := res.toItem()

	return &item, nil
}

// DeleteByPath deletes the item at the given drive-relative path.
// Deleting a folder cascades server-side to all descendants.
// Returns nil on success (HTTP 204).
func (c *Client) DeleteByPath(ctx context.Context, siteID, driveID, remotePath string) error {
	c.logger.Debug("deleting item",
		slog.String("drive_id", driveID),
		slog.String("path", remotePath),
	)

	resp, err := c.Do(ctx, http.MethodDelete, ItemURL(siteID, driveID, remotePath), nil)
	if err != nil {
		return err
	}

	// 204 No Content — drain and close to reuse the connection.
	return drainBody(resp)
}
