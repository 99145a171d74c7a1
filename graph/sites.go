package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// siteResource mirrors the Graph API site JSON response.
// Unexported — callers use Site via toSite() normalization.
type siteResource struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

func (s *siteResource) toSite() Site {
	return Site{
		ID:          s.ID,
		Name:        s.Name,
		DisplayName: s.DisplayName,
		WebURL:      s.WebURL,
	}
}

// driveResource mirrors the Graph API drive JSON response.
// Unexported — callers use Drive via toDrive() normalization.
type driveResource struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DriveType string `json:"driveType"`
	WebURL    string `json:"webUrl"`
}

func (d *driveResource) toDrive() Drive {
	return Drive{
		ID:        d.ID,
		Name:      d.Name,
		DriveType: d.DriveType,
		WebURL:    d.WebURL,
	}
}

// drivesListResponse wraps the value array from the drives listing.
type drivesListResponse struct {
	Value []driveResource `json:"value"`
}

// Site resolves a SharePoint site by its tenant host name and optional
// server-relative path (e.g. "/sites/marketing"; empty for the root site).
// The host is used as-is; callers normalize it first (NormalizeSiteName).
func (c *Client) Site(ctx context.Context, host, sitePath string) (*Site, error) {
	c.logger.Debug("resolving site",
		slog.String("host", host),
		slog.String("site_path", sitePath),
	)

	resp, err := c.Do(ctx, http.MethodGet, SiteURL(host, sitePath), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr siteResource
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("graph: decoding site response: %w", err)
	}

	if sr.ID == "" {
		return nil, fmt.Errorf("graph: site response for %q carries no id", host)
	}

	site := sr.toSite()

	c.logger.Debug("site resolved",
		slog.String("site_id", site.ID),
		slog.String("name", site.Name),
	)

	return &site, nil
}

// Drives returns the document libraries of a site.
func (c *Client) Drives(ctx context.Context, siteID string) ([]Drive, error) {
	c.logger.Debug("listing drives", slog.String("site_id", siteID))

	resp, err := c.Do(ctx, http.MethodGet, DrivesURL(siteID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dlr drivesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&dlr); err != nil {
		return nil, fmt.Errorf("graph: decoding drives response: %w", err)
	}

	drives := make([]Drive, 0, len(dlr.Value))
	for i := range dlr.Value {
		drives = append(drives, dlr.Value[i].toDrive())
	}

	c.logger.Debug("drives listed",
		slog.String("site_id", siteID),
		slog.Int("count", len(drives)),
	)

	return drives, nil
}
