// Package sharepoint is a client for SharePoint document libraries built
// on the Microsoft Graph API. A Manager authenticates an application via
// OAuth2 client credentials, resolves a site and a drive (document
// library), and then addresses files and folders by their drive-relative
// paths: upload, download, delete, move, and suffix search.
//
// The surface is deliberately small: every remote item is reported as an
// ItemInfo value, and every failure is a wrapped error that callers
// branch on with errors.Is (see ErrNotFound, ErrDriveNotResolved, and
// the graph package sentinels).
//
// A Manager is not safe for concurrent use: the setup calls mutate its
// site and drive identifiers. Callers needing concurrency should use one
// Manager per goroutine.
package sharepoint

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tonimelisma/sharepoint-go/graph"
)

// DefaultDriveName is the document library ResolveDrive looks for when
// the caller passes an empty name. "Documenten" is the default library
// name on the tenants this library grew up with; pass your own name for
// anything else.
const DefaultDriveName = "Documenten"

// Manager holds the authenticated Graph client plus the site and drive
// identifiers that path-addressed operations require. Site and drive are
// resolved once after construction (ResolveSite, ResolveDrive) or set
// directly (UseSite, UseDrive) and read thereafter.
type Manager struct {
	client *graph.Client
	logger *slog.Logger

	siteHost string
	siteID   string
	driveID  string
}

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	tokenURL   string
	token      graph.TokenSource
}

// Option configures a Manager at construction.
type Option func(*options)

// WithHTTPClient sets the HTTP client used for all requests, including
// content downloads. Defaults to http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBaseURL overrides the Graph API endpoint (sovereign clouds, tests).
// Defaults to graph.BaseURL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithTokenURL overrides the Azure AD token endpoint used by the
// client-credentials exchange. Tests point it at a local server.
func WithTokenURL(u string) Option {
	return func(o *options) { o.tokenURL = u }
}

// WithTokenSource supplies bearer tokens directly, skipping the
// client-credentials exchange entirely. Use graph.OAuth2TokenSource to
// wrap a refreshing oauth2 source, or graph.StaticToken for tests.
func WithTokenSource(ts graph.TokenSource) Option {
	return func(o *options) { o.token = ts }
}

// New builds a Manager for one site of one tenant and authenticates
// eagerly: unless WithTokenSource is given, the client-credentials
// exchange runs here and bad credentials fail construction. The site
// name is normalized (lowercased, ".sharepoint.com" appended when
// missing) and kept as the lookup host for ResolveSite.
//
// The acquired token is cached for the life of the Manager and not
// refreshed; build a refreshing source via graph.OAuth2TokenSource if
// the Manager must outlive the token's expiry.
func New(ctx context.Context, tenantID, clientID, clientSecret, siteName string, opts ...Option) (*Manager, error) {
	o := options{baseURL: graph.BaseURL}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	host := graph.NormalizeSiteName(siteName)
	if host == "" {
		return nil, fmt.Errorf("sharepoint: site name is required")
	}

	token := o.token
	if token == nil {
		var err error

		token, err = graph.ClientCredentials(ctx, tenantID, clientID, clientSecret, o.tokenURL, o.logger)
		if err != nil {
			return nil, fmt.Errorf("sharepoint: authenticating: %w", err)
		}
	}

	m := &Manager{
		client:   graph.NewClient(o.baseURL, o.httpClient, token, o.logger),
		logger:   o.logger,
		siteHost: host,
	}

	m.logger.Debug("manager ready", slog.String("site_host", host))

	return m, nil
}

// ResolveSite looks up the site by the Manager's host name plus an
// optional server-relative path (e.g. "/sites/marketing"; empty for the
// host's root site), stores the site ID for subsequent calls, and
// returns it.
func (m *Manager) ResolveSite(ctx context.Context, sitePath string) (string, error) {
	site, err := m.client.Site(ctx, m.siteHost, sitePath)
	if err != nil {
		return "", err
	}

	m.siteID = site.ID

	m.logger.Info("site resolved",
		slog.String("site_id", site.ID),
		slog.String("name", site.Name),
	)

	return site.ID, nil
}

// ResolveDrive picks the site's document library by name, stores its ID
// for subsequent calls, and returns it. An empty name means
// DefaultDriveName. When no library matches, the site's first drive is
// used and a warning is logged; a site without drives is an error.
func (m *Manager) ResolveDrive(ctx context.Context, driveName string) (string, error) {
	if err := m.requireSite(); err != nil {
		return "", err
	}

	if driveName == "" {
		driveName = DefaultDriveName
	}

	drives, err := m.client.Drives(ctx, m.siteID)
	if err != nil {
		return "", err
	}

	if len(drives) == 0 {
		return "", fmt.Errorf("sharepoint: site %s has no document libraries", m.siteID)
	}

	for _, d := range drives {
		if d.Name == driveName {
			m.driveID = d.ID

			m.logger.Info("drive resolved",
				slog.String("drive_id", d.ID),
				slog.String("name", d.Name),
			)

			return d.ID, nil
		}
	}

	// No name match: fall back to the site's first drive.
	m.driveID = drives[0].ID

	m.logger.Warn("drive name not found, using first drive",
		slog.String("requested", driveName),
		slog.String("drive_id", drives[0].ID),
		slog.String("name", drives[0].Name),
	)

	return m.driveID, nil
}

// Drives lists the site's document libraries.
func (m *Manager) Drives(ctx context.Context) ([]graph.Drive, error) {
	if err := m.requireSite(); err != nil {
		return nil, err
	}

	return m.client.Drives(ctx, m.siteID)
}

// UseSite sets the site ID directly for callers that already know it,
// skipping the ResolveSite lookup.
func (m *Manager) UseSite(siteID string) {
	m.siteID = siteID
}

// UseDrive sets the drive ID directly for callers that already know it,
// skipping the ResolveDrive lookup.
func (m *Manager) UseDrive(driveID string) {
	m.driveID = driveID
}

// SiteID returns the resolved site ID, empty before resolution.
func (m *Manager) SiteID() string {
	return m.siteID
}

// DriveID returns the resolved drive ID, empty before resolution.
func (m *Manager) DriveID() string {
	return m.driveID
}

// Client returns the underlying Graph client for callers that need
// request-level access (raw items, listings with type facets). The client
// shares this Manager's token source, HTTP client, and logger.
func (m *Manager) Client() *graph.Client {
	return m.client
}

func (m *Manager) requireSite() error {
	if m.siteID == "" {
		return ErrSiteNotResolved
	}

	return nil
}

// requireDrive guards every path-addressed operation. The check runs
// before any network request so misconfiguration fails fast.
func (m *Manager) requireDrive() error {
	if m.siteID == "" {
		return ErrSiteNotResolved
	}

	if m.driveID == "" {
		return ErrDriveNotResolved
	}

	return nil
}
