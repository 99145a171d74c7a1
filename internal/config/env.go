package config

import "os"

// Environment variable names for overrides.
const (
	EnvConfig       = "SHAREPOINT_GO_CONFIG"
	EnvTenantID     = "SHAREPOINT_GO_TENANT_ID"
	EnvClientID     = "SHAREPOINT_GO_CLIENT_ID"
	EnvClientSecret = "SHAREPOINT_GO_CLIENT_SECRET"
	EnvSite         = "SHAREPOINT_GO_SITE"
	EnvSitePath     = "SHAREPOINT_GO_SITE_PATH"
	EnvDrive        = "SHAREPOINT_GO_DRIVE"
)

// EnvOverrides holds values derived from environment variables. These sit
// between the config file and CLI flags in the override chain.
type EnvOverrides struct {
	ConfigPath   string // SHAREPOINT_GO_CONFIG: override config file path
	TenantID     string // SHAREPOINT_GO_TENANT_ID: Entra tenant ID
	ClientID     string // SHAREPOINT_GO_CLIENT_ID: app registration client ID
	ClientSecret string // SHAREPOINT_GO_CLIENT_SECRET: preferred over client_secret in the file
	Site         string // SHAREPOINT_GO_SITE: site host or short name
	SitePath     string // SHAREPOINT_GO_SITE_PATH: server-relative subsite path
	Drive        string // SHAREPOINT_GO_DRIVE: document library name
}

// ReadEnvOverrides reads environment variables and returns any overrides found.
// This does not modify any Config; Resolve applies the relevant fields.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:   os.Getenv(EnvConfig),
		TenantID:     os.Getenv(EnvTenantID),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		Site:         os.Getenv(EnvSite),
		SitePath:     os.Getenv(EnvSitePath),
		Drive:        os.Getenv(EnvDrive),
	}
}
