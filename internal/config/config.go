// Package config implements TOML configuration loading, validation, and
// platform-specific path resolution for sharepoint-go. It supports a
// four-layer override chain (defaults -> config file -> environment -> CLI
// flags) so one-off overrides never require editing the config file.
package config

// Config is the top-level configuration parsed from a TOML file. Keys are
// flat; the embedded sections group related fields without introducing
// TOML tables.
type Config struct {
	AuthConfig
	SiteConfig
	LoggingConfig
}

// AuthConfig carries the client-credentials grant inputs. ClientSecret is
// never logged; prefer supplying it through SHAREPOINT_GO_CLIENT_SECRET
// over writing it to the config file.
type AuthConfig struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// SiteConfig names the SharePoint site and document library to operate on.
// Site may be a bare tenant name ("contoso") or a full hostname; SitePath
// is the server-relative path of a subsite (e.g. "/sites/marketing") and
// empty means the root site. Drive is the document library display name;
// empty selects the default library.
type SiteConfig struct {
	Site     string `toml:"site"`
	SitePath string `toml:"site_path"`
	Drive    string `toml:"drive"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// CLIOverrides holds values from CLI flags that override config file and
// environment settings. SitePath is a pointer so that an explicit
// --site-path "" (the root site) is distinguishable from the flag being
// absent.
type CLIOverrides struct {
	ConfigPath string  // --config flag (empty = use default)
	Drive      string  // --drive flag
	SitePath   *string // --site-path flag
	LogLevel   string  // --log-level flag
}
