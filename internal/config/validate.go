package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks all configuration values and returns all errors found.
// It accumulates every error rather than stopping at the first, so users
// see a complete report and can fix all issues in one pass.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateSite(&cfg.SiteConfig)...)
	errs = append(errs, validateLogging(&cfg.LoggingConfig)...)

	return errors.Join(errs...)
}

// ValidateCredentials checks that everything needed to reach the Graph API
// is present after the override chain has been applied. Split from
// Validate so commands that never touch the network (help, completion) do
// not demand credentials.
func ValidateCredentials(cfg *Config) error {
	var errs []error

	if cfg.TenantID == "" {
		errs = append(errs, fmt.Errorf("tenant_id: required (set in config or %s)", EnvTenantID))
	}

	if cfg.ClientID == "" {
		errs = append(errs, fmt.Errorf("client_id: required (set in config or %s)", EnvClientID))
	}

	if cfg.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("client_secret: required (set in config or %s)", EnvClientSecret))
	}

	if cfg.Site == "" {
		errs = append(errs, fmt.Errorf("site: required (set in config or %s)", EnvSite))
	}

	return errors.Join(errs...)
}

func validateSite(s *SiteConfig) []error {
	if s.SitePath != "" && !strings.HasPrefix(s.SitePath, "/") {
		return []error{fmt.Errorf("site_path: must start with /, got %q", s.SitePath)}
	}

	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"auto": true,
	"text": true,
	"json": true,
}

func validateLogging(l *LoggingConfig) []error {
	var errs []error

	if !validLogLevels[l.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level: must be one of debug, info, warn, error; got %q", l.LogLevel))
	}

	if !validLogFormats[l.LogFormat] {
		errs = append(errs, fmt.Errorf("log_format: must be one of auto, text, json; got %q", l.LogFormat))
	}

	return errs
}
