package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file, validates it, and returns the
// resulting Config. Unknown keys are treated as fatal errors with "did you
// mean?" suggestions — this strictness is deliberate because silently
// ignoring a typo in a config file leads to hard-to-debug behavior.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads a TOML config file if it exists, otherwise returns
// a Config populated with all default values. This supports the zero-config
// first run: credentials can come entirely from the environment.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve loads configuration and applies the four-layer override chain:
// defaults -> config file -> environment variables -> CLI flags.
// The precedence order ensures CLI flags always win, matching user
// expectations for one-off overrides without editing the config file.
func Resolve(env EnvOverrides, cli CLIOverrides) (*Config, error) {
	// Config path: CLI > env > default.
	cfgPath := DefaultConfigPath()
	if env.ConfigPath != "" {
		cfgPath = env.ConfigPath
	}

	if cli.ConfigPath != "" {
		cfgPath = cli.ConfigPath
	}

	cfg, err := LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg, env)
	applyCLIOverrides(cfg, cli)

	// Overrides can introduce invalid values (e.g. --log-level typo), so
	// the merged result is validated again.
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config, env EnvOverrides) {
	if env.TenantID != "" {
		cfg.TenantID = env.TenantID
	}

	if env.ClientID != "" {
		cfg.ClientID = env.ClientID
	}

	if env.ClientSecret != "" {
		cfg.ClientSecret = env.ClientSecret
	}

	if env.Site != "" {
		cfg.Site = env.Site
	}

	if env.SitePath != "" {
		cfg.SitePath = env.SitePath
	}

	if env.Drive != "" {
		cfg.Drive = env.Drive
	}
}

func applyCLIOverrides(cfg *Config, cli CLIOverrides) {
	if cli.Drive != "" {
		cfg.Drive = cli.Drive
	}

	if cli.SitePath != nil {
		cfg.SitePath = *cli.SitePath
	}

	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
}
