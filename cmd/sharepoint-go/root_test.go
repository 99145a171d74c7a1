package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/sharepoint-go/internal/config"
)

// saveGlobals snapshots the package-level flag state and the resolved
// config, restoring both when the test finishes. Tests that parse flags
// or call loadConfig mutate globals and must start from a clean slate.
func saveGlobals(t *testing.T) {
	t.Helper()

	oldConfigPath := flagConfigPath
	oldDrive := flagDrive
	oldSitePath := flagSitePath
	oldLogLevel := flagLogLevel
	oldJSON := flagJSON
	oldCfg := resolvedCfg

	t.Cleanup(func() {
		flagConfigPath = oldConfigPath
		flagDrive = oldDrive
		flagSitePath = oldSitePath
		flagLogLevel = oldLogLevel
		flagJSON = oldJSON
		resolvedCfg = oldCfg
	})
}

// clearEnvOverrides blanks every SHAREPOINT_GO_* variable for the duration
// of the test so ambient environment never leaks into resolution.
func clearEnvOverrides(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		config.EnvConfig, config.EnvTenantID, config.EnvClientID,
		config.EnvClientSecret, config.EnvSite, config.EnvSitePath, config.EnvDrive,
	} {
		t.Setenv(key, "")
	}
}

// --- root command tests ---

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{
		"drives", "ls", "stat", "search", "get", "put", "rm", "mv", "mkdir",
	} {
		assert.Contains(t, names, want)
	}
}

func TestNewRootCmd_PersistentFlags(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"config", "drive", "site-path", "log-level", "json"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing persistent flag %q", name)
	}
}

func TestNewRootCmd_SilencesCobraOutput(t *testing.T) {
	cmd := newRootCmd()

	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)
	assert.Equal(t, "sharepoint-go", cmd.Use)
}

func TestDefaultHTTPClient_Timeout(t *testing.T) {
	client := defaultHTTPClient()

	assert.Equal(t, httpClientTimeout, client.Timeout)
}

// --- buildLogger tests ---

func TestBuildLogger_Levels(t *testing.T) {
	saveGlobals(t)

	tests := []struct {
		level        string
		debugEnabled bool
		infoEnabled  bool
		warnEnabled  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			resolvedCfg = config.DefaultConfig()
			resolvedCfg.LogLevel = tt.level
			resolvedCfg.LogFormat = "json"

			logger := buildLogger()
			ctx := context.Background()

			assert.Equal(t, tt.debugEnabled, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoEnabled, logger.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnEnabled, logger.Enabled(ctx, slog.LevelWarn))
			assert.True(t, logger.Enabled(ctx, slog.LevelError))
		})
	}
}

func TestBuildLogger_HandlerFormats(t *testing.T) {
	saveGlobals(t)

	resolvedCfg = config.DefaultConfig()
	resolvedCfg.LogFormat = "json"

	_, isJSON := buildLogger().Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	resolvedCfg.LogFormat = "text"

	_, isText := buildLogger().Handler().(*slog.TextHandler)
	assert.True(t, isText)
}

func TestBuildLogger_NilConfig(t *testing.T) {
	saveGlobals(t)

	resolvedCfg = nil

	logger := buildLogger()
	require.NotNil(t, logger)

	ctx := context.Background()
	assert.False(t, logger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, logger.Enabled(ctx, slog.LevelInfo))
}

// --- loadConfig tests ---

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	saveGlobals(t)
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `site = "contoso"
drive = "Documents"
log_level = "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path, "--drive", "Archief", "--log-level", "debug",
	}))

	require.NoError(t, loadConfig(cmd))

	assert.Equal(t, "contoso", resolvedCfg.Site)
	assert.Equal(t, "Archief", resolvedCfg.Drive)
	assert.Equal(t, "debug", resolvedCfg.LogLevel)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	saveGlobals(t)
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "nonexistent.toml")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	require.NoError(t, loadConfig(cmd))

	assert.Equal(t, "info", resolvedCfg.LogLevel)
	assert.Empty(t, resolvedCfg.Drive)
}

func TestLoadConfig_UnsetDriveFlagLeavesFileValue(t *testing.T) {
	saveGlobals(t)
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`drive = "Projecten"`+"\n"), 0o600))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))

	require.NoError(t, loadConfig(cmd))

	assert.Equal(t, "Projecten", resolvedCfg.Drive)
}

func TestLoadConfig_ExplicitEmptySitePathClearsFileValue(t *testing.T) {
	saveGlobals(t)
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`site_path = "/sites/marketing"`+"\n"), 0o600))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--site-path", ""}))

	require.NoError(t, loadConfig(cmd))

	assert.Empty(t, resolvedCfg.SitePath)
}

func TestLoadConfig_InvalidLogLevel(t *testing.T) {
	saveGlobals(t)
	clearEnvOverrides(t)

	path := filepath.Join(t.TempDir(), "nonexistent.toml")

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--log-level", "loud"}))

	err := loadConfig(cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
	assert.Contains(t, err.Error(), "log_level")
}
