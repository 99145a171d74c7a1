package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	sharepoint "github.com/tonimelisma/sharepoint-go"
	"github.com/tonimelisma/sharepoint-go/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// Global persistent flags, bound in newRootCmd().
var (
	flagConfigPath string
	flagDrive      string
	flagSitePath   string
	flagLogLevel   string
	flagJSON       bool
)

// resolvedCfg holds the effective configuration loaded by PersistentPreRunE.
// It is available to all subcommands after the root pre-run phase completes.
var resolvedCfg *config.Config

// httpClientTimeout is the default timeout for HTTP requests.
// Prevents hung connections from blocking CLI commands indefinitely.
const httpClientTimeout = 30 * time.Second

// defaultLogFormatName matches the config default so buildLogger behaves
// the same with and without a resolved config.
const defaultLogFormatName = "auto"

// defaultHTTPClient returns an HTTP client with a sensible timeout.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: httpClientTimeout}
}

// newRootCmd builds and returns the fully-assembled root command with all
// subcommands registered. Called once from main().
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sharepoint-go",
		Short:   "SharePoint document library CLI",
		Long:    "A CLI for SharePoint document libraries: list, search, transfer, and reorganize files over the Microsoft Graph API.",
		Version: version,
		// Silence Cobra's default error/usage printing; main handles it.
		SilenceErrors: true,
		SilenceUsage:  true,
		// PersistentPreRunE resolves configuration before every command.
		// Credentials are not demanded here; commands that reach the
		// network validate them when they build a Manager.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&flagDrive, "drive", "", "document library name (default \""+sharepoint.DefaultDriveName+"\")")
	cmd.PersistentFlags().StringVar(&flagSitePath, "site-path", "", "server-relative subsite path (e.g. /sites/marketing)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output in JSON format")

	// Register subcommands.
	cmd.AddCommand(newDrivesCmd())
	cmd.AddCommand(newLsCmd())
	cmd.AddCommand(newStatCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newPutCmd())
	cmd.AddCommand(newRmCmd())
	cmd.AddCommand(newMvCmd())
	cmd.AddCommand(newMkdirCmd())

	return cmd
}

// loadConfig resolves the effective configuration from the four-layer
// override chain and stores the result in resolvedCfg for use by
// subcommands. A .env file in the working directory feeds the
// SHAREPOINT_GO_* environment layer; a missing .env is not an error.
func loadConfig(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cli := config.CLIOverrides{
		ConfigPath: flagConfigPath,
		LogLevel:   flagLogLevel,
	}

	// Only pass --drive and --site-path to the resolver if the user
	// explicitly set them.
	if cmd.Flags().Changed("drive") {
		cli.Drive = flagDrive
	}

	if cmd.Flags().Changed("site-path") {
		cli.SitePath = &flagSitePath
	}

	env := config.ReadEnvOverrides()

	resolved, err := config.Resolve(env, cli)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	resolvedCfg = resolved

	return nil
}

// buildLogger creates an slog.Logger configured by the resolved config.
// The --log-level flag already won the override chain inside Resolve, so
// only the merged result matters here. Format "auto" picks a text handler
// on a terminal and JSON otherwise, so piped output stays parseable.
func buildLogger() *slog.Logger {
	level := slog.LevelInfo
	format := defaultLogFormatName

	if resolvedCfg != nil {
		switch resolvedCfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}

		format = resolvedCfg.LogFormat
	}

	opts := &slog.HandlerOptions{Level: level}

	if format == "auto" {
		format = "json"
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "text"
		}
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newSiteManager validates credentials, authenticates, and resolves the
// site named by the effective configuration. Used by commands that operate
// above the document library level (drives).
func newSiteManager(ctx context.Context) (*sharepoint.Manager, *slog.Logger, error) {
	logger := buildLogger()

	if err := config.ValidateCredentials(resolvedCfg); err != nil {
		return nil, nil, err
	}

	mgr, err := sharepoint.New(ctx,
		resolvedCfg.TenantID, resolvedCfg.ClientID, resolvedCfg.ClientSecret, resolvedCfg.Site,
		sharepoint.WithHTTPClient(defaultHTTPClient()),
		sharepoint.WithLogger(logger),
	)
	if err != nil {
		return nil, nil, err
	}

	if _, err := mgr.ResolveSite(ctx, resolvedCfg.SitePath); err != nil {
		return nil, nil, fmt.Errorf("resolving site: %w", err)
	}

	return mgr, logger, nil
}

// newManager builds a site manager and additionally resolves the document
// library, so path operations are ready to run.
func newManager(ctx context.Context) (*sharepoint.Manager, *slog.Logger, error) {
	mgr, logger, err := newSiteManager(ctx)
	if err != nil {
		return nil, nil, err
	}

	if _, err := mgr.ResolveDrive(ctx, resolvedCfg.Drive); err != nil {
		return nil, nil, fmt.Errorf("resolving document library: %w", err)
	}

	return mgr, logger, nil
}

// exitOnError prints a user-friendly error message to stderr and exits.
func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
