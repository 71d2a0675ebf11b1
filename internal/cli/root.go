package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/grantdesk/internal/config"
	"github.com/rshade/grantdesk/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// baseLogger is the untagged logger handed to other components.
var baseLogger zerolog.Logger //nolint:gochecknoglobals // Set alongside logger

// rootFlags are the persistent overrides applied after file and env config.
type rootFlags struct {
	apiURL     string
	token      string
	projectDir string
	cacheTTL   int
}

// NewRootCmd creates the root Cobra command for the grantdesk CLI.
// It resolves configuration, wires up logging and tracing, and registers the
// request, notifications, serve, and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult *logging.LogPathResult
		flags     rootFlags
	)

	cmd := &cobra.Command{
		Use:          "grantdesk",
		Short:        "Grant request approval dashboard",
		Long:         "grantdesk: review funding requests, follow their approval workflow, and manage notifications",
		Version:      ver,
		Example:      rootCmdExample,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Negative values would make every cache entry expire immediately.
			if flags.cacheTTL < 0 {
				return fmt.Errorf("cache-ttl must be >= 0, got %d", flags.cacheTTL)
			}

			config.SetGlobalConfig(loadConfig(cmd, &flags))

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "",
		"backend API base URL (overrides config file and env var)")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "",
		"bearer token for the backend API (overrides config file and env var)")
	cmd.PersistentFlags().StringVar(&flags.projectDir, "project-dir", "",
		"project directory holding a .grantdesk/config.yaml overlay")
	cmd.PersistentFlags().IntVar(&flags.cacheTTL, "cache-ttl", 0,
		"request cache TTL in seconds (0 = use config default, overrides config file and env var)")

	cmd.AddCommand(
		NewRequestCmd(),
		NewNotificationsCmd(),
		NewServeCmd(),
		newConfigCmd(),
	)

	return cmd
}

// loadConfig builds the effective configuration for this invocation:
// .env files, then the global file merged with any project overlay, then
// GRANTDESK_* variables, then persistent flags.
func loadConfig(cmd *cobra.Command, flags *rootFlags) *config.Config {
	ctx := cmd.Context()

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	if envErr := config.LoadDotEnv(config.DotEnvPaths(wd)...); envErr != nil {
		cmd.PrintErrf("Warning: %v\n", envErr)
	}

	projectDir := config.ResolveProjectDir(ctx, flags.projectDir, wd)
	config.SetResolvedProjectDir(projectDir)

	cfg := config.NewWithProjectDir(ctx, projectDir)
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	if flags.token != "" {
		cfg.API.Token = flags.token
	}
	if flags.cacheTTL > 0 {
		cfg.Cache.TTLSeconds = flags.cacheTTL
	}
	return cfg
}

const rootCmdExample = `  # Show a request with its workflow and comments
  grantdesk request show 42

  # Browse the request interactively
  grantdesk request show 42 --interactive

  # List requests awaiting officer review as JSON
  grantdesk request list --status officer_review --output json

  # Comment on a request
  grantdesk request comment 42 --message "Budget looks reasonable"

  # Show unread notifications
  grantdesk notifications list --unread

  # Watch the unread count
  grantdesk notifications watch

  # Serve the web dashboard
  grantdesk serve --addr 127.0.0.1:8088

  # Initialize configuration
  grantdesk config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
