package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/grantdesk/internal/config"
)

const redacted = "********"

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the configuration produced by the global config file, any
project overlay, .env files, GRANTDESK_* variables, and flags.`,
		Example: `  # Validate current configuration
  grantdesk config validate

  # Validate and show where it was loaded from
  grantdesk config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration is valid")
			if verbose {
				printVerboseDetails(cmd, cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// printVerboseDetails shows where configuration came from and its key values.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nGlobal config: %s\n", cfg.Path())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		fmt.Fprintf(out, "Project dir:   %s\n", dir)
	}
	fmt.Fprintf(out, "API:           %s (timeout %ds)\n", cfg.API.BaseURL, cfg.API.TimeoutSeconds)
	fmt.Fprintf(out, "Cache:         enabled=%t ttl=%ds\n", cfg.Cache.Enabled, cfg.Cache.TTLSeconds)
	fmt.Fprintf(out, "Web:           %s\n", cfg.Web.Addr)
}

// NewConfigShowCmd prints the effective configuration as YAML with the token redacted.
func NewConfigShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *config.GetGlobalConfig()
			if cfg.API.Token != "" && !reveal {
				cfg.API.Token = redacted
			}
			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&reveal, "show-secrets", false, "print the API token instead of redacting it")

	return cmd
}
