package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/grantdesk/internal/config"
)

const projectDirName = ".grantdesk"

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (a directory tree holding .grantdesk/, or one named by
// --project-dir or GRANTDESK_PROJECT_DIR) it writes the project overlay and a
// .gitignore. Otherwise it writes the global ~/.grantdesk/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates project-local configuration at
$PROJECT/.grantdesk/config.yaml with a .gitignore that keeps .env files and
logs out of version control. Use --local to start a project in the current
directory, or --global to write ~/.grantdesk/config.yaml even inside a project.`,
		Example: `  # Create configuration for the current project, or globally outside one
  grantdesk config init

  # Start a project in the current directory
  grantdesk config init --local

  # Create global configuration, overwriting any existing file
  grantdesk config init --global --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if global && local {
				return errors.New("--global and --local are mutually exclusive")
			}

			projectDir := config.GetResolvedProjectDir()
			if local {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("resolving working directory: %w", err)
				}
				projectDir = filepath.Join(wd, projectDirName)
			}

			if projectDir != "" && !global {
				return initProjectConfig(cmd, projectDir, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")
	cmd.Flags().BoolVar(&local, "local", false, "initialize a project in the current directory")

	return cmd
}

// checkWritable refuses to replace an existing file unless force is set.
func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}

// initProjectConfig creates projectDir/config.yaml with a .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}

	if err := os.MkdirAll(projectDir, 0o750); err != nil {
		return fmt.Errorf("failed to create project config directory: %w", err)
	}

	cfg := config.Default()
	cfg.SetPath(configPath)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration initialized at %s\n", configPath)
	if created {
		fmt.Fprintln(out, "Created .gitignore to keep secrets and logs out of version control")
	}
	return nil
}

// initGlobalConfig creates the global config at ~/.grantdesk/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	cfg := config.Default()
	if err := checkWritable(cfg.Path(), force); err != nil {
		return err
	}

	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration initialized successfully")
	fmt.Fprintf(out, "Configuration file: %s\n", cfg.Path())
	return nil
}
