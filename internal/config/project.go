package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/grantdesk/internal/logging"
)

// EnvProjectDir overrides project directory discovery.
const EnvProjectDir = "GRANTDESK_PROJECT_DIR"

// ResolveProjectDir determines the project-local .grantdesk directory.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. GRANTDESK_PROJECT_DIR
//  3. the nearest ancestor of startDir containing a .grantdesk directory
//
// Returns an absolute path or "" when no project is found. Never creates
// the directory.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}
	if root := findProjectRoot(startDir); root != "" {
		return toAbsProjectDir(ctx, root)
	}
	return ""
}

// NewWithProjectDir loads the global config then shallow-merges
// <projectDir>/config.yaml on top. Environment overrides are re-applied
// after the merge so they keep precedence over both files.
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()
	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return cfg
	}
	merged.applyEnvOverrides()
	return merged
}

// DotEnvPaths returns the .env files consulted at startup: the working
// directory's .env followed by the grantdesk home .env.
func DotEnvPaths(workDir string) []string {
	return []string{
		filepath.Join(workDir, ".env"),
		filepath.Join(HomeDir(), ".env"),
	}
}

func findProjectRoot(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	home := filepath.Clean(HomeDir())
	for {
		candidate := filepath.Join(dir, homeDirName)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() && candidate != home {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// toAbsProjectDir converts dir to an absolute path ending in .grantdesk.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}
	if filepath.Base(abs) == homeDirName {
		return abs
	}
	return filepath.Join(abs, homeDirName)
}
