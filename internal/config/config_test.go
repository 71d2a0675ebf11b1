package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/grantdesk/internal/config"
	"github.com/rshade/grantdesk/internal/logging"
)

// isolateHome points GRANTDESK_HOME at a temp dir and clears env overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, key := range []string{
		config.EnvAPIURL, config.EnvAPIToken, config.EnvAPITimeout,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvOutputFormat,
		config.EnvWebAddr, config.EnvProjectDir,
		"GRANTDESK_CACHE_TTL_SECONDS", "GRANTDESK_CACHE_ENABLED", "GRANTDESK_CACHE_DIR",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNew_Defaults(t *testing.T) {
	home := isolateHome(t)

	cfg := config.New()

	assert.Equal(t, config.DefaultAPIURL, cfg.API.BaseURL)
	assert.Equal(t, "table", cfg.Output.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, filepath.Join(home, "cache"), cfg.Cache.Directory)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.Path())
	require.NoError(t, cfg.Validate())
}

func TestNew_FileThenEnv(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, "config.yaml"), `
api:
  base_url: https://grants.example.org/api
  token: file-token
logging:
  level: warn
`)
	t.Setenv(config.EnvAPIToken, "env-token")
	t.Setenv(config.EnvOutputFormat, "JSON")

	cfg := config.New()

	assert.Equal(t, "https://grants.example.org/api", cfg.API.BaseURL)
	assert.Equal(t, "env-token", cfg.API.Token)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
}

func TestNew_MalformedFileFallsBackToDefaults(t *testing.T) {
	home := isolateHome(t)
	writeFile(t, filepath.Join(home, "config.yaml"), "api: [unclosed")

	cfg := config.New()
	assert.Equal(t, config.DefaultAPIURL, cfg.API.BaseURL)
}

func TestValidate(t *testing.T) {
	isolateHome(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad url", func(c *config.Config) { c.API.BaseURL = "nope" }},
		{"bad format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }},
		{"zero page size", func(c *config.Config) { c.Notifications.PageSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	isolateHome(t)
	cfg := config.Default()
	cfg.SetPath(filepath.Join(t.TempDir(), "nested", "config.yaml"))
	cfg.API.Token = "abc"
	cfg.Web.Addr = ":9999"
	require.NoError(t, cfg.Save())

	loaded := config.Default()
	loaded.SetPath(cfg.Path())
	require.NoError(t, loaded.Load())
	assert.Equal(t, "abc", loaded.API.Token)
	assert.Equal(t, ":9999", loaded.Web.Addr)
}

func TestLoadDotEnv(t *testing.T) {
	isolateHome(t)
	require.NoError(t, os.Unsetenv(config.EnvAPIURL))
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	writeFile(t, envPath, "GRANTDESK_API_URL=https://dotenv.example.org/api\n")

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), envPath))
	assert.Equal(t, "https://dotenv.example.org/api", config.New().API.BaseURL)
}

func TestShallowMergeYAML(t *testing.T) {
	isolateHome(t)

	t.Run("replaces whole sections", func(t *testing.T) {
		target := config.Default()
		target.API.Token = "global-token"
		overlay := filepath.Join(t.TempDir(), "config.yaml")
		writeFile(t, overlay, "api:\n  base_url: https://project.example.org\nunknown: 1\n")

		require.NoError(t, config.ShallowMergeYAML(target, overlay))
		assert.Equal(t, "https://project.example.org", target.API.BaseURL)
		assert.Empty(t, target.API.Token)
		assert.Equal(t, "table", target.Output.DefaultFormat)
	})

	t.Run("nil target", func(t *testing.T) {
		require.Error(t, config.ShallowMergeYAML(nil, "x"))
	})

	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading overlay file")
	})

	t.Run("empty file", func(t *testing.T) {
		overlay := filepath.Join(t.TempDir(), "config.yaml")
		writeFile(t, overlay, "# nothing\n")
		require.NoError(t, config.ShallowMergeYAML(config.Default(), overlay))
	})
}

func TestResolveProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".grantdesk"), 0o750))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	assert.Equal(t, filepath.Join(root, ".grantdesk"), config.ResolveProjectDir(ctx, "", nested))
	assert.Equal(t, filepath.Join(root, ".grantdesk"), config.ResolveProjectDir(ctx, root, ""))
	assert.Equal(t, filepath.Join(root, ".grantdesk"),
		config.ResolveProjectDir(ctx, filepath.Join(root, ".grantdesk"), ""))

	t.Setenv(config.EnvProjectDir, nested)
	assert.Equal(t, filepath.Join(nested, ".grantdesk"), config.ResolveProjectDir(ctx, "", ""))
}

func TestNewWithProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()
	projectDir := t.TempDir()
	writeFile(t, filepath.Join(projectDir, "config.yaml"), "output:\n  default_format: json\n")
	t.Setenv(config.EnvLogLevel, "debug")

	cfg := config.NewWithProjectDir(ctx, projectDir)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)

	assert.Equal(t, "table", config.NewWithProjectDir(ctx, "").Output.DefaultFormat)
}

func TestGlobalConfigAccessors(t *testing.T) {
	isolateHome(t)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.Default()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "grantdesk.log")
	config.SetGlobalConfig(cfg)

	assert.Equal(t, "table", config.GetDefaultOutputFormat())
	assert.Equal(t, "table", config.GetOutputFormat(""))
	assert.Equal(t, "json", config.GetOutputFormat("json"))
	assert.Equal(t, float64(30), config.GetPollInterval().Seconds())
	require.NoError(t, config.EnsureLogDir())
	assert.DirExists(t, filepath.Dir(cfg.Logging.File))

	lc := config.GetLoggingConfig()
	converted := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, converted.Output)
	assert.Equal(t, cfg.Logging.File, converted.File)
}

func TestEnsureGitignore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".grantdesk")

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
	assert.Contains(t, string(data), ".env")

	created, err = config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)
}
