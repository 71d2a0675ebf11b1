package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/grantdesk/internal/cli"
	"github.com/rshade/grantdesk/internal/config"
)

// TestConfigInit_InsideProject verifies that "config init" with a project
// directory creates .grantdesk/config.yaml and .grantdesk/.gitignore.
func TestConfigInit_InsideProject(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)

	out, _, err := runCLI(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized at")

	assert.FileExists(t, filepath.Join(projectRoot, ".grantdesk", "config.yaml"))
	data, err := os.ReadFile(filepath.Join(projectRoot, ".grantdesk", ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
}

// TestConfigInit_ExistingGitignorePreserved verifies that --force rewrites
// config.yaml but never a user's .gitignore.
func TestConfigInit_ExistingGitignorePreserved(t *testing.T) {
	setupCLITest(t)
	projectRoot := t.TempDir()
	dir := filepath.Join(projectRoot, ".grantdesk")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	custom := "# mine\n*.secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(custom), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api:\n  base_url: http://old\n"), 0o600))
	t.Setenv(config.EnvProjectDir, projectRoot)

	_, _, err := runCLI(t, "config", "init")
	require.Error(t, err, "existing config is not overwritten without --force")

	_, _, err = runCLI(t, "config", "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))

	raw, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	var written config.Config
	require.NoError(t, yaml.Unmarshal(raw, &written))
	assert.Equal(t, config.DefaultAPIURL, written.API.BaseURL)
}

// TestConfigInit_GlobalFlag verifies that --global writes to GRANTDESK_HOME
// even inside a project.
func TestConfigInit_GlobalFlag(t *testing.T) {
	home := setupCLITest(t)
	projectRoot := t.TempDir()
	t.Setenv(config.EnvProjectDir, projectRoot)

	out, _, err := runCLI(t, "config", "init", "--global")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")

	assert.FileExists(t, filepath.Join(home, "config.yaml"))
	assert.NoFileExists(t, filepath.Join(projectRoot, ".grantdesk", "config.yaml"))
}

// TestConfigInit_OutsideProject falls back to global init. The command is run
// directly to avoid resolving a project against the real working directory.
func TestConfigInit_OutsideProject(t *testing.T) {
	home := setupCLITest(t)

	cmd := cli.NewConfigInitCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Configuration initialized successfully")
	assert.FileExists(t, filepath.Join(home, "config.yaml"))
}

func TestConfigInit_ConflictingFlags(t *testing.T) {
	setupCLITest(t)

	_, _, err := runCLI(t, "config", "init", "--global", "--local")
	require.Error(t, err)
}

func TestConfigShow_RedactsToken(t *testing.T) {
	setupCLITest(t)

	out, _, err := runCLI(t, "config", "show", "--token", "super-secret", "--api-url", "http://grants.test/api")
	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://grants.test/api")
	assert.NotContains(t, out, "super-secret")
	assert.Contains(t, out, "********")

	out, _, err = runCLI(t, "config", "show", "--token", "super-secret", "--show-secrets")
	require.NoError(t, err)
	assert.Contains(t, out, "super-secret")
}

func TestConfigValidate(t *testing.T) {
	home := setupCLITest(t)

	out, _, err := runCLI(t, "config", "validate", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, filepath.Join(home, "config.yaml"))

	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("output:\n  default_format: xml\n"), 0o600))
	_, _, err = runCLI(t, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestConfig_ProjectOverlayTakesPrecedence(t *testing.T) {
	home := setupCLITest(t)
	projectRoot := t.TempDir()
	dir := filepath.Join(projectRoot, ".grantdesk")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("web:\n  addr: 127.0.0.1:9000\n  rate_limit_per_minute: 10\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("web:\n  addr: 127.0.0.1:9100\n"), 0o600))

	out, _, err := runCLI(t, "config", "show", "--project-dir", projectRoot)
	require.NoError(t, err)
	assert.Contains(t, out, "addr: 127.0.0.1:9100")
	assert.Contains(t, out, "rate_limit_per_minute: 0", "project sections replace global sections whole")
}
