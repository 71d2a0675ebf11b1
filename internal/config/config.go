// Package config loads grantdesk settings from ~/.grantdesk/config.yaml, an
// optional project overlay, .env files, and GRANTDESK_* environment variables,
// in that order of increasing precedence. CLI flags are applied last by the
// cli package.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rshade/grantdesk/internal/cache"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvHome         = "GRANTDESK_HOME"
	EnvAPIURL       = "GRANTDESK_API_URL"
	EnvAPIToken     = "GRANTDESK_API_TOKEN"
	EnvAPITimeout   = "GRANTDESK_API_TIMEOUT_SECONDS"
	EnvLogLevel     = "GRANTDESK_LOG_LEVEL"
	EnvLogFormat    = "GRANTDESK_LOG_FORMAT"
	EnvOutputFormat = "GRANTDESK_OUTPUT_FORMAT"
	EnvWebAddr      = "GRANTDESK_WEB_ADDR"
)

// Defaults.
const (
	DefaultAPIURL              = "http://localhost:8000/api"
	DefaultTimeoutSeconds      = 30
	DefaultOutputFormat        = "table"
	DefaultWebAddr             = "127.0.0.1:8088"
	DefaultRateLimitPerMinute  = 120
	DefaultPollIntervalSeconds = 30
	DefaultPageSize            = 50

	configFileName = "config.yaml"
	homeDirName    = ".grantdesk"
)

// Config is the full grantdesk configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Output        OutputConfig        `yaml:"output"`
	Logging       LoggingConfig       `yaml:"logging"`
	Cache         CacheConfig         `yaml:"cache"`
	Web           WebConfig           `yaml:"web"`
	Notifications NotificationsConfig `yaml:"notifications"`

	path string
}

// APIConfig points at the grant backend.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"        validate:"required,url"`
	Token          string `yaml:"token,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0,lte=600"`
}

// OutputConfig controls non-interactive rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" validate:"oneof=table json"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"  validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
	File   string `yaml:"file,omitempty"`
}

// CacheConfig controls the request read-through cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds" validate:"gte=0,lte=86400"`
}

// WebConfig controls `grantdesk serve`.
type WebConfig struct {
	Addr               string `yaml:"addr"                  validate:"required"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" validate:"gte=0"`
}

// NotificationsConfig controls inbox listing and polling.
type NotificationsConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds" validate:"gte=1"`
	PageSize            int `yaml:"page_size"             validate:"gte=1,lte=500"`
}

// Default returns a Config populated with built-in defaults only.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        DefaultAPIURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Output:  OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Cache: CacheConfig{
			Enabled:    false,
			Directory:  filepath.Join(HomeDir(), "cache"),
			TTLSeconds: cache.DefaultTTLSeconds,
		},
		Web: WebConfig{
			Addr:               DefaultWebAddr,
			RateLimitPerMinute: DefaultRateLimitPerMinute,
		},
		Notifications: NotificationsConfig{
			PollIntervalSeconds: DefaultPollIntervalSeconds,
			PageSize:            DefaultPageSize,
		},
		path: filepath.Join(HomeDir(), configFileName),
	}
}

// New builds the effective configuration: defaults, then the user config file
// if present, then environment overrides. A malformed config file is ignored
// in favor of defaults so that `grantdesk config init` can still run.
func New() *Config {
	cfg := Default()
	if err := cfg.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: ignoring config file %s: %v\n", cfg.path, err)
	}
	cfg.applyEnvOverrides()
	return cfg
}

// HomeDir returns the grantdesk state directory ($GRANTDESK_HOME or ~/.grantdesk).
func HomeDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	return filepath.Join(home, homeDirName)
}

// Path returns the file this config loads from and saves to.
func (c *Config) Path() string {
	return c.path
}

// SetPath changes the file used by Load and Save.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Load reads the YAML file at c.Path() over the current values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", c.path, err)
	}
	return nil
}

// Save writes the config to c.Path(), creating the directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", c.path, err)
	}
	return nil
}

// Validate checks every section's constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.API.Token = v
	}
	if v := os.Getenv(EnvAPITimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = strings.ToLower(v)
	}
	if v := os.Getenv(EnvWebAddr); v != "" {
		c.Web.Addr = v
	}
	if v := os.Getenv(cache.EnvCacheDir); v != "" {
		c.Cache.Directory = v
	}
	c.Cache.Enabled = cache.EnabledFromEnv(c.Cache.Enabled)
	c.Cache.TTLSeconds = cache.TTLFromEnv(c.Cache.TTLSeconds)
}
