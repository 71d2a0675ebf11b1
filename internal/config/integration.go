package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GlobalConfig holds the process-wide configuration instance.
var GlobalConfig *Config        //nolint:gochecknoglobals // Singleton pattern for configuration
var globalConfigMu sync.RWMutex //nolint:gochecknoglobals // Protects GlobalConfig
var globalConfigInit bool       //nolint:gochecknoglobals // Tracks if global config has been initialized
var resolvedProjectDir string   //nolint:gochecknoglobals // Set once per invocation by the root command

// InitGlobalConfig loads the global configuration once.
func InitGlobalConfig() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	if globalConfigInit {
		return
	}

	GlobalConfig = New()
	globalConfigInit = true
}

// SetGlobalConfig replaces the global configuration, typically with one
// returned by NewWithProjectDir.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = cfg
	globalConfigInit = cfg != nil
}

// ResetGlobalConfigForTest resets the global config for testing purposes.
func ResetGlobalConfigForTest() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()

	GlobalConfig = nil
	globalConfigInit = false
}

// GetGlobalConfig returns the global configuration, initializing it if needed.
func GetGlobalConfig() *Config {
	InitGlobalConfig()
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return GlobalConfig
}

// GetDefaultOutputFormat returns the configured default output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// GetOutputFormat returns flagValue when set, otherwise the configured default.
func GetOutputFormat(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return GetDefaultOutputFormat()
}

// SetResolvedProjectDir records the project directory chosen at startup.
func SetResolvedProjectDir(dir string) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the project directory chosen at startup, or "".
func GetResolvedProjectDir() string {
	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return resolvedProjectDir
}

// GetAPITimeout returns the configured backend request timeout.
func GetAPITimeout() time.Duration {
	return time.Duration(GetGlobalConfig().API.TimeoutSeconds) * time.Second
}

// GetPollInterval returns the unread-count polling interval.
func GetPollInterval() time.Duration {
	return time.Duration(GetGlobalConfig().Notifications.PollIntervalSeconds) * time.Second
}

// GetCacheTTL returns the request cache TTL.
func GetCacheTTL() time.Duration {
	return time.Duration(GetGlobalConfig().Cache.TTLSeconds) * time.Second
}

// EnsureConfigDir creates the grantdesk home directory.
func EnsureConfigDir() error {
	dir := HomeDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory %q: %w", dir, err)
	}
	return nil
}

// EnsureLogDir creates the parent directory of the configured log file, if any.
func EnsureLogDir() error {
	file := GetGlobalConfig().Logging.File
	if file == "" {
		return nil
	}
	logDir := filepath.Dir(file)
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
