package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL bounds and environment overrides.
const (
	DefaultTTLSeconds = 300
	MinTTLSeconds     = 1
	MaxTTLSeconds     = 86400

	EnvTTLSeconds   = "GRANTDESK_CACHE_TTL_SECONDS"
	EnvCacheEnabled = "GRANTDESK_CACHE_ENABLED"
	EnvCacheDir     = "GRANTDESK_CACHE_DIR"
)

// ErrInvalidTTL reports a TTL outside [MinTTLSeconds, MaxTTLSeconds].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %d and %d seconds", MinTTLSeconds, MaxTTLSeconds)

// ParseTTL accepts integer seconds ("300") or a Go duration ("5m").
func ParseTTL(s string) (int, error) {
	seconds, err := strconv.Atoi(s)
	if err != nil {
		d, durErr := time.ParseDuration(s)
		if durErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", durErr)
		}
		seconds = int(d.Seconds())
	}
	if seconds < MinTTLSeconds || seconds > MaxTTLSeconds {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
	}
	return seconds, nil
}

// TTLFromEnv returns the env TTL, or fallback when unset or invalid.
func TTLFromEnv(fallback int) int {
	v := os.Getenv(EnvTTLSeconds)
	if v == "" {
		return fallback
	}
	ttl, err := ParseTTL(v)
	if err != nil {
		return fallback
	}
	return ttl
}

// EnabledFromEnv returns the env enabled flag, or fallback when unset or unparsable.
func EnabledFromEnv(fallback bool) bool {
	v := os.Getenv(EnvCacheEnabled)
	if v == "" {
		return fallback
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return enabled
}
