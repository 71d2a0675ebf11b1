package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ResourceKey derives a stable key for a backend resource. baseURL is folded
// in so two backends never share entries.
func ResourceKey(baseURL string, pathSegments ...string) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimRight(strings.ToLower(baseURL), "/")))
	for _, seg := range pathSegments {
		h.Write([]byte{0})
		h.Write([]byte(seg))
	}
	return hex.EncodeToString(h.Sum(nil))
}
