// Package version exposes build metadata injected at link time.
package version

// Set via -ldflags "-X github.com/rshade/grantdesk/pkg/version.version=...".
var (
	version   = "dev"     //nolint:gochecknoglobals // Populated by the linker
	gitCommit = "unknown" //nolint:gochecknoglobals // Populated by the linker
)

// GetVersion returns the semantic version of the binary, or "dev" for local builds.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}
