package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// gitignoreContent keeps secrets and logs in a project .grantdesk/ directory
// out of version control. config.yaml itself is tracked.
const gitignoreContent = `# grantdesk project-local data (auto-generated)
.env
*.log
cache/
`

// GitignoreContent returns the .gitignore written by EnsureGitignore.
func GitignoreContent() string {
	return gitignoreContent
}

// EnsureGitignore writes dir/.gitignore unless one already exists. It reports
// whether a file was created and never overwrites.
func EnsureGitignore(dir string) (bool, error) {
	path := filepath.Join(dir, ".gitignore")

	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking .gitignore at %s: %w", path, err)
	}

	if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
		return false, fmt.Errorf("creating directory %s: %w", dir, mkdirErr)
	}
	//nolint:gosec // .gitignore must be world-readable.
	if writeErr := os.WriteFile(path, []byte(gitignoreContent), 0o644); writeErr != nil {
		return false, fmt.Errorf("writing .gitignore at %s: %w", path, writeErr)
	}
	return true, nil
}
