package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateRepo validates a source's remote identifier.
// Any non-empty URL or local path git can fetch from is accepted.
func ValidateRepo(repo string) error {
	if strings.TrimSpace(repo) == "" {
		return New(ErrCodeInvalidSource, "'repo' missing")
	}
	if hasControl(repo) {
		return New(ErrCodeInvalidSource, "'repo' contains invalid control characters")
	}
	return nil
}

// ValidateDir validates a source's working-copy directory.
//
// Validation rules:
//   - Directory cannot be empty
//   - No null bytes or control characters
//   - Must be relative to the dependency-storage directory
func ValidateDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return New(ErrCodeInvalidSource, "'dir' missing")
	}
	if hasControl(dir) {
		return New(ErrCodeInvalidSource, "'dir' contains invalid control characters")
	}
	if filepath.IsAbs(dir) {
		return New(ErrCodeInvalidSource, "'dir' must be relative: %s", dir)
	}
	return nil
}

// ValidateLink validates an optional link alias. Empty means no link.
// Links may point outside the project root (e.g. "../shared"), so only the
// characters are checked.
func ValidateLink(link string) error {
	if link == "" {
		return nil
	}
	if hasControl(link) {
		return New(ErrCodeInvalidSource, "'link' contains invalid control characters")
	}
	if filepath.IsAbs(link) {
		return New(ErrCodeInvalidSource, "'link' must be relative: %s", link)
	}
	return nil
}

// ValidateLocation validates a config's dependency-storage directory name.
func ValidateLocation(location string) error {
	if strings.TrimSpace(location) == "" {
		return New(ErrCodeInvalidConfig, "'location' cannot be empty")
	}
	if hasControl(location) {
		return New(ErrCodeInvalidConfig, "'location' contains invalid control characters")
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if r == '\x00' || unicode.IsControl(r) {
			return true
		}
	}
	return false
}
