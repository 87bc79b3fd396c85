// Package storage owns the on-disk layout of the vault: validation of the
// configured storage root and generation of collision-resistant stored
// filenames. The validated root is computed once at startup and injected
// into the services that need it.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/drivault/internal/common"
	"github.com/google/uuid"
)

// DefaultRoot is used when no storage path is configured.
const DefaultRoot = "./uploads"

// deniedPrefixes lists system directories that must never hold user uploads.
var deniedPrefixes = []string{
	"/usr", "/bin", "/sbin", "/etc", "/sys", "/proc", "/boot", "/dev", "/lib", "/lib64",
}

// allowedRootChildren are the only direct children of the filesystem root
// that are acceptable as a storage location.
var allowedRootChildren = map[string]struct{}{
	"/tmp":     {},
	"/var/tmp": {},
}

// ValidateRoot normalizes and validates the configured storage directory.
//
// A blank candidate is replaced with fallback. Surrounding quote characters
// (which survive .env-style configuration) are stripped, "~" is expanded and
// the path is resolved to an absolute, symlink-free form. Paths equal to or
// nested under a system directory, or sitting directly under the filesystem
// root, fall back to the default instead of failing. The directory tree is
// then created and write access is probed with a uniquely named marker file
// that is removed afterwards.
//
// A directory-creation or probe failure returns common.ErrStorageConfig;
// these are fatal at startup. The function is idempotent and leaves no probe
// residue behind.
func ValidateRoot(candidate, fallback string) (string, error) {
	path := strings.TrimSpace(candidate)
	if path == "" {
		path = fallback
	}

	// .env files often leave quotes around values.
	path = strings.Trim(path, `"'`)

	abs, err := resolve(path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve %q: %v", common.ErrStorageConfig, path, err)
	}

	if isSystemPath(abs) {
		abs, err = resolve(fallback)
		if err != nil {
			return "", fmt.Errorf("%w: cannot resolve fallback %q: %v", common.ErrStorageConfig, fallback, err)
		}
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("%w: cannot create storage directory %s: %v", common.ErrStorageConfig, abs, err)
	}

	if err := probeWrite(abs); err != nil {
		return "", fmt.Errorf("%w: storage directory %s is not writable: %v", common.ErrStorageConfig, abs, err)
	}

	return abs, nil
}

// resolve expands a leading "~", makes the path absolute and resolves
// symlinks. A path that does not exist yet is kept in its absolute form so
// it can be created afterwards.
func resolve(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	return abs, nil
}

// isSystemPath reports whether path is the filesystem root, a direct child
// of it other than the allowed temp roots, or equal to/nested under one of
// the denied system prefixes.
func isSystemPath(path string) bool {
	lower := strings.ToLower(path)

	for _, prefix := range deniedPrefixes {
		if lower == prefix || strings.HasPrefix(lower, prefix+"/") {
			return true
		}
	}

	if filepath.Dir(lower) == "/" {
		_, ok := allowedRootChildren[lower]
		return !ok
	}

	return false
}

// probeWrite creates and removes a uniquely named marker file inside dir.
// A failed removal counts as a probe failure, not a crash.
func probeWrite(dir string) error {
	marker := filepath.Join(dir, ".write_test_"+uuid.NewString())

	f, err := os.Create(marker)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(marker)
		return err
	}

	return os.Remove(marker)
}
