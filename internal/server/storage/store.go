package storage

import "path/filepath"

// Store is an immutable value carrying the validated storage root. It is
// constructed once at startup and shared read-only by all ingestions.
type Store struct {
	root string
}

// NewStore wraps an already validated root directory (see ValidateRoot).
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the validated storage root.
func (s *Store) Root() string {
	return s.root
}

// Dest composes the destination path for a stored file: the owner namespace
// subdirectory under the root, then the generated filename.
func (s *Store) Dest(namespace, storedName string) string {
	return filepath.Join(s.root, namespace, storedName)
}
