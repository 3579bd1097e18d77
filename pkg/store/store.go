// Package store persists encoded workspace documents by name.
//
// # Backends
//
//   - [FileStore]: one file per workspace under a directory, for the CLI
//   - [MemoryStore]: in-process map, for tests and ephemeral servers
//   - [MongoStore]: a MongoDB collection, for shared API deployments
//
// Stores deal in opaque bytes; encoding is the job of package io.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a workspace does not exist.
	ErrNotFound = errors.New("workspace not found")

	// ErrInvalidName is returned for names that are empty or could escape
	// the store's namespace.
	ErrInvalidName = errors.New("invalid workspace name")
)

// Store is the interface for workspace document backends.
type Store interface {
	// Get returns the stored document or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put creates or replaces a document.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a document. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all stored names, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend.
	Close() error
}

// ValidateName checks that name is usable as a workspace name.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.Contains(name, ".."):
		return fmt.Errorf("%w: %q contains ..", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	return nil
}
