// Package storage defines the vault file-system abstraction.
//
// The graph engine treats the vault as a read-only collection of notes;
// Write exists so that fixtures, tests, and external tooling can populate
// a vault through the same traversal-safe path handling.
package storage

import "github.com/starford/othala/internal/models"

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to vault root).
	List(dir string) ([]models.NoteMetadata, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to vault root).
	Write(path string, content []byte) error
}
