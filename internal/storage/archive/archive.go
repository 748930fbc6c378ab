// Package archive stores finished run reports so the plotting consumer
// and later inspection can read them back.
package archive

import "context"

// Storage is the archive backend for run reports
type Storage interface {
	// Write stores data at the given path
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)
}
