// Package storage defines the object-store port the export renderer
// persists documents through.
package storage

import "context"

// Store puts rendered documents under a key and returns a URL clients
// can fetch them from.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
