package storage

import "context"

// Store is durable object storage keyed by path. Put returns a retrievable
// reference (a URL or URL path) for the stored object.
type Store interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
}
