// Package storage provides the object-store port used for pet avatars and
// its Supabase Storage adapter.
package storage

import "context"

// ObjectStore abstracts the external blob store. Keys are opaque paths
// within a single bucket; uploads overwrite silently.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error

	// PublicURL returns the stable public retrieval URL for a key.
	PublicURL(key string) string

	// KeyFromPublicURL recognizes URLs issued by this store by their
	// structural marker and extracts the storage key. Returns false for
	// URLs that did not come from this store.
	KeyFromPublicURL(url string) (string, bool)
}
