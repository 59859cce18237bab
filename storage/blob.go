package storage

import (
	"context"
	"io"
)

// BlobStore is the external image storage collaborator. Uploads happen
// outside any database transaction, so callers pair every successful
// Upload with a Delete when the surrounding operation fails. Delete must
// tolerate URLs that were never stored.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}
