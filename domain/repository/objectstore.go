package repository

import (
	"context"
	"io"
)

// IObjectStore is the opaque blob store for raw uploads and thumbnails.
// Append and delete only; blobs are never mutated in place.
type IObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
}
