// Package blob stores opaque archive objects under slash-separated keys.
package blob

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound   = errors.New("blob: not found")
	ErrInvalidKey = errors.New("blob: invalid key")
)

type BlobStore interface {
	// Put writes content under key, replacing any previous object.
	Put(ctx context.Context, key string, reader io.Reader) error

	// Get opens the object at key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns every key under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object at key.
	Delete(ctx context.Context, key string) error
}
