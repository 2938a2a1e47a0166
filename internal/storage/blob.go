// Package storage keeps generated binary assets, such as synthesized audio,
// so they are produced once.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get for keys that were never stored.
var ErrNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
