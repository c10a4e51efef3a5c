// Package kv is the byte-oriented key-value medium the progress store
// persists its snapshot into.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when key has never been set or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// KV is a generic byte store. Implementations must be safe for concurrent use.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
