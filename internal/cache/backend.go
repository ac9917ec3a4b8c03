// Package cache is the local key-value store that keeps the last known
// accounts, categories, session and theme between runs.
package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("cache is closed")

// Backend stores opaque values by key. Implementations provide no
// transactional guarantees across keys.
type Backend interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend named by kind ("sqlite" or "file") at path.
func Open(ctx context.Context, kind, path string) (Backend, error) {
	switch kind {
	case "sqlite", "":
		b, err := NewSQLiteBackend(path)
		if err != nil {
			return nil, err
		}
		if err := b.Migrate(ctx); err != nil {
			_ = b.Close()
			return nil, err
		}
		return b, nil
	case "file":
		return NewFileBackend(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", kind)
	}
}
