// Package store is the flat key/value persistence layer shared by every
// repository. Keys are namespaced by an entity prefix such as "booking:" and
// values are JSON documents.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type TxFunc func(ctx context.Context) error

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// GetByPrefix returns the values of every key starting with prefix,
	// ordered by key.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	// CompareAndSet writes value only if the current value equals expected.
	// A nil expected means the key must not exist yet.
	CompareAndSet(ctx context.Context, key string, expected, value []byte) (bool, error)
	// WithTransaction runs fn so that its writes commit or fail together when
	// the driver supports it. Drivers without transactions just call fn.
	WithTransaction(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
