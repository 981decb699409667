// Package store is an opaque key-value cache for small blobs such as the
// visitor's saved spending input.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// KeyUserSpending holds the visitor's saved Input blob.
const KeyUserSpending = "userSpendingData"

// VisitedPrefix marks factor views the visitor has opened.
const VisitedPrefix = "visited_"

// ErrNotFound is returned by Get and Delete for absent keys.
var ErrNotFound = errors.New("key not found")

// Store is a blob cache. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, blob []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open returns the Store for driver rooted at path.
func Open(driver, path string, log logrus.FieldLogger) (Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverFile:
		s, err := OpenFile(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite, "sqlite3":
		s, err := OpenSQLite(path, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q (use %s or %s)", driver, DriverFile, DriverSQLite)
	}
}

// ClearPrefix deletes every key starting with prefix and returns how many
// were removed.
func ClearPrefix(ctx context.Context, s Store, prefix string) (int, error) {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil && !errors.Is(err, ErrNotFound) {
			return n, fmt.Errorf("delete %s: %w", k, err)
		}
		n++
	}
	return n, nil
}
