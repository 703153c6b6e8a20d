// Package store holds the durable key/value backends the cache layer sits on.
package store

import (
	"fmt"
	"strings"
)

// Store is a string key/value map. Values are opaque to the store; the cache
// layer owns their encoding.
type Store interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
	// Keys lists keys starting with prefix, sorted.
	Keys(prefix string) ([]string, error)
	Close() error
}

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Open returns the backend named by driver. path is only used by sqlite.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
