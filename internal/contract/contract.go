// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/abtrend/schema"
)

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSeriesStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking PNG exports.
type HistoryStore interface {
	// RecordExport stores one export attempt, successful or not
	RecordExport(record schema.ExportRecord) error

	// ListExports returns the most recent exports, newest first. A limit <= 0 returns all.
	ListExports(limit int) ([]schema.ExportRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
