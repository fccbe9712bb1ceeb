// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/birkin/schema"
)

// PriceSource fetches the full pricing dataset from the upstream provider.
// Implementations never return an error; failures are carried in the result.
type PriceSource interface {
	Fetch(ctx context.Context) schema.FetchResult
}

// EnvelopeCache is the durable home of the single cached snapshot.
type EnvelopeCache interface {
	// Get returns the stored envelope. Absent or unreadable state reports false.
	Get() (*schema.CacheEnvelope, bool)

	// Set overwrites the stored envelope as one unit.
	Set(envelope schema.CacheEnvelope) error
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
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

// HistoryStore records every network fetch for later export.
type HistoryStore interface {
	// RecordFetch stores the run metadata and every point of the dataset, returning the run ID.
	RecordFetch(fetchedAt time.Time, day string, result schema.FetchResult) (int64, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllFetchRuns returns every recorded run, oldest first
	GetAllFetchRuns() ([]schema.FetchRunRecord, error)

	// GetAllPricePoints returns every recorded point ordered by run and series
	GetAllPricePoints() ([]schema.PricePointRecord, error)

	// Close closes the underlying connection
	Close() error
}

// LeadSubmitter posts a consultation lead to the form backend.
type LeadSubmitter interface {
	Submit(ctx context.Context, req schema.ConsultRequest, imageURL string) error
}

// ImageUploader pushes a local image to the media host and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Notifier forwards an accepted lead to the advisor inbox.
type Notifier interface {
	Notify(ctx context.Context, req schema.ConsultRequest, imageURL string) error
}
