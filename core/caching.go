package core

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/huangsam/birkin/internal/contract"
	"github.com/huangsam/birkin/schema"
)

// currentCacheVersion defines the version of the snapshot encoding
const currentCacheVersion = 1

// SnapshotKey is the store key holding the cached envelope.
const SnapshotKey = "birkinData"

// storeEnvelopeCache keeps the envelope in a key/value CacheStore.
type storeEnvelopeCache struct {
	store contract.CacheStore
	now   func() time.Time
}

// NewStoreEnvelopeCache wraps a CacheStore as an EnvelopeCache.
func NewStoreEnvelopeCache(store contract.CacheStore) contract.EnvelopeCache {
	return &storeEnvelopeCache{store: store, now: time.Now}
}

// Get returns the stored envelope. Read errors, version mismatches and
// undecodable payloads all count as a miss.
func (c *storeEnvelopeCache) Get() (*schema.CacheEnvelope, bool) {
	data, version, _, err := c.store.Get(SnapshotKey)
	if err != nil {
		return nil, false // Cache miss
	}
	if version != currentCacheVersion {
		contract.Logger.Debug().Int("version", version).Msg("Ignoring snapshot with old version")
		return nil, false
	}
	var env schema.CacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		contract.Logger.Warn().Err(err).Msg("Ignoring malformed snapshot")
		return nil, false
	}
	return &env, true
}

// Set overwrites the envelope in one write.
func (c *storeEnvelopeCache) Set(env schema.CacheEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.store.Set(SnapshotKey, data, currentCacheVersion, c.now().Unix())
}

// MemoryEnvelopeCache holds the envelope for the life of the process.
// It backs the "none" cache backend and test fakes.
type MemoryEnvelopeCache struct {
	mu  sync.RWMutex
	env *schema.CacheEnvelope
}

// NewMemoryEnvelopeCache returns an empty in-process cache.
func NewMemoryEnvelopeCache() *MemoryEnvelopeCache {
	return &MemoryEnvelopeCache{}
}

// Get returns a deep copy of the stored envelope.
func (c *MemoryEnvelopeCache) Get() (*schema.CacheEnvelope, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.env == nil {
		return nil, false
	}
	return &schema.CacheEnvelope{Data: c.env.Data.Clone(), LastUpdated: c.env.LastUpdated}, true
}

// Set replaces the stored envelope with a deep copy of env.
func (c *MemoryEnvelopeCache) Set(env schema.CacheEnvelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.env = &schema.CacheEnvelope{Data: env.Data.Clone(), LastUpdated: env.LastUpdated}
	return nil
}

// envelopeCacheFor picks the durable cache when a snapshot store is configured.
func envelopeCacheFor(mgr contract.CacheManager) contract.EnvelopeCache {
	if mgr != nil {
		if store := mgr.GetSnapshotStore(); store != nil {
			return NewStoreEnvelopeCache(store)
		}
	}
	return NewMemoryEnvelopeCache()
}
