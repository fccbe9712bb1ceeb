// Package iocache persists the daily pricing snapshot and the fetch history.
package iocache

import (
	"sync"

	"github.com/huangsam/birkin/internal/contract"
)

// StoreManager manages the snapshot and history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshot     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetSnapshotStore returns the snapshot CacheStore, or nil when caching is not initialized.
func (mgr *StoreManager) GetSnapshotStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}

// GetHistoryStore returns the HistoryStore, or nil when history tracking is disabled.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
