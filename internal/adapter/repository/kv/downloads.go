package kv

import (
	"encoding/json"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// keyDownloads holds the ids of songs believed to have a local copy.
const keyDownloads = "downloaded_songs"

// DownloadsRepository persists the downloaded id set.
//
// Thread-safe: all operations protected by sync.RWMutex.
type DownloadsRepository struct {
	store ports.KeyValueStore
	mu    sync.RWMutex
}

// NewDownloadsRepository creates a new downloads repository on the given store.
func NewDownloadsRepository(store ports.KeyValueStore) *DownloadsRepository {
	return &DownloadsRepository{store: store}
}

// SaveIDs persists the downloaded song id list.
func (r *DownloadsRepository) SaveIDs(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(ids)
	if err != nil {
		return domain.NewRepositoryError("save_ids", "downloads", "failed to marshal ids", err)
	}

	r.store.SetString(keyDownloads, string(data))
	return nil
}

// LoadIDs retrieves the saved id list, empty when absent or corrupt.
func (r *DownloadsRepository) LoadIDs() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(keyDownloads)
	if data == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return []string{}, nil
	}
	return ids, nil
}

// Verify interface implementation
var _ ports.DownloadsRepository = (*DownloadsRepository)(nil)
