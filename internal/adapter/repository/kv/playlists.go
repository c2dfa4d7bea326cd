package kv

import (
	"encoding/json"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// keyPlaylists holds the complete playlist collection as one JSON document.
// Every mutation rewrites the whole collection.
const keyPlaylists = "playlists"

// PlaylistRepository persists user playlists.
//
// Thread-safe: all operations protected by sync.RWMutex.
type PlaylistRepository struct {
	store ports.KeyValueStore
	mu    sync.RWMutex
}

// NewPlaylistRepository creates a new playlist repository on the given store.
func NewPlaylistRepository(store ports.KeyValueStore) *PlaylistRepository {
	return &PlaylistRepository{store: store}
}

// SaveAll persists the complete playlist collection.
func (r *PlaylistRepository) SaveAll(playlists []domain.Playlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(playlists)
	if err != nil {
		return domain.NewRepositoryError("save_all", "playlists", "failed to marshal playlists", err)
	}

	r.store.SetString(keyPlaylists, string(data))
	return nil
}

// LoadAll retrieves all saved playlists, empty when absent or corrupt.
func (r *PlaylistRepository) LoadAll() ([]domain.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(keyPlaylists)
	if data == "" {
		return []domain.Playlist{}, nil
	}

	var playlists []domain.Playlist
	if err := json.Unmarshal([]byte(data), &playlists); err != nil {
		return []domain.Playlist{}, nil
	}
	return playlists, nil
}

// Verify interface implementation
var _ ports.PlaylistRepository = (*PlaylistRepository)(nil)
