package kv

import (
	"encoding/json"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// Storage keys owned by FavoritesRepository. The id list and the full song
// records live under separate keys; the id list is the membership source of
// truth, the records exist so favorites render offline.
const (
	keyFavoriteIDs   = "favorite_songs"
	keyFavoriteSongs = "favorite_songs_data"
)

// FavoritesRepository persists the favorite set.
//
// Thread-safe: all operations protected by sync.RWMutex.
type FavoritesRepository struct {
	store ports.KeyValueStore
	mu    sync.RWMutex
}

// NewFavoritesRepository creates a new favorites repository on the given store.
func NewFavoritesRepository(store ports.KeyValueStore) *FavoritesRepository {
	return &FavoritesRepository{store: store}
}

// SaveIDs persists the favorite song id list.
func (r *FavoritesRepository) SaveIDs(ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(ids)
	if err != nil {
		return domain.NewRepositoryError("save_ids", "favorites", "failed to marshal ids", err)
	}

	r.store.SetString(keyFavoriteIDs, string(data))
	return nil
}

// LoadIDs retrieves the saved id list, empty when absent or corrupt.
func (r *FavoritesRepository) LoadIDs() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(keyFavoriteIDs)
	if data == "" {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(data), &ids); err != nil {
		return []string{}, nil
	}
	return ids, nil
}

// SaveSongs persists the full favorite song records.
func (r *FavoritesRepository) SaveSongs(songs []domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(songs)
	if err != nil {
		return domain.NewRepositoryError("save_songs", "favorites", "failed to marshal songs", err)
	}

	r.store.SetString(keyFavoriteSongs, string(data))
	return nil
}

// LoadSongs retrieves the saved records, empty when absent or corrupt.
func (r *FavoritesRepository) LoadSongs() ([]domain.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(keyFavoriteSongs)
	if data == "" {
		return []domain.Song{}, nil
	}

	var songs []domain.Song
	if err := json.Unmarshal([]byte(data), &songs); err != nil {
		return []domain.Song{}, nil
	}
	return songs, nil
}

// Verify interface implementation
var _ ports.FavoritesRepository = (*FavoritesRepository)(nil)
