// Package kv provides repository implementations on top of the KeyValueStore
// port. Complex values are serialized to JSON strings; scalar values use the
// store's typed accessors. Key names are part of the on-disk format and must
// not change between releases.
package kv

import (
	"encoding/json"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// Storage keys owned by HistoryRepository.
const (
	keyQueue        = "music_queue"
	keyCurrentSong  = "current_song"
	keyCurrentIndex = "current_index"
	keyPlayMode     = "play_mode"
)

// HistoryRepository persists the playback queue, cursor and play mode.
//
// Thread-safe: all operations protected by sync.RWMutex.
type HistoryRepository struct {
	store ports.KeyValueStore
	mu    sync.RWMutex
}

// NewHistoryRepository creates a new history repository on the given store.
func NewHistoryRepository(store ports.KeyValueStore) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// SaveQueue persists the current playback queue.
func (r *HistoryRepository) SaveQueue(songs []domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(songs)
	if err != nil {
		return domain.NewRepositoryError("save_queue", "history", "failed to marshal queue", err)
	}

	r.store.SetString(keyQueue, string(data))
	return nil
}

// LoadQueue retrieves the last saved queue. Absent or corrupt data yields an
// empty slice; a corrupt queue is not worth failing startup over.
func (r *HistoryRepository) LoadQueue() ([]domain.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(keyQueue)
	if data == "" {
		return []domain.Song{}, nil
	}

	var songs []domain.Song
	if err := json.Unmarshal([]byte(data), &songs); err != nil {
		return []domain.Song{}, nil
	}
	return songs, nil
}

// SaveCurrentSong persists the song at the cursor; nil clears it.
func (r *HistoryRepository) SaveCurrentSong(song *domain.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if song == nil {
		r.store.RemoveValue(keyCurrentSong)
		return nil
	}

	data, err := json.Marshal(song)
	if err != nil {
		return domain.NewRepositoryError("save_current_song", "history", "failed to marshal song", err)
	}

	r.store.SetString(keyCurrentSong, string(data))
	return nil
}

// LoadCurrentSong retrieves the saved current song, nil when absent.
func (r *HistoryRepository) LoadCurrentSong() (*domain.Song, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data := r.store.String(keyCurrentSong)
	if data == "" {
		return nil, nil
	}

	var song domain.Song
	if err := json.Unmarshal([]byte(data), &song); err != nil {
		return nil, nil
	}
	return &song, nil
}

// SaveCurrentIndex persists the cursor position.
func (r *HistoryRepository) SaveCurrentIndex(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store index+1 to distinguish "not set" (0) from "saved 0" (1),
	// since the store returns 0 for an absent key.
	r.store.SetInt(keyCurrentIndex, index+1)
	return nil
}

// LoadCurrentIndex retrieves the saved cursor, -1 when none was saved.
func (r *HistoryRepository) LoadCurrentIndex() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.store.Int(keyCurrentIndex)
	if stored == 0 {
		return -1, nil
	}
	return stored - 1, nil
}

// SavePlayMode persists the play mode.
func (r *HistoryRepository) SavePlayMode(mode domain.PlayMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.SetString(keyPlayMode, string(mode))
	return nil
}

// LoadPlayMode retrieves the saved play mode. Absent or unknown values fall
// back to normal.
func (r *HistoryRepository) LoadPlayMode() (domain.PlayMode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.ParsePlayMode(r.store.String(keyPlayMode)), nil
}

// Clear removes all saved history data.
func (r *HistoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.RemoveValue(keyQueue)
	r.store.RemoveValue(keyCurrentSong)
	r.store.RemoveValue(keyCurrentIndex)
	r.store.RemoveValue(keyPlayMode)
	return nil
}

// Verify interface implementation
var _ ports.HistoryRepository = (*HistoryRepository)(nil)
