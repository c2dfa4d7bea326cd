package service

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// PlaylistService manages user-created playlists. The whole collection is
// persisted after every mutation.
//
// All operations are thread-safe via sync.RWMutex.
type PlaylistService struct {
	// Dependencies (injected)
	logger *slog.Logger
	repo   ports.PlaylistRepository
	bus    ports.EventBus

	// State
	playlists []domain.Playlist
	mu        sync.RWMutex
}

// NewPlaylistService creates a playlist service and loads the persisted
// collection.
func NewPlaylistService(logger *slog.Logger, repo ports.PlaylistRepository, bus ports.EventBus) *PlaylistService {
	s := &PlaylistService{
		logger: logger,
		repo:   repo,
		bus:    bus,
	}

	playlists, err := repo.LoadAll()
	if err != nil {
		logger.Warn("failed to load playlists", slog.Any("error", err))
		playlists = nil
	}
	s.playlists = playlists

	logger.Debug("playlists loaded", slog.Int("count", len(playlists)))
	return s
}

// Create adds a new empty playlist and returns its id. Names are trimmed;
// an empty-after-trim name is rejected with ErrEmptyPlaylistName.
func (s *PlaylistService) Create(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyPlaylistName
	}

	playlist := domain.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.playlists = append(s.playlists, playlist)
	s.persistLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info("playlist created", slog.String("id", playlist.ID), slog.String("name", name))
	s.bus.Publish(domain.NewPlaylistsChangedEvent(snapshot))

	return playlist.ID, nil
}

// Delete removes a playlist. Unknown ids are a silent no-op.
func (s *PlaylistService) Delete(id string) {
	s.mu.Lock()

	found := false
	for i, p := range s.playlists {
		if p.ID == id {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			found = true
			break
		}
	}

	if !found {
		s.mu.Unlock()
		return
	}

	s.persistLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaylistsChangedEvent(snapshot))
}

// AddSong appends a song to a playlist, deduplicating by song id within that
// playlist. Returns ErrPlaylistNotFound for unknown playlist ids.
func (s *PlaylistService) AddSong(playlistID string, song domain.Song) error {
	s.mu.Lock()

	index := -1
	for i, p := range s.playlists {
		if p.ID == playlistID {
			index = i
			break
		}
	}
	if index == -1 {
		s.mu.Unlock()
		return domain.ErrPlaylistNotFound
	}

	if s.playlists[index].Contains(song.ID) {
		s.mu.Unlock()
		return nil
	}

	s.playlists[index].Songs = append(s.playlists[index].Songs, song)
	s.persistLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaylistsChangedEvent(snapshot))
	return nil
}

// RemoveSong removes a song from a playlist. Unknown playlist or song ids
// are a silent no-op.
func (s *PlaylistService) RemoveSong(playlistID, songID string) {
	s.mu.Lock()

	changed := false
	for i, p := range s.playlists {
		if p.ID != playlistID {
			continue
		}
		for j, song := range p.Songs {
			if song.ID == songID {
				s.playlists[i].Songs = append(p.Songs[:j], p.Songs[j+1:]...)
				changed = true
				break
			}
		}
		break
	}

	if !changed {
		s.mu.Unlock()
		return
	}

	s.persistLocked()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaylistsChangedEvent(snapshot))
}

// List returns all playlists in creation order.
func (s *PlaylistService) List() []domain.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get returns a playlist by id.
func (s *PlaylistService) Get(id string) (domain.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Playlist{}, domain.ErrPlaylistNotFound
}

// persistLocked saves the whole collection. Caller must hold the write lock.
func (s *PlaylistService) persistLocked() {
	if err := s.repo.SaveAll(s.playlists); err != nil {
		s.logger.Warn("failed to persist playlists", slog.Any("error", err))
	}
}

// snapshotLocked copies the collection. Caller must hold a lock.
func (s *PlaylistService) snapshotLocked() []domain.Playlist {
	out := make([]domain.Playlist, len(s.playlists))
	copy(out, s.playlists)
	return out
}
