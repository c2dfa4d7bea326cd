package service

import (
	"log/slog"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// FavoritesService manages the user's favorite songs. It keeps an id set for
// membership checks and a parallel record list so favorites render without
// re-fetching; the two are always mutated together.
//
// All operations are thread-safe via sync.RWMutex.
type FavoritesService struct {
	// Dependencies (injected)
	logger *slog.Logger
	repo   ports.FavoritesRepository
	bus    ports.EventBus

	// State
	ids   map[string]struct{}
	songs []domain.Song
	mu    sync.RWMutex
}

// NewFavoritesService creates a favorites service and loads the persisted
// favorite set.
func NewFavoritesService(logger *slog.Logger, repo ports.FavoritesRepository, bus ports.EventBus) *FavoritesService {
	s := &FavoritesService{
		logger: logger,
		repo:   repo,
		bus:    bus,
		ids:    make(map[string]struct{}),
	}

	s.load()
	return s
}

// load restores the persisted set, repairing any id/record drift by treating
// the record list as the source of truth for records and dropping ids that
// have no record.
func (s *FavoritesService) load() {
	ids, err := s.repo.LoadIDs()
	if err != nil {
		s.logger.Warn("failed to load favorite ids", slog.Any("error", err))
	}

	songs, err := s.repo.LoadSongs()
	if err != nil {
		s.logger.Warn("failed to load favorite songs", slog.Any("error", err))
	}

	byID := make(map[string]domain.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = make(map[string]struct{}, len(ids))
	s.songs = make([]domain.Song, 0, len(ids))
	for _, id := range ids {
		song, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := s.ids[id]; dup {
			continue
		}
		s.ids[id] = struct{}{}
		s.songs = append(s.songs, song)
	}

	s.logger.Debug("favorites loaded", slog.Int("count", len(s.songs)))
}

// Toggle adds the song if absent, removes it if present, and returns whether
// the song is a favorite afterwards. Both the id list and record list are
// persisted before Toggle returns.
func (s *FavoritesService) Toggle(song domain.Song) bool {
	s.mu.Lock()

	_, present := s.ids[song.ID]
	if present {
		delete(s.ids, song.ID)
		for i, existing := range s.songs {
			if existing.ID == song.ID {
				s.songs = append(s.songs[:i], s.songs[i+1:]...)
				break
			}
		}
	} else {
		s.ids[song.ID] = struct{}{}
		s.songs = append(s.songs, song)
	}

	s.persistLocked()
	favorited := !present
	count := len(s.songs)
	s.mu.Unlock()

	s.bus.Publish(domain.NewFavoritesChangedEvent(song, favorited, count))
	return favorited
}

// IsFavorite reports whether the song id is in the favorite set.
func (s *FavoritesService) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ids[id]
	return ok
}

// List returns the favorite songs in the order they were added.
func (s *FavoritesService) List() []domain.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Song, len(s.songs))
	copy(out, s.songs)
	return out
}

// Count returns the number of favorites.
func (s *FavoritesService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.songs)
}

// persistLocked writes both keys. Caller must hold the write lock. Failures
// are logged; in-memory state stays authoritative.
func (s *FavoritesService) persistLocked() {
	ids := make([]string, len(s.songs))
	for i, song := range s.songs {
		ids[i] = song.ID
	}

	if err := s.repo.SaveIDs(ids); err != nil {
		s.logger.Warn("failed to persist favorite ids", slog.Any("error", err))
	}
	if err := s.repo.SaveSongs(s.songs); err != nil {
		s.logger.Warn("failed to persist favorite songs", slog.Any("error", err))
	}
}
