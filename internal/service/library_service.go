package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// suggestedSliceSize caps each half of the Suggested tab: recently queued
// songs and recently searched songs.
const suggestedSliceSize = 10

// LibraryService fronts the remote catalog for the UI: paged search, artist
// pages and the "suggested" tab. Suggestions are a local re-slice of songs
// the user has already seen, not a ranking.
//
// All operations are thread-safe via sync.RWMutex.
type LibraryService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	catalog  ports.CatalogClient
	pageSize int

	// State: the most recent search results, kept for Suggested.
	lastQuery   string
	lastResults []domain.Song
	mu          sync.RWMutex
}

// NewLibraryService creates a library service. pageSize is the search page
// size; a page with exactly pageSize results is assumed to have more after it.
func NewLibraryService(logger *slog.Logger, catalog ports.CatalogClient, pageSize int) *LibraryService {
	return &LibraryService{
		logger:   logger,
		catalog:  catalog,
		pageSize: pageSize,
	}
}

// Search runs a paged catalog search. hasMore is inferred from a full page;
// the catalog exposes no cursor. Blank queries return nothing.
func (s *LibraryService) Search(ctx context.Context, query string, page int) ([]domain.Song, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, nil
	}
	if page < 1 {
		page = 1
	}

	results, err := s.catalog.Search(ctx, query, page, s.pageSize)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	if page == 1 || query != s.lastQuery {
		s.lastQuery = query
		s.lastResults = results
	} else {
		s.lastResults = append(s.lastResults, results...)
	}
	s.mu.Unlock()

	s.logger.Debug("search completed",
		slog.String("query", query),
		slog.Int("page", page),
		slog.Int("results", len(results)))

	hasMore := len(results) == s.pageSize
	return results, hasMore, nil
}

// ArtistSongs fetches a page of an artist's songs.
func (s *LibraryService) ArtistSongs(ctx context.Context, artistID string, page int) ([]domain.Song, bool, error) {
	if page < 1 {
		page = 1
	}

	results, err := s.catalog.ArtistSongs(ctx, artistID, page, s.pageSize)
	if err != nil {
		return nil, false, err
	}

	return results, len(results) == s.pageSize, nil
}

// Suggested combines the head of the current queue ("recently played") with
// the head of the latest search results, deduplicated by song id. It performs
// no network calls.
func (s *LibraryService) Suggested(queue []domain.Song) []domain.Song {
	s.mu.RLock()
	recentSearch := s.lastResults
	s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]domain.Song, 0, 2*suggestedSliceSize)

	take := func(songs []domain.Song) {
		for _, song := range songs {
			if len(out) >= cap(out) {
				return
			}
			if _, dup := seen[song.ID]; dup {
				continue
			}
			seen[song.ID] = struct{}{}
			out = append(out, song)
		}
	}

	if len(queue) > suggestedSliceSize {
		queue = queue[:suggestedSliceSize]
	}
	take(queue)

	if len(recentSearch) > suggestedSliceSize {
		recentSearch = recentSearch[:suggestedSliceSize]
	}
	take(recentSearch)

	return out
}

// LastResults returns the accumulated results of the latest search.
func (s *LibraryService) LastResults() []domain.Song {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Song, len(s.lastResults))
	copy(out, s.lastResults)
	return out
}
