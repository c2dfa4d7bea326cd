package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/dhowden/tag"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// DownloadService tracks which songs have a local copy and performs the
// transfer for explicit download requests. Presence in the persisted id set
// is only a hint: every read re-verifies the file on disk, since files can be
// removed externally.
//
// All operations are thread-safe via sync.RWMutex.
type DownloadService struct {
	// Dependencies (injected)
	logger   *slog.Logger
	repo     ports.DownloadsRepository
	transfer ports.FileTransfer
	bus      ports.EventBus

	// dir is where local copies live; empty means downloads are unsupported
	// on this platform.
	dir string

	// State
	ids map[string]struct{}
	mu  sync.RWMutex
}

// NewDownloadService creates a download service rooted at dir and loads the
// persisted downloaded-id set. An empty dir disables downloads.
func NewDownloadService(
	logger *slog.Logger,
	repo ports.DownloadsRepository,
	transfer ports.FileTransfer,
	bus ports.EventBus,
	dir string,
) *DownloadService {
	s := &DownloadService{
		logger:   logger,
		repo:     repo,
		transfer: transfer,
		bus:      bus,
		dir:      dir,
		ids:      make(map[string]struct{}),
	}

	ids, err := repo.LoadIDs()
	if err != nil {
		logger.Warn("failed to load downloaded ids", slog.Any("error", err))
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}

	logger.Debug("downloads loaded", slog.Int("count", len(s.ids)))
	return s
}

// localPath is the deterministic on-disk location for a song id.
func (s *DownloadService) localPath(songID string) string {
	return filepath.Join(s.dir, songID+".mp4")
}

// LocalLocator returns the local path for a song id when the set claims a
// copy exists and the file is actually present. A stale entry (file removed
// externally) is pruned from the set.
func (s *DownloadService) LocalLocator(songID string) (string, bool) {
	s.mu.RLock()
	_, claimed := s.ids[songID]
	s.mu.RUnlock()

	if !claimed || s.dir == "" {
		return "", false
	}

	path := s.localPath(songID)
	if _, err := os.Stat(path); err != nil {
		s.logger.Warn("downloaded file missing, pruning entry",
			slog.String("song_id", songID),
			slog.String("path", path))

		s.mu.Lock()
		delete(s.ids, songID)
		s.persistLocked()
		s.mu.Unlock()
		return "", false
	}

	return path, true
}

// IsDownloaded reports whether a verified local copy exists.
func (s *DownloadService) IsDownloaded(songID string) bool {
	_, ok := s.LocalLocator(songID)
	return ok
}

// EnsureLocal returns a local locator for the song, downloading it first if
// needed. A song already present returns immediately with no transfer.
func (s *DownloadService) EnsureLocal(ctx context.Context, song domain.Song) (string, error) {
	if path, ok := s.LocalLocator(song.ID); ok {
		return path, nil
	}

	if s.dir == "" {
		return "", domain.NewDownloadError(song.ID, domain.ErrDownloadUnsupported)
	}

	url := song.BestDownloadURL()
	if url == "" {
		return "", domain.NewDownloadError(song.ID, domain.ErrNoDownloadURL)
	}

	s.bus.Publish(domain.NewDownloadStartedEvent(song))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", s.fail(song, err)
	}

	path := s.localPath(song.ID)
	if err := s.transfer.Fetch(ctx, url, path); err != nil {
		return "", s.fail(song, err)
	}

	if err := s.verify(path); err != nil {
		_ = os.Remove(path)
		return "", s.fail(song, err)
	}

	s.mu.Lock()
	s.ids[song.ID] = struct{}{}
	s.persistLocked()
	s.mu.Unlock()

	s.logger.Info("song downloaded",
		slog.String("song_id", song.ID),
		slog.String("path", path))

	s.bus.Publish(domain.NewDownloadCompletedEvent(song.ID, path))
	return path, nil
}

// Download fetches a local copy of the song, if one is not already present.
func (s *DownloadService) Download(ctx context.Context, song domain.Song) error {
	_, err := s.EnsureLocal(ctx, song)
	return err
}

// Remove deletes a local copy and its set entry. Unknown ids are a no-op.
func (s *DownloadService) Remove(songID string) error {
	s.mu.Lock()
	_, present := s.ids[songID]
	if present {
		delete(s.ids, songID)
		s.persistLocked()
	}
	s.mu.Unlock()

	if !present || s.dir == "" {
		return nil
	}

	if err := os.Remove(s.localPath(songID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove local copy: %w", err)
	}
	return nil
}

// List returns the ids with a claimed local copy, unverified.
func (s *DownloadService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// persistLocked saves the id set. Caller must hold the write lock.
func (s *DownloadService) persistLocked() {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	if err := s.repo.SaveIDs(ids); err != nil {
		s.logger.Warn("failed to persist downloaded ids", slog.Any("error", err))
	}
}

// verify checks that the transferred file is recognizable audio; an error
// page saved as .mp4 would otherwise poison the cache.
func (s *DownloadService) verify(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if _, _, err := tag.Identify(file); err != nil {
		return fmt.Errorf("unrecognized audio data: %w", err)
	}
	return nil
}

// fail logs, publishes and wraps a download failure. The downloaded set is
// never mutated on failure.
func (s *DownloadService) fail(song domain.Song, err error) error {
	s.logger.Error("download failed",
		slog.String("song_id", song.ID),
		slog.Any("error", err))

	s.bus.Publish(domain.NewDownloadFailedEvent(song.ID, err))
	return domain.NewDownloadError(song.ID, err)
}

// Verify DownloadService satisfies the player's local source lookup.
var _ LocalSource = (*DownloadService)(nil)
