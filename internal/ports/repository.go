// Repository interfaces for data persistence abstraction.
// These enable the repository pattern and allow swapping persistence mechanisms.
package ports

import (
	"github.com/sargamapp/sargam/internal/domain"
)

// HistoryRepository persists the playback queue, cursor and play mode so the
// player resumes where it left off after a process restart.
//
// Thread-safety: implementations must be thread-safe.
type HistoryRepository interface {
	// SaveQueue persists the current playback queue.
	SaveQueue(songs []domain.Song) error

	// LoadQueue retrieves the last saved queue. Absent or corrupt data yields
	// an empty slice, not an error.
	LoadQueue() ([]domain.Song, error)

	// SaveCurrentSong persists the song at the cursor; nil clears it.
	SaveCurrentSong(song *domain.Song) error

	// LoadCurrentSong retrieves the saved current song, nil when absent.
	LoadCurrentSong() (*domain.Song, error)

	// SaveCurrentIndex persists the cursor position.
	SaveCurrentIndex(index int) error

	// LoadCurrentIndex retrieves the saved cursor, -1 when none was saved.
	LoadCurrentIndex() (int, error)

	// SavePlayMode persists the play mode.
	SavePlayMode(mode domain.PlayMode) error

	// LoadPlayMode retrieves the saved play mode, PlayModeNormal when absent.
	LoadPlayMode() (domain.PlayMode, error)

	// Clear removes all saved history data.
	Clear() error
}

// FavoritesRepository persists the favorite id set and the parallel record
// list. The two are stored under separate keys but always written together.
type FavoritesRepository interface {
	// SaveIDs persists the favorite song id list.
	SaveIDs(ids []string) error

	// LoadIDs retrieves the saved id list, empty when absent.
	LoadIDs() ([]string, error)

	// SaveSongs persists the full favorite song records.
	SaveSongs(songs []domain.Song) error

	// LoadSongs retrieves the saved records, empty when absent.
	LoadSongs() ([]domain.Song, error)
}

// PlaylistRepository persists the full user playlist collection.
// The original stores all playlists under a single key, and every mutation
// rewrites the collection; the repository keeps that contract.
type PlaylistRepository interface {
	// SaveAll persists the complete playlist collection.
	SaveAll(playlists []domain.Playlist) error

	// LoadAll retrieves all saved playlists, empty when absent.
	LoadAll() ([]domain.Playlist, error)
}

// DownloadsRepository persists the set of song ids with a local copy.
// Presence in the set is a hint only; callers re-verify file existence
// before trusting it.
type DownloadsRepository interface {
	// SaveIDs persists the downloaded song id list.
	SaveIDs(ids []string) error

	// LoadIDs retrieves the saved id list, empty when absent.
	LoadIDs() ([]string, error)
}

// SettingsRepository persists appearance and layout preferences.
type SettingsRepository interface {
	// SaveTheme persists the theme preference.
	SaveTheme(theme domain.Theme) error

	// LoadTheme retrieves the saved theme, ThemeLight when absent.
	LoadTheme() (domain.Theme, error)

	// SaveMiniPlayerVisible persists mini-player visibility.
	SaveMiniPlayerVisible(visible bool) error

	// LoadMiniPlayerVisible retrieves the saved visibility, true when absent.
	LoadMiniPlayerVisible() (bool, error)
}
