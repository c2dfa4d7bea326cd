// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the Sargam streaming player.
package domain

import (
	"strings"
	"time"
)

// Song is an immutable catalog record returned by the remote music catalog.
// The JSON tags match the catalog API wire format; the same shape is used when
// persisting songs on-device, so saved queues and favorites survive restarts
// without a migration step.
type Song struct {
	// ID is the globally unique catalog identifier. It is the identity key
	// for every membership check (favorites, playlists, downloads).
	ID string `json:"id"`

	// Name is the song title.
	Name string `json:"name"`

	// Duration is the track length in seconds as reported by the catalog.
	Duration int `json:"duration"`

	// Language is the song language, when the catalog provides one.
	Language string `json:"language,omitempty"`

	// Album is the album this song belongs to.
	Album Album `json:"album"`

	// Artists groups the song's credited artists.
	Artists Artists `json:"artists"`

	// Image holds artwork variants ordered by quality, highest last.
	Image []MediaVariant `json:"image"`

	// DownloadURL holds stream/download variants ordered by quality, highest last.
	DownloadURL []MediaVariant `json:"downloadUrl"`

	// Year is the release year, when known.
	Year string `json:"year,omitempty"`
}

// Album identifies the album a song belongs to.
type Album struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Artists groups the credited artists of a song.
type Artists struct {
	// Primary is the ordered list of primary artists.
	Primary []ArtistRef `json:"primary"`
}

// ArtistRef is a lightweight reference to an artist in the catalog.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MediaVariant is one quality level of an image or audio resource.
type MediaVariant struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// BestDownloadURL returns the highest-quality download URL, or "" when the
// record carries none. Variants are ordered lowest to highest quality.
func (s Song) BestDownloadURL() string {
	if len(s.DownloadURL) == 0 {
		return ""
	}
	return s.DownloadURL[len(s.DownloadURL)-1].URL
}

// BestImageURL returns the highest-quality artwork URL, or "" when absent.
func (s Song) BestImageURL() string {
	if len(s.Image) == 0 {
		return ""
	}
	return s.Image[len(s.Image)-1].URL
}

// ArtistNames returns the primary artist names joined with ", ".
func (s Song) ArtistNames() string {
	if len(s.Artists.Primary) == 0 {
		return ""
	}
	names := make([]string, 0, len(s.Artists.Primary))
	for _, a := range s.Artists.Primary {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// DurationTime returns the catalog duration as a time.Duration.
func (s Song) DurationTime() time.Duration {
	return time.Duration(s.Duration) * time.Second
}

// PlayMode governs how the queue cursor advances on next/previous and at the
// natural end of a track. It never reorders queue storage; shuffling the
// stored order is a separate, explicit queue operation.
type PlayMode string

const (
	// PlayModeNormal advances sequentially and stops after the last track.
	PlayModeNormal PlayMode = "normal"

	// PlayModeRepeat advances sequentially and wraps at both ends.
	PlayModeRepeat PlayMode = "repeat"

	// PlayModeRepeatOne replays the current track indefinitely.
	PlayModeRepeatOne PlayMode = "repeat-one"

	// PlayModeShuffle picks a uniform-random index on every advance.
	PlayModeShuffle PlayMode = "shuffle"
)

// ParsePlayMode maps a persisted or user-supplied string to a PlayMode.
// Unknown input falls back to PlayModeNormal, matching the storage contract
// that an absent or corrupt key means "use the default".
func ParsePlayMode(s string) PlayMode {
	switch PlayMode(s) {
	case PlayModeRepeat, PlayModeRepeatOne, PlayModeShuffle:
		return PlayMode(s)
	default:
		return PlayModeNormal
	}
}

// Valid reports whether the mode is one of the four defined values.
func (m PlayMode) Valid() bool {
	switch m {
	case PlayModeNormal, PlayModeRepeat, PlayModeRepeatOne, PlayModeShuffle:
		return true
	}
	return false
}

// PlayerState is a point-in-time snapshot of the queue controller.
// The transient playback fields (IsPlaying, IsLoading, Position, Duration)
// are never persisted; queue, index and mode are.
type PlayerState struct {
	// CurrentSong is the song at the queue cursor (nil when none is current).
	CurrentSong *Song

	// CurrentIndex is the cursor into Queue (-1 when unset).
	CurrentIndex int

	// Queue is the ordered list of songs eligible for playback navigation.
	Queue []Song

	// Mode is the active play mode.
	Mode PlayMode

	// IsPlaying reports whether the live session is currently playing.
	IsPlaying bool

	// IsLoading reports whether a song is being resolved/loaded.
	IsLoading bool

	// Position is the playback position within the current track.
	Position time.Duration

	// Duration is the decoded duration of the current track.
	Duration time.Duration
}

// Playlist is a user-created, ordered collection of songs.
// Songs are deduplicated by ID on insert.
type Playlist struct {
	// ID is a locally generated identifier (UUID).
	ID string `json:"id"`

	// Name is the user-supplied playlist name, non-empty after trimming.
	Name string `json:"name"`

	// Songs is the ordered song list.
	Songs []Song `json:"songs"`

	// CreatedAt is when the playlist was created.
	CreatedAt time.Time `json:"createdAt"`
}

// Contains reports whether the playlist already holds the given song ID.
func (p Playlist) Contains(songID string) bool {
	for _, s := range p.Songs {
		if s.ID == songID {
			return true
		}
	}
	return false
}

// Theme is the UI appearance preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a persisted string to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
