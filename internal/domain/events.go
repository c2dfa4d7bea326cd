// Package domain defines events for the event-driven architecture.
// Services publish events on the bus; UI observers subscribe without the
// services knowing about them.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Queue and transport events
	EventQueueChanged     EventType = "queue.changed"
	EventSongLoading      EventType = "song.loading"
	EventSongLoaded       EventType = "song.loaded"
	EventSongStarted      EventType = "song.started"
	EventSongPaused       EventType = "song.paused"
	EventSongCompleted    EventType = "song.completed"
	EventSongError        EventType = "song.error"
	EventPlaybackStopped  EventType = "playback.stopped"
	EventPlaybackProgress EventType = "playback.progress"
	EventPlayModeChanged  EventType = "playmode.changed"

	// Registry events
	EventFavoritesChanged EventType = "favorites.changed"
	EventPlaylistsChanged EventType = "playlists.changed"

	// Download events
	EventDownloadStarted   EventType = "download.started"
	EventDownloadCompleted EventType = "download.completed"
	EventDownloadFailed    EventType = "download.failed"

	// Settings events
	EventThemeChanged      EventType = "settings.theme_changed"
	EventMiniPlayerToggled EventType = "settings.mini_player_toggled"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// QueueChangedEvent is published after any queue mutation (replace, append,
// remove, reorder, shuffle). Queue and CurrentIndex always satisfy the index
// invariant together.
type QueueChangedEvent struct {
	baseEvent
	Queue        []Song
	CurrentIndex int
}

// Type returns the event type.
func (e QueueChangedEvent) Type() EventType { return EventQueueChanged }

// NewQueueChangedEvent creates a new QueueChangedEvent.
func NewQueueChangedEvent(queue []Song, currentIndex int) QueueChangedEvent {
	return QueueChangedEvent{baseEvent: newBaseEvent(), Queue: queue, CurrentIndex: currentIndex}
}

// SongLoadingEvent is published when source resolution for a song begins.
type SongLoadingEvent struct {
	baseEvent
	Song  Song
	Index int
}

// Type returns the event type.
func (e SongLoadingEvent) Type() EventType { return EventSongLoading }

// NewSongLoadingEvent creates a new SongLoadingEvent.
func NewSongLoadingEvent(song Song, index int) SongLoadingEvent {
	return SongLoadingEvent{baseEvent: newBaseEvent(), Song: song, Index: index}
}

// SongLoadedEvent is published when a song's audio session is ready.
type SongLoadedEvent struct {
	baseEvent
	Song     Song
	Index    int
	Duration time.Duration
}

// Type returns the event type.
func (e SongLoadedEvent) Type() EventType { return EventSongLoaded }

// NewSongLoadedEvent creates a new SongLoadedEvent.
func NewSongLoadedEvent(song Song, index int, duration time.Duration) SongLoadedEvent {
	return SongLoadedEvent{baseEvent: newBaseEvent(), Song: song, Index: index, Duration: duration}
}

// SongStartedEvent is published when playback starts or resumes.
type SongStartedEvent struct {
	baseEvent
	Song Song
}

// Type returns the event type.
func (e SongStartedEvent) Type() EventType { return EventSongStarted }

// NewSongStartedEvent creates a new SongStartedEvent.
func NewSongStartedEvent(song Song) SongStartedEvent {
	return SongStartedEvent{baseEvent: newBaseEvent(), Song: song}
}

// SongPausedEvent is published when playback is paused.
type SongPausedEvent struct {
	baseEvent
	Song     Song
	Position time.Duration
}

// Type returns the event type.
func (e SongPausedEvent) Type() EventType { return EventSongPaused }

// NewSongPausedEvent creates a new SongPausedEvent.
func NewSongPausedEvent(song Song, position time.Duration) SongPausedEvent {
	return SongPausedEvent{baseEvent: newBaseEvent(), Song: song, Position: position}
}

// SongCompletedEvent is published when a track reaches its natural end.
type SongCompletedEvent struct {
	baseEvent
	Song  Song
	Index int
}

// Type returns the event type.
func (e SongCompletedEvent) Type() EventType { return EventSongCompleted }

// NewSongCompletedEvent creates a new SongCompletedEvent.
func NewSongCompletedEvent(song Song, index int) SongCompletedEvent {
	return SongCompletedEvent{baseEvent: newBaseEvent(), Song: song, Index: index}
}

// SongErrorEvent is published when resolving or loading a song fails.
type SongErrorEvent struct {
	baseEvent
	Song Song
	Err  error
}

// Type returns the event type.
func (e SongErrorEvent) Type() EventType { return EventSongError }

// NewSongErrorEvent creates a new SongErrorEvent.
func NewSongErrorEvent(song Song, err error) SongErrorEvent {
	return SongErrorEvent{baseEvent: newBaseEvent(), Song: song, Err: err}
}

// PlaybackStoppedEvent is published when the live session is torn down
// without a successor (queue emptied, natural end in normal mode).
type PlaybackStoppedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e PlaybackStoppedEvent) Type() EventType { return EventPlaybackStopped }

// NewPlaybackStoppedEvent creates a new PlaybackStoppedEvent.
func NewPlaybackStoppedEvent() PlaybackStoppedEvent {
	return PlaybackStoppedEvent{baseEvent: newBaseEvent()}
}

// PlaybackProgressEvent is published periodically while a session is live.
type PlaybackProgressEvent struct {
	baseEvent
	Position  time.Duration
	Duration  time.Duration
	IsPlaying bool
}

// Type returns the event type.
func (e PlaybackProgressEvent) Type() EventType { return EventPlaybackProgress }

// NewPlaybackProgressEvent creates a new PlaybackProgressEvent.
func NewPlaybackProgressEvent(position, duration time.Duration, isPlaying bool) PlaybackProgressEvent {
	return PlaybackProgressEvent{baseEvent: newBaseEvent(), Position: position, Duration: duration, IsPlaying: isPlaying}
}

// PlayModeChangedEvent is published when the play mode changes.
type PlayModeChangedEvent struct {
	baseEvent
	Mode PlayMode
}

// Type returns the event type.
func (e PlayModeChangedEvent) Type() EventType { return EventPlayModeChanged }

// NewPlayModeChangedEvent creates a new PlayModeChangedEvent.
func NewPlayModeChangedEvent(mode PlayMode) PlayModeChangedEvent {
	return PlayModeChangedEvent{baseEvent: newBaseEvent(), Mode: mode}
}

// FavoritesChangedEvent is published after a favorite toggle.
type FavoritesChangedEvent struct {
	baseEvent
	Song      Song
	Favorited bool // true when the song was added, false when removed
	Count     int
}

// Type returns the event type.
func (e FavoritesChangedEvent) Type() EventType { return EventFavoritesChanged }

// NewFavoritesChangedEvent creates a new FavoritesChangedEvent.
func NewFavoritesChangedEvent(song Song, favorited bool, count int) FavoritesChangedEvent {
	return FavoritesChangedEvent{baseEvent: newBaseEvent(), Song: song, Favorited: favorited, Count: count}
}

// PlaylistsChangedEvent is published after any playlist mutation.
type PlaylistsChangedEvent struct {
	baseEvent
	Playlists []Playlist
}

// Type returns the event type.
func (e PlaylistsChangedEvent) Type() EventType { return EventPlaylistsChanged }

// NewPlaylistsChangedEvent creates a new PlaylistsChangedEvent.
func NewPlaylistsChangedEvent(playlists []Playlist) PlaylistsChangedEvent {
	return PlaylistsChangedEvent{baseEvent: newBaseEvent(), Playlists: playlists}
}

// DownloadStartedEvent is published when a transfer begins.
type DownloadStartedEvent struct {
	baseEvent
	Song Song
}

// Type returns the event type.
func (e DownloadStartedEvent) Type() EventType { return EventDownloadStarted }

// NewDownloadStartedEvent creates a new DownloadStartedEvent.
func NewDownloadStartedEvent(song Song) DownloadStartedEvent {
	return DownloadStartedEvent{baseEvent: newBaseEvent(), Song: song}
}

// DownloadCompletedEvent is published when a song has a verified local copy.
type DownloadCompletedEvent struct {
	baseEvent
	SongID    string
	LocalPath string
}

// Type returns the event type.
func (e DownloadCompletedEvent) Type() EventType { return EventDownloadCompleted }

// NewDownloadCompletedEvent creates a new DownloadCompletedEvent.
func NewDownloadCompletedEvent(songID, localPath string) DownloadCompletedEvent {
	return DownloadCompletedEvent{baseEvent: newBaseEvent(), SongID: songID, LocalPath: localPath}
}

// DownloadFailedEvent is published when a transfer fails or is rejected.
type DownloadFailedEvent struct {
	baseEvent
	SongID string
	Err    error
}

// Type returns the event type.
func (e DownloadFailedEvent) Type() EventType { return EventDownloadFailed }

// NewDownloadFailedEvent creates a new DownloadFailedEvent.
func NewDownloadFailedEvent(songID string, err error) DownloadFailedEvent {
	return DownloadFailedEvent{baseEvent: newBaseEvent(), SongID: songID, Err: err}
}

// ThemeChangedEvent is published when the appearance preference changes.
type ThemeChangedEvent struct {
	baseEvent
	Theme Theme
}

// Type returns the event type.
func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }

// NewThemeChangedEvent creates a new ThemeChangedEvent.
func NewThemeChangedEvent(theme Theme) ThemeChangedEvent {
	return ThemeChangedEvent{baseEvent: newBaseEvent(), Theme: theme}
}

// MiniPlayerToggledEvent is published when mini-player visibility changes.
type MiniPlayerToggledEvent struct {
	baseEvent
	Visible bool
}

// Type returns the event type.
func (e MiniPlayerToggledEvent) Type() EventType { return EventMiniPlayerToggled }

// NewMiniPlayerToggledEvent creates a new MiniPlayerToggledEvent.
func NewMiniPlayerToggledEvent(visible bool) MiniPlayerToggledEvent {
	return MiniPlayerToggledEvent{baseEvent: newBaseEvent(), Visible: visible}
}
