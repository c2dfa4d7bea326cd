// Package fyne provides the Fyne UI adapter.
// This package implements the UI layer using the Fyne toolkit.
package fyne

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
	"github.com/sargamapp/sargam/internal/service"
)

// UIView defines the interface for UI updates.
// The actual UI implementation (MainWindow) must implement this interface.
type UIView interface {
	// Playback state updates
	SetPlayState(playing bool)
	SetLoadingState(loading bool)
	SetPlayMode(mode domain.PlayMode)

	// Track information updates
	SetTrackInfo(title, artists, album string)
	SetFavoriteState(favorited bool)
	SetDownloadState(downloaded bool)

	// Progress updates
	SetCurrentTime(seconds float64)
	SetTotalTime(seconds float64)
	SetProgress(position, duration float64)

	// List updates
	RefreshQueue(queue []domain.Song, currentIndex int)
	RefreshSearchResults(results []domain.Song)
	RefreshPlaylists(playlists []domain.Playlist)

	// Settings updates
	ApplyTheme(theme domain.Theme)
	SetMiniPlayerVisible(visible bool)

	// Notifications
	ShowNotification(title, message string)
}

// Presenter implements the Presenter pattern (MVP architecture).
// It coordinates between services and the UI, handling all event-driven
// updates.
//
// Responsibilities:
// - Subscribe to events from the event bus
// - Map domain events to UI updates
// - Translate UI commands to service method calls
// - Maintain presentation state
//
// Thread-safety: All operations are thread-safe via sync.RWMutex.
type Presenter struct {
	// Dependencies
	logger *slog.Logger

	// Services (injected)
	player    *service.PlayerService
	library   *service.LibraryService
	favorites *service.FavoritesService
	playlists *service.PlaylistService
	downloads *service.DownloadService
	settings  *service.SettingsService

	// Event bus for subscriptions
	eventBus ports.EventBus

	// UI view
	view UIView

	// Presentation state
	currentSong *domain.Song
	searchQuery string
	searchPage  int
	hasMore     bool

	// Concurrency control
	mu            sync.RWMutex
	subscriptions []domain.SubscriptionID
	shutdownOnce  sync.Once
}

// NewPresenter creates a new presenter, subscribes it to the event bus and
// syncs the view with the current application state.
func NewPresenter(
	logger *slog.Logger,
	player *service.PlayerService,
	library *service.LibraryService,
	favorites *service.FavoritesService,
	playlists *service.PlaylistService,
	downloads *service.DownloadService,
	settings *service.SettingsService,
	eventBus ports.EventBus,
	view UIView,
) *Presenter {
	p := &Presenter{
		logger:    logger,
		player:    player,
		library:   library,
		favorites: favorites,
		playlists: playlists,
		downloads: downloads,
		settings:  settings,
		eventBus:  eventBus,
		view:      view,
	}

	p.subscribeToEvents()
	p.syncInitialState()

	return p
}

// subscribeToEvents subscribes to all relevant events from the event bus.
func (p *Presenter) subscribeToEvents() {
	subscriptions := map[domain.EventType]domain.EventHandler{
		// Queue and transport events
		domain.EventQueueChanged:     p.onQueueChanged,
		domain.EventSongLoading:      p.onSongLoading,
		domain.EventSongLoaded:       p.onSongLoaded,
		domain.EventSongStarted:      p.onSongStarted,
		domain.EventSongPaused:       p.onSongPaused,
		domain.EventSongError:        p.onSongError,
		domain.EventPlaybackStopped:  p.onPlaybackStopped,
		domain.EventPlaybackProgress: p.onPlaybackProgress,
		domain.EventPlayModeChanged:  p.onPlayModeChanged,

		// Registry events
		domain.EventFavoritesChanged: p.onFavoritesChanged,
		domain.EventPlaylistsChanged: p.onPlaylistsChanged,

		// Download events
		domain.EventDownloadCompleted: p.onDownloadCompleted,
		domain.EventDownloadFailed:    p.onDownloadFailed,

		// Settings events
		domain.EventThemeChanged:      p.onThemeChanged,
		domain.EventMiniPlayerToggled: p.onMiniPlayerToggled,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for eventType, handler := range subscriptions {
		id := p.eventBus.Subscribe(eventType, handler)
		p.subscriptions = append(p.subscriptions, id)
	}
}

// syncInitialState synchronizes the UI with the current application state.
// This is called during presenter initialization so the view reflects the
// restored session (queue, cursor, play mode, theme) before the first event.
func (p *Presenter) syncInitialState() {
	state := p.player.State()

	p.view.RefreshQueue(state.Queue, state.CurrentIndex)
	p.view.SetPlayMode(state.Mode)
	p.view.SetPlayState(state.IsPlaying)

	if state.CurrentSong != nil {
		p.mu.Lock()
		song := *state.CurrentSong
		p.currentSong = &song
		p.mu.Unlock()

		p.view.SetTrackInfo(song.Name, song.ArtistNames(), song.Album.Name)
		p.view.SetFavoriteState(p.favorites.IsFavorite(song.ID))
		p.view.SetDownloadState(p.downloads.IsDownloaded(song.ID))
		if state.Duration > 0 {
			p.view.SetTotalTime(state.Duration.Seconds())
		}
	}

	p.view.RefreshPlaylists(p.playlists.List())
	p.view.ApplyTheme(p.settings.Theme())
	p.view.SetMiniPlayerVisible(p.settings.MiniPlayerVisible())
}

// Event handlers

func (p *Presenter) onQueueChanged(event domain.Event) {
	e, ok := event.(domain.QueueChangedEvent)
	if !ok {
		return
	}
	p.view.RefreshQueue(e.Queue, e.CurrentIndex)
}

func (p *Presenter) onSongLoading(event domain.Event) {
	e, ok := event.(domain.SongLoadingEvent)
	if !ok {
		return
	}

	p.mu.Lock()
	song := e.Song
	p.currentSong = &song
	p.mu.Unlock()

	p.view.SetLoadingState(true)
	p.view.SetTrackInfo(e.Song.Name, e.Song.ArtistNames(), e.Song.Album.Name)
	p.view.SetFavoriteState(p.favorites.IsFavorite(e.Song.ID))
	p.view.SetDownloadState(p.downloads.IsDownloaded(e.Song.ID))
}

func (p *Presenter) onSongLoaded(event domain.Event) {
	e, ok := event.(domain.SongLoadedEvent)
	if !ok {
		return
	}

	p.view.SetLoadingState(false)
	if e.Duration > 0 {
		p.view.SetTotalTime(e.Duration.Seconds())
	}
}

func (p *Presenter) onSongStarted(event domain.Event) {
	p.view.SetPlayState(true)
}

func (p *Presenter) onSongPaused(event domain.Event) {
	p.view.SetPlayState(false)
}

func (p *Presenter) onSongError(event domain.Event) {
	e, ok := event.(domain.SongErrorEvent)
	if !ok {
		return
	}

	p.view.SetLoadingState(false)
	p.view.SetPlayState(false)
	p.view.ShowNotification("Playback Error",
		fmt.Sprintf("Cannot play %s: %v", e.Song.Name, e.Err))
}

func (p *Presenter) onPlaybackStopped(event domain.Event) {
	p.view.SetPlayState(false)
	p.view.SetCurrentTime(0)
	p.view.SetProgress(0, 1)
}

func (p *Presenter) onPlaybackProgress(event domain.Event) {
	e, ok := event.(domain.PlaybackProgressEvent)
	if !ok {
		return
	}
	if e.Duration <= 0 {
		return
	}

	p.view.SetCurrentTime(e.Position.Seconds())
	p.view.SetProgress(e.Position.Seconds(), e.Duration.Seconds())
}

func (p *Presenter) onPlayModeChanged(event domain.Event) {
	e, ok := event.(domain.PlayModeChangedEvent)
	if !ok {
		return
	}
	p.view.SetPlayMode(e.Mode)
}

func (p *Presenter) onFavoritesChanged(event domain.Event) {
	e, ok := event.(domain.FavoritesChangedEvent)
	if !ok {
		return
	}

	p.mu.RLock()
	current := p.currentSong
	p.mu.RUnlock()

	if current != nil && current.ID == e.Song.ID {
		p.view.SetFavoriteState(e.Favorited)
	}
}

func (p *Presenter) onPlaylistsChanged(event domain.Event) {
	e, ok := event.(domain.PlaylistsChangedEvent)
	if !ok {
		return
	}
	p.view.RefreshPlaylists(e.Playlists)
}

func (p *Presenter) onDownloadCompleted(event domain.Event) {
	e, ok := event.(domain.DownloadCompletedEvent)
	if !ok {
		return
	}

	p.mu.RLock()
	current := p.currentSong
	p.mu.RUnlock()

	if current != nil && current.ID == e.SongID {
		p.view.SetDownloadState(true)
	}
	p.view.ShowNotification("Download Complete", "Song saved for offline playback")
}

func (p *Presenter) onDownloadFailed(event domain.Event) {
	e, ok := event.(domain.DownloadFailedEvent)
	if !ok {
		return
	}
	p.view.ShowNotification("Download Failed", fmt.Sprintf("%v", e.Err))
}

func (p *Presenter) onThemeChanged(event domain.Event) {
	e, ok := event.(domain.ThemeChangedEvent)
	if !ok {
		return
	}
	p.view.ApplyTheme(e.Theme)
}

func (p *Presenter) onMiniPlayerToggled(event domain.Event) {
	e, ok := event.(domain.MiniPlayerToggledEvent)
	if !ok {
		return
	}
	p.view.SetMiniPlayerVisible(e.Visible)
}

// UI Command handlers (called by UI)

// dispatch runs a playback command on its own goroutine. Loading a song
// spools the stream over the network, so commands that can trigger a load
// must not run on the Fyne event thread. Overlapping commands are safe: the
// player discards superseded loads.
func (p *Presenter) dispatch(op string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(context.Background()); err != nil {
			p.logger.Error(op+" failed", slog.Any("error", err))
		}
	}()
}

// OnPlayPauseClicked handles the play/pause button click.
func (p *Presenter) OnPlayPauseClicked() {
	if err := p.player.TogglePlayPause(); err != nil {
		p.logger.Error("play/pause failed", slog.Any("error", err))
		p.view.ShowNotification("Playback Error",
			fmt.Sprintf("Failed to toggle playback: %v", err))
	}
}

// OnNextClicked handles the next button click.
func (p *Presenter) OnNextClicked() {
	p.dispatch("next song", p.player.PlayNext)
}

// OnPreviousClicked handles the previous button click.
func (p *Presenter) OnPreviousClicked() {
	p.dispatch("previous song", p.player.PlayPrevious)
}

// OnPlayModeClicked cycles through the play modes.
func (p *Presenter) OnPlayModeClicked() {
	mode := p.player.CyclePlayMode()
	p.logger.Debug("play mode cycled", slog.String("mode", string(mode)))
}

// OnShuffleQueueClicked reshuffles the queue and restarts playback.
func (p *Presenter) OnShuffleQueueClicked() {
	p.dispatch("shuffle queue", p.player.ShuffleQueue)
}

// OnSeekRequested handles seek requests from the progress slider.
func (p *Presenter) OnSeekRequested(seconds float64) {
	position := time.Duration(seconds * float64(time.Second))
	if err := p.player.SeekTo(position); err != nil {
		p.logger.Error("seek failed", slog.Any("error", err))
	}
}

// OnSearchSubmitted runs a fresh catalog search for the query.
func (p *Presenter) OnSearchSubmitted(query string) {
	p.mu.Lock()
	p.searchQuery = query
	p.searchPage = 1
	p.mu.Unlock()

	p.runSearch(query, 1)
}

// OnLoadMoreResults fetches the next page for the active query.
func (p *Presenter) OnLoadMoreResults() {
	p.mu.Lock()
	if !p.hasMore || p.searchQuery == "" {
		p.mu.Unlock()
		return
	}
	p.searchPage++
	query, page := p.searchQuery, p.searchPage
	p.mu.Unlock()

	p.runSearch(query, page)
}

func (p *Presenter) runSearch(query string, page int) {
	go func() {
		_, hasMore, err := p.library.Search(context.Background(), query, page)
		if err != nil {
			p.logger.Error("search failed",
				slog.String("query", query), slog.Any("error", err))
			p.view.ShowNotification("Search Error",
				fmt.Sprintf("Search failed: %v", err))
			return
		}

		p.mu.Lock()
		p.hasMore = hasMore
		p.mu.Unlock()

		p.view.RefreshSearchResults(p.library.LastResults())
	}()
}

// OnResultSelected replaces the queue with the current search results and
// starts playback at the selected result.
func (p *Presenter) OnResultSelected(index int) {
	results := p.library.LastResults()
	if index < 0 || index >= len(results) {
		return
	}
	p.dispatch("play from results", func(ctx context.Context) error {
		return p.player.SetQueue(ctx, results, index)
	})
}

// OnResultQueued appends a search result to the queue without playing it.
func (p *Presenter) OnResultQueued(index int) {
	results := p.library.LastResults()
	if index < 0 || index >= len(results) {
		return
	}
	p.player.AddToQueue(results[index])
}

// OnQueueSongSelected jumps playback to the selected queue position.
func (p *Presenter) OnQueueSongSelected(index int) {
	p.dispatch("play from queue", func(ctx context.Context) error {
		return p.player.PlaySong(ctx, index)
	})
}

// OnQueueSongRemoved removes a song from the queue.
func (p *Presenter) OnQueueSongRemoved(index int) {
	p.dispatch("remove from queue", func(ctx context.Context) error {
		return p.player.RemoveFromQueue(ctx, index)
	})
}

// OnFavoriteClicked toggles the current song's favorite membership.
func (p *Presenter) OnFavoriteClicked() {
	p.mu.RLock()
	current := p.currentSong
	p.mu.RUnlock()

	if current == nil {
		return
	}
	p.favorites.Toggle(*current)
}

// OnDownloadClicked downloads the current song for offline playback.
func (p *Presenter) OnDownloadClicked() {
	p.mu.RLock()
	current := p.currentSong
	p.mu.RUnlock()

	if current == nil {
		return
	}
	song := *current

	go func() {
		if err := p.downloads.Download(context.Background(), song); err != nil {
			p.logger.Error("download failed",
				slog.String("song_id", song.ID), slog.Any("error", err))
		}
	}()
}

// OnPlayFavorites replaces the queue with the favorites list.
func (p *Presenter) OnPlayFavorites() {
	songs := p.favorites.List()
	if len(songs) == 0 {
		p.view.ShowNotification("Favorites", "No favorite songs yet")
		return
	}
	p.dispatch("play favorites", func(ctx context.Context) error {
		return p.player.SetQueue(ctx, songs, 0)
	})
}

// OnPlaylistCreated creates a named playlist.
func (p *Presenter) OnPlaylistCreated(name string) error {
	_, err := p.playlists.Create(name)
	return err
}

// OnPlaylistSelected replaces the queue with the playlist's songs.
func (p *Presenter) OnPlaylistSelected(playlistID string) {
	playlist, err := p.playlists.Get(playlistID)
	if err != nil {
		p.logger.Error("playlist lookup failed", slog.Any("error", err))
		return
	}
	if len(playlist.Songs) == 0 {
		p.view.ShowNotification("Playlist", fmt.Sprintf("%q is empty", playlist.Name))
		return
	}
	p.dispatch("play playlist", func(ctx context.Context) error {
		return p.player.SetQueue(ctx, playlist.Songs, 0)
	})
}

// OnAddCurrentToPlaylist adds the current song to the given playlist.
func (p *Presenter) OnAddCurrentToPlaylist(playlistID string) {
	p.mu.RLock()
	current := p.currentSong
	p.mu.RUnlock()

	if current == nil {
		return
	}
	if err := p.playlists.AddSong(playlistID, *current); err != nil {
		p.logger.Error("add to playlist failed", slog.Any("error", err))
		p.view.ShowNotification("Playlist Error",
			fmt.Sprintf("Failed to add song: %v", err))
	}
}

// OnThemeClicked toggles between light and dark themes.
func (p *Presenter) OnThemeClicked() {
	p.settings.ToggleTheme()
}

// OnMiniPlayerToggled sets the mini player visibility preference.
func (p *Presenter) OnMiniPlayerToggled(visible bool) {
	p.settings.SetMiniPlayerVisible(visible)
}

// Queue returns the current playback queue.
func (p *Presenter) Queue() []domain.Song {
	return p.player.State().Queue
}

// Playlists returns the saved playlists.
func (p *Presenter) Playlists() []domain.Playlist {
	return p.playlists.List()
}

// Shutdown unsubscribes the presenter from the event bus.
// It's safe to call multiple times (idempotent).
func (p *Presenter) Shutdown() {
	p.shutdownOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for _, id := range p.subscriptions {
			p.eventBus.Unsubscribe(id)
		}
		p.subscriptions = nil
	})
}
