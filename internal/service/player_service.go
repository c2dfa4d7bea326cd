// Package service provides business logic for the Sargam application.
package service

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// completionEpsilon is how close to the end of a track the position must get
// before the track counts as naturally finished.
const completionEpsilon = 500 * time.Millisecond

// LocalSource answers whether a song has a verified local copy. The download
// manager implements it; the player prefers local copies over streaming.
type LocalSource interface {
	// LocalLocator returns the local path for a song id and whether the file
	// is actually present on disk.
	LocalLocator(songID string) (string, bool)
}

// PlayerService owns the playback queue, the cursor into it, the play-mode
// policy and the single live audio session. All operations are thread-safe
// via sync.RWMutex.
//
// At most one live audio session exists at a time. Every load bumps a
// generation counter; a load completing after a newer load has started
// detects the stale generation, unloads itself and is discarded.
type PlayerService struct {
	// Dependencies (injected)
	logger  *slog.Logger
	engine  ports.AudioEngine
	bus     ports.EventBus
	history ports.HistoryRepository
	catalog ports.CatalogClient
	local   LocalSource

	// State
	queue        []domain.Song
	currentIndex int
	currentSong  *domain.Song
	mode         domain.PlayMode
	session      ports.AudioSession
	isLoading    bool

	// loadGen identifies the newest load request; stale completions bail out.
	loadGen uint64

	// completionFired guards natural-end detection so one track ends once.
	completionFired bool

	// Concurrency control
	mu             sync.RWMutex
	updateInterval time.Duration
	stopUpdate     chan struct{}
	updateRunning  bool
	updateWg       sync.WaitGroup
}

// NewPlayerService creates a new player service and starts its progress
// update routine. Call Shutdown to stop it.
func NewPlayerService(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
	history ports.HistoryRepository,
	catalog ports.CatalogClient,
	local LocalSource,
) *PlayerService {
	service := &PlayerService{
		logger:         logger,
		engine:         engine,
		bus:            bus,
		history:        history,
		catalog:        catalog,
		local:          local,
		currentIndex:   -1,
		mode:           domain.PlayModeNormal,
		updateInterval: 333 * time.Millisecond,
		stopUpdate:     make(chan struct{}),
	}

	logger.Debug("player service initialized")

	service.startUpdateRoutine()

	return service
}

// Restore loads the persisted queue, cursor, current song and play mode into
// memory. It never starts playback; the user resumes explicitly.
func (s *PlayerService) Restore(ctx context.Context) error {
	queue, err := s.history.LoadQueue()
	if err != nil {
		s.logger.Warn("failed to load saved queue", slog.Any("error", err))
		queue = nil
	}

	index, err := s.history.LoadCurrentIndex()
	if err != nil {
		index = -1
	}

	song, err := s.history.LoadCurrentSong()
	if err != nil {
		song = nil
	}

	mode, err := s.history.LoadPlayMode()
	if err != nil {
		mode = domain.PlayModeNormal
	}

	s.mu.Lock()
	s.queue = queue
	s.mode = mode

	// A saved cursor only counts when it points inside the saved queue.
	if index >= 0 && index < len(queue) {
		s.currentIndex = index
		if song != nil {
			s.currentSong = song
		} else {
			restored := queue[index]
			s.currentSong = &restored
		}
	} else {
		s.currentIndex = -1
		s.currentSong = nil
	}

	queueCopy := s.queueSnapshot()
	currentIndex := s.currentIndex
	s.mu.Unlock()

	s.logger.Info("playback state restored",
		slog.Int("queue_length", len(queueCopy)),
		slog.Int("current_index", currentIndex),
		slog.String("play_mode", string(mode)))

	s.bus.Publish(domain.NewQueueChangedEvent(queueCopy, currentIndex))
	s.bus.Publish(domain.NewPlayModeChangedEvent(mode))

	return nil
}

// SetQueue replaces the queue with a new song list and begins playing from
// startIndex. An out-of-range startIndex is treated as 0. An empty list
// clears the queue and tears down playback.
//
// This is the single entry point for both "play this song now" (a one-element
// list) and "play this list from here".
func (s *PlayerService) SetQueue(ctx context.Context, songs []domain.Song, startIndex int) error {
	if len(songs) == 0 {
		s.mu.Lock()
		s.teardownSessionLocked()
		s.queue = nil
		s.currentIndex = -1
		s.currentSong = nil
		s.persistQueueStateLocked()
		s.mu.Unlock()

		s.bus.Publish(domain.NewQueueChangedEvent(nil, -1))
		s.bus.Publish(domain.NewPlaybackStoppedEvent())
		return nil
	}

	if startIndex < 0 || startIndex >= len(songs) {
		startIndex = 0
	}

	s.mu.Lock()
	s.queue = make([]domain.Song, len(songs))
	copy(s.queue, songs)
	s.currentIndex = startIndex
	s.persistQueueStateLocked()
	queueCopy := s.queueSnapshot()
	s.mu.Unlock()

	s.bus.Publish(domain.NewQueueChangedEvent(queueCopy, startIndex))

	return s.loadCurrent(ctx)
}

// AddToQueue appends a song to the end of the queue without touching the
// cursor or playback.
func (s *PlayerService) AddToQueue(song domain.Song) {
	s.mu.Lock()
	s.queue = append(s.queue, song)
	s.persistQueueStateLocked()
	queueCopy := s.queueSnapshot()
	currentIndex := s.currentIndex
	s.mu.Unlock()

	s.bus.Publish(domain.NewQueueChangedEvent(queueCopy, currentIndex))
}

// RemoveFromQueue removes the entry at index. Out-of-range indexes are a
// silent no-op. Removing the current song restarts playback on its logical
// successor; removing the last remaining song tears playback down.
func (s *PlayerService) RemoveFromQueue(ctx context.Context, index int) error {
	s.mu.Lock()

	if index < 0 || index >= len(s.queue) {
		s.mu.Unlock()
		return nil
	}

	removedCurrent := index == s.currentIndex

	s.queue = append(s.queue[:index], s.queue[index+1:]...)

	switch {
	case len(s.queue) == 0:
		// Removed the only song.
		s.teardownSessionLocked()
		s.currentIndex = -1
		s.currentSong = nil

	case index < s.currentIndex:
		// The current song shifted left; same song keeps playing.
		s.currentIndex--

	case removedCurrent:
		// Cursor stays put, clamped to the new tail, and playback restarts
		// on whichever song now sits there.
		if s.currentIndex > len(s.queue)-1 {
			s.currentIndex = len(s.queue) - 1
		}

	default:
		// Removed after the cursor; nothing moves.
	}

	s.persistQueueStateLocked()
	queueCopy := s.queueSnapshot()
	currentIndex := s.currentIndex
	s.mu.Unlock()

	s.bus.Publish(domain.NewQueueChangedEvent(queueCopy, currentIndex))

	if len(queueCopy) == 0 {
		s.bus.Publish(domain.NewPlaybackStoppedEvent())
		return nil
	}

	if removedCurrent {
		return s.loadCurrent(ctx)
	}
	return nil
}

// Reorder moves the element at fromIndex to toIndex with list splice
// semantics. The cursor is rebased so the same song remains current; playback
// is never restarted by a reorder. Out-of-range indexes are a silent no-op.
func (s *PlayerService) Reorder(fromIndex, toIndex int) {
	s.mu.Lock()

	length := len(s.queue)
	if fromIndex < 0 || fromIndex >= length || toIndex < 0 || toIndex >= length || fromIndex == toIndex {
		s.mu.Unlock()
		return
	}

	moved := s.queue[fromIndex]
	s.queue = append(s.queue[:fromIndex], s.queue[fromIndex+1:]...)
	s.queue = append(s.queue[:toIndex], append([]domain.Song{moved}, s.queue[toIndex:]...)...)

	switch {
	case fromIndex == s.currentIndex:
		s.currentIndex = toIndex
	case fromIndex < s.currentIndex && s.currentIndex <= toIndex:
		s.currentIndex--
	case toIndex <= s.currentIndex && s.currentIndex < fromIndex:
		s.currentIndex++
	}

	s.persistQueueStateLocked()
	queueCopy := s.queueSnapshot()
	currentIndex := s.currentIndex
	s.mu.Unlock()

	s.bus.Publish(domain.NewQueueChangedEvent(queueCopy, currentIndex))
}

// PlaySong loads and plays the song at the given queue index without
// otherwise mutating the queue. Used when the user taps an already-queued
// item. Out-of-range indexes are a silent no-op.
func (s *PlayerService) PlaySong(ctx context.Context, index int) error {
	s.mu.Lock()
	if index < 0 || index >= len(s.queue) {
		s.mu.Unlock()
		return nil
	}
	s.currentIndex = index
	s.persistQueueStateLocked()
	s.mu.Unlock()

	return s.loadCurrent(ctx)
}

// PlayNext advances the cursor forward under the active play mode and plays
// the target. In normal mode, advancing past the last track stops playback
// instead of wrapping. No-op on an empty queue.
func (s *PlayerService) PlayNext(ctx context.Context) error {
	return s.advance(ctx, true)
}

// PlayPrevious moves the cursor backward under the active play mode and
// plays the target. In normal mode the cursor holds at 0 rather than
// wrapping or stopping. No-op on an empty queue.
func (s *PlayerService) PlayPrevious(ctx context.Context) error {
	return s.advance(ctx, false)
}

// advance implements the play-mode state machine for both directions.
func (s *PlayerService) advance(ctx context.Context, forward bool) error {
	s.mu.Lock()

	length := len(s.queue)
	if length == 0 || s.currentIndex < 0 {
		s.mu.Unlock()
		return nil
	}

	target := s.currentIndex
	stop := false

	switch s.mode {
	case domain.PlayModeShuffle:
		target = rand.Intn(length)

	case domain.PlayModeRepeatOne:
		// Cursor never moves; the current track restarts.

	case domain.PlayModeRepeat:
		if forward {
			target = (s.currentIndex + 1) % length
		} else {
			target = s.currentIndex - 1
			if target < 0 {
				target = length - 1
			}
		}

	default: // normal
		if forward {
			// Natural forward advancement past the last track halts playback
			// rather than looping.
			if s.currentIndex+1 >= length {
				stop = true
			} else {
				target = s.currentIndex + 1
			}
		} else {
			target = s.currentIndex - 1
			if target < 0 {
				target = 0
			}
		}
	}

	if stop {
		s.teardownSessionLocked()
		s.mu.Unlock()

		s.logger.Debug("reached end of queue, stopping")
		s.bus.Publish(domain.NewPlaybackStoppedEvent())
		return nil
	}

	s.currentIndex = target
	s.persistQueueStateLocked()
	s.mu.Unlock()

	return s.loadCurrent(ctx)
}

// TogglePlayPause flips the live session between playing and paused. No-op
// when no session is live.
func (s *PlayerService) TogglePlayPause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}

	playing, err := s.session.IsPlaying()
	if err != nil {
		return err
	}

	if playing {
		if err := s.session.Pause(); err != nil {
			return err
		}
		if s.currentSong != nil {
			position, posErr := s.session.Position()
			if posErr != nil {
				position = 0
			}
			s.bus.Publish(domain.NewSongPausedEvent(*s.currentSong, position))
		}
		return nil
	}

	if err := s.session.Play(); err != nil {
		return err
	}
	if s.currentSong != nil {
		s.bus.Publish(domain.NewSongStartedEvent(*s.currentSong))
	}
	return nil
}

// SeekTo sets the playback position on the live session. Values are clamped
// into [0, duration] before delegation. No-op when no session is live.
func (s *PlayerService) SeekTo(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil
	}

	if position < 0 {
		position = 0
	}
	if duration, err := s.session.Duration(); err == nil && position > duration {
		position = duration
	}

	return s.session.Seek(position)
}

// SetPlayMode sets the play mode and persists it. Invalid modes are ignored.
func (s *PlayerService) SetPlayMode(mode domain.PlayMode) {
	if !mode.Valid() {
		return
	}

	s.mu.Lock()
	s.mode = mode
	if err := s.history.SavePlayMode(mode); err != nil {
		s.logger.Warn("failed to persist play mode", slog.Any("error", err))
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlayModeChangedEvent(mode))
}

// CyclePlayMode advances normal -> repeat -> repeat-one -> shuffle -> normal.
func (s *PlayerService) CyclePlayMode() domain.PlayMode {
	s.mu.RLock()
	current := s.mode
	s.mu.RUnlock()

	var next domain.PlayMode
	switch current {
	case domain.PlayModeNormal:
		next = domain.PlayModeRepeat
	case domain.PlayModeRepeat:
		next = domain.PlayModeRepeatOne
	case domain.PlayModeRepeatOne:
		next = domain.PlayModeShuffle
	default:
		next = domain.PlayModeNormal
	}

	s.SetPlayMode(next)
	return next
}

// ShuffleQueue randomly permutes the stored queue order and restarts playback
// from index 0. This is the explicit "shuffle the list" action; it is
// unrelated to PlayModeShuffle, which only randomizes cursor advancement.
func (s *PlayerService) ShuffleQueue(ctx context.Context) error {
	s.mu.Lock()

	if len(s.queue) == 0 {
		s.mu.Unlock()
		return nil
	}

	rand.Shuffle(len(s.queue), func(i, j int) {
		s.queue[i], s.queue[j] = s.queue[j], s.queue[i]
	})
	s.currentIndex = 0
	s.persistQueueStateLocked()
	queueCopy := s.queueSnapshot()
	s.mu.Unlock()

	s.bus.Publish(domain.NewQueueChangedEvent(queueCopy, 0))

	return s.loadCurrent(ctx)
}

// Stop tears down the live session without clearing the queue or cursor.
func (s *PlayerService) Stop() {
	s.mu.Lock()
	s.teardownSessionLocked()
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackStoppedEvent())
}

// State returns a point-in-time snapshot of the player.
func (s *PlayerService) State() domain.PlayerState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := domain.PlayerState{
		CurrentIndex: s.currentIndex,
		Queue:        s.queueSnapshot(),
		Mode:         s.mode,
		IsLoading:    s.isLoading,
	}

	if s.currentSong != nil {
		song := *s.currentSong
		state.CurrentSong = &song
	}

	if s.session != nil {
		if playing, err := s.session.IsPlaying(); err == nil {
			state.IsPlaying = playing
		}
		if position, err := s.session.Position(); err == nil {
			state.Position = position
		}
		if duration, err := s.session.Duration(); err == nil {
			state.Duration = duration
		}
	}

	return state
}

// PlayMode returns the active play mode.
func (s *PlayerService) PlayMode() domain.PlayMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Shutdown stops the update routine and tears down the live session. The
// engine stays open; its lifecycle belongs to whoever injected it.
func (s *PlayerService) Shutdown() error {
	s.mu.Lock()
	if s.updateRunning {
		close(s.stopUpdate)
		s.updateRunning = false
	}
	s.mu.Unlock()

	s.updateWg.Wait()

	s.mu.Lock()
	s.teardownSessionLocked()
	s.mu.Unlock()

	return nil
}

// loadCurrent resolves a playable source for the song at the cursor and hands
// it to the audio engine. Any prior session is torn down first. The slow work
// (source resolution, fetch, decode) runs outside the lock; a generation
// check afterwards discards this load if a newer one superseded it.
func (s *PlayerService) loadCurrent(ctx context.Context) error {
	s.mu.Lock()

	if s.currentIndex < 0 || s.currentIndex >= len(s.queue) {
		s.mu.Unlock()
		return nil
	}

	s.teardownSessionLocked()

	s.loadGen++
	gen := s.loadGen

	song := s.queue[s.currentIndex]
	index := s.currentIndex
	s.currentSong = &song
	s.isLoading = true
	s.completionFired = false

	if err := s.history.SaveCurrentSong(&song); err != nil {
		s.logger.Warn("failed to persist current song", slog.Any("error", err))
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewSongLoadingEvent(song, index))

	locator, err := s.resolveSource(ctx, song)
	if err != nil {
		s.finishFailedLoad(gen, song, err)
		return err
	}

	session, err := s.engine.Load(ctx, locator)
	if err != nil {
		s.finishFailedLoad(gen, song, err)
		return err
	}

	s.mu.Lock()
	if s.loadGen != gen {
		// A newer load superseded this one while we were fetching/decoding.
		s.mu.Unlock()
		if unloadErr := session.Unload(); unloadErr != nil {
			s.logger.Warn("failed to unload superseded session", slog.Any("error", unloadErr))
		}
		s.logger.Debug("discarded superseded load", slog.String("song_id", song.ID))
		return nil
	}

	s.session = session
	s.isLoading = false
	s.mu.Unlock()

	duration, err := session.Duration()
	if err != nil {
		duration = song.DurationTime()
	}

	s.bus.Publish(domain.NewSongLoadedEvent(song, index, duration))

	if err := session.Play(); err != nil {
		return err
	}

	s.bus.Publish(domain.NewSongStartedEvent(song))

	s.logger.Info("now playing",
		slog.String("song_id", song.ID),
		slog.String("name", song.Name),
		slog.Int("index", index))

	return nil
}

// finishFailedLoad resets loading state after a failed load, unless a newer
// load already took over.
func (s *PlayerService) finishFailedLoad(gen uint64, song domain.Song, err error) {
	s.mu.Lock()
	if s.loadGen == gen {
		s.isLoading = false
	}
	s.mu.Unlock()

	s.logger.Error("failed to load song",
		slog.String("song_id", song.ID),
		slog.Any("error", err))

	s.bus.Publish(domain.NewSongErrorEvent(song, err))
}

// resolveSource determines a playable locator for a song: a verified local
// copy first, then the record's own download URL, then a fresh catalog
// lookup. Returns ErrNoPlayableSource when all three come up empty.
func (s *PlayerService) resolveSource(ctx context.Context, song domain.Song) (string, error) {
	if s.local != nil {
		if path, ok := s.local.LocalLocator(song.ID); ok {
			s.logger.Debug("using local copy", slog.String("song_id", song.ID))
			return path, nil
		}
	}

	if url := song.BestDownloadURL(); url != "" {
		return url, nil
	}

	// The stored record may predate the catalog exposing download URLs.
	if s.catalog != nil {
		fresh, err := s.catalog.GetByID(ctx, song.ID)
		if err == nil && fresh != nil {
			if url := fresh.BestDownloadURL(); url != "" {
				return url, nil
			}
		}
	}

	return "", domain.ErrNoPlayableSource
}

// teardownSessionLocked unloads the live session, if any. Caller must hold
// the write lock. Bumping the generation here also invalidates any load still
// in flight.
func (s *PlayerService) teardownSessionLocked() {
	s.loadGen++
	s.isLoading = false

	if s.session == nil {
		return
	}

	if err := s.session.Unload(); err != nil {
		s.logger.Warn("failed to unload session", slog.Any("error", err))
	}
	s.session = nil
}

// persistQueueStateLocked saves the queue and cursor. Caller must hold the
// write lock. Failures are logged; in-memory state stays authoritative.
func (s *PlayerService) persistQueueStateLocked() {
	if err := s.history.SaveQueue(s.queue); err != nil {
		s.logger.Warn("failed to persist queue", slog.Any("error", err))
	}
	if err := s.history.SaveCurrentIndex(s.currentIndex); err != nil {
		s.logger.Warn("failed to persist current index", slog.Any("error", err))
	}
	if s.currentIndex < 0 {
		if err := s.history.SaveCurrentSong(nil); err != nil {
			s.logger.Warn("failed to clear current song", slog.Any("error", err))
		}
	}
}

// queueSnapshot copies the queue for handing to observers. Caller must hold
// at least the read lock.
func (s *PlayerService) queueSnapshot() []domain.Song {
	if len(s.queue) == 0 {
		return nil
	}
	out := make([]domain.Song, len(s.queue))
	copy(out, s.queue)
	return out
}

// startUpdateRoutine starts a goroutine that periodically publishes progress
// events and detects natural end of track.
func (s *PlayerService) startUpdateRoutine() {
	s.mu.Lock()
	if s.updateRunning {
		s.mu.Unlock()
		return
	}
	s.updateRunning = true
	s.updateWg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.updateWg.Done()
		ticker := time.NewTicker(s.updateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopUpdate:
				return

			case <-ticker.C:
				s.publishProgressUpdate()
			}
		}
	}()
}

// publishProgressUpdate publishes a progress event for the live session and
// fires the natural-end advance exactly once per track.
func (s *PlayerService) publishProgressUpdate() {
	s.mu.Lock()

	if s.session == nil || s.currentSong == nil {
		s.mu.Unlock()
		return
	}

	position, err := s.session.Position()
	if err != nil {
		s.mu.Unlock()
		return
	}

	duration, err := s.session.Duration()
	if err != nil {
		s.mu.Unlock()
		return
	}

	playing, err := s.session.IsPlaying()
	if err != nil {
		s.mu.Unlock()
		return
	}

	finished := false
	var song domain.Song
	var index int
	if playing && duration > 0 && position >= duration-completionEpsilon && !s.completionFired {
		s.completionFired = true
		finished = true
		song = *s.currentSong
		index = s.currentIndex
	}

	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackProgressEvent(position, duration, playing))

	if finished {
		s.bus.Publish(domain.NewSongCompletedEvent(song, index))

		if err := s.PlayNext(context.Background()); err != nil {
			s.logger.Warn("auto-advance failed", slog.Any("error", err))
		}
	}
}
