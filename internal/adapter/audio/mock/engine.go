// Package mock provides a mock implementation of the AudioEngine interface.
// It simulates playback in memory so services can be tested without an audio
// device or network access.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// Engine is a mock AudioEngine. Sessions it creates do not advance position
// on their own; tests drive progress explicitly with SimulateProgress.
//
// Thread-safety: all operations are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	// Behavior configuration for error scenarios.
	failLoad  bool
	loadDelay time.Duration

	// defaultDuration is reported by new sessions.
	defaultDuration time.Duration

	sessions []*Session
	closed   bool
}

// NewEngine creates a new mock audio engine.
func NewEngine() *Engine {
	return &Engine{
		defaultDuration: 3 * time.Minute,
	}
}

// SetFailLoad configures the mock to fail subsequent Load calls.
func (m *Engine) SetFailLoad(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = fail
}

// SetLoadDelay makes Load block for the given duration, so tests can overlap
// two loads deterministically.
func (m *Engine) SetLoadDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDelay = d
}

// SetDefaultDuration sets the duration reported by sessions created later.
func (m *Engine) SetDefaultDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultDuration = d
}

// Load creates a new paused session for the locator.
func (m *Engine) Load(ctx context.Context, locator string) (ports.AudioSession, error) {
	m.mu.Lock()
	fail := m.failLoad
	delay := m.loadDelay
	duration := m.defaultDuration
	closed := m.closed
	m.mu.Unlock()

	if closed {
		return nil, domain.NewLoadError(locator, fmt.Errorf("engine closed"))
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, domain.NewLoadError(locator, ctx.Err())
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, domain.NewLoadError(locator, err)
	}

	if fail || locator == "" {
		return nil, domain.NewLoadError(locator, fmt.Errorf("mock load failed"))
	}

	session := &Session{
		locator:  locator,
		duration: duration,
	}

	m.mu.Lock()
	m.sessions = append(m.sessions, session)
	m.mu.Unlock()

	return session, nil
}

// Close marks the engine closed; later loads fail.
func (m *Engine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sessions returns every session this engine has created, in load order.
func (m *Engine) Sessions() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// LiveSessionCount returns how many created sessions are not yet unloaded.
// The player contract is that this never exceeds one.
func (m *Engine) LiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, s := range m.sessions {
		if !s.IsUnloaded() {
			count++
		}
	}
	return count
}

// Session is a mock AudioSession.
type Session struct {
	mu       sync.Mutex
	locator  string
	duration time.Duration
	position time.Duration
	playing  bool
	unloaded bool
}

// Locator returns the locator this session was loaded from.
func (s *Session) Locator() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locator
}

// IsUnloaded reports whether Unload has been called.
func (s *Session) IsUnloaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unloaded
}

// SimulateProgress advances the playback position, clamped to the duration.
func (s *Session) SimulateProgress(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return
	}
	s.position += delta
	if s.position > s.duration {
		s.position = s.duration
	}
}

// Play starts or resumes playback.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return domain.ErrSessionUnloaded
	}
	s.playing = true
	return nil
}

// Pause pauses playback.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return domain.ErrSessionUnloaded
	}
	s.playing = false
	return nil
}

// Seek sets the playback position.
func (s *Session) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return domain.ErrSessionUnloaded
	}
	if position < 0 || position > s.duration {
		return domain.ErrInvalidPosition
	}
	s.position = position
	return nil
}

// Position returns the current playback position.
func (s *Session) Position() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return 0, domain.ErrSessionUnloaded
	}
	return s.position, nil
}

// Duration returns the track duration.
func (s *Session) Duration() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return 0, domain.ErrSessionUnloaded
	}
	return s.duration, nil
}

// IsPlaying reports whether the session is playing.
func (s *Session) IsPlaying() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return false, domain.ErrSessionUnloaded
	}
	return s.playing, nil
}

// Unload stops playback and marks the session dead. Idempotent.
func (s *Session) Unload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
	s.unloaded = true
	return nil
}

// Verify interface implementations
var (
	_ ports.AudioEngine  = (*Engine)(nil)
	_ ports.AudioSession = (*Session)(nil)
)
