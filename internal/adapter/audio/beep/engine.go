// Package beep implements the AudioEngine port with the beep decoder and
// speaker. Remote sources are spooled to a temporary file before decoding;
// beep needs a seekable stream to report duration and support seeking.
package beep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// sampleRate is the speaker's fixed output rate. Sessions decoded at a
// different rate are resampled to it.
const sampleRate = beep.SampleRate(44100)

// initSpeaker guards the process-wide speaker initialization.
var initSpeaker sync.Once

// Engine decodes audio with beep and plays it through the default output
// device.
type Engine struct {
	http   *http.Client
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewEngine creates the engine and initializes the speaker. The timeout
// bounds the fetch of remote sources.
func NewEngine(timeout time.Duration, logger *slog.Logger) (*Engine, error) {
	var initErr error
	initSpeaker.Do(func() {
		initErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", initErr)
	}

	return &Engine{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// Load resolves the locator into a decoded, paused session. Remote locators
// are fetched into a temp file first; local paths are opened directly.
func (e *Engine) Load(ctx context.Context, locator string) (ports.AudioSession, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, domain.NewLoadError(locator, fmt.Errorf("engine closed"))
	}
	e.mu.Unlock()

	path := locator
	temp := false
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		spooled, err := e.spool(ctx, locator)
		if err != nil {
			return nil, domain.NewLoadError(locator, err)
		}
		path = spooled
		temp = true
	}

	file, err := os.Open(path)
	if err != nil {
		if temp {
			_ = os.Remove(path)
		}
		return nil, domain.NewLoadError(locator, err)
	}

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		_ = file.Close()
		if temp {
			_ = os.Remove(path)
		}
		return nil, domain.NewLoadError(locator, fmt.Errorf("failed to decode: %w", err))
	}

	duration := format.SampleRate.D(streamer.Len())

	session := &Session{
		streamer: streamer,
		format:   format,
		duration: duration,
		tempPath: "",
		logger:   e.logger,
	}
	if temp {
		session.tempPath = path
	}
	session.start()

	e.logger.Debug("audio source loaded",
		slog.String("locator", locator),
		slog.Duration("duration", duration),
		slog.Int("sample_rate", int(format.SampleRate)))

	return session, nil
}

// spool downloads a remote source into a temp file and returns its path.
func (e *Engine) spool(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "sargam-audio-*.mp3")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// Close marks the engine closed. The speaker stays initialized; it is a
// process-wide resource.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Session is one decoded track attached to the speaker. The streamer is
// wrapped in a beep.Ctrl that starts paused; Play and Pause flip the control
// under the speaker lock.
type Session struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	duration time.Duration
	ctrl     *beep.Ctrl
	tempPath string
	logger   *slog.Logger

	mu       sync.Mutex
	unloaded bool
}

// start attaches the session to the speaker mixer, paused.
func (s *Session) start() {
	s.ctrl = &beep.Ctrl{Streamer: s.streamer, Paused: true}

	var out beep.Streamer = s.ctrl
	if s.format.SampleRate != sampleRate {
		out = beep.Resample(4, s.format.SampleRate, sampleRate, s.ctrl)
	}
	speaker.Play(out)
}

// Play resumes playback.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return domain.ErrSessionUnloaded
	}

	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause pauses playback, preserving the position.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return domain.ErrSessionUnloaded
	}

	speaker.Lock()
	s.ctrl.Paused = true
	speaker.Unlock()
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

	speaker.Lock()
	err := s.streamer.Seek(s.format.SampleRate.N(position))
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("seek failed: %w", err)
	}
	return nil
}

// Position returns the current playback position.
func (s *Session) Position() (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return 0, domain.ErrSessionUnloaded
	}

	speaker.Lock()
	pos := s.streamer.Position()
	speaker.Unlock()
	return s.format.SampleRate.D(pos), nil
}

// Duration returns the decoded track duration.
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

	speaker.Lock()
	paused := s.ctrl.Paused
	speaker.Unlock()
	return !paused, nil
}

// Unload detaches the session from the speaker, closes the decoder and
// removes the spooled temp file. Idempotent.
func (s *Session) Unload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unloaded {
		return nil
	}
	s.unloaded = true

	// Dropping the streamer makes the mixer discard this source.
	speaker.Lock()
	s.ctrl.Paused = true
	s.ctrl.Streamer = nil
	speaker.Unlock()

	if err := s.streamer.Close(); err != nil && s.logger != nil {
		s.logger.Warn("failed to close audio streamer", slog.Any("error", err))
	}
	if s.tempPath != "" {
		_ = os.Remove(s.tempPath)
	}
	return nil
}

// Verify interface implementations
var (
	_ ports.AudioEngine  = (*Engine)(nil)
	_ ports.AudioSession = (*Session)(nil)
)
