// Package ports defines interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"context"
	"time"
)

// AudioEngine creates playback sessions from media locators.
// A locator is an opaque reference the engine can open: a remote http(s) URL
// or a local file path.
//
// At most one non-unloaded AudioSession may exist at a time; the queue
// controller owns the session exclusively and tears it down before requesting
// a new one. Implementations must be thread-safe.
type AudioEngine interface {
	// Load resolves the locator, decodes the stream far enough to know its
	// duration and returns a paused session. The context bounds network and
	// decode work; a canceled context aborts the load.
	//
	// Returns a LoadError when the source cannot be fetched or decoded.
	Load(ctx context.Context, locator string) (AudioSession, error)

	// Close releases engine-wide resources (output device, temp files).
	Close() error
}

// AudioSession is one live load-to-unload lifecycle of the audio engine.
// All methods return ErrSessionUnloaded after Unload.
type AudioSession interface {
	// Play starts or resumes playback.
	Play() error

	// Pause pauses playback, preserving the position.
	Pause() error

	// Seek sets the playback position. The position must be within
	// [0, Duration].
	Seek(position time.Duration) error

	// Position returns the current playback position.
	Position() (time.Duration, error)

	// Duration returns the decoded track duration.
	Duration() (time.Duration, error)

	// IsPlaying reports whether the session is currently playing.
	IsPlaying() (bool, error)

	// Unload stops playback and releases the session's resources.
	// Unload is idempotent.
	Unload() error
}
