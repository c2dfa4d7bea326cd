// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrQueueEmpty is returned when navigation is attempted on an empty queue.
	ErrQueueEmpty = errors.New("queue is empty")

	// ErrNoActiveSession is returned when a transport control is used with no
	// live audio session (toggle play/pause, seek).
	ErrNoActiveSession = errors.New("no active playback session")

	// ErrNoPlayableSource is returned when neither a verified local copy, the
	// song record, nor a fresh catalog lookup yields a usable URL.
	ErrNoPlayableSource = errors.New("no playable source for song")

	// ErrNoDownloadURL is returned when a song record carries no download URL.
	ErrNoDownloadURL = errors.New("no download URL available")

	// ErrDownloadUnsupported is returned when the platform provides no
	// writable location for local downloads.
	ErrDownloadUnsupported = errors.New("downloads are not supported on this platform")

	// ErrPlaylistNotFound is returned when a playlist ID does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrEmptyPlaylistName is returned when creating a playlist with a name
	// that is empty after trimming whitespace.
	ErrEmptyPlaylistName = errors.New("playlist name is empty")

	// ErrSongNotFound is returned when a catalog lookup yields no record.
	ErrSongNotFound = errors.New("song not found")

	// ErrInvalidPosition is returned when seeking outside the track bounds.
	ErrInvalidPosition = errors.New("invalid playback position")

	// ErrSessionUnloaded is returned by session operations after Unload.
	ErrSessionUnloaded = errors.New("audio session already unloaded")
)

// CatalogError represents a failure talking to the remote music catalog.
type CatalogError struct {
	Op         string // Operation that failed ("search", "get_by_id", "artist_songs")
	Query      string // Query or ID, for context
	StatusCode int    // HTTP status code, 0 when the request never completed
	Err        error  // Underlying error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog %s %q failed: status %d", e.Op, e.Query, e.StatusCode)
	}
	return fmt.Sprintf("catalog %s %q failed: %v", e.Op, e.Query, e.Err)
}

// Unwrap returns the underlying error.
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// NewCatalogError creates a new CatalogError.
func NewCatalogError(op, query string, statusCode int, err error) *CatalogError {
	return &CatalogError{Op: op, Query: query, StatusCode: statusCode, Err: err}
}

// LoadError represents an audio engine failure to load or decode a resolved source.
type LoadError struct {
	Locator string // Remote URL or local path that failed
	Err     error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %q: %v", e.Locator, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(locator string, err error) *LoadError {
	return &LoadError{Locator: locator, Err: err}
}

// DownloadError represents a failed or rejected download transfer.
// The downloaded-set is never mutated when a DownloadError is returned.
type DownloadError struct {
	SongID string
	Err    error
}

// Error implements the error interface.
func (e *DownloadError) Error() string {
	return fmt.Sprintf("download of song %s failed: %v", e.SongID, e.Err)
}

// Unwrap returns the underlying error.
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError creates a new DownloadError.
func NewDownloadError(songID string, err error) *DownloadError {
	return &DownloadError{SongID: songID, Err: err}
}

// RepositoryError represents a persistence failure. Callers treat these as
// recoverable: reads fall back to defaults, writes leave in-memory state
// authoritative for the rest of the session.
type RepositoryError struct {
	Op      string // Operation that failed (e.g. "save", "load")
	Type    string // Repository type (e.g. "history", "favorites")
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{Op: op, Type: repoType, Message: message, Err: err}
}
