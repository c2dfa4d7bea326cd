// Package prefskv adapts fyne.Preferences to the KeyValueStore port.
//
// Fyne preferences automatically use OS-specific app data directories:
// - macOS: ~/Library/Preferences/com.sargam.app.plist
// - Linux: ~/.config/fyne/com.sargam.app/
// - Windows: %APPDATA%\fyne\com.sargam.app\
// Writes are flushed by Fyne in the background; a failed flush leaves the
// in-memory value authoritative, which is exactly the contract the port asks
// for.
package prefskv

import (
	"fyne.io/fyne/v2"

	"github.com/sargamapp/sargam/internal/ports"
)

// Store wraps fyne.Preferences. Fyne's preferences are already safe for
// concurrent use, so no extra locking is needed here.
type Store struct {
	prefs fyne.Preferences
}

// NewStore creates a store backed by the given preferences, typically
// obtained from fyne.CurrentApp().Preferences().
func NewStore(prefs fyne.Preferences) *Store {
	return &Store{prefs: prefs}
}

func (s *Store) String(key string) string {
	return s.prefs.String(key)
}

func (s *Store) StringWithFallback(key, fallback string) string {
	return s.prefs.StringWithFallback(key, fallback)
}

func (s *Store) SetString(key, value string) {
	s.prefs.SetString(key, value)
}

func (s *Store) Int(key string) int {
	return s.prefs.Int(key)
}

func (s *Store) SetInt(key string, value int) {
	s.prefs.SetInt(key, value)
}

func (s *Store) Bool(key string) bool {
	return s.prefs.Bool(key)
}

func (s *Store) BoolWithFallback(key string, fallback bool) bool {
	return s.prefs.BoolWithFallback(key, fallback)
}

func (s *Store) SetBool(key string, value bool) {
	s.prefs.SetBool(key, value)
}

func (s *Store) RemoveValue(key string) {
	s.prefs.RemoveValue(key)
}

// Verify interface implementation
var _ ports.KeyValueStore = (*Store)(nil)
