package kv

import (
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// Storage keys owned by SettingsRepository.
const (
	keyThemeMode         = "theme_mode"
	keyMiniPlayerVisible = "mini_player_visible"
)

// SettingsRepository persists appearance and layout preferences.
//
// Thread-safe: all operations protected by sync.RWMutex.
type SettingsRepository struct {
	store ports.KeyValueStore
	mu    sync.RWMutex
}

// NewSettingsRepository creates a new settings repository on the given store.
func NewSettingsRepository(store ports.KeyValueStore) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// SaveTheme persists the theme preference.
func (r *SettingsRepository) SaveTheme(theme domain.Theme) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.SetString(keyThemeMode, string(theme))
	return nil
}

// LoadTheme retrieves the saved theme, light when absent or unknown.
func (r *SettingsRepository) LoadTheme() (domain.Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.ParseTheme(r.store.String(keyThemeMode)), nil
}

// SaveMiniPlayerVisible persists mini-player visibility.
func (r *SettingsRepository) SaveMiniPlayerVisible(visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.SetBool(keyMiniPlayerVisible, visible)
	return nil
}

// LoadMiniPlayerVisible retrieves the saved visibility, true when absent.
func (r *SettingsRepository) LoadMiniPlayerVisible() (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.store.BoolWithFallback(keyMiniPlayerVisible, true), nil
}

// Verify interface implementation
var _ ports.SettingsRepository = (*SettingsRepository)(nil)
