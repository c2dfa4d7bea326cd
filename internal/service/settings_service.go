package service

import (
	"log/slog"
	"sync"

	"github.com/sargamapp/sargam/internal/domain"
	"github.com/sargamapp/sargam/internal/ports"
)

// SettingsService manages appearance preferences: theme and mini-player
// visibility.
type SettingsService struct {
	// Dependencies (injected)
	logger *slog.Logger
	repo   ports.SettingsRepository
	bus    ports.EventBus

	// State
	theme             domain.Theme
	miniPlayerVisible bool
	mu                sync.RWMutex
}

// NewSettingsService creates a settings service with persisted values loaded.
func NewSettingsService(logger *slog.Logger, repo ports.SettingsRepository, bus ports.EventBus) *SettingsService {
	theme, err := repo.LoadTheme()
	if err != nil {
		theme = domain.ThemeLight
	}
	visible, err := repo.LoadMiniPlayerVisible()
	if err != nil {
		visible = true
	}

	return &SettingsService{
		logger:            logger,
		repo:              repo,
		bus:               bus,
		theme:             theme,
		miniPlayerVisible: visible,
	}
}

// Theme returns the active theme.
func (s *SettingsService) Theme() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *SettingsService) ToggleTheme() domain.Theme {
	s.mu.Lock()
	if s.theme == domain.ThemeLight {
		s.theme = domain.ThemeDark
	} else {
		s.theme = domain.ThemeLight
	}
	theme := s.theme

	if err := s.repo.SaveTheme(theme); err != nil {
		s.logger.Warn("failed to persist theme", slog.Any("error", err))
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewThemeChangedEvent(theme))
	return theme
}

// MiniPlayerVisible reports whether the mini player is shown.
func (s *SettingsService) MiniPlayerVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.miniPlayerVisible
}

// SetMiniPlayerVisible sets mini-player visibility.
func (s *SettingsService) SetMiniPlayerVisible(visible bool) {
	s.mu.Lock()
	if s.miniPlayerVisible == visible {
		s.mu.Unlock()
		return
	}
	s.miniPlayerVisible = visible

	if err := s.repo.SaveMiniPlayerVisible(visible); err != nil {
		s.logger.Warn("failed to persist mini player visibility", slog.Any("error", err))
	}
	s.mu.Unlock()

	s.bus.Publish(domain.NewMiniPlayerToggledEvent(visible))
}
