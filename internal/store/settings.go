package store

import (
	"context"
	"log/slog"

	"github.com/Veraticus/wallet/internal/model"
)

// ThemeStore persists the theme preference.
type ThemeStore interface {
	Theme(ctx context.Context) (model.Theme, error)
	SaveTheme(ctx context.Context, theme model.Theme) error
}

// SettingsState holds user preferences. Only the theme is persisted.
type SettingsState struct {
	Theme         model.Theme
	Currency      string
	Notifications bool
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() SettingsState {
	return SettingsState{Theme: model.DefaultTheme, Currency: model.DefaultCurrency, Notifications: true}
}

// Settings is the settings store.
type Settings struct {
	*Container[SettingsState]
	themes ThemeStore
}

// NewSettings creates the settings store.
func NewSettings(themes ThemeStore) *Settings {
	return &Settings{Container: NewContainer(DefaultSettings()), themes: themes}
}

// Load reads the persisted theme.
func (s *Settings) Load(ctx context.Context) {
	theme, err := s.themes.Theme(ctx)
	if err != nil {
		slog.Warn("Failed to read theme preference", "error", err)
	}
	s.Apply(func(st SettingsState) SettingsState {
		st.Theme = theme
		return st
	})
}

// SetTheme changes and persists the theme. A failed write is logged only.
func (s *Settings) SetTheme(ctx context.Context, theme model.Theme) {
	s.Apply(func(st SettingsState) SettingsState {
		st.Theme = theme
		return st
	})
	if err := s.themes.SaveTheme(ctx, theme); err != nil {
		slog.Warn("Failed to persist theme preference", "error", err)
	}
}

// ToggleTheme flips between light and dark.
func (s *Settings) ToggleTheme(ctx context.Context) model.Theme {
	next := s.Snapshot().Theme.Toggle()
	s.SetTheme(ctx, next)
	return next
}

// SetCurrency changes the display currency for this session.
func (s *Settings) SetCurrency(currency string) {
	s.Apply(func(st SettingsState) SettingsState {
		st.Currency = currency
		return st
	})
}

// SetNotifications toggles notifications for this session.
func (s *Settings) SetNotifications(enabled bool) {
	s.Apply(func(st SettingsState) SettingsState {
		st.Notifications = enabled
		return st
	})
}
