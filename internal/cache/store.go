package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/wallet/internal/model"
)

// Keys of the persisted client state.
const (
	KeyAccounts   = "wallet_accounts"
	KeyCategories = "wallet_categories"
	KeySession    = "user"
	KeyTheme      = "theme"
)

// Store is the typed view over a Backend. Write errors are returned to the
// caller, which logs them; nothing here retries.
type Store struct {
	backend Backend
}

// New wraps backend.
func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Accounts returns the account snapshot. A missing or corrupt entry reads
// as an empty list.
func (s *Store) Accounts(ctx context.Context) ([]model.Account, error) {
	return readList[model.Account](ctx, s.backend, KeyAccounts)
}

// SaveAccounts overwrites the account snapshot.
func (s *Store) SaveAccounts(ctx context.Context, accounts []model.Account) error {
	return writeJSON(ctx, s.backend, KeyAccounts, nonNil(accounts))
}

// Categories returns the category snapshot. Legacy string identifiers are
// rehashed to numbers while decoding.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	return readList[model.Category](ctx, s.backend, KeyCategories)
}

// SaveCategories overwrites the category snapshot.
func (s *Store) SaveCategories(ctx context.Context, categories []model.Category) error {
	return writeJSON(ctx, s.backend, KeyCategories, nonNil(categories))
}

// Session returns the stored session, or nil when nobody is logged in.
func (s *Store) Session(ctx context.Context) (*model.Session, error) {
	raw, ok, err := s.backend.Get(ctx, KeySession)
	if err != nil || !ok {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		slog.Warn("Discarding unreadable session record", "error", err)
		return nil, nil
	}
	return &session, nil
}

// SaveSession stores the session record.
func (s *Store) SaveSession(ctx context.Context, session model.Session) error {
	return writeJSON(ctx, s.backend, KeySession, session)
}

// ClearSession removes the session record.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.backend.Remove(ctx, KeySession)
}

// Theme returns the stored theme, or the default when none is stored.
func (s *Store) Theme(ctx context.Context) (model.Theme, error) {
	raw, ok, err := s.backend.Get(ctx, KeyTheme)
	if err != nil {
		return model.DefaultTheme, err
	}
	if !ok {
		return model.DefaultTheme, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		name = string(raw)
	}
	theme, err := model.ParseTheme(name)
	if err != nil {
		return model.DefaultTheme, nil
	}
	return theme, nil
}

// SaveTheme stores the theme preference.
func (s *Store) SaveTheme(ctx context.Context, theme model.Theme) error {
	return writeJSON(ctx, s.backend, KeyTheme, string(theme))
}

func readList[T any](ctx context.Context, b Backend, key string) ([]T, error) {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("Ignoring unreadable cache entry", "key", key, "error", err)
		return nil, nil
	}
	return items, nil
}

func writeJSON(ctx context.Context, b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return b.Set(ctx, key, data)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
