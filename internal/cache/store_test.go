package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/wallet/internal/model"
)

// backends returns one migrated store per backend kind.
func backends(t *testing.T) map[string]*Store {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	out := map[string]*Store{}
	for _, kind := range []string{"sqlite", "file"} {
		b, err := Open(ctx, kind, filepath.Join(dir, "cache."+kind))
		require.NoError(t, err)
		t.Cleanup(func() { _ = b.Close() })
		out[kind] = New(b)
	}
	return out
}

func TestStore_AccountsRoundTrip(t *testing.T) {
	for kind, store := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()

			accounts, err := store.Accounts(ctx)
			require.NoError(t, err)
			assert.Empty(t, accounts)

			want := []model.Account{
				{ID: model.RemoteID(7), Name: "Cash", Balance: model.MustMoney("15000.50"), Icon: "cash"},
				{ID: model.LocalID("abc"), Name: "Offline", Balance: model.MustMoney("0")},
			}
			require.NoError(t, store.SaveAccounts(ctx, want))

			got, err := store.Accounts(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.True(t, got[0].ID.Matches(model.RemoteID(7)))
			assert.True(t, got[0].Balance.Equal(want[0].Balance.Decimal))
			assert.Equal(t, "local-abc", got[1].ID.String())

			require.NoError(t, store.SaveAccounts(ctx, nil))
			got, err = store.Accounts(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestStore_CategoriesRehashLegacyIDs(t *testing.T) {
	ctx := context.Background()
	store := backends(t)["sqlite"]

	raw := `[{"id":"food","name":"Food","type":"expense"},{"id":12,"name":"Salary","type":"income"}]`
	require.NoError(t, store.Backend().Set(ctx, KeyCategories, []byte(raw)))

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.True(t, categories[0].ID.IsRemote())
	assert.True(t, categories[0].ID.Matches(model.LegacyCategoryID("food")))
	assert.True(t, categories[1].ID.Matches(model.RemoteID(12)))
}

func TestStore_CorruptEntryReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := backends(t)["sqlite"]

	require.NoError(t, store.Backend().Set(ctx, KeyAccounts, []byte(`{"not":"a list"}`)))

	accounts, err := store.Accounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestStore_Session(t *testing.T) {
	for kind, store := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()

			session, err := store.Session(ctx)
			require.NoError(t, err)
			assert.Nil(t, session)

			require.NoError(t, store.SaveSession(ctx, model.Session{
				ID: model.RemoteID(1), Username: "alice", Access: "a1", Refresh: "r1",
			}))
			session, err = store.Session(ctx)
			require.NoError(t, err)
			require.NotNil(t, session)
			assert.Equal(t, "alice", session.Username)
			assert.True(t, session.Authenticated())

			require.NoError(t, store.ClearSession(ctx))
			session, err = store.Session(ctx)
			require.NoError(t, err)
			assert.Nil(t, session)
		})
	}
}

func TestStore_Theme(t *testing.T) {
	for kind, store := range backends(t) {
		t.Run(kind, func(t *testing.T) {
			ctx := context.Background()

			theme, err := store.Theme(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.DefaultTheme, theme)

			require.NoError(t, store.SaveTheme(ctx, model.ThemeLight))
			theme, err = store.Theme(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.ThemeLight, theme)
		})
	}
}

func TestStore_ThemeAcceptsBareString(t *testing.T) {
	ctx := context.Background()
	store := backends(t)["sqlite"]

	// Older clients stored the theme name without JSON quoting.
	b := store.Backend().(*SQLiteBackend)
	_, err := b.db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, KeyTheme, "light")
	require.NoError(t, err)

	theme, err := store.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, theme)
}

func TestFileBackend_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	b, err := NewFileBackend(path)
	require.NoError(t, err)
	require.NoError(t, New(b).SaveTheme(ctx, model.ThemeLight))
	require.NoError(t, b.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.JSONEq(t, `"light"`, string(entries[KeyTheme]))

	reopened, err := NewFileBackend(path)
	require.NoError(t, err)
	theme, err := New(reopened).Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, theme)
}

func TestFileBackend_RejectsInvalidJSON(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	err = b.Set(context.Background(), "k", []byte("not json"))
	require.Error(t, err)

	_, ok, err := b.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBackends_ClosedUse(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, _, err = b.Get(context.Background(), KeyTheme)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, b.Set(context.Background(), KeyTheme, []byte(`"dark"`)), ErrClosed)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), "redis", "")
	require.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Migrate(ctx))
	require.NoError(t, b.Migrate(ctx))

	var version int
	require.NoError(t, b.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	require.NoError(t, b.Set(ctx, "k", []byte(`1`)))
	var updated string
	require.NoError(t, b.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = 'k'`).Scan(&updated))
	assert.NotEmpty(t, updated)
}
