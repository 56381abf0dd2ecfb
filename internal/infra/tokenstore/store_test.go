package tokenstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"pricing/internal/domain/entity"
	"pricing/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestSQLite(t *testing.T, path string) service.TokenStore {
	t.Helper()

	db, err := OpenSQLite(path, discardLogger(), false)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return NewSQLiteStore(db, discardLogger())
}

func testStores(t *testing.T) map[string]service.TokenStore {
	return map[string]service.TokenStore{
		"memory": NewMemoryStore(),
		"sqlite": openTestSQLite(t, filepath.Join(t.TempDir(), "console.db")),
	}
}

func TestTokenStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	profile := &entity.Profile{ID: 7, Username: "ana", FirstName: "Ana", UserType: entity.UserTypeAnalyst}

	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.SetToken(ctx, "T1"))
			require.NoError(t, store.SetToken(ctx, "T2"))
			require.NoError(t, store.SetUser(ctx, profile))

			token, ok, err := store.Token(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "T2", token)

			user, ok, err := store.User(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, profile, user)

			require.NoError(t, store.Clear(ctx))

			_, ok, err = store.Token(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			_, ok, err = store.User(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	first := openTestSQLite(t, path)
	require.NoError(t, first.SetToken(ctx, "persisted"))
	require.NoError(t, first.SetUser(ctx, &entity.Profile{ID: 1, Username: "admin", UserType: entity.UserTypeAdmin}))

	second := openTestSQLite(t, path)

	token, ok, err := second.Token(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)

	user, ok, err := second.User(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "admin", user.Username)
}

func TestSQLiteStore_CorruptUserReadsAsNone(t *testing.T) {
	for _, raw := range []string{"undefined", "null", " null\n", "[1,2]"} {
		t.Run(raw, func(t *testing.T) {
			ctx := context.Background()
			store := openTestSQLite(t, filepath.Join(t.TempDir(), "console.db"))

			sqlite, ok := store.(*sqliteStore)
			require.True(t, ok)
			require.NoError(t, sqlite.put(ctx, KeyUser, raw))

			user, ok, err := store.User(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, user)
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	profile := &entity.Profile{ID: 1, Username: "buyer"}

	require.NoError(t, store.SetUser(ctx, profile))
	profile.Username = "changed"

	user, _, err := store.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "buyer", user.Username)
}
