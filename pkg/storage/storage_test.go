package storage_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbind/pkg/storage"
)

func TestParseLocation(t *testing.T) {
	cases := []struct {
		name string
		path string
		want storage.Location
	}{
		{name: "module page", path: "/app/orders/edit.html", want: storage.Location{Module: "orders", Page: "edit"}},
		{name: "root page", path: "/index.html", want: storage.Location{Module: "[root]", Page: "index"}},
		{name: "directory", path: "/app/orders/", want: storage.Location{Module: "orders", Page: "index"}},
		{name: "empty", path: "", want: storage.Location{Module: "[root]", Page: "index"}},
		{name: "query string", path: "/orders/list.htm?page=2", want: storage.Location{Module: "orders", Page: "list"}},
		{name: "dotfile keeps name", path: "/x/.hidden", want: storage.Location{Module: "x", Page: ".hidden"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, storage.ParseLocation(tc.path))
		})
	}
}

func TestStoreScopes(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := storage.New(backend, "/app/orders/edit.html")

	require.Equal(t, "@page/orders/edit/cond", store.Key(storage.ScopePage, "cond"))
	require.Equal(t, "@module/orders/cond", store.Key(storage.ScopeModule, "cond"))
	require.Equal(t, "@system/cond", store.Key(storage.ScopeSystem, "cond"))

	require.NoError(t, store.Set(ctx, storage.ScopePage, "cond", map[string]any{"q": "abc", "n": 2}))
	require.NoError(t, store.Set(ctx, storage.ScopeModule, "cond", struct {
		Sort string `json:"sort"`
	}{Sort: "asc"}))
	require.NoError(t, store.Set(ctx, storage.ScopeSystem, "user", map[string]any{"id": "U1"}))

	got, ok, err := store.Get(ctx, storage.ScopePage, "cond")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[string]any{"q": "abc", "n": float64(2)}, got)

	got, ok, err = store.Get(ctx, storage.ScopeModule, "cond")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, map[string]any{"sort": "asc"}, got)

	other := storage.New(backend, "/app/orders/list.html")
	_, ok, err = other.Get(ctx, storage.ScopePage, "cond")
	require.NoError(t, err)
	require.False(t, ok, "page scope must not leak across pages")
	_, ok, err = other.Get(ctx, storage.ScopeModule, "cond")
	require.NoError(t, err)
	require.True(t, ok, "module scope is shared by pages of a module")

	removed, err := store.ClearPage(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	require.NoError(t, store.ClearAll(ctx))
	keys, err := backend.Keys(ctx, "")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestStoreRejectsNonObjects(t *testing.T) {
	ctx := context.Background()
	store := storage.New(storage.NewMemory(), "/a/b.html")

	require.ErrorIs(t, store.Set(ctx, storage.ScopeSystem, "list", []string{"a"}), storage.ErrNotObject)
	require.ErrorIs(t, store.Set(ctx, storage.ScopeSystem, "n", 3), storage.ErrNotObject)
	require.ErrorIs(t, store.Set(ctx, storage.ScopeSystem, " ", map[string]any{}), storage.ErrKeyRequired)
	_, _, err := store.Get(ctx, storage.ScopeSystem, "")
	require.ErrorIs(t, err, storage.ErrKeyRequired)
}

func TestStoreDropsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	store := storage.New(backend, "/a/b.html", storage.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	require.NoError(t, backend.Set(ctx, "@system/broken", "{not json"))
	got, ok, err := store.Get(ctx, storage.ScopeSystem, "broken")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, got)

	_, exists, err := backend.Get(ctx, "@system/broken")
	require.NoError(t, err)
	require.False(t, exists, "corrupt entry should be deleted")
}
