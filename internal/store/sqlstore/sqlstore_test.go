package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/nextdir/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nextdir.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.Create(ctx, store.CollectionResources, store.Record{
		"title": "Prisma", "status": "approved", "stars": 32400, "featured": 1,
		"tags": `["orm","database"]`, "createdAt": "2024-01-20T00:00:00Z",
	})
	require.NoError(t, err)
	_, err = s.Create(ctx, store.CollectionResources, store.Record{
		"title": "Zustand", "status": "approved", "stars": 41200, "featured": false,
		"tags": `["state"]`, "createdAt": "2024-01-22T00:00:00Z",
	})
	require.NoError(t, err)
	_, err = s.Create(ctx, store.CollectionResources, store.Record{
		"title": "Draft", "status": "pending", "createdAt": "2024-02-01T00:00:00Z",
	})
	require.NoError(t, err)

	recs, err := s.List(ctx, store.CollectionResources, store.ListOptions{
		Where:   map[string]any{"status": "approved"},
		OrderBy: []store.Order{{Field: "createdAt", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Zustand", recs[0]["title"])
	assert.Equal(t, "Prisma", recs[1]["title"])
	assert.Equal(t, 1, recs[1]["featured"])
	assert.Equal(t, 32400, recs[1]["stars"])
	assert.Equal(t, `["orm","database"]`, recs[1]["tags"])
	assert.Equal(t, "2024-01-20T00:00:00Z", recs[1]["createdAt"])
	assert.NotEmpty(t, recs[1].ID())
}

func TestStore_ListFeaturedFilter(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, f := range []any{1, 0, true, "1"} {
		_, err := s.Create(ctx, store.CollectionResources, store.Record{"title": "x", "featured": f})
		require.NoError(t, err)
	}

	recs, err := s.List(ctx, store.CollectionResources, store.ListOptions{
		Where: map[string]any{"featured": true},
	})
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestStore_ListLimit(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for i := 0; i < 5; i++ {
		_, err := s.Create(ctx, store.CollectionDirectories, store.Record{"name": "d", "isPublic": true})
		require.NoError(t, err)
	}

	recs, err := s.List(ctx, store.CollectionDirectories, store.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestStore_UnknownFieldAndCollection(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.List(ctx, store.CollectionResources, store.ListOptions{Where: map[string]any{"nope": 1}})
	assert.Error(t, err)

	_, err = s.List(ctx, "bookmarks", store.ListOptions{})
	assert.ErrorIs(t, err, store.ErrUnknownCollection)
}

func TestStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	created, err := s.Create(ctx, store.CollectionDirectories, store.Record{
		"name": "Database", "color": "#3b82f6", "isPublic": true,
		"createdAt": "2024-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	updated, err := s.Update(ctx, store.CollectionDirectories, created.ID(), store.Record{"name": "Databases"})
	require.NoError(t, err)
	assert.Equal(t, "Databases", updated["name"])
	assert.Equal(t, "#3b82f6", updated["color"])
	assert.Equal(t, true, updated["isPublic"])
	assert.Equal(t, "2024-01-01T00:00:00Z", updated["createdAt"])

	_, err = s.Update(ctx, store.CollectionDirectories, "missing", store.Record{"name": "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, store.CollectionDirectories, created.ID()))
	assert.ErrorIs(t, s.Delete(ctx, store.CollectionDirectories, created.ID()), store.ErrNotFound)
}

func TestStore_Ping(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, "sqlite", s.Name())
}

func TestAsInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{true, 1},
		{false, 0},
		{"3", 3},
		{"true", 1},
		{"abc", 0},
		{2.9, 2},
		{int64(7), 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, asInt(tt.in), "asInt(%v)", tt.in)
	}
}
