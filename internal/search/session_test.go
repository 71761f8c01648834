package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cartaz/internal/search"
	"cartaz/pkg/kv"
	"cartaz/pkg/tmdb"
)

func pageOf(page, totalPages int, ids ...int) tmdb.MovieResponse {
	results := make([]tmdb.Movie, 0, len(ids))
	for _, id := range ids {
		results = append(results, tmdb.Movie{ID: id, Title: "Filme"})
	}
	return tmdb.MovieResponse{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: totalPages * len(ids),
		Status:       tmdb.StatusOK,
	}
}

func TestApplyAppendsAcrossPages(t *testing.T) {
	s := search.NewSession()
	s.Query = "batman"

	s.Apply(pageOf(1, 3, 1, 2))
	require.Len(t, s.Results, 2)
	assert.Equal(t, 1, s.Page)
	assert.True(t, s.Searched)

	s.Apply(pageOf(2, 3, 3, 4))
	require.Len(t, s.Results, 4)
	assert.Equal(t, 2, s.Page)

	// a fresh first page replaces instead of appending
	s.Apply(pageOf(1, 3, 9))
	assert.Len(t, s.Results, 1)
}

func TestCanLoadMore(t *testing.T) {
	s := search.NewSession()
	assert.False(t, s.CanLoadMore(), "no search yet")

	s.Apply(pageOf(1, 3, 1))
	assert.True(t, s.CanLoadMore())

	s.Loading = true
	assert.False(t, s.CanLoadMore(), "request in flight")
	s.Loading = false

	s.Apply(pageOf(2, 3, 2))
	assert.True(t, s.CanLoadMore())

	s.Apply(pageOf(3, 3, 3))
	assert.False(t, s.CanLoadMore(), "last page reached")
}

func TestSaveSkipsUnsearchedAndEmptySessions(t *testing.T) {
	ctx := context.Background()
	store := kv.NewInMemory()
	p := search.NewStore(store)

	p.Save(ctx, search.NewSession())
	_, ok := p.Restore(ctx)
	assert.False(t, ok)

	s := search.NewSession()
	s.Searched = true // searched but nothing found
	p.Save(ctx, s)
	_, ok = p.Restore(ctx)
	assert.False(t, ok)
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := search.NewStore(kv.NewInMemory())

	s := search.NewSession()
	s.Query = "batman"
	s.Apply(pageOf(1, 5, 1, 2, 3, 4, 5, 6))
	s.Apply(pageOf(2, 5, 7, 8, 9, 10, 11, 12))
	p.Save(ctx, s)

	got, ok := p.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "batman", got.Query)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.TotalPages)
	assert.True(t, got.Searched)
	assert.False(t, got.Loading)
	require.Len(t, got.Results, 12)
	assert.Equal(t, s.Results[11].ID, got.Results[11].ID)
}

func TestClearDeletesEverything(t *testing.T) {
	ctx := context.Background()
	store := kv.NewInMemory()
	p := search.NewStore(store)

	s := search.NewSession()
	s.Query = "batman"
	s.Apply(pageOf(1, 2, 1))
	p.Save(ctx, s)

	p.Clear(ctx)
	_, ok := p.Restore(ctx)
	assert.False(t, ok)
}

func TestRestoreCorruptResultsFails(t *testing.T) {
	ctx := context.Background()
	store := kv.NewInMemory()
	require.NoError(t, store.Set(ctx, "cartaz:search:searched", "true"))
	require.NoError(t, store.Set(ctx, "cartaz:search:results", "{broken"))

	p := search.NewStore(store)
	_, ok := p.Restore(ctx)
	assert.False(t, ok)
}
