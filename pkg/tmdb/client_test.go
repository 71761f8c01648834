package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := New("test-key", "pt-BR", "en-US")
	c.BaseURL = srv.URL
	return c, srv
}

func TestListNowPlaying(t *testing.T) {
	var gotLanguage string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/now_playing", r.URL.Path)
		gotLanguage = r.URL.Query().Get("language")
		w.Write([]byte(`{"page":1,"results":[{"id":1,"title":"Filme","overview":"Sinopse."}],"total_pages":3,"total_results":60}`))
	}))
	defer srv.Close()

	resp := c.ListNowPlaying(context.Background(), 1)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 60, resp.TotalResults)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].ID)
	assert.Equal(t, "pt-BR", gotLanguage)
}

func TestListNowPlayingServerError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resp := c.ListNowPlaying(context.Background(), 2)
	assert.Equal(t, StatusFailed, resp.Status)
	assert.Equal(t, 1, resp.Page)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.TotalPages)
}

func TestListNowPlayingMalformedBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page":`))
	}))
	defer srv.Close()

	resp := c.ListNowPlaying(context.Background(), 1)
	assert.Equal(t, StatusFailed, resp.Status)
	assert.Empty(t, resp.Results)
}

func TestSearchBlankQuerySkipsNetwork(t *testing.T) {
	hits := 0
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	for _, q := range []string{"", "   ", "\t"} {
		resp := c.Search(context.Background(), q, 1)
		assert.Equal(t, StatusEmpty, resp.Status)
		assert.Empty(t, resp.Results)
	}
	assert.Zero(t, hits)
}

func TestSearchPassesQueryParams(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "batman", q.Get("query"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "false", q.Get("include_adult"))
		w.Write([]byte(`{"page":2,"results":[{"id":7,"title":"Batman","overview":"ok"}],"total_pages":5,"total_results":90}`))
	}))
	defer srv.Close()

	resp := c.Search(context.Background(), "batman", 2)
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, 2, resp.Page)
	require.Len(t, resp.Results, 1)
}

func TestGetDetailsReturnsRequestedID(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/42", r.URL.Path)
		assert.Equal(t, "credits", r.URL.Query().Get("append_to_response"))
		w.Write([]byte(`{"id":42,"title":"Filme","overview":"Sinopse.","runtime":143,
			"genres":[{"id":28,"name":"Ação"}],
			"credits":{"id":42,"cast":[{"id":1,"name":"Atriz","character":"Heroína","order":0}],
			"crew":[{"id":2,"name":"Diretora","job":"Director","department":"Directing"}]}}`))
	}))
	defer srv.Close()

	movie, credits := c.GetDetails(context.Background(), 42)
	require.NotNil(t, movie)
	assert.Equal(t, 42, movie.ID)
	assert.Equal(t, 143, movie.Runtime)
	require.NotNil(t, credits)
	require.Len(t, credits.Cast, 1)
	assert.Equal(t, "Heroína", credits.Cast[0].Character)
	require.Len(t, credits.Crew, 1)
	assert.Equal(t, "Director", credits.Crew[0].Job)
}

func TestGetDetailsFailureReturnsNil(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	movie, credits := c.GetDetails(context.Background(), 42)
	assert.Nil(t, movie)
	assert.Nil(t, credits)
}

func TestOverviewFallback(t *testing.T) {
	fallbackHits := 0
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") == "en-US" {
			fallbackHits++
			require.Equal(t, "/movie/42", r.URL.Path)
			w.Write([]byte(`{"id":42,"title":"Movie","overview":"A hero rises."}`))
			return
		}
		w.Write([]byte(`{"id":42,"title":"Filme","overview":"   "}`))
	}))
	defer srv.Close()

	movie, _ := c.GetDetails(context.Background(), 42)
	require.NotNil(t, movie)
	assert.Contains(t, movie.Overview, "A hero rises.")
	assert.True(t, movie.TranslatedOverview)
	assert.Equal(t, 1, fallbackHits)
}

func TestOverviewFallbackOnlyForBlankOverviews(t *testing.T) {
	fallbackHits := 0
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") == "en-US" {
			fallbackHits++
			w.Write([]byte(`{"id":2,"title":"Movie","overview":"English text"}`))
			return
		}
		w.Write([]byte(`{"page":1,"results":[
			{"id":1,"title":"A","overview":"Tem sinopse."},
			{"id":2,"title":"B","overview":"."}],"total_pages":1,"total_results":2}`))
	}))
	defer srv.Close()

	resp := c.ListNowPlaying(context.Background(), 1)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Tem sinopse.", resp.Results[0].Overview)
	assert.False(t, resp.Results[0].TranslatedOverview)
	assert.Contains(t, resp.Results[1].Overview, "English text")
	assert.True(t, resp.Results[1].TranslatedOverview)
	assert.Equal(t, 1, fallbackHits)
}

func TestOverviewFallbackFailureKeepsBlank(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") == "en-US" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"id":42,"title":"Filme","overview":""}`))
	}))
	defer srv.Close()

	movie, _ := c.GetDetails(context.Background(), 42)
	require.NotNil(t, movie)
	assert.Equal(t, "", movie.Overview)
	assert.False(t, movie.TranslatedOverview)
}

func TestOverviewMissing(t *testing.T) {
	assert.True(t, overviewMissing(""))
	assert.True(t, overviewMissing("   "))
	assert.True(t, overviewMissing("..."))
	assert.True(t, overviewMissing("- "))
	assert.False(t, overviewMissing("Uma sinopse real."))
}

func TestImageURLs(t *testing.T) {
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", PosterURL("/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/abc.jpg", BackdropURL("/abc.jpg"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/abc.jpg", ProfileURL("/abc.jpg"))
	assert.Contains(t, PosterURL(""), "placeholder")
	assert.Equal(t, "", BackdropURL(""))
	assert.Equal(t, "", ProfileURL(""))
}
