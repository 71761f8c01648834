package search

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/rs/zerolog/log"

	"cartaz/pkg/kv"
	"cartaz/pkg/tmdb"
)

// Session is the state of an in-progress or completed search. Results
// accumulate across pagination; Loading is the cooperative guard against
// overlapping load-more requests and is never persisted.
type Session struct {
	Query      string
	Results    []tmdb.Movie
	Page       int
	TotalPages int
	Searched   bool

	Loading bool
}

func NewSession() Session {
	return Session{Page: 1}
}

// CanLoadMore reports whether a next-page request should be issued.
func (s *Session) CanLoadMore() bool {
	return s.Searched && !s.Loading && s.Page < s.TotalPages
}

// Apply folds one page of results into the session. The first page replaces
// the result list; later pages append.
func (s *Session) Apply(resp tmdb.MovieResponse) {
	if resp.Page <= 1 {
		s.Results = resp.Results
	} else {
		s.Results = append(s.Results, resp.Results...)
	}
	s.Page = resp.Page
	s.TotalPages = resp.TotalPages
	s.Searched = true
}

// Reset returns the session to its initial values.
func (s *Session) Reset() {
	*s = NewSession()
}

// Storage keys, one per field, under the app namespace.
const (
	keyQuery      = kv.Prefix + "search:query"
	keyResults    = kv.Prefix + "search:results"
	keyPage       = kv.Prefix + "search:page"
	keyTotalPages = kv.Prefix + "search:total_pages"
	keySearched   = kv.Prefix + "search:searched"
)

// Store persists the last search session so returning to the search screen
// can pick up where the user left off.
type Store struct {
	kv kv.Store
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store}
}

// Save persists the session. Sessions that never searched or hold no
// results are not worth restoring and are skipped.
func (p *Store) Save(ctx context.Context, s Session) {
	if !s.Searched || len(s.Results) == 0 {
		return
	}
	raw, err := json.Marshal(s.Results)
	if err != nil {
		log.Error().Err(err).Msg("marshal search results failed")
		return
	}
	writes := map[string]string{
		keyQuery:      s.Query,
		keyResults:    string(raw),
		keyPage:       strconv.Itoa(s.Page),
		keyTotalPages: strconv.Itoa(s.TotalPages),
		keySearched:   "true",
	}
	for k, v := range writes {
		if err := p.kv.Set(ctx, k, v); err != nil {
			log.Error().Err(err).Str("key", k).Msg("persist search state failed, dropping write")
			return
		}
	}
}

// Restore loads the persisted session. The second return is false when
// nothing usable is stored.
func (p *Store) Restore(ctx context.Context) (Session, bool) {
	searched, ok := p.kv.Get(ctx, keySearched)
	if !ok || searched != "true" {
		return NewSession(), false
	}
	s := NewSession()
	s.Searched = true
	s.Query, _ = p.kv.Get(ctx, keyQuery)

	raw, ok := p.kv.Get(ctx, keyResults)
	if !ok {
		return NewSession(), false
	}
	if err := json.Unmarshal([]byte(raw), &s.Results); err != nil {
		log.Error().Err(err).Msg("persisted search results unreadable")
		return NewSession(), false
	}
	if v, ok := p.kv.Get(ctx, keyPage); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.Page = n
		}
	}
	if v, ok := p.kv.Get(ctx, keyTotalPages); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.TotalPages = n
		}
	}
	return s, true
}

// Clear deletes every persisted key for this feature in one batch.
func (p *Store) Clear(ctx context.Context) {
	err := p.kv.DeleteMany(ctx, keyQuery, keyResults, keyPage, keyTotalPages, keySearched)
	if err != nil {
		log.Error().Err(err).Msg("clear search state failed")
	}
}
