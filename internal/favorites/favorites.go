package favorites

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"cartaz/pkg/kv"
)

const storeKey = kv.Prefix + "favorites"

// Store keeps the user's favorite movie ids as a single JSON array under
// one key. Every mutation is a full read-modify-write; last writer wins,
// which is fine for single-user local state.
type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// List returns all favorite ids. A read failure behaves as an empty set.
func (s *Store) List(ctx context.Context) []int {
	raw, ok := s.kv.Get(ctx, storeKey)
	if !ok {
		return []int{}
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Error().Err(err).Msg("favorites unreadable, treating as empty")
		return []int{}
	}
	return ids
}

// Has reports whether the movie is favorited.
func (s *Store) Has(ctx context.Context, movieID int) bool {
	for _, id := range s.List(ctx) {
		if id == movieID {
			return true
		}
	}
	return false
}

// Add favorites a movie. Adding an already-favorited id is a no-op.
func (s *Store) Add(ctx context.Context, movieID int) {
	ids := s.List(ctx)
	for _, id := range ids {
		if id == movieID {
			return
		}
	}
	s.write(ctx, append(ids, movieID))
}

// Remove unfavorites a movie. Removing an absent id is a no-op.
func (s *Store) Remove(ctx context.Context, movieID int) {
	ids := s.List(ctx)
	out := ids[:0]
	for _, id := range ids {
		if id != movieID {
			out = append(out, id)
		}
	}
	if len(out) == len(ids) {
		return
	}
	s.write(ctx, out)
}

// Toggle flips membership and returns the new state.
func (s *Store) Toggle(ctx context.Context, movieID int) bool {
	if s.Has(ctx, movieID) {
		s.Remove(ctx, movieID)
		return false
	}
	s.Add(ctx, movieID)
	return true
}

func (s *Store) write(ctx context.Context, ids []int) {
	raw, err := json.Marshal(ids)
	if err != nil {
		log.Error().Err(err).Msg("marshal favorites failed")
		return
	}
	if err := s.kv.Set(ctx, storeKey, string(raw)); err != nil {
		log.Error().Err(err).Msg("persist favorites failed, dropping write")
	}
}
