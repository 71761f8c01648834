package kv

import (
	"context"
	"sync"
)

// Prefix namespaces every key this app writes, so a shared store
// (e.g. a valkey instance) can be wiped with a single pattern.
const Prefix = "cartaz:"

// Store is an asynchronous string key-value store. Values are usually
// JSON-encoded blobs owned by the domain layers on top.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, val string) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
}

type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewInMemory() *InMemoryStore { return &InMemoryStore{data: make(map[string]string)} }

func (s *InMemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	v, ok := s.data[key]
	s.mu.RUnlock()
	return v, ok
}

func (s *InMemoryStore) Set(_ context.Context, key string, val string) error {
	s.mu.Lock()
	s.data[key] = val
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) DeleteMany(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if err := s.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
