package kvstore

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
)

// Store is an in-memory implementation of kvstore.Store with an optional byte quota.
// Usage is accounted as len(key)+len(value) per entry, similar to how browsers account
// local storage. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	m     map[string]string
	used  int
	quota int
}

// NewStore returns an unbounded store.
func NewStore() *Store {
	return NewStoreWithQuota(0)
}

// NewStoreWithQuota returns a store that rejects writes once quota bytes would be exceeded.
// A quota <= 0 disables the limit.
func NewStoreWithQuota(quota int) *Store {
	return &Store{
		m:     make(map[string]string),
		quota: quota,
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used + len(key) + len(value)
	if old, ok := s.m[key]; ok {
		next -= len(key) + len(old)
	}
	if s.quota > 0 && next > s.quota {
		return kvstore.ErrQuotaExceeded
	}
	s.m[key] = value
	s.used = next
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.m[key]; ok {
		s.used -= len(key) + len(old)
		delete(s.m, key)
	}
	return nil
}

// Used returns the number of bytes currently accounted against the quota.
func (s *Store) Used() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.used
}

// SetQuota changes the quota. Existing entries are kept even if they exceed the new limit.
func (s *Store) SetQuota(quota int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quota = quota
}
