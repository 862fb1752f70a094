package recordstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

// Store is an in-memory implementation of recordstore.Store.
// Snapshots are kept JSON-encoded so callers never share slices with the store.
// It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex
	m  map[recordstore.Kind][]byte
}

func NewStore() *Store {
	return &Store{m: make(map[recordstore.Kind][]byte)}
}

func (s *Store) GetUsers(ctx context.Context) ([]domain.User, error) {
	return load[domain.User](ctx, s, recordstore.KindUsers)
}

func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	return store(ctx, s, recordstore.KindUsers, users)
}

func (s *Store) GetPassengers(ctx context.Context) ([]domain.Passenger, error) {
	return load[domain.Passenger](ctx, s, recordstore.KindPassengers)
}

func (s *Store) SavePassengers(ctx context.Context, passengers []domain.Passenger) error {
	return store(ctx, s, recordstore.KindPassengers, passengers)
}

func (s *Store) GetTrips(ctx context.Context) ([]domain.Trip, error) {
	return load[domain.Trip](ctx, s, recordstore.KindTrips)
}

func (s *Store) SaveTrips(ctx context.Context, trips []domain.Trip) error {
	return store(ctx, s, recordstore.KindTrips, trips)
}

func load[T any](ctx context.Context, s *Store, kind recordstore.Kind) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	b, ok := s.m[kind]
	s.mu.RUnlock()

	out := []T{}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func store[T any](ctx context.Context, s *Store, kind recordstore.Kind, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[kind] = b
	return nil
}
