// Package recordstore is a Postgres implementation of the secondary record store.
package recordstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/transit-records/internal/adapters/postgres"
	"github.com/Overland-East-Bay/transit-records/internal/adapters/snapshot"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

// Store persists record collections in the record_collections table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetUsers(ctx context.Context) ([]domain.User, error) {
	return load[domain.User](ctx, s, recordstore.KindUsers)
}

func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	return replace(ctx, s, recordstore.KindUsers, users)
}

func (s *Store) GetPassengers(ctx context.Context) ([]domain.Passenger, error) {
	return load[domain.Passenger](ctx, s, recordstore.KindPassengers)
}

func (s *Store) SavePassengers(ctx context.Context, passengers []domain.Passenger) error {
	return replace(ctx, s, recordstore.KindPassengers, passengers)
}

func (s *Store) GetTrips(ctx context.Context) ([]domain.Trip, error) {
	return load[domain.Trip](ctx, s, recordstore.KindTrips)
}

func (s *Store) SaveTrips(ctx context.Context, trips []domain.Trip) error {
	return replace(ctx, s, recordstore.KindTrips, trips)
}

func load[T any](ctx context.Context, s *Store, kind recordstore.Kind) ([]T, error) {
	if s.pool == nil {
		return nil, fmt.Errorf("%w: nil postgres pool", recordstore.ErrUnavailable)
	}
	rows, err := s.pool.Query(ctx, `
		SELECT payload::text
		FROM record_collections
		WHERE kind = $1
		ORDER BY position ASC
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	texts, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}
	payloads := make([][]byte, 0, len(texts))
	for _, t := range texts {
		payloads = append(payloads, []byte(t))
	}
	return snapshot.Decode[T](payloads)
}

func replace[T any](ctx context.Context, s *Store, kind recordstore.Kind, records []T) error {
	if s.pool == nil {
		return fmt.Errorf("%w: nil postgres pool", recordstore.ErrUnavailable)
	}
	payloads, err := snapshot.Encode(records)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM record_collections WHERE kind = $1`, string(kind)); err != nil {
			return err
		}
		if len(payloads) == 0 {
			return nil
		}
		b := &pgx.Batch{}
		for i, p := range payloads {
			b.Queue(`
				INSERT INTO record_collections (kind, position, payload, updated_at)
				VALUES ($1, $2, $3::text::jsonb, $4)
			`, string(kind), i, string(p), now)
		}
		return tx.SendBatch(ctx, b).Close()
	})
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.DiskFullCode {
			return fmt.Errorf("%w: %s", recordstore.ErrUnavailable, pe.Message)
		}
		return fmt.Errorf("replace %s: %w", kind, err)
	}
	return nil
}
