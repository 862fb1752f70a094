// Package recordstore provides a SQLite-backed secondary record store.
package recordstore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/snapshot"
	"github.com/Overland-East-Bay/transit-records/internal/adapters/sqlite"
	"github.com/Overland-East-Bay/transit-records/internal/adapters/sqlite/migrations"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

// Store persists record collections in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers; background migrations and foreground saves
	// would otherwise race for the write lock.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlite.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
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
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, recordstore.ErrUnavailable
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT payload FROM record_collections WHERE kind = ? ORDER BY position`,
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	defer rows.Close()

	var payloads [][]byte
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		payloads = append(payloads, []byte(p))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind, err)
	}
	return snapshot.Decode[T](payloads)
}

func replace[T any](ctx context.Context, s *Store, kind recordstore.Kind, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return recordstore.ErrUnavailable
	}
	payloads, err := snapshot.Encode(records)
	if err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", kind, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM record_collections WHERE kind = ?`, string(kind)); err != nil {
		return fmt.Errorf("clear %s: %w", kind, err)
	}
	if len(payloads) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO record_collections (kind, position, payload, updated_at) VALUES (?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", kind, err)
		}
		defer stmt.Close()

		now := time.Now().UTC().UnixMilli()
		for i, p := range payloads {
			if _, err := stmt.ExecContext(ctx, string(kind), i, string(p), now); err != nil {
				return fmt.Errorf("insert %s[%d]: %w", kind, i, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", kind, err)
	}
	return nil
}
