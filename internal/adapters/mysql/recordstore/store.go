// Package recordstore is a MySQL implementation of the secondary record store built on gorm.
package recordstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/snapshot"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

// collectionRow is one element of a stored collection.
type collectionRow struct {
	Kind      string `gorm:"primaryKey;size:64"`
	Position  int    `gorm:"primaryKey;autoIncrement:false"`
	Payload   string `gorm:"type:longtext"`
	UpdatedAt time.Time
}

func (collectionRow) TableName() string { return "record_collections" }

const insertBatchSize = 200

type Store struct {
	db *gorm.DB
}

// Open connects to MySQL and makes sure the record_collections table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	s, err := NewStore(ctx, db)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing gorm handle and migrates the table.
func NewStore(ctx context.Context, db *gorm.DB) (*Store, error) {
	if err := db.WithContext(ctx).AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("automigrate record_collections: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
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
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("%w: nil mysql handle", recordstore.ErrUnavailable)
	}
	var rows []collectionRow
	err := s.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind, err)
	}
	payloads := make([][]byte, 0, len(rows))
	for _, r := range rows {
		payloads = append(payloads, []byte(r.Payload))
	}
	return snapshot.Decode[T](payloads)
}

func replace[T any](ctx context.Context, s *Store, kind recordstore.Kind, records []T) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("%w: nil mysql handle", recordstore.ErrUnavailable)
	}
	payloads, err := snapshot.Encode(records)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rows := make([]collectionRow, 0, len(payloads))
	for i, p := range payloads {
		rows = append(rows, collectionRow{Kind: string(kind), Position: i, Payload: string(p), UpdatedAt: now})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("kind = ?", string(kind)).Delete(&collectionRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", kind, err)
	}
	return nil
}
