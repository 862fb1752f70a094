// Package backends opens the configured primary and secondary stores.
package backends

import (
	"context"
	"fmt"

	boltkv "github.com/Overland-East-Bay/transit-records/internal/adapters/bolt/kvstore"
	memkv "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/kvstore"
	memrecords "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/recordstore"
	mysqlrecords "github.com/Overland-East-Bay/transit-records/internal/adapters/mysql/recordstore"
	"github.com/Overland-East-Bay/transit-records/internal/adapters/postgres"
	pgrecords "github.com/Overland-East-Bay/transit-records/internal/adapters/postgres/recordstore"
	rediskv "github.com/Overland-East-Bay/transit-records/internal/adapters/redis/kvstore"
	sqliterecords "github.com/Overland-East-Bay/transit-records/internal/adapters/sqlite/recordstore"
	"github.com/Overland-East-Bay/transit-records/internal/platform/config"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

// CloseFunc releases a store's resources. It is never nil.
type CloseFunc func()

func noop() {}

// OpenPrimary opens the primary key-value store selected by cfg.PrimaryBackend.
func OpenPrimary(ctx context.Context, cfg config.Config) (kvstore.Store, CloseFunc, error) {
	switch cfg.PrimaryBackend {
	case config.PrimaryMemory:
		return memkv.NewStoreWithQuota(cfg.PrimaryQuotaBytes), noop, nil

	case config.PrimaryBolt:
		s, err := boltkv.Open(cfg.BoltPath, boltkv.Options{Quota: cfg.PrimaryQuotaBytes})
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.PrimaryRedis:
		rdb, err := rediskv.NewClient(ctx, rediskv.ClientOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, noop, err
		}
		s := rediskv.NewStore(rdb, rediskv.Options{
			KeyPrefix:     cfg.RedisKeyPrefix,
			MaxValueBytes: cfg.PrimaryQuotaBytes,
		})
		return s, func() { _ = rdb.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unsupported PRIMARY_BACKEND %q", cfg.PrimaryBackend)
}

// OpenSecondary opens the secondary record store selected by cfg.SecondaryBackend, applying
// schema migrations where the backend needs them.
func OpenSecondary(ctx context.Context, cfg config.Config) (recordstore.Store, CloseFunc, error) {
	switch cfg.SecondaryBackend {
	case config.SecondaryMemory:
		return memrecords.NewStore(), noop, nil

	case config.SecondarySQLite:
		s, err := sqliterecords.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.SecondaryPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{})
		if err != nil {
			return nil, noop, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return pgrecords.NewStore(pool), pool.Close, nil

	case config.SecondaryMySQL:
		s, err := mysqlrecords.Open(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unsupported SECONDARY_BACKEND %q", cfg.SecondaryBackend)
}
