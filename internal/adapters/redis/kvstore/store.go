package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
)

// ClientOptions configures the redis connection.
type ClientOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to redis and verifies the connection with a PING.
func NewClient(ctx context.Context, opts ClientOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Options configures the store.
type Options struct {
	// KeyPrefix namespaces every key (e.g. "transit:").
	KeyPrefix string
	// MaxValueBytes rejects larger values with kvstore.ErrQuotaExceeded. <= 0 disables the check.
	MaxValueBytes int
}

// Store is a redis implementation of kvstore.Store.
type Store struct {
	rdb    redis.Cmdable
	prefix string
	max    int
}

func NewStore(rdb redis.Cmdable, opts Options) *Store {
	return &Store{rdb: rdb, prefix: opts.KeyPrefix, max: opts.MaxValueBytes}
}

func (s *Store) key(k string) string { return s.prefix + k }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if s.rdb == nil {
		return "", false, kvstore.ErrClosed
	}
	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	if s.rdb == nil {
		return kvstore.ErrClosed
	}
	if s.max > 0 && len(value) > s.max {
		return kvstore.ErrQuotaExceeded
	}
	if err := s.rdb.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		if isOutOfMemory(err) {
			return fmt.Errorf("%w: %v", kvstore.ErrQuotaExceeded, err)
		}
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.rdb == nil {
		return kvstore.ErrClosed
	}
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %q: %w", key, err)
	}
	return nil
}

// isOutOfMemory matches the reply redis sends when maxmemory is reached under noeviction.
func isOutOfMemory(err error) bool {
	var rerr redis.Error
	if !errors.As(err, &rerr) {
		return false
	}
	return strings.HasPrefix(rerr.Error(), "OOM ")
}
