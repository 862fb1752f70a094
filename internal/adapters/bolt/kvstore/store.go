// Package kvstore provides a BoltDB-backed primary store: a single-file, quota-limited
// string key/value store for installations that run without a browser or redis.
package kvstore

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
)

const bucketName = "kv"

// Options configures the store.
type Options struct {
	// Quota bounds the total len(key)+len(value) of all entries. <= 0 disables the limit.
	Quota int
	// OpenTimeout bounds how long Open waits for the file lock. Defaults to one second.
	OpenTimeout time.Duration
}

// Store is a BoltDB implementation of kvstore.Store.
type Store struct {
	db    *bbolt.DB
	quota int
}

// Open opens (or creates) the store at path.
func Open(path string, opts Options) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	timeout := opts.OpenTimeout
	if timeout <= 0 {
		timeout = time.Second
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket %s: %w", bucketName, err)
	}
	return &Store{db: db, quota: opts.Quota}, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s == nil || s.db == nil {
		return "", false, kvstore.ErrClosed
	}
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("%s bucket is missing", bucketName)
		}
		// Seek instead of Get so an empty value is distinguishable from a missing key.
		k, v := b.Cursor().Seek([]byte(key))
		if k == nil || !bytes.Equal(k, []byte(key)) {
			return nil
		}
		value = string(v)
		found = true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, found, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return kvstore.ErrClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("%s bucket is missing", bucketName)
		}
		if s.quota > 0 {
			used, err := usage(b, key)
			if err != nil {
				return err
			}
			if used+len(key)+len(value) > s.quota {
				return kvstore.ErrQuotaExceeded
			}
		}
		if err := b.Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("put %q: %w", key, err)
		}
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return kvstore.ErrClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("%s bucket is missing", bucketName)
		}
		return b.Delete([]byte(key))
	})
}

// usage sums the accounted size of every entry except skip.
func usage(b *bbolt.Bucket, skip string) (int, error) {
	total := 0
	err := b.ForEach(func(k, v []byte) error {
		if string(k) == skip {
			return nil
		}
		total += len(k) + len(v)
		return nil
	})
	return total, err
}
