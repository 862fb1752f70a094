package kvstore

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/contracttest"
	kvstoreport "github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestContract_RedisPrimaryStore(t *testing.T) {
	contracttest.RunPrimaryStore(t, func(t *testing.T) (kvstoreport.Store, func()) {
		t.Helper()
		rdb := newTestClient(t)
		return NewStore(rdb, Options{KeyPrefix: "transit:"}), func() { _ = rdb.Close() }
	})
}

func TestContract_RedisPrimaryStoreQuota(t *testing.T) {
	contracttest.RunPrimaryStoreQuota(t, func(t *testing.T, quota int) (kvstoreport.Store, func()) {
		t.Helper()
		rdb := newTestClient(t)
		return NewStore(rdb, Options{MaxValueBytes: quota}), func() { _ = rdb.Close() }
	})
}
