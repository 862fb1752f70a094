package recordstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/contracttest"
	recordstoreport "github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

// setupTestStore creates a temporary SQLite database for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "records.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestContract_SQLiteRecordStore(t *testing.T) {
	contracttest.RunRecordStore(t, func(t *testing.T) (recordstoreport.Store, func()) {
		t.Helper()
		return setupTestStore(t), nil
	})
}
