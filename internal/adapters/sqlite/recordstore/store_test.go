package recordstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

func TestStore_ReopenKeepsDataAndSkipsAppliedMigrations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	if err := s.SaveTrips(ctx, []domain.Trip{{ID: "t1", Origin: "A", Destination: "B"}}); err != nil {
		t.Fatalf("SaveTrips() err=%v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() err=%v", err)
	}

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen err=%v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.GetTrips(ctx)
	if err != nil || len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("GetTrips() after reopen=%v err=%v", got, err)
	}
}

func TestStore_NilStoreIsUnavailable(t *testing.T) {
	t.Parallel()

	var s *Store
	if _, err := s.GetPassengers(context.Background()); !errors.Is(err, recordstore.ErrUnavailable) {
		t.Fatalf("GetPassengers() err=%v, want %v", err, recordstore.ErrUnavailable)
	}
}

func TestStore_LargeCollection(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	ctx := context.Background()

	ps := make([]domain.Passenger, 500)
	for i := range ps {
		ps[i] = domain.Passenger{ID: domain.PassengerID(fmt.Sprintf("p-%03d", i)), FullName: "Rider"}
	}
	if err := s.SavePassengers(ctx, ps); err != nil {
		t.Fatalf("SavePassengers() err=%v", err)
	}
	got, err := s.GetPassengers(ctx)
	if err != nil || len(got) != len(ps) {
		t.Fatalf("GetPassengers() len=%d err=%v, want %d", len(got), err, len(ps))
	}
	if got[499].ID != "p-499" {
		t.Fatalf("GetPassengers()[499].ID=%q, want p-499", got[499].ID)
	}
}
