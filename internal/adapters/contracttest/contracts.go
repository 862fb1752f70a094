package contracttest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	kvstoreport "github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
	recordstoreport "github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

type CleanupFunc = func()

type PrimaryStoreFactory func(t *testing.T) (kvstoreport.Store, CleanupFunc)

// QuotaStoreFactory builds a primary store limited to roughly quota bytes.
type QuotaStoreFactory func(t *testing.T, quota int) (kvstoreport.Store, CleanupFunc)

type RecordStoreFactory func(t *testing.T) (recordstoreport.Store, CleanupFunc)

func RunPrimaryStore(t *testing.T, newStore PrimaryStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Keys are namespaced per run so shared backends (redis) don't leak between tests.
	key := "contract-" + uuid.NewString()

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get(absent) ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	if err := store.Set(ctx, key, `[{"id":"p1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok || got != `[{"id":"p1"}]` {
		t.Fatalf("Get after Set = %q ok=%v err=%v", got, ok, err)
	}

	// Overwrite semantics.
	if err := store.Set(ctx, key, `[]`); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, key)
	if err != nil || !ok || got != `[]` {
		t.Fatalf("Get after overwrite = %q ok=%v err=%v", got, ok, err)
	}

	// Empty string is a value, not absence.
	other := key + "-empty"
	if err := store.Set(ctx, other, ""); err != nil {
		t.Fatalf("Set empty: %v", err)
	}
	if _, ok, err := store.Get(ctx, other); err != nil || !ok {
		t.Fatalf("Get(empty value) ok=%v err=%v, want ok=true", ok, err)
	}

	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("Get after Remove ok=%v err=%v, want absent", ok, err)
	}
	// Removing an absent key is a no-op.
	if err := store.Remove(ctx, key); err != nil {
		t.Fatalf("Remove(absent): %v", err)
	}
	_ = store.Remove(ctx, other)
}

// RunPrimaryStoreQuota checks that a write beyond the quota fails with ErrQuotaExceeded and
// leaves the previous value in place.
func RunPrimaryStoreQuota(t *testing.T, newStore QuotaStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t, 256)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	key := "quota-" + uuid.NewString()
	if err := store.Set(ctx, key, "small"); err != nil {
		t.Fatalf("Set small: %v", err)
	}
	err := store.Set(ctx, key, strings.Repeat("x", 4096))
	if !errors.Is(err, kvstoreport.ErrQuotaExceeded) {
		t.Fatalf("Set large err=%v, want %v", err, kvstoreport.ErrQuotaExceeded)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok || got != "small" {
		t.Fatalf("Get after rejected Set = %q ok=%v err=%v, want previous value", got, ok, err)
	}
}

func RunRecordStore(t *testing.T, newStore RecordStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Empty collections are "no data", not errors.
	users, err := store.GetUsers(ctx)
	if err != nil {
		t.Fatalf("GetUsers(empty): %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Fatalf("GetUsers(empty)=%#v, want empty non-nil", users)
	}

	now := time.Unix(1000, 0).UTC()
	ps := []domain.Passenger{
		{ID: "p2", FullName: "Zoe", DocumentNumber: "D-2", CreatedAt: now},
		{ID: "p1", FullName: "Ana", DocumentNumber: "D-1", CreatedAt: now},
		{ID: "p3", FullName: "Max", DocumentNumber: "D-3", CreatedAt: now},
	}
	if err := store.SavePassengers(ctx, ps); err != nil {
		t.Fatalf("SavePassengers: %v", err)
	}
	gotPs, err := store.GetPassengers(ctx)
	if err != nil {
		t.Fatalf("GetPassengers: %v", err)
	}
	// Saved order is preserved.
	if len(gotPs) != 3 || gotPs[0].ID != "p2" || gotPs[1].ID != "p1" || gotPs[2].ID != "p3" {
		t.Fatalf("GetPassengers order=%v", passengerIDs(gotPs))
	}
	if !gotPs[0].CreatedAt.Equal(now) || gotPs[0].DocumentNumber != "D-2" {
		t.Fatalf("GetPassengers()[0]=%+v", gotPs[0])
	}

	// Snapshot replacement: a shorter save drops the rest.
	if err := store.SavePassengers(ctx, ps[:1]); err != nil {
		t.Fatalf("SavePassengers shrink: %v", err)
	}
	gotPs, err = store.GetPassengers(ctx)
	if err != nil || len(gotPs) != 1 || gotPs[0].ID != "p2" {
		t.Fatalf("GetPassengers after shrink=%v err=%v", passengerIDs(gotPs), err)
	}

	// Collections are independent.
	dep := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	trips := []domain.Trip{{
		ID:           "t1",
		Origin:       "Oakland",
		Destination:  "Tahoe",
		DepartureAt:  dep,
		PassengerIDs: []domain.PassengerID{"p2"},
		Status:       domain.TripStatusScheduled,
	}}
	if err := store.SaveTrips(ctx, trips); err != nil {
		t.Fatalf("SaveTrips: %v", err)
	}
	if err := store.SaveUsers(ctx, []domain.User{{ID: "u1", Username: "ops", Role: domain.RoleAdmin, CreatedAt: now}}); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	gotTrips, err := store.GetTrips(ctx)
	if err != nil || len(gotTrips) != 1 || gotTrips[0].Destination != "Tahoe" || len(gotTrips[0].PassengerIDs) != 1 {
		t.Fatalf("GetTrips=%#v err=%v", gotTrips, err)
	}
	gotUsers, err := store.GetUsers(ctx)
	if err != nil || len(gotUsers) != 1 || gotUsers[0].Role != domain.RoleAdmin {
		t.Fatalf("GetUsers=%#v err=%v", gotUsers, err)
	}
	if gotPs, err := store.GetPassengers(ctx); err != nil || len(gotPs) != 1 {
		t.Fatalf("GetPassengers after other saves=%v err=%v", passengerIDs(gotPs), err)
	}

	// Saving an empty collection clears it.
	if err := store.SavePassengers(ctx, nil); err != nil {
		t.Fatalf("SavePassengers(nil): %v", err)
	}
	gotPs, err = store.GetPassengers(ctx)
	if err != nil || gotPs == nil || len(gotPs) != 0 {
		t.Fatalf("GetPassengers after clear=%#v err=%v", gotPs, err)
	}

	// Fields the client wrote survive the store, including ones the domain types don't model.
	var client []domain.Passenger
	if err := json.Unmarshal([]byte(`[{"id":1718000000000,"fullName":"Sam","seatNumber":"12A"}]`), &client); err != nil {
		t.Fatalf("decode client passengers: %v", err)
	}
	if err := store.SavePassengers(ctx, client); err != nil {
		t.Fatalf("SavePassengers(client): %v", err)
	}
	gotPs, err = store.GetPassengers(ctx)
	if err != nil || len(gotPs) != 1 || gotPs[0].ID != "1718000000000" {
		t.Fatalf("GetPassengers(client)=%v err=%v", passengerIDs(gotPs), err)
	}
	b, err := json.Marshal(gotPs[0])
	if err != nil {
		t.Fatalf("encode stored passenger: %v", err)
	}
	if !strings.Contains(string(b), `"seatNumber":"12A"`) || !strings.Contains(string(b), `"id":1718000000000`) {
		t.Fatalf("stored passenger=%s, client fields lost", b)
	}
}

func passengerIDs(ps []domain.Passenger) []domain.PassengerID {
	out := make([]domain.PassengerID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
