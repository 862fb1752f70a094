package records

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	memkv "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/kvstore"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
)

func TestKeys_StableNames(t *testing.T) {
	t.Parallel()

	want := []string{"users", "passengers", "conductors", "trips", "signatures", "conductorCredentials", "currentUser"}
	if got := Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys()=%v, want %v", got, want)
	}
	// Callers cannot mutate the table.
	k := Keys()
	k[0] = "mutated"
	if Keys()[0] != KeyUsers {
		t.Fatalf("Keys() exposes internal table")
	}
}

func TestPrimaryOnly_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	arrival := t0.Add(3 * time.Hour)
	conductors := []domain.Conductor{{ID: "c1", FullName: "Sam Ortiz", LicenseNumber: "CDL-1", IsActive: true, CreatedAt: t0}}
	trips := []domain.Trip{{
		ID: "t1", Origin: "Oakland", Destination: "Reno", DepartureAt: t0, ArrivalAt: &arrival,
		ConductorID: "c1", PassengerIDs: []domain.PassengerID{"p1", "p2"}, Status: domain.TripStatusBoarding,
	}}
	sigs := []domain.Signature{{ID: "s1", TripID: "t1", PassengerID: "p1", ImageData: "data:image/png;base64,AAAA", SignedAt: t0}}
	creds := []domain.ConductorCredential{{ID: "k1", ConductorID: "c1", Username: "sam", PasswordHash: "$2a$10$x", IssuedAt: t0}}

	if err := h.svc.SaveConductors(ctx, conductors); err != nil {
		t.Fatalf("SaveConductors() err=%v", err)
	}
	if err := h.svc.SaveTrips(ctx, trips); err != nil {
		t.Fatalf("SaveTrips() err=%v", err)
	}
	if err := h.svc.SaveSignatures(ctx, sigs); err != nil {
		t.Fatalf("SaveSignatures() err=%v", err)
	}
	if err := h.svc.SaveConductorCredentials(ctx, creds); err != nil {
		t.Fatalf("SaveConductorCredentials() err=%v", err)
	}

	gotC, err := h.svc.GetConductors(ctx)
	if err != nil || !sameJSON(t, gotC, conductors) {
		t.Fatalf("GetConductors()=%+v err=%v", gotC, err)
	}
	gotT, err := h.svc.GetTrips(ctx)
	if err != nil || !sameJSON(t, gotT, trips) {
		t.Fatalf("GetTrips()=%+v err=%v", gotT, err)
	}
	gotS, err := h.svc.GetSignatures(ctx)
	if err != nil || !sameJSON(t, gotS, sigs) {
		t.Fatalf("GetSignatures()=%+v err=%v", gotS, err)
	}
	gotK, err := h.svc.GetConductorCredentials(ctx)
	if err != nil || !sameJSON(t, gotK, creds) {
		t.Fatalf("GetConductorCredentials()=%+v err=%v", gotK, err)
	}

	// Nothing touches the secondary store.
	if got, _ := h.secondary.Store.GetTrips(ctx); len(got) != 0 {
		t.Fatalf("secondary trips=%v, want none", got)
	}
}

func TestPrimaryOnly_AbsentIsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	cs, err := h.svc.GetConductors(ctx)
	if err != nil || cs == nil || len(cs) != 0 {
		t.Fatalf("GetConductors()=%#v err=%v, want empty non-nil", cs, err)
	}
	sigs, err := h.svc.GetSignatures(ctx)
	if err != nil || sigs == nil || len(sigs) != 0 {
		t.Fatalf("GetSignatures()=%#v err=%v, want empty non-nil", sigs, err)
	}
}

func TestPrimaryOnly_SaveNilStoresEmptyArray(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	if err := h.svc.SaveSignatures(ctx, nil); err != nil {
		t.Fatalf("SaveSignatures(nil) err=%v", err)
	}
	raw, ok, _ := h.primary.Get(ctx, KeySignatures)
	if !ok || raw != "[]" {
		t.Fatalf("stored=%q ok=%v, want []", raw, ok)
	}
}

func TestPrimaryOnly_CorruptSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	if err := h.primary.Set(ctx, KeyTrips, "{not json"); err != nil {
		t.Fatalf("Set() err=%v", err)
	}
	_, err := h.svc.GetTrips(ctx)
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("GetTrips() err=%v, want %v", err, ErrCorruptSnapshot)
	}
	if !strings.Contains(err.Error(), KeyTrips) {
		t.Fatalf("GetTrips() err=%q, want key name in message", err)
	}
}

func TestPrimaryOnly_QuotaPropagates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarnessWithPrimary(t, memkv.NewStoreWithQuota(64))

	sigs := []domain.Signature{{ID: "s1", TripID: "t1", PassengerID: "p1", ImageData: strings.Repeat("A", 512), SignedAt: t0}}
	err := h.svc.SaveSignatures(ctx, sigs)
	if !errors.Is(err, kvstore.ErrQuotaExceeded) {
		t.Fatalf("SaveSignatures() err=%v, want %v", err, kvstore.ErrQuotaExceeded)
	}
	if _, ok, _ := h.primary.Get(ctx, KeySignatures); ok {
		t.Fatalf("rejected write left a value behind")
	}
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	if _, ok, err := h.svc.GetCurrentUser(ctx); err != nil || ok {
		t.Fatalf("GetCurrentUser(empty) ok=%v err=%v, want no user", ok, err)
	}

	u := domain.User{ID: "u1", Username: "dispatch", DisplayName: "Dispatch Desk", Role: domain.RoleAdmin, CreatedAt: t0}
	if err := h.svc.SetCurrentUser(ctx, &u); err != nil {
		t.Fatalf("SetCurrentUser() err=%v", err)
	}
	got, ok, err := h.svc.GetCurrentUser(ctx)
	if err != nil || !ok || !sameJSON(t, got, u) {
		t.Fatalf("GetCurrentUser()=%+v ok=%v err=%v", got, ok, err)
	}
	if !got.IsAdmin() {
		t.Fatalf("IsAdmin()=false for admin user")
	}

	if err := h.svc.SetCurrentUser(ctx, nil); err != nil {
		t.Fatalf("SetCurrentUser(nil) err=%v", err)
	}
	if _, present, _ := h.primary.Get(ctx, KeyCurrentUser); present {
		t.Fatalf("SetCurrentUser(nil) left the key in place")
	}
	if _, ok, err := h.svc.GetCurrentUser(ctx); err != nil || ok {
		t.Fatalf("GetCurrentUser() after clear ok=%v err=%v, want no user", ok, err)
	}
}

func TestCurrentUser_StoredNullReadsAsNoUser(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h := newHarness(t)

	_ = h.primary.Set(ctx, KeyCurrentUser, "null")
	if _, ok, err := h.svc.GetCurrentUser(ctx); err != nil || ok {
		t.Fatalf("GetCurrentUser() ok=%v err=%v, want no user", ok, err)
	}

	_ = h.primary.Set(ctx, KeyCurrentUser, "[1,2]")
	if _, _, err := h.svc.GetCurrentUser(ctx); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("GetCurrentUser() err=%v, want %v", err, ErrCorruptSnapshot)
	}
}
