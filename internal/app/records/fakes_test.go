package records

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"

	memkv "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/kvstore"
	memrecords "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/recordstore"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
)

// flakySecondary is a memory record store with injectable failures. Errors are set before the
// service is used and never changed afterwards.
type flakySecondary struct {
	*memrecords.Store

	getUsersErr       error
	saveUsersErr      error
	getPassengersErr  error
	savePassengersErr error
	saveTripsErr      error
}

func newFlakySecondary() *flakySecondary {
	return &flakySecondary{Store: memrecords.NewStore()}
}

func (f *flakySecondary) GetUsers(ctx context.Context) ([]domain.User, error) {
	if f.getUsersErr != nil {
		return nil, f.getUsersErr
	}
	return f.Store.GetUsers(ctx)
}

func (f *flakySecondary) SaveUsers(ctx context.Context, users []domain.User) error {
	if f.saveUsersErr != nil {
		return f.saveUsersErr
	}
	return f.Store.SaveUsers(ctx, users)
}

func (f *flakySecondary) GetPassengers(ctx context.Context) ([]domain.Passenger, error) {
	if f.getPassengersErr != nil {
		return nil, f.getPassengersErr
	}
	return f.Store.GetPassengers(ctx)
}

func (f *flakySecondary) SavePassengers(ctx context.Context, ps []domain.Passenger) error {
	if f.savePassengersErr != nil {
		return f.savePassengersErr
	}
	return f.Store.SavePassengers(ctx, ps)
}

func (f *flakySecondary) SaveTrips(ctx context.Context, trips []domain.Trip) error {
	if f.saveTripsErr != nil {
		return f.saveTripsErr
	}
	return f.Store.SaveTrips(ctx, trips)
}

// gatedSecondary blocks SaveUsers until release is closed or the context ends.
type gatedSecondary struct {
	*memrecords.Store

	started chan struct{}
	release chan struct{}
}

func (g *gatedSecondary) SaveUsers(ctx context.Context, users []domain.User) error {
	close(g.started)
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	return g.Store.SaveUsers(ctx, users)
}

// failingRemovePrimary is a memory kv store whose Remove fails for one key.
type failingRemovePrimary struct {
	*memkv.Store

	failKey string
	err     error
	removed []string
}

func (f *failingRemovePrimary) Remove(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	if key == f.failKey {
		return f.err
	}
	return f.Store.Remove(ctx, key)
}

type fakeGenerator struct {
	passengers    []domain.Passenger
	conductors    []domain.Conductor
	passengersErr error

	passengerCalls int
}

func (g *fakeGenerator) DefaultPassengers(ctx context.Context) ([]domain.Passenger, error) {
	g.passengerCalls++
	if g.passengersErr != nil {
		return nil, g.passengersErr
	}
	return g.passengers, nil
}

func (g *fakeGenerator) DefaultConductors() []domain.Conductor { return g.conductors }

type harness struct {
	svc       *Service
	primary   *memkv.Store
	secondary *flakySecondary
	hook      *logrustest.Hook
}

func newHarness(t *testing.T) harness {
	t.Helper()
	return newHarnessWithPrimary(t, memkv.NewStore())
}

func newHarnessWithPrimary(t *testing.T, primary *memkv.Store) harness {
	t.Helper()
	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	secondary := newFlakySecondary()
	svc := NewService(primary, secondary, logger)
	svc.BackgroundTimeout = 5 * time.Second
	t.Cleanup(svc.Wait)
	return harness{svc: svc, primary: primary, secondary: secondary, hook: hook}
}

func (h harness) entriesWithTask(task string) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range h.hook.AllEntries() {
		if e.Data["task"] == task {
			out = append(out, e)
		}
	}
	return out
}

var t0 = time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)

func passengers(ids ...string) []domain.Passenger {
	out := make([]domain.Passenger, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Passenger{ID: domain.PassengerID(id), FullName: "Passenger " + id, DocumentNumber: "DOC-" + id, CreatedAt: t0})
	}
	return out
}

func users(ids ...string) []domain.User {
	out := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.User{ID: domain.UserID(id), Username: id, Role: domain.RoleOperator, CreatedAt: t0})
	}
	return out
}

func passengerIDs(ps []domain.Passenger) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, string(p.ID))
	}
	return out
}

func userIDs(us []domain.User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, string(u.ID))
	}
	return out
}

// sameJSON compares records by their stored encoding, ignoring object key order.
func sameJSON(t *testing.T, got, want any) bool {
	t.Helper()
	return reflect.DeepEqual(jsonValue(t, got), jsonValue(t, want))
}

func jsonValue(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}
