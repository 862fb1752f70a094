package itest

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Overland-East-Bay/transit-records/internal/app/records"
	"github.com/Overland-East-Bay/transit-records/internal/domain"
)

func passengerPayload(n int, prefix string) []domain.Passenger {
	out := make([]domain.Passenger, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Passenger{
			ID:             domain.PassengerID(fmt.Sprintf("%s-%03d", prefix, i)),
			FullName:       fmt.Sprintf("Passenger %d", i),
			DocumentNumber: fmt.Sprintf("DOC-%05d", i),
			Notes:          strings.Repeat("n", 64),
		})
	}
	return out
}

func TestRecords_PassengersOutgrowPrimaryQuota(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			// Small enough that 200 passengers cannot be backed up in the primary store.
			srv := newTestServer(t, b, 4096)

			status, body, _ := srv.doJSON(t, http.MethodPut, "/passengers", passengerPayload(200, "p"))
			requireStatus(t, status, body, http.StatusNoContent)

			status, body, _ = srv.doJSON(t, http.MethodGet, "/passengers", nil)
			requireStatus(t, status, body, http.StatusOK)
			got := mustUnmarshal[[]domain.Passenger](t, body)
			if len(got) != 200 || got[199].ID != "p-199" {
				t.Fatalf("GET /passengers len=%d", len(got))
			}

			// A primary-only collection over quota surfaces as 507.
			sigs := []domain.Signature{{ID: "s1", ImageData: strings.Repeat("A", 8192)}}
			status, body, _ = srv.doJSON(t, http.MethodPut, "/signatures", sigs)
			requireErrorCode(t, status, body, http.StatusInsufficientStorage, "QUOTA_EXCEEDED")
		})
	}
}

func TestRecords_ForceMigrationThenRead(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b, 0)

			// Data written before the secondary store existed lives only in the primary store.
			legacy := passengerPayload(3, "legacy")
			if err := srv.primary.Set(testContext(t), records.KeyPassengers, mustJSON(t, legacy)); err != nil {
				t.Fatalf("seed primary: %v", err)
			}
			trips := []domain.Trip{{ID: "t1", Origin: "Oakland", Destination: "Tahoe", PassengerIDs: []domain.PassengerID{"legacy-000"}, Status: domain.TripStatusScheduled}}
			status, body, _ := srv.doJSON(t, http.MethodPut, "/trips", trips)
			requireStatus(t, status, body, http.StatusNoContent)

			status, body, _ = srv.doJSON(t, http.MethodPost, "/admin/migrations", nil)
			requireStatus(t, status, body, http.StatusOK)
			if got := mustUnmarshal[map[string]bool](t, body); !got["migrated"] {
				t.Fatalf("migration response=%s", body)
			}

			status, body, _ = srv.doJSON(t, http.MethodGet, "/passengers", nil)
			requireStatus(t, status, body, http.StatusOK)
			if got := mustUnmarshal[[]domain.Passenger](t, body); len(got) != 3 {
				t.Fatalf("GET /passengers after migration=%s", body)
			}

			// Trips stay readable from the primary store.
			status, body, _ = srv.doJSON(t, http.MethodGet, "/trips", nil)
			requireStatus(t, status, body, http.StatusOK)
			if got := mustUnmarshal[[]domain.Trip](t, body); len(got) != 1 || got[0].Destination != "Tahoe" {
				t.Fatalf("GET /trips=%s", body)
			}
		})
	}
}

func TestRecords_ClearAllKeepsSecondary(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b, 0)

			status, body, _ := srv.doJSON(t, http.MethodPut, "/passengers", passengerPayload(2, "keep"))
			requireStatus(t, status, body, http.StatusNoContent)
			status, body, _ = srv.doJSON(t, http.MethodPut, "/users/current", map[string]any{"user": domain.User{ID: "u1", Username: "ops", Role: domain.RoleAdmin}})
			requireStatus(t, status, body, http.StatusNoContent)

			status, body, _ = srv.doJSON(t, http.MethodDelete, "/admin/storage", nil)
			requireStatus(t, status, body, http.StatusNoContent)

			status, body, _ = srv.doJSON(t, http.MethodGet, "/users/current", nil)
			requireErrorCode(t, status, body, http.StatusNotFound, "NO_CURRENT_USER")

			// Passengers survive in the secondary store.
			status, body, _ = srv.doJSON(t, http.MethodGet, "/passengers", nil)
			requireStatus(t, status, body, http.StatusOK)
			if got := mustUnmarshal[[]domain.Passenger](t, body); len(got) != 2 {
				t.Fatalf("GET /passengers after clear=%s", body)
			}
		})
	}
}

func TestRecords_UsersRefreshFromSecondary(t *testing.T) {
	for _, b := range backendsFromEnv(t) {
		t.Run(string(b), func(t *testing.T) {
			srv := newTestServer(t, b, 0)

			status, body, _ := srv.doJSON(t, http.MethodPut, "/users", []domain.User{{ID: "u1", Username: "ops", Role: domain.RoleOperator}})
			requireStatus(t, status, body, http.StatusNoContent)
			srv.svc.Wait()

			// Drop the primary copy; a read returns it empty and refreshes it from the secondary store.
			if err := srv.primary.Remove(testContext(t), records.KeyUsers); err != nil {
				t.Fatalf("remove primary users: %v", err)
			}
			status, body, _ = srv.doJSON(t, http.MethodGet, "/users", nil)
			requireStatus(t, status, body, http.StatusOK)
			if got := mustUnmarshal[[]domain.User](t, body); len(got) != 0 {
				t.Fatalf("GET /users before refresh=%s", body)
			}
			srv.svc.Wait()

			status, body, _ = srv.doJSON(t, http.MethodGet, "/users", nil)
			requireStatus(t, status, body, http.StatusOK)
			if got := mustUnmarshal[[]domain.User](t, body); len(got) != 1 || got[0].ID != "u1" {
				t.Fatalf("GET /users after refresh=%s", body)
			}
		})
	}
}

func TestRecords_AdminRequiresToken(t *testing.T) {
	srv := newTestServer(t, backendMemory, 0)

	req, _ := http.NewRequest(http.MethodPost, srv.url("/admin/migrations"), nil)
	resp, err := srv.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d want=401", resp.StatusCode)
	}
	requireHeaderPresent(t, resp.Header, "Content-Type")
}

func TestRecords_ErrorsCarryRequestID(t *testing.T) {
	srv := newTestServer(t, backendMemory, 0)

	status, body, _ := srv.doJSON(t, http.MethodGet, "/users/current", nil)
	requireErrorCode(t, status, body, http.StatusNotFound, "NO_CURRENT_USER")
	if got := mustUnmarshal[errorResponse](t, body); got.Error.RequestID == "" {
		t.Fatalf("requestId missing: %s", body)
	}
}
