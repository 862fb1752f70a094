package itest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/httpapi"
	memkv "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/kvstore"
	memrecords "github.com/Overland-East-Bay/transit-records/internal/adapters/memory/recordstore"
	pgrecords "github.com/Overland-East-Bay/transit-records/internal/adapters/postgres/recordstore"
	postgres_testutil "github.com/Overland-East-Bay/transit-records/internal/adapters/postgres/testutil"
	sqliterecords "github.com/Overland-East-Bay/transit-records/internal/adapters/sqlite/recordstore"
	"github.com/Overland-East-Bay/transit-records/internal/app/records"
	recordstoreport "github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendSQLite   backend = "sqlite"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "sqlite":
		return []backend{backendSQLite}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendSQLite, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|sqlite|postgres|all)")
		return nil
	}
}

const adminToken = "itest-admin"

type testServer struct {
	baseURL string
	client  *http.Client
	svc     *records.Service
	primary *memkv.Store
}

func newTestServer(t *testing.T, b backend, primaryQuota int) *testServer {
	t.Helper()

	var secondary recordstoreport.Store
	switch b {
	case backendPostgres:
		secondary = pgrecords.NewStore(postgres_testutil.OpenMigratedPool(t))
	case backendSQLite:
		s, err := sqliterecords.Open(testContext(t), filepath.Join(t.TempDir(), "records.db"))
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		secondary = s
	case backendMemory:
		secondary = memrecords.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	primary := memkv.NewStoreWithQuota(primaryQuota)
	logger, _ := logrustest.NewNullLogger()
	svc := records.NewService(primary, secondary, logger)
	svc.BackgroundTimeout = 10 * time.Second

	api := httpapi.NewServer(svc, logger)
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AdminMiddleware: httpapi.NewAdminTokenMiddleware(adminToken),
		Logger:          logger,
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		svc.Wait()
	})

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		svc:     svc,
		primary: primary,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if strings.HasPrefix(path, "/admin/") {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}

func requireHeaderPresent(t *testing.T, h http.Header, key string) {
	t.Helper()
	if strings.TrimSpace(h.Get(key)) == "" {
		t.Fatalf("expected header %q to be present", key)
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// testContext returns a context that is canceled when the test finishes,
// matching testing.T.Context on toolchains that predate it.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
