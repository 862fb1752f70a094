// Package metrics holds the process-wide Prometheus collectors.
//
//   - records_read_path_total: which branch served a collection read
//   - records_background_tasks_total: fire-and-forget tasks by outcome
//   - records_backup_write_failures_total: best-effort primary writes that failed
//   - records_bulk_migrations_total: ForceDataMigration calls by outcome
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	ReadPath = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_read_path_total", Help: "Collection reads by serving path."},
		[]string{"collection", "path"},
	)
	BackgroundTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_background_tasks_total", Help: "Background persistence tasks by outcome."},
		[]string{"task", "outcome"},
	)
	BackupWriteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_backup_write_failures_total", Help: "Failed best-effort primary backup writes."},
		[]string{"collection"},
	)
	BulkMigrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "records_bulk_migrations_total", Help: "Bulk primary-to-secondary migrations by outcome."},
		[]string{"outcome"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status."},
		[]string{"route", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(ReadPath, BackgroundTasks, BackupWriteFailures, BulkMigrations, HTTPRequests)
}

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
