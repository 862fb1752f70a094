package records

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/transit-records/internal/platform/metrics"
)

const (
	taskRefreshUsers     = "refresh_users"
	taskSaveUsers        = "save_users_secondary"
	taskMigratePassenger = "migrate_passengers"
)

// spawn runs fn in a tracked goroutine. The task keeps the caller's context values but not its
// cancellation, and is bounded by BackgroundTimeout. Failures are logged and counted only.
func (s *Service) spawn(ctx context.Context, task, collection string, fn func(ctx context.Context) error) {
	timeout := s.BackgroundTimeout
	if timeout <= 0 {
		timeout = DefaultBackgroundTimeout
	}
	detached := context.WithoutCancel(ctx)

	s.tasks.Add(1)
	go func() {
		defer s.tasks.Done()

		taskCtx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()

		err := fn(taskCtx)
		metrics.BackgroundTasks.WithLabelValues(task, metrics.Outcome(err)).Inc()
		if err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"collection": collection,
				"task":       task,
			}).Warn("background task failed")
		}
	}()
}
