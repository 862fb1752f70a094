package records

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/platform/metrics"
)

// GetUsers returns the primary copy without waiting on the secondary store. It also starts a
// background refresh that overwrites the primary copy when the secondary store holds users.
// Concurrent refreshes share one secondary read.
func (s *Service) GetUsers(ctx context.Context) ([]domain.User, error) {
	users, err := readSnapshot[domain.User](ctx, s, KeyUsers)
	metrics.ReadPath.WithLabelValues(KeyUsers, "primary").Inc()

	s.spawn(ctx, taskRefreshUsers, KeyUsers, func(ctx context.Context) error {
		_, err, _ := s.refresh.Do(KeyUsers, func() (any, error) {
			return nil, s.refreshUsers(ctx)
		})
		return err
	})

	if err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Service) refreshUsers(ctx context.Context) error {
	users, err := s.secondary.GetUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}
	return writeSnapshot(ctx, s, KeyUsers, users)
}

// SaveUsers writes the primary copy and then the secondary copy in the background. Neither
// failure reaches the caller; both are logged. The secondary copy may lag behind the return.
func (s *Service) SaveUsers(ctx context.Context, users []domain.User) {
	if err := writeSnapshot(ctx, s, KeyUsers, users); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"collection": KeyUsers,
			"task":       "save_users_primary",
		}).Warn("primary write failed")
	}

	snapshot := slices.Clone(users)
	s.spawn(ctx, taskSaveUsers, KeyUsers, func(ctx context.Context) error {
		return s.secondary.SaveUsers(ctx, snapshot)
	})
}
