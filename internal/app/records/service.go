// Package records is the persistence façade over the primary key-value store and the secondary
// record store. Each collection follows one of three policies:
//
//   - primary only: Conductors, Trips, Signatures, ConductorCredentials and the current user.
//   - primary with background refresh from the secondary store: Users.
//   - secondary preferred, primary as fallback and backup: Passengers.
package records

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Overland-East-Bay/transit-records/internal/ports/out/kvstore"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/recordstore"
)

const DefaultBackgroundTimeout = 30 * time.Second

type Service struct {
	primary   kvstore.Store
	secondary recordstore.Store
	log       logrus.FieldLogger

	// BackgroundTimeout bounds each fire-and-forget task. Zero means DefaultBackgroundTimeout.
	BackgroundTimeout time.Duration

	tasks   sync.WaitGroup
	refresh singleflight.Group
}

func NewService(primary kvstore.Store, secondary recordstore.Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		primary:           primary,
		secondary:         secondary,
		log:               log,
		BackgroundTimeout: DefaultBackgroundTimeout,
	}
}

// Wait blocks until every background task spawned so far has finished.
func (s *Service) Wait() {
	s.tasks.Wait()
}
