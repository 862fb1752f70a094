package seed

import (
	"context"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
)

// Generator produces the records used to seed an empty installation.
type Generator interface {
	// DefaultPassengers may do I/O (fixture files, remote catalogs) and therefore can fail.
	DefaultPassengers(ctx context.Context) ([]domain.Passenger, error)
	DefaultConductors() []domain.Conductor
}
