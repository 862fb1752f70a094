package records

import (
	"context"
	"fmt"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/platform/metrics"
	"github.com/Overland-East-Bay/transit-records/internal/ports/out/seed"
)

// BootstrapResult reports which collections Bootstrap wrote.
type BootstrapResult struct {
	SeededPassengers bool
	SeededConductors bool
}

// Bootstrap seeds Passengers and Conductors in the primary store when their key is absent.
// A stored empty snapshot counts as present.
//
// Passengers have a second condition: they are seeded only when the secondary store holds no
// passengers either, so migrated data is never shadowed by defaults. If that secondary read
// fails the failure is logged and the primary key alone decides.
func (s *Service) Bootstrap(ctx context.Context, gen seed.Generator) (BootstrapResult, error) {
	var res BootstrapResult

	seedPassengers, err := s.needsPassengerSeed(ctx)
	if err != nil {
		return res, err
	}
	if seedPassengers {
		ps, err := gen.DefaultPassengers(ctx)
		if err != nil {
			return res, fmt.Errorf("generate default passengers: %w", err)
		}
		if err := writeSnapshot(ctx, s, KeyPassengers, ps); err != nil {
			return res, err
		}
		res.SeededPassengers = true
	}

	_, present, err := s.primary.Get(ctx, KeyConductors)
	if err != nil {
		return res, fmt.Errorf("read %s: %w", KeyConductors, err)
	}
	if !present {
		if err := writeSnapshot(ctx, s, KeyConductors, gen.DefaultConductors()); err != nil {
			return res, err
		}
		res.SeededConductors = true
	}

	s.log.WithField("passengers", res.SeededPassengers).
		WithField("conductors", res.SeededConductors).
		Info("bootstrap finished")
	return res, nil
}

func (s *Service) needsPassengerSeed(ctx context.Context) (bool, error) {
	_, present, err := s.primary.Get(ctx, KeyPassengers)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", KeyPassengers, err)
	}
	if present {
		return false, nil
	}
	ps, err := s.secondary.GetPassengers(ctx)
	if err != nil {
		s.log.WithError(err).WithField("collection", KeyPassengers).
			Warn("secondary read failed during bootstrap; seeding primary")
		return true, nil
	}
	return len(ps) == 0, nil
}

// ForceDataMigration copies Passengers and Trips from the primary store into the secondary
// store, then removes the primary Passengers key. The primary Trips key is kept. Any failure
// is logged and reported as false.
func (s *Service) ForceDataMigration(ctx context.Context) bool {
	err := s.migrateToSecondary(ctx)
	metrics.BulkMigrations.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		s.log.WithError(err).Error("bulk migration failed")
		return false
	}
	s.log.Info("bulk migration finished")
	return true
}

func (s *Service) migrateToSecondary(ctx context.Context) error {
	ps, err := readSnapshot[domain.Passenger](ctx, s, KeyPassengers)
	if err != nil {
		return err
	}
	trips, err := readSnapshot[domain.Trip](ctx, s, KeyTrips)
	if err != nil {
		return err
	}

	if len(ps) > 0 {
		if err := s.secondary.SavePassengers(ctx, ps); err != nil {
			return fmt.Errorf("migrate %s: %w", KeyPassengers, err)
		}
	}
	if len(trips) > 0 {
		if err := s.secondary.SaveTrips(ctx, trips); err != nil {
			return fmt.Errorf("migrate %s: %w", KeyTrips, err)
		}
	}

	if err := s.primary.Remove(ctx, KeyPassengers); err != nil {
		return fmt.Errorf("remove %s: %w", KeyPassengers, err)
	}
	return nil
}

// ClearAll removes every key from the primary store in Keys order and stops at the first
// failure. The secondary store is not touched.
func (s *Service) ClearAll(ctx context.Context) error {
	for _, k := range allKeys {
		if err := s.primary.Remove(ctx, k); err != nil {
			return fmt.Errorf("remove %s: %w", k, err)
		}
	}
	return nil
}
