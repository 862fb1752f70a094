package records

import (
	"context"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
	"github.com/Overland-East-Bay/transit-records/internal/platform/metrics"
)

// readStep is a state of the passengers read machine:
//
//	trySecondary          non-empty: done; empty: fallbackPrimary; error: errorFallbackPrimary
//	fallbackPrimary       primary copy, done (a non-empty copy migrates in the background)
//	errorFallbackPrimary  primary copy, done
type readStep int

const (
	readTrySecondary readStep = iota
	readFallbackPrimary
	readErrorFallbackPrimary
	readDone
)

func (r readStep) String() string {
	switch r {
	case readTrySecondary:
		return "secondary"
	case readFallbackPrimary:
		return "primary_fallback"
	case readErrorFallbackPrimary:
		return "primary_error_fallback"
	default:
		return "done"
	}
}

// writeStep is a state of the passengers write machine: writeSecondary (required) then
// writePrimary (best effort).
type writeStep int

const (
	writeSecondary writeStep = iota
	writePrimary
	writeDone
)

type passengerRead struct {
	step   readStep
	served readStep
	out    []domain.Passenger
	// secondaryErr is kept for logging only.
	secondaryErr error
}

// GetPassengers prefers the secondary store. When it is empty the primary copy is returned and
// copied to the secondary store in the background. When it fails the primary copy is returned
// and the secondary error is logged.
func (s *Service) GetPassengers(ctx context.Context) ([]domain.Passenger, error) {
	r := passengerRead{step: readTrySecondary}
	for r.step != readDone {
		if err := s.stepRead(ctx, &r); err != nil {
			return nil, err
		}
	}
	metrics.ReadPath.WithLabelValues(KeyPassengers, r.served.String()).Inc()
	return r.out, nil
}

func (s *Service) stepRead(ctx context.Context, r *passengerRead) error {
	switch r.step {
	case readTrySecondary:
		ps, err := s.secondary.GetPassengers(ctx)
		switch {
		case err != nil:
			r.secondaryErr = err
			r.step = readErrorFallbackPrimary
		case len(ps) > 0:
			r.out, r.served, r.step = ps, readTrySecondary, readDone
		default:
			r.step = readFallbackPrimary
		}
		return nil

	case readFallbackPrimary:
		ps, err := readSnapshot[domain.Passenger](ctx, s, KeyPassengers)
		if err != nil {
			return err
		}
		if len(ps) > 0 {
			snapshot := slices.Clone(ps)
			s.spawn(ctx, taskMigratePassenger, KeyPassengers, func(ctx context.Context) error {
				return s.secondary.SavePassengers(ctx, snapshot)
			})
		}
		r.out, r.served, r.step = ps, readFallbackPrimary, readDone
		return nil

	case readErrorFallbackPrimary:
		s.log.WithError(r.secondaryErr).WithField("collection", KeyPassengers).
			Warn("secondary read failed; serving primary copy")
		ps, err := readSnapshot[domain.Passenger](ctx, s, KeyPassengers)
		if err != nil {
			return err
		}
		r.out, r.served, r.step = ps, readErrorFallbackPrimary, readDone
		return nil
	}
	r.step = readDone
	return nil
}

// SavePassengers writes the secondary store first. Its failure is returned as a
// PASSENGERS_NOT_PERSISTED *Error and the primary copy is left as it was. After that the
// primary copy is updated as a backup; a backup failure is logged and the save still succeeds.
func (s *Service) SavePassengers(ctx context.Context, passengers []domain.Passenger) error {
	step := writeSecondary
	for step != writeDone {
		switch step {
		case writeSecondary:
			if err := s.secondary.SavePassengers(ctx, passengers); err != nil {
				return errPassengersNotPersisted(err)
			}
			step = writePrimary

		case writePrimary:
			if err := writeSnapshot(ctx, s, KeyPassengers, passengers); err != nil {
				metrics.BackupWriteFailures.WithLabelValues(KeyPassengers).Inc()
				s.log.WithError(err).WithFields(logrus.Fields{
					"collection": KeyPassengers,
					"task":       "backup_write",
				}).Warn("primary backup write failed")
			}
			step = writeDone
		}
	}
	return nil
}
