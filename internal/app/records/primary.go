package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
)

func (s *Service) GetConductors(ctx context.Context) ([]domain.Conductor, error) {
	return readSnapshot[domain.Conductor](ctx, s, KeyConductors)
}

func (s *Service) SaveConductors(ctx context.Context, conductors []domain.Conductor) error {
	return writeSnapshot(ctx, s, KeyConductors, conductors)
}

func (s *Service) GetTrips(ctx context.Context) ([]domain.Trip, error) {
	return readSnapshot[domain.Trip](ctx, s, KeyTrips)
}

func (s *Service) SaveTrips(ctx context.Context, trips []domain.Trip) error {
	return writeSnapshot(ctx, s, KeyTrips, trips)
}

func (s *Service) GetSignatures(ctx context.Context) ([]domain.Signature, error) {
	return readSnapshot[domain.Signature](ctx, s, KeySignatures)
}

func (s *Service) SaveSignatures(ctx context.Context, signatures []domain.Signature) error {
	return writeSnapshot(ctx, s, KeySignatures, signatures)
}

func (s *Service) GetConductorCredentials(ctx context.Context) ([]domain.ConductorCredential, error) {
	return readSnapshot[domain.ConductorCredential](ctx, s, KeyConductorCredentials)
}

func (s *Service) SaveConductorCredentials(ctx context.Context, creds []domain.ConductorCredential) error {
	return writeSnapshot(ctx, s, KeyConductorCredentials, creds)
}

// GetCurrentUser returns ok=false when no user is signed in.
func (s *Service) GetCurrentUser(ctx context.Context) (domain.User, bool, error) {
	raw, ok, err := s.primary.Get(ctx, KeyCurrentUser)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("read %s: %w", KeyCurrentUser, err)
	}
	if !ok {
		return domain.User{}, false, nil
	}
	var u *domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domain.User{}, false, fmt.Errorf("%w: key %q: %w", ErrCorruptSnapshot, KeyCurrentUser, err)
	}
	// A literal null was never written by this service; read it as "no user".
	if u == nil {
		return domain.User{}, false, nil
	}
	return *u, true, nil
}

// SetCurrentUser stores u as the current user. A nil u removes the key.
func (s *Service) SetCurrentUser(ctx context.Context, u *domain.User) error {
	if u == nil {
		if err := s.primary.Remove(ctx, KeyCurrentUser); err != nil {
			return fmt.Errorf("remove %s: %w", KeyCurrentUser, err)
		}
		return nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyCurrentUser, err)
	}
	if err := s.primary.Set(ctx, KeyCurrentUser, string(b)); err != nil {
		return fmt.Errorf("write %s: %w", KeyCurrentUser, err)
	}
	return nil
}
