package recordstore

import (
	"context"

	"github.com/Overland-East-Bay/transit-records/internal/domain"
)

// Kind names a collection in the secondary store.
type Kind string

const (
	KindUsers      Kind = "users"
	KindPassengers Kind = "passengers"
	KindTrips      Kind = "trips"
)

// Store is the secondary, larger-capacity structured store.
//
// Each collection is an ordered snapshot: Save* replaces the whole collection and Get* returns
// it in the order it was saved. An empty (non-nil) slice means "no data" and is not an error.
type Store interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error

	GetPassengers(ctx context.Context) ([]domain.Passenger, error)
	SavePassengers(ctx context.Context, passengers []domain.Passenger) error

	GetTrips(ctx context.Context) ([]domain.Trip, error)
	SaveTrips(ctx context.Context, trips []domain.Trip) error
}
