package repository

import (
	"context"

	"taxiye/internal/domain"
)

// TripRepository defines the persistence operations for trip history.
type TripRepository interface {
	// Create persists a completed trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// ListByRider retrieves a rider's trips, newest first.
	ListByRider(ctx context.Context, riderID string, limit int) ([]*domain.Trip, error)
}
