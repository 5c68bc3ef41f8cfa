package repository

import (
	"context"

	"taxiye/internal/domain"
)

// AddressRepository defines the persistence operations for saved addresses.
type AddressRepository interface {
	// Create persists a new saved address.
	Create(ctx context.Context, addr *domain.SavedAddress) error

	// GetByID retrieves a saved address by ID.
	GetByID(ctx context.Context, id string) (*domain.SavedAddress, error)

	// ListByUser retrieves all saved addresses for a rider, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.SavedAddress, error)

	// Delete removes a saved address owned by the given rider.
	Delete(ctx context.Context, id, userID string) error
}
