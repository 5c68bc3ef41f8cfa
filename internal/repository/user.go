package repository

import (
	"context"

	"taxiye/internal/domain"
)

// UserRepository defines the persistence operations for rider accounts.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves a user by canonical phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// GetByReferralCode retrieves the user owning a referral code.
	GetByReferralCode(ctx context.Context, code string) (*domain.User, error)

	// Update updates profile fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
}
