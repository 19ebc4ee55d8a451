package user

import (
	"context"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// Repository provides read access to user profiles.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// GetByID returns a user profile by ID.
	// Returns shared.ErrUserNotFound if no such user exists.
	GetByID(ctx context.Context, id shared.UserID) (*Profile, error)
}
