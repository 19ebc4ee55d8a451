package quiz

import (
	"context"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// Repository provides read access to the append-only quiz-attempt history.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// ListByUser returns all quiz attempts of a user.
	// No ordering is guaranteed; callers sort by OccurredAt.
	// An empty slice is a valid result, never an error.
	ListByUser(ctx context.Context, userID shared.UserID) ([]Attempt, error)
}
