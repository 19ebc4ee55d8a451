package enrollment

import (
	"context"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Contracts for the persistent event store. Implementations live in
// infrastructure/persistence. The analytics layer treats the store as a
// read-only snapshot provider.
// ══════════════════════════════════════════════════════════════════════════════

// Repository provides read access to enrollment summaries and plans.
type Repository interface {
	// GetByID returns an enrollment summary by ID.
	// Returns shared.ErrEnrollmentNotFound if no such enrollment exists.
	GetByID(ctx context.Context, id EnrollmentID) (*Summary, error)

	// ListByUser returns all enrollment summaries for a user, ordered by
	// EnrolledAt ascending. An empty slice is a valid result.
	ListByUser(ctx context.Context, userID shared.UserID) ([]*Summary, error)

	// GetPlan returns the course plan for a course.
	// Returns shared.ErrPlanNotFound if the course has no published plan.
	GetPlan(ctx context.Context, courseID CourseID) (*CoursePlan, error)
}

// EventRepository provides read access to the append-only completion history.
type EventRepository interface {
	// ListByEnrollment returns the completion events of one enrollment.
	// No ordering is guaranteed; callers sort by OccurredAt.
	ListByEnrollment(ctx context.Context, id EnrollmentID) ([]CompletionEvent, error)
}
