package query

import (
	"context"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEARNING VELOCITY QUERY
// Estimates one enrollment's pace (completed units per day) from its
// completion history. Thin histories are reported as indeterminate rather
// than extrapolated from a single sample.
// ══════════════════════════════════════════════════════════════════════════════

// GetLearningVelocityQuery contains the parameters of a velocity request.
type GetLearningVelocityQuery struct {
	// EnrollmentID - the enrollment whose pace to estimate.
	EnrollmentID string
}

// Validate checks the query parameters. Runs before any store access.
func (q *GetLearningVelocityQuery) Validate() error {
	if !enrollment.EnrollmentID(q.EnrollmentID).IsValid() {
		return shared.ErrInvalidEnrollment
	}
	return nil
}

// GetLearningVelocityResult contains the estimated velocity.
type GetLearningVelocityResult struct {
	// EnrollmentID - the estimated enrollment.
	EnrollmentID string `json:"enrollment_id"`

	// CourseID - the enrolled course.
	CourseID string `json:"course_id"`

	// Velocity - the pace estimate.
	Velocity analytics.Velocity `json:"velocity"`

	// TotalUnits - planned units from the course plan.
	TotalUnits int `json:"total_units"`

	// GeneratedAt - the snapshot instant the estimate is anchored to.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetLearningVelocityHandler handles velocity requests.
type GetLearningVelocityHandler struct {
	store  SnapshotProvider
	params analytics.Params
}

// NewGetLearningVelocityHandler creates a new handler.
func NewGetLearningVelocityHandler(store SnapshotProvider, params analytics.Params) *GetLearningVelocityHandler {
	return &GetLearningVelocityHandler{
		store:  store,
		params: params.Sanitize(),
	}
}

// Handle executes the query.
func (h *GetLearningVelocityHandler) Handle(ctx context.Context, q GetLearningVelocityQuery) (*GetLearningVelocityResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetLearningVelocity", shared.ErrValidation, "invalid query", err)
	}

	snap, err := h.store.EnrollmentSnapshot(ctx, enrollment.EnrollmentID(q.EnrollmentID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapError("query", "GetLearningVelocity", shared.ErrNotFound, "enrollment not found", err)
		}
		return nil, shared.WrapError("query", "GetLearningVelocity", shared.ErrUpstream, "snapshot fetch failed", err)
	}

	agg := analytics.AggregateEvents(snap.Enrollment, snap.Loc())
	vel := analytics.EstimateVelocity(agg, snap.Enrollment.Summary.EnrolledAt, snap.Now, h.params)

	return &GetLearningVelocityResult{
		EnrollmentID: string(snap.Enrollment.Summary.ID),
		CourseID:     string(snap.Enrollment.Summary.CourseID),
		Velocity:     vel,
		TotalUnits:   agg.TotalUnits,
		GeneratedAt:  snap.Now,
	}, nil
}
