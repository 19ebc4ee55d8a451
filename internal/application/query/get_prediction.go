package query

import (
	"context"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COMPLETION PREDICTION QUERY
// Projects when an enrollment will finish, given its remaining units and
// estimated velocity, and classifies confidence against the course deadline.
// An unpredictable result is a valid answer, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// GetCompletionPredictionQuery contains the parameters of a prediction request.
type GetCompletionPredictionQuery struct {
	// EnrollmentID - the enrollment to project.
	EnrollmentID string
}

// Validate checks the query parameters. Runs before any store access.
func (q *GetCompletionPredictionQuery) Validate() error {
	if !enrollment.EnrollmentID(q.EnrollmentID).IsValid() {
		return shared.ErrInvalidEnrollment
	}
	return nil
}

// GetCompletionPredictionResult contains the projection.
type GetCompletionPredictionResult struct {
	// EnrollmentID - the projected enrollment.
	EnrollmentID string `json:"enrollment_id"`

	// CourseID - the enrolled course.
	CourseID string `json:"course_id"`

	// Prediction - the projected completion and its confidence.
	Prediction analytics.Prediction `json:"prediction"`

	// Velocity - the pace estimate the projection was derived from.
	Velocity analytics.Velocity `json:"velocity"`

	// GeneratedAt - the snapshot instant the projection is anchored to.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetCompletionPredictionHandler handles prediction requests.
type GetCompletionPredictionHandler struct {
	store  SnapshotProvider
	params analytics.Params
}

// NewGetCompletionPredictionHandler creates a new handler.
func NewGetCompletionPredictionHandler(store SnapshotProvider, params analytics.Params) *GetCompletionPredictionHandler {
	return &GetCompletionPredictionHandler{
		store:  store,
		params: params.Sanitize(),
	}
}

// Handle executes the query.
func (h *GetCompletionPredictionHandler) Handle(ctx context.Context, q GetCompletionPredictionQuery) (*GetCompletionPredictionResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetCompletionPrediction", shared.ErrValidation, "invalid query", err)
	}

	snap, err := h.store.EnrollmentSnapshot(ctx, enrollment.EnrollmentID(q.EnrollmentID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapError("query", "GetCompletionPrediction", shared.ErrNotFound, "enrollment not found", err)
		}
		return nil, shared.WrapError("query", "GetCompletionPrediction", shared.ErrUpstream, "snapshot fetch failed", err)
	}

	agg := analytics.AggregateEvents(snap.Enrollment, snap.Loc())
	vel := analytics.EstimateVelocity(agg, snap.Enrollment.Summary.EnrolledAt, snap.Now, h.params)

	remaining := agg.TotalUnits - agg.CompletedUnits
	pred := analytics.PredictCompletion(remaining, vel, snap.Enrollment.Plan.Deadline, snap.Now, h.params)

	return &GetCompletionPredictionResult{
		EnrollmentID: string(snap.Enrollment.Summary.ID),
		CourseID:     string(snap.Enrollment.Summary.CourseID),
		Prediction:   pred,
		Velocity:     vel,
		GeneratedAt:  snap.Now,
	}, nil
}
