package query

import (
	"context"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MASTERY PROFILE QUERY
// Derives a user's per-topic mastery from the full quiz-attempt history.
// Scores are recomputed on every request; nothing stored is trusted as
// authoritative.
// ══════════════════════════════════════════════════════════════════════════════

// GetMasteryProfileQuery contains the parameters of a mastery-profile request.
type GetMasteryProfileQuery struct {
	// UserID - the user whose mastery to derive.
	UserID string
}

// Validate checks the query parameters. Runs before any store access.
func (q *GetMasteryProfileQuery) Validate() error {
	if !shared.UserID(q.UserID).IsValid() {
		return shared.ErrInvalidUserID
	}
	return nil
}

// GetMasteryProfileResult contains the derived mastery profile.
type GetMasteryProfileResult struct {
	// UserID - the profiled user.
	UserID string `json:"user_id"`

	// DisplayName - name shown next to the profile.
	DisplayName string `json:"display_name"`

	// Topics - per-topic mastery, sorted by topic name.
	Topics []analytics.TopicMastery `json:"topics"`

	// Overall - mean of sufficiently-sampled topic scores; absent when no
	// topic qualifies.
	Overall *float64 `json:"overall,omitempty"`

	// TotalAttempts - attempts in the history the profile was derived from.
	TotalAttempts int `json:"total_attempts"`

	// GeneratedAt - the snapshot instant the profile is anchored to.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetMasteryProfileHandler handles mastery-profile requests.
type GetMasteryProfileHandler struct {
	store  SnapshotProvider
	params analytics.Params
}

// NewGetMasteryProfileHandler creates a new handler.
func NewGetMasteryProfileHandler(store SnapshotProvider, params analytics.Params) *GetMasteryProfileHandler {
	return &GetMasteryProfileHandler{
		store:  store,
		params: params.Sanitize(),
	}
}

// Handle executes the query.
func (h *GetMasteryProfileHandler) Handle(ctx context.Context, q GetMasteryProfileQuery) (*GetMasteryProfileResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetMasteryProfile", shared.ErrValidation, "invalid query", err)
	}

	snap, err := h.store.UserSnapshot(ctx, shared.UserID(q.UserID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapError("query", "GetMasteryProfile", shared.ErrNotFound, "user not found", err)
		}
		return nil, shared.WrapError("query", "GetMasteryProfile", shared.ErrUpstream, "snapshot fetch failed", err)
	}

	profile := analytics.ComputeMastery(snap.Attempts, h.params)

	return &GetMasteryProfileResult{
		UserID:        string(snap.UserID),
		DisplayName:   snap.DisplayName,
		Topics:        profile.Topics,
		Overall:       profile.Overall,
		TotalAttempts: len(snap.Attempts),
		GeneratedAt:   snap.Now,
	}, nil
}
