package query

import (
	"context"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PERFORMANCE DASHBOARD QUERY
// Composes the full per-user dashboard: per-enrollment progress, streaks,
// velocity, predictions, and the mastery profile. The composed read model is
// cached for a short TTL; a miss recomputes everything from one snapshot.
// ══════════════════════════════════════════════════════════════════════════════

// GetPerformanceDashboardQuery contains the parameters of a dashboard request.
type GetPerformanceDashboardQuery struct {
	// UserID - the user whose dashboard to compose.
	UserID string

	// SkipCache - bypass the cached projection and recompute.
	SkipCache bool
}

// Validate checks the query parameters. Runs before any store access.
func (q *GetPerformanceDashboardQuery) Validate() error {
	if !shared.UserID(q.UserID).IsValid() {
		return shared.ErrInvalidUserID
	}
	return nil
}

// GetPerformanceDashboardResult contains the composed dashboard.
type GetPerformanceDashboardResult struct {
	// Dashboard - the full per-user performance read model.
	Dashboard analytics.Dashboard `json:"dashboard"`

	// FromCache - true when the dashboard was served from the projection
	// cache rather than recomputed.
	FromCache bool `json:"from_cache"`
}

// GetPerformanceDashboardHandler handles dashboard requests.
type GetPerformanceDashboardHandler struct {
	store  SnapshotProvider
	cache  DashboardCache
	params analytics.Params
	log    *logger.Logger
}

// NewGetPerformanceDashboardHandler creates a new handler. The cache is
// optional; a nil cache disables the projection layer.
func NewGetPerformanceDashboardHandler(
	store SnapshotProvider,
	cache DashboardCache,
	params analytics.Params,
	log *logger.Logger,
) *GetPerformanceDashboardHandler {
	return &GetPerformanceDashboardHandler{
		store:  store,
		cache:  cache,
		params: params.Sanitize(),
		log:    log,
	}
}

// Handle executes the query.
func (h *GetPerformanceDashboardHandler) Handle(ctx context.Context, q GetPerformanceDashboardQuery) (*GetPerformanceDashboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetPerformanceDashboard", shared.ErrValidation, "invalid query", err)
	}

	userID := shared.UserID(q.UserID)

	if h.cache != nil && !q.SkipCache {
		if dash, err := h.cache.Get(ctx, userID); err == nil && dash != nil {
			return &GetPerformanceDashboardResult{Dashboard: *dash, FromCache: true}, nil
		}
	}

	snap, err := h.store.UserSnapshot(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.WrapError("query", "GetPerformanceDashboard", shared.ErrNotFound, "user not found", err)
		}
		return nil, shared.WrapError("query", "GetPerformanceDashboard", shared.ErrUpstream, "snapshot fetch failed", err)
	}

	dash := analytics.ComposeDashboard(*snap, h.params)

	if h.cache != nil {
		// A failed cache write degrades to recomputation on the next request.
		if err := h.cache.Set(ctx, userID, &dash); err != nil && h.log != nil {
			h.log.Warn("dashboard cache write failed",
				logger.UserID(q.UserID),
				logger.Err(err),
			)
		}
	}

	return &GetPerformanceDashboardResult{Dashboard: dash}, nil
}
