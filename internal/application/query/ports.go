// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PORTS
// Interfaces the query handlers depend on. Implemented by the store adapter
// and the redis cache; satisfied by in-memory fakes in tests.
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotProvider fetches immutable snapshots from the event store.
// Each query fetches exactly one snapshot and hands it to the pure core:
// any fetch failure surfaces as an error, never as a partial result.
type SnapshotProvider interface {
	// UserSnapshot returns everything known about one user: profile,
	// enrollments with their completion events, and quiz attempts.
	UserSnapshot(ctx context.Context, userID shared.UserID) (*analytics.UserSnapshot, error)

	// EnrollmentSnapshot returns one enrollment's summary, course plan, and
	// completion events, with the owning user's timezone.
	EnrollmentSnapshot(ctx context.Context, id enrollment.EnrollmentID) (*analytics.EnrollmentSnapshot, error)
}

// DashboardCache stores composed dashboards as a short-lived projection.
// The cache is never the source of truth: a miss recomputes the dashboard
// fully from the snapshot.
type DashboardCache interface {
	// Get returns the cached dashboard or a cache-miss error.
	Get(ctx context.Context, userID shared.UserID) (*analytics.Dashboard, error)

	// Set stores the dashboard under the cache TTL.
	Set(ctx context.Context, userID shared.UserID, dash *analytics.Dashboard) error

	// Invalidate drops the cached dashboard for one user.
	Invalidate(ctx context.Context, userID shared.UserID) error
}
