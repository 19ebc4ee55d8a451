package analytics

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER SNAPSHOT
// The single input of the dashboard composer: everything the store knows
// about one user, fetched once per request. The evaluation instant Now is
// part of the snapshot so recomputation with an unchanged snapshot is
// bit-identical.
// ══════════════════════════════════════════════════════════════════════════════

// UserSnapshot is an immutable view of one user's enrollments and attempts.
type UserSnapshot struct {
	// UserID - the user the snapshot describes.
	UserID shared.UserID

	// DisplayName - name shown on the dashboard.
	DisplayName string

	// Location - the user's configured timezone for day boundaries.
	// Nil means UTC.
	Location *time.Location

	// Enrollments - one snapshot per enrollment, at most one per course.
	Enrollments []enrollment.Snapshot

	// Attempts - the user's full quiz-attempt history, possibly unordered.
	Attempts []quiz.Attempt

	// Now - the evaluation instant all derived metrics are anchored to.
	Now time.Time
}

// Loc returns the snapshot's location, defaulting to UTC.
func (s *UserSnapshot) Loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// EnrollmentSnapshot is an immutable view of one enrollment, carrying the
// owning user's timezone and the evaluation instant.
type EnrollmentSnapshot struct {
	// Enrollment - the summary, plan, and completion events.
	Enrollment enrollment.Snapshot

	// Location - the owning user's timezone. Nil means UTC.
	Location *time.Location

	// Now - the evaluation instant.
	Now time.Time
}

// Loc returns the snapshot's location, defaulting to UTC.
func (s *EnrollmentSnapshot) Loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}
