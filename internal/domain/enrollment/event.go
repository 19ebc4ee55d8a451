package enrollment

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETION EVENT
// Append-only record that a module/lesson unit was finished. Ordering is by
// OccurredAt, not insertion order - the engine tolerates out-of-order arrival.
// ══════════════════════════════════════════════════════════════════════════════

// CompletionEvent records that a unit of work was finished on an enrollment.
type CompletionEvent struct {
	// EnrollmentID - the enrollment the event belongs to.
	EnrollmentID EnrollmentID

	// ModuleID - the completed module.
	ModuleID ModuleID

	// LessonID - the completed lesson; empty for module-level events.
	LessonID LessonID

	// OccurredAt - when the unit was completed. The authoritative ordering key.
	OccurredAt time.Time

	// TimeSpentMinutes - minutes spent on the unit.
	TimeSpentMinutes int

	// ExercisesCompleted - exercises finished within the unit.
	ExercisesCompleted int

	// TotalExercises - exercises planned within the unit.
	TotalExercises int
}

// UnitKey identifies the completed unit. Distinct keys count as distinct
// completed units; replayed or duplicated events collapse to one.
func (e CompletionEvent) UnitKey() string {
	return string(e.ModuleID) + "/" + string(e.LessonID)
}

// Validate checks the event's closed shape. Records that fail validation are
// quarantined at the store-adapter boundary and never reach arithmetic.
func (e CompletionEvent) Validate() error {
	if !e.EnrollmentID.IsValid() {
		return shared.WrapError("enrollment", "ValidateEvent", shared.ErrInvalidID, "event missing enrollment ID", nil)
	}
	if !e.ModuleID.IsValid() {
		return shared.WrapError("enrollment", "ValidateEvent", shared.ErrInvalidID, "event missing module ID", nil)
	}
	if e.OccurredAt.IsZero() {
		return shared.WrapError("enrollment", "ValidateEvent", shared.ErrInvalidInput, "event missing timestamp", nil)
	}
	if e.TimeSpentMinutes < 0 {
		return shared.WrapError("enrollment", "ValidateEvent", shared.ErrNegativeValue, "negative time spent", nil)
	}
	if e.ExercisesCompleted < 0 || e.TotalExercises < 0 {
		return shared.WrapError("enrollment", "ValidateEvent", shared.ErrNegativeValue, "negative exercise count", nil)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the immutable, read-only view of one enrollment that analytics
// computations run against. Fetched once per request; never mutated.
type Snapshot struct {
	// Summary - the enrollment record as stored.
	Summary Summary

	// Plan - the course plan the history is measured against.
	Plan CoursePlan

	// Events - completion history, possibly out of order and possibly empty.
	Events []CompletionEvent
}
