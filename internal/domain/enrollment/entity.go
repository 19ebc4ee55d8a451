// Package enrollment contains the domain model for a user's registration in
// a course: the enrollment summary, its completion-event history, and the
// course plan the history is measured against. This is a pure domain layer
// with zero external dependencies.
package enrollment

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentID represents a unique identifier for an enrollment (UUID string).
type EnrollmentID string

// IsValid checks if the enrollment ID is non-empty.
func (e EnrollmentID) IsValid() bool {
	return e != ""
}

// String returns the string representation of EnrollmentID.
func (e EnrollmentID) String() string {
	return string(e)
}

// CourseID represents a unique identifier for a course.
type CourseID string

// IsValid checks if the course ID is non-empty.
func (c CourseID) IsValid() bool {
	return c != ""
}

// String returns the string representation of CourseID.
func (c CourseID) String() string {
	return string(c)
}

// ModuleID represents a unique identifier for a course module.
type ModuleID string

// IsValid checks if the module ID is non-empty.
func (m ModuleID) IsValid() bool {
	return m != ""
}

// LessonID represents a unique identifier for a lesson inside a module.
// It may be empty for module-level completion events.
type LessonID string

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// Explicit sum type instead of an ad hoc string mapping. Unrecognized raw
// values map to StatusUnknown so they fail loudly downstream instead of
// silently passing through.
// ══════════════════════════════════════════════════════════════════════════════

// Status defines the lifecycle state of an enrollment.
type Status string

const (
	// StatusActive - the user is actively working through the course.
	StatusActive Status = "active"
	// StatusCompleted - the user finished every planned unit.
	StatusCompleted Status = "completed"
	// StatusPaused - the user paused the course; the enrollment remains.
	StatusPaused Status = "paused"
	// StatusArchived - the enrollment is archived; summaries are never
	// deleted, archiving is the terminal state.
	StatusArchived Status = "archived"
	// StatusUnknown - an unrecognized raw status from the store.
	StatusUnknown Status = "unknown"
)

// ParseStatus maps a raw store value onto the Status sum type.
// Unrecognized input yields StatusUnknown, never the raw string.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusActive, StatusCompleted, StatusPaused, StatusArchived:
		return Status(raw)
	default:
		return StatusUnknown
	}
}

// IsValid checks that the status is a recognized, non-unknown value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusArchived:
		return true
	default:
		return false
	}
}

// IsEnrolled returns true while the enrollment counts toward a user's
// enrolled-course total.
func (s Status) IsEnrolled() bool {
	return s == StatusActive || s == StatusPaused || s == StatusCompleted
}

// IsCompleted returns true when the enrollment is finished.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ENROLLMENT SUMMARY
// ══════════════════════════════════════════════════════════════════════════════

// Summary is the per-(user, course) enrollment record. A user holds at most
// one enrollment per course. Created on enrollment, mutated by completion
// events, never deleted (archived via Status).
type Summary struct {
	// ID - unique enrollment identifier.
	ID EnrollmentID

	// UserID - owner of the enrollment.
	UserID shared.UserID

	// CourseID - the enrolled course.
	CourseID CourseID

	// Status - lifecycle state.
	Status Status

	// EnrolledAt - when the enrollment was created.
	EnrolledAt time.Time

	// LastAccessedAt - most recent activity on the enrollment.
	LastAccessedAt time.Time

	// CurrentModuleNumber - 1-based module the user is working on.
	CurrentModuleNumber int

	// CurrentDay - 1-based day of the course schedule.
	CurrentDay int

	// OverallCompletion - completed units over planned units, in [0, 100].
	OverallCompletion shared.Percent

	// AverageMasteryScore - cached projection of the user's mean mastery.
	// Not authoritative; the mastery scorer recomputes from quiz attempts.
	AverageMasteryScore shared.Score

	// TotalTimeSpentMinutes - sum of event time, never negative.
	TotalTimeSpentMinutes int
}

// Validate checks the summary's structural invariants.
func (s *Summary) Validate() error {
	if !s.ID.IsValid() {
		return shared.ErrInvalidEnrollment
	}
	if !s.UserID.IsValid() {
		return shared.ErrInvalidUserID
	}
	if !s.CourseID.IsValid() {
		return shared.NewDomainError("enrollment", "Validate", shared.ErrInvalidID, "invalid course ID")
	}
	if s.Status == StatusUnknown {
		return shared.NewDomainError("enrollment", "Validate", shared.ErrUnknownState, "unrecognized enrollment status")
	}
	if s.TotalTimeSpentMinutes < 0 {
		return shared.NewDomainError("enrollment", "Validate", shared.ErrNegativeValue, "negative total time")
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE PLAN
// ══════════════════════════════════════════════════════════════════════════════

// CoursePlan describes the planned workload of a course. Completion and
// prediction are measured against TotalUnits.
type CoursePlan struct {
	// CourseID - the course this plan describes.
	CourseID CourseID

	// TotalUnits - total planned module/lesson units. Zero means the plan
	// is unpublished; completion is reported as 0 rather than dividing.
	TotalUnits int

	// TotalModules - number of modules in the plan.
	TotalModules int

	// Deadline - optional target completion date. Nil means no deadline,
	// and predictions default to on-track.
	Deadline *time.Time
}
