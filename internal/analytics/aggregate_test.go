package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

var aggBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func event(module, lesson string, dayOffset, minutes int) enrollment.CompletionEvent {
	return enrollment.CompletionEvent{
		EnrollmentID:       "enr-1",
		ModuleID:           enrollment.ModuleID(module),
		LessonID:           enrollment.LessonID(lesson),
		OccurredAt:         aggBase.AddDate(0, 0, dayOffset),
		TimeSpentMinutes:   minutes,
		ExercisesCompleted: 1,
		TotalExercises:     1,
	}
}

func snapshotWith(totalUnits int, events ...enrollment.CompletionEvent) enrollment.Snapshot {
	return enrollment.Snapshot{
		Summary: enrollment.Summary{
			ID:         "enr-1",
			UserID:     "user-1",
			CourseID:   "course-1",
			Status:     enrollment.StatusActive,
			EnrolledAt: aggBase.AddDate(0, 0, -1),
		},
		Plan:   enrollment.CoursePlan{CourseID: "course-1", TotalUnits: totalUnits},
		Events: events,
	}
}

func TestAggregateEvents_Empty(t *testing.T) {
	agg := AggregateEvents(snapshotWith(10), time.UTC)

	assert.Zero(t, agg.CompletedUnits)
	assert.Zero(t, agg.TotalTimeSpentMinutes)
	assert.Zero(t, agg.EventCount)
	assert.Empty(t, agg.ActiveDays)
	assert.Equal(t, shared.Percent(0), agg.OverallCompletion)
}

func TestAggregateEvents_SumsTimeAndCountsDistinctUnits(t *testing.T) {
	agg := AggregateEvents(snapshotWith(10,
		event("m1", "l1", 0, 30),
		event("m1", "l2", 0, 45),
		event("m2", "l1", 1, 25),
	), time.UTC)

	assert.Equal(t, 3, agg.CompletedUnits)
	assert.Equal(t, 100, agg.TotalTimeSpentMinutes)
	assert.Equal(t, 3, agg.EventCount)
	assert.Equal(t, shared.Percent(30), agg.OverallCompletion)
	assert.Len(t, agg.ActiveDays, 2)
}

func TestAggregateEvents_DuplicateUnitsCollapse(t *testing.T) {
	// A replayed completion of the same unit counts once toward progress
	// but its time still accumulates.
	agg := AggregateEvents(snapshotWith(10,
		event("m1", "l1", 0, 30),
		event("m1", "l1", 2, 20),
	), time.UTC)

	assert.Equal(t, 1, agg.CompletedUnits)
	assert.Equal(t, 50, agg.TotalTimeSpentMinutes)
}

func TestAggregateEvents_OvershootClampsTo100(t *testing.T) {
	// Three distinct units against a two-unit plan: the defensive clamp
	// keeps completion inside [0,100].
	agg := AggregateEvents(snapshotWith(2,
		event("m1", "l1", 0, 10),
		event("m1", "l2", 0, 10),
		event("m2", "l1", 0, 10),
	), time.UTC)

	assert.Equal(t, shared.Percent(100), agg.OverallCompletion)
}

func TestAggregateEvents_UnpublishedPlanYieldsZeroPercent(t *testing.T) {
	agg := AggregateEvents(snapshotWith(0, event("m1", "l1", 0, 10)), time.UTC)
	assert.Equal(t, shared.Percent(0), agg.OverallCompletion)
	assert.Equal(t, 1, agg.CompletedUnits)
}

func TestAggregateEvents_OrderIndependent(t *testing.T) {
	a := snapshotWith(10,
		event("m1", "l1", 0, 30),
		event("m1", "l2", 1, 45),
		event("m2", "l1", 2, 25),
	)
	b := snapshotWith(10,
		event("m2", "l1", 2, 25),
		event("m1", "l1", 0, 30),
		event("m1", "l2", 1, 45),
	)

	assert.Equal(t, AggregateEvents(a, time.UTC), AggregateEvents(b, time.UTC))
}

func TestAggregateEvents_MalformedEventsSkipped(t *testing.T) {
	bad := event("m1", "l1", 0, -30)
	agg := AggregateEvents(snapshotWith(10, bad, event("m2", "l1", 0, 20)), time.UTC)

	assert.Equal(t, 1, agg.EventCount)
	assert.Equal(t, 1, agg.CompletedUnits)
	assert.Equal(t, 20, agg.TotalTimeSpentMinutes)
}

func TestAggregateEvents_FirstAndLastEventBounds(t *testing.T) {
	agg := AggregateEvents(snapshotWith(10,
		event("m2", "l1", 3, 10),
		event("m1", "l1", 0, 10),
		event("m1", "l2", 1, 10),
	), time.UTC)

	assert.Equal(t, aggBase, agg.FirstEventAt)
	assert.Equal(t, aggBase.AddDate(0, 0, 3), agg.LastEventAt)
}

func TestApplyToSummary_ReplacesDerivedFields(t *testing.T) {
	snap := snapshotWith(4, event("m1", "l1", 0, 30), event("m1", "l2", 1, 30))
	snap.Summary.OverallCompletion = 99 // stale cached projection
	snap.Summary.TotalTimeSpentMinutes = 1

	agg := AggregateEvents(snap, time.UTC)
	updated := agg.ApplyToSummary(snap.Summary)

	assert.Equal(t, shared.Percent(50), updated.OverallCompletion)
	assert.Equal(t, 60, updated.TotalTimeSpentMinutes)
	assert.Equal(t, agg.LastEventAt, updated.LastAccessedAt)
	// The input summary is untouched.
	assert.Equal(t, shared.Percent(99), snap.Summary.OverallCompletion)
}
