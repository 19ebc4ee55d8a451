package analytics

import (
	"sort"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD COMPOSER
// Pure merge of the aggregation, streak, mastery, velocity, and prediction
// outputs into the read models the UI consumes. Deterministic: recomputation
// with an unchanged snapshot yields identical output, and inputs are never
// mutated.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentReport combines every derived metric of one enrollment.
type EnrollmentReport struct {
	EnrollmentID        enrollment.EnrollmentID `json:"enrollment_id"`
	CourseID            enrollment.CourseID     `json:"course_id"`
	Status              enrollment.Status       `json:"status"`
	EnrolledAt          time.Time               `json:"enrolled_at"`
	LastAccessedAt      time.Time               `json:"last_accessed_at"`
	CurrentModuleNumber int                     `json:"current_module_number"`
	CurrentDay          int                     `json:"current_day"`

	CompletedUnits        int            `json:"completed_units"`
	TotalUnits            int            `json:"total_units"`
	OverallCompletion     shared.Percent `json:"overall_completion"`
	TotalTimeSpentMinutes int            `json:"total_time_spent_minutes"`

	Streak   Streak   `json:"streak"`
	Velocity Velocity `json:"velocity"`

	// Prediction is only emitted when at least one completion event exists.
	Prediction *Prediction `json:"prediction,omitempty"`

	// activeDays feeds the cross-enrollment global streak.
	activeDays []time.Time
}

// OverallStats aggregates across all of a user's enrollments.
type OverallStats struct {
	// EnrolledCourses - enrollments that still count as enrolled.
	EnrolledCourses int `json:"enrolled_courses"`

	// CompletedCourses - enrollments with completed status.
	CompletedCourses int `json:"completed_courses"`

	// TotalTimeSpentMinutes - summed over all enrollments.
	TotalTimeSpentMinutes int `json:"total_time_spent_minutes"`

	// AverageMastery - overall mastery mean; nil when no topic qualifies.
	AverageMastery *float64 `json:"average_mastery,omitempty"`

	// GlobalStreak - streak over the union of all enrollments' active dates.
	GlobalStreak Streak `json:"global_streak"`
}

// Dashboard is the per-user performance read model. Immutable once returned.
type Dashboard struct {
	UserID      shared.UserID `json:"user_id"`
	DisplayName string        `json:"display_name"`

	OverallStats OverallStats       `json:"overall_stats"`
	Enrollments  []EnrollmentReport `json:"enrollments"`
	Mastery      MasteryProfile     `json:"mastery"`

	// GeneratedAt equals the snapshot's evaluation instant, keeping
	// composition idempotent for an unchanged snapshot.
	GeneratedAt time.Time `json:"generated_at"`
}

// BuildEnrollmentReport derives every per-enrollment metric from one
// enrollment snapshot.
func BuildEnrollmentReport(snap enrollment.Snapshot, loc *time.Location, now time.Time, p Params) EnrollmentReport {
	agg := AggregateEvents(snap, loc)
	summary := agg.ApplyToSummary(snap.Summary)
	vel := EstimateVelocity(agg, summary.EnrolledAt, now, p)

	report := EnrollmentReport{
		EnrollmentID:          summary.ID,
		CourseID:              summary.CourseID,
		Status:                summary.Status,
		EnrolledAt:            summary.EnrolledAt,
		LastAccessedAt:        summary.LastAccessedAt,
		CurrentModuleNumber:   summary.CurrentModuleNumber,
		CurrentDay:            summary.CurrentDay,
		CompletedUnits:        agg.CompletedUnits,
		TotalUnits:            agg.TotalUnits,
		OverallCompletion:     summary.OverallCompletion,
		TotalTimeSpentMinutes: summary.TotalTimeSpentMinutes,
		Streak:                ComputeStreak(agg.ActiveDays, now, loc),
		Velocity:              vel,
		activeDays:            agg.ActiveDays,
	}

	if agg.EventCount > 0 {
		remaining := agg.TotalUnits - agg.CompletedUnits
		pred := PredictCompletion(remaining, vel, snap.Plan.Deadline, now, p)
		report.Prediction = &pred
	}

	return report
}

// ComposeDashboard merges all per-enrollment reports and the user's mastery
// profile into one dashboard.
func ComposeDashboard(snap UserSnapshot, p Params) Dashboard {
	p = p.Sanitize()
	loc := snap.Loc()

	// Sort a copy so the input snapshot is never mutated.
	ordered := make([]enrollment.Snapshot, len(snap.Enrollments))
	copy(ordered, snap.Enrollments)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Summary, ordered[j].Summary
		if !a.EnrolledAt.Equal(b.EnrolledAt) {
			return a.EnrolledAt.Before(b.EnrolledAt)
		}
		return a.ID < b.ID
	})

	dash := Dashboard{
		UserID:      snap.UserID,
		DisplayName: snap.DisplayName,
		Enrollments: make([]EnrollmentReport, 0, len(ordered)),
		Mastery:     ComputeMastery(snap.Attempts, p),
		GeneratedAt: snap.Now,
	}

	daySets := make([][]time.Time, 0, len(ordered))
	for _, es := range ordered {
		report := BuildEnrollmentReport(es, loc, snap.Now, p)
		dash.Enrollments = append(dash.Enrollments, report)

		if report.Status.IsEnrolled() {
			dash.OverallStats.EnrolledCourses++
		}
		if report.Status.IsCompleted() {
			dash.OverallStats.CompletedCourses++
		}
		dash.OverallStats.TotalTimeSpentMinutes += report.TotalTimeSpentMinutes
		daySets = append(daySets, report.activeDays)
	}

	dash.OverallStats.AverageMastery = dash.Mastery.Overall
	dash.OverallStats.GlobalStreak = ComputeStreak(timeutil.MergeDays(loc, daySets...), snap.Now, loc)

	return dash
}
