package analytics

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VELOCITY ESTIMATOR
// Derives a pace metric (completed units per day) from an enrollment's
// completion history and the elapsed real time since enrollment. Too few
// samples yield an indeterminate velocity, never a noisy single-sample rate.
// ══════════════════════════════════════════════════════════════════════════════

// Velocity is the estimated work pace of one enrollment.
type Velocity struct {
	// UnitsPerDay - completed units per elapsed day. Zero when indeterminate.
	// Always non-negative, and non-decreasing in completed units for fixed
	// elapsed time.
	UnitsPerDay float64 `json:"units_per_day"`

	// Indeterminate - true when the history is too thin for a stable rate.
	Indeterminate bool `json:"indeterminate"`

	// CompletedUnits - the numerator of the estimate.
	CompletedUnits int `json:"completed_units"`

	// ElapsedDays - the floored denominator of the estimate.
	ElapsedDays float64 `json:"elapsed_days"`
}

// EstimateVelocity computes the pace of an enrollment from its aggregate.
// The elapsed time runs from enrollment start to now, floored at
// p.MinElapsedDays so same-day enrollments do not divide by near-zero.
// Fewer than p.MinCompletionEvents events yield an indeterminate velocity.
func EstimateVelocity(agg Aggregate, enrolledAt, now time.Time, p Params) Velocity {
	p = p.Sanitize()

	elapsed := timeutil.ElapsedDays(enrolledAt, now)
	if elapsed < p.MinElapsedDays {
		elapsed = p.MinElapsedDays
	}

	v := Velocity{
		CompletedUnits: agg.CompletedUnits,
		ElapsedDays:    elapsed,
	}

	if agg.EventCount < p.MinCompletionEvents {
		v.Indeterminate = true
		return v
	}

	if agg.CompletedUnits > 0 {
		v.UnitsPerDay = float64(agg.CompletedUnits) / elapsed
	}
	return v
}
