package analytics

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATION LAYER
// Folds the raw completion-event history of one enrollment into summary
// counters. Pure read/transform: the store is never mutated, and the fold
// runs over the full snapshot on every call (the store may be eventually
// consistent, so incremental counters would race concurrent writers).
// ══════════════════════════════════════════════════════════════════════════════

// Aggregate is the event-derived portion of an enrollment summary.
type Aggregate struct {
	// CompletedUnits - distinct module/lesson units with a completion event.
	CompletedUnits int

	// TotalUnits - planned units from the course plan.
	TotalUnits int

	// OverallCompletion - CompletedUnits over TotalUnits, clamped to [0,100].
	OverallCompletion shared.Percent

	// TotalTimeSpentMinutes - summed event time, never negative.
	TotalTimeSpentMinutes int

	// EventCount - number of well-formed events in the history.
	EventCount int

	// ActiveDays - distinct calendar days with at least one event, ascending.
	ActiveDays []time.Time

	// FirstEventAt / LastEventAt - bounds of the history by OccurredAt.
	// Zero when the history is empty.
	FirstEventAt time.Time
	LastEventAt  time.Time
}

// AggregateEvents folds an enrollment snapshot into summary counters.
// Events are keyed by OccurredAt, so out-of-order arrival changes nothing;
// duplicated unit completions collapse to one completed unit.
func AggregateEvents(snap enrollment.Snapshot, loc *time.Location) Aggregate {
	agg := Aggregate{TotalUnits: snap.Plan.TotalUnits}

	seen := make(map[string]struct{}, len(snap.Events))
	stamps := make([]time.Time, 0, len(snap.Events))

	for _, ev := range snap.Events {
		if ev.Validate() != nil {
			// Malformed records are quarantined upstream; a second guard
			// here keeps the invariants even on a misbehaving adapter.
			continue
		}
		agg.EventCount++

		if _, dup := seen[ev.UnitKey()]; !dup {
			seen[ev.UnitKey()] = struct{}{}
			agg.CompletedUnits++
		}

		agg.TotalTimeSpentMinutes += ev.TimeSpentMinutes
		stamps = append(stamps, ev.OccurredAt)

		if agg.FirstEventAt.IsZero() || ev.OccurredAt.Before(agg.FirstEventAt) {
			agg.FirstEventAt = ev.OccurredAt
		}
		if ev.OccurredAt.After(agg.LastEventAt) {
			agg.LastEventAt = ev.OccurredAt
		}
	}

	agg.ActiveDays = timeutil.DistinctDays(stamps, loc)
	agg.OverallCompletion = completionPercent(agg.CompletedUnits, agg.TotalUnits)

	return agg
}

// completionPercent computes completed over planned units as a percentage.
// A zero or unpublished plan yields 0 rather than dividing; overshooting
// counts clamp to 100.
func completionPercent(completed, planned int) shared.Percent {
	if planned <= 0 || completed <= 0 {
		return 0
	}
	pct := shared.Percent(float64(completed) / float64(planned) * 100)
	return pct.Clamp()
}

// ApplyToSummary returns a copy of the stored summary with its event-derived
// fields replaced by recomputed values. The stored fields are cached
// projections; the recomputed ones are authoritative.
func (a Aggregate) ApplyToSummary(s enrollment.Summary) enrollment.Summary {
	s.OverallCompletion = a.OverallCompletion
	s.TotalTimeSpentMinutes = a.TotalTimeSpentMinutes
	if !a.LastEventAt.IsZero() && a.LastEventAt.After(s.LastAccessedAt) {
		s.LastAccessedAt = a.LastEventAt
	}
	return s
}
