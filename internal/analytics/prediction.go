package analytics

import (
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETION PREDICTOR
// Projects a completion date from remaining work and the estimated velocity,
// then classifies confidence against an optional deadline. Deterministic
// statistical extrapolation - no trained models. Zero or indeterminate
// velocity short-circuits to unpredictable, never to a numeric error.
// ══════════════════════════════════════════════════════════════════════════════

// Confidence classifies a prediction against the deadline.
type Confidence string

const (
	// ConfidenceOnTrack - predicted completion is at or before the deadline,
	// or no deadline is set (no overdue state without a target).
	ConfidenceOnTrack Confidence = "on_track"
	// ConfidenceAtRisk - predicted completion overruns the deadline by no
	// more than the grace window.
	ConfidenceAtRisk Confidence = "at_risk"
	// ConfidenceBehind - predicted completion overruns past the grace window.
	ConfidenceBehind Confidence = "behind"
	// ConfidenceUnpredictable - velocity is indeterminate or zero; no
	// projection is possible.
	ConfidenceUnpredictable Confidence = "unpredictable"
)

// Prediction is the projected completion of one enrollment.
type Prediction struct {
	// Unpredictable - true when no projection could be made. The remaining
	// fields are meaningful only when false.
	Unpredictable bool `json:"unpredictable"`

	// ETADays - remaining units divided by velocity.
	ETADays float64 `json:"eta_days"`

	// CompletionDate - now plus ETADays.
	CompletionDate time.Time `json:"completion_date"`

	// Confidence - classification against the deadline.
	Confidence Confidence `json:"confidence"`

	// RemainingUnits - planned units minus completed units, floored at zero.
	RemainingUnits int `json:"remaining_units"`

	// Deadline - the target date the confidence was measured against, if any.
	Deadline *time.Time `json:"deadline,omitempty"`
}

// PredictCompletion projects a completion date for the given remaining work.
// A prediction is only meaningful when at least one completion event exists;
// callers gate on that. Velocity that is indeterminate or not strictly
// positive yields an unpredictable result regardless of deadline.
func PredictCompletion(remainingUnits int, v Velocity, deadline *time.Time, now time.Time, p Params) Prediction {
	p = p.Sanitize()

	if remainingUnits < 0 {
		remainingUnits = 0
	}

	pred := Prediction{
		RemainingUnits: remainingUnits,
		Deadline:       deadline,
	}

	if v.Indeterminate || v.UnitsPerDay <= 0 {
		pred.Unpredictable = true
		pred.Confidence = ConfidenceUnpredictable
		return pred
	}

	pred.ETADays = float64(remainingUnits) / v.UnitsPerDay
	pred.CompletionDate = now.Add(time.Duration(pred.ETADays * 24 * float64(time.Hour)))
	pred.Confidence = classify(pred.CompletionDate, deadline, now, p.DeadlineGraceRatio)

	return pred
}

// classify compares a predicted completion date against the deadline.
// The grace window is a fraction of the time still remaining to the
// deadline; once the deadline itself has passed, the window is empty.
func classify(predicted time.Time, deadline *time.Time, now time.Time, graceRatio float64) Confidence {
	if deadline == nil {
		return ConfidenceOnTrack
	}
	if !predicted.After(*deadline) {
		return ConfidenceOnTrack
	}

	remaining := deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	grace := time.Duration(graceRatio * float64(remaining))
	if !predicted.After(deadline.Add(grace)) {
		return ConfidenceAtRisk
	}
	return ConfidenceBehind
}
