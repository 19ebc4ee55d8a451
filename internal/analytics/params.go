// Package analytics implements the aggregation and predictive-analytics core
// of PulseLearn: mastery trends, activity streaks, learning velocity, and
// projected completion dates. Every function here is a pure function of an
// immutable snapshot - no module-level mutable state, no I/O, no locking.
// Concurrent requests may evaluate in parallel with no coordination.
package analytics

// Params holds the tunable constants of the analytics core. The live values
// are design defaults, overridable through configuration; they are inputs,
// not hidden requirements.
type Params struct {
	// SmoothingAlpha is the EWMA weight given to the most recent quiz
	// attempt. Higher favors recent performance, lower damps noise.
	SmoothingAlpha float64

	// MinTopicSamples is the minimum attempts a topic needs before it is
	// scored. Below it the topic is flagged insufficient-data.
	MinTopicSamples int

	// WeakThreshold is the mastery score below which a topic is flagged weak.
	WeakThreshold float64

	// StepUpThreshold is the score every attempt in the step-up window must
	// exceed before a harder difficulty is recommended.
	StepUpThreshold float64

	// StepUpWindow is how many trailing attempts the step-up rule inspects.
	StepUpWindow int

	// MinElapsedDays floors the elapsed-time divisor of the velocity
	// estimate, preventing near-zero division for same-day enrollments.
	MinElapsedDays float64

	// MinCompletionEvents is the minimum completion events before a velocity
	// is reported. Below it the velocity is indeterminate.
	MinCompletionEvents int

	// DeadlineGraceRatio is the fraction of remaining time to deadline that
	// a predicted overrun may consume while still classifying as at-risk.
	DeadlineGraceRatio float64
}

// DefaultParams returns the design defaults.
func DefaultParams() Params {
	return Params{
		SmoothingAlpha:      0.3,
		MinTopicSamples:     3,
		WeakThreshold:       60,
		StepUpThreshold:     85,
		StepUpWindow:        3,
		MinElapsedDays:      1,
		MinCompletionEvents: 2,
		DeadlineGraceRatio:  0.20,
	}
}

// Sanitize replaces out-of-range values with defaults so a bad configuration
// can degrade the estimates but never break their invariants.
func (p Params) Sanitize() Params {
	def := DefaultParams()
	if p.SmoothingAlpha <= 0 || p.SmoothingAlpha > 1 {
		p.SmoothingAlpha = def.SmoothingAlpha
	}
	if p.MinTopicSamples < 1 {
		p.MinTopicSamples = def.MinTopicSamples
	}
	if p.WeakThreshold < 0 || p.WeakThreshold > 100 {
		p.WeakThreshold = def.WeakThreshold
	}
	if p.StepUpThreshold < 0 || p.StepUpThreshold > 100 {
		p.StepUpThreshold = def.StepUpThreshold
	}
	if p.StepUpWindow < 1 {
		p.StepUpWindow = def.StepUpWindow
	}
	if p.MinElapsedDays <= 0 {
		p.MinElapsedDays = def.MinElapsedDays
	}
	if p.MinCompletionEvents < 1 {
		p.MinCompletionEvents = def.MinCompletionEvents
	}
	if p.DeadlineGraceRatio < 0 || p.DeadlineGraceRatio > 1 {
		p.DeadlineGraceRatio = def.DeadlineGraceRatio
	}
	return p
}
