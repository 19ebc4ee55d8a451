package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var velocityNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func TestEstimateVelocity_BasicRate(t *testing.T) {
	// 10 completed units over 5 elapsed days = 2 units/day.
	agg := Aggregate{CompletedUnits: 10, EventCount: 10}
	v := EstimateVelocity(agg, velocityNow.AddDate(0, 0, -5), velocityNow, DefaultParams())

	assert.False(t, v.Indeterminate)
	assert.InDelta(t, 2.0, v.UnitsPerDay, 0.0001)
	assert.InDelta(t, 5.0, v.ElapsedDays, 0.0001)
}

func TestEstimateVelocity_NoEventsIndeterminate(t *testing.T) {
	v := EstimateVelocity(Aggregate{}, velocityNow.AddDate(0, 0, -5), velocityNow, DefaultParams())
	assert.True(t, v.Indeterminate)
	assert.Zero(t, v.UnitsPerDay)
}

func TestEstimateVelocity_SingleEventIndeterminate(t *testing.T) {
	agg := Aggregate{CompletedUnits: 1, EventCount: 1}
	v := EstimateVelocity(agg, velocityNow.AddDate(0, 0, -3), velocityNow, DefaultParams())
	assert.True(t, v.Indeterminate, "a single sample is too noisy for a rate")
}

func TestEstimateVelocity_SameDayEnrollmentFloorsElapsed(t *testing.T) {
	// Enrolled two hours ago: the divisor floors at one day instead of
	// producing a near-infinite rate.
	agg := Aggregate{CompletedUnits: 3, EventCount: 3}
	v := EstimateVelocity(agg, velocityNow.Add(-2*time.Hour), velocityNow, DefaultParams())

	assert.False(t, v.Indeterminate)
	assert.InDelta(t, 1.0, v.ElapsedDays, 0.0001)
	assert.InDelta(t, 3.0, v.UnitsPerDay, 0.0001)
}

func TestEstimateVelocity_NonNegative(t *testing.T) {
	// An enrollment timestamp after "now" (clock skew) must not yield a
	// negative rate.
	agg := Aggregate{CompletedUnits: 4, EventCount: 4}
	v := EstimateVelocity(agg, velocityNow.Add(12*time.Hour), velocityNow, DefaultParams())
	assert.GreaterOrEqual(t, v.UnitsPerDay, 0.0)
}

func TestEstimateVelocity_MonotonicInCompletedUnits(t *testing.T) {
	// For fixed elapsed time, more completed units never lowers the rate.
	enrolledAt := velocityNow.AddDate(0, 0, -7)
	prev := 0.0
	for units := 2; units <= 50; units++ {
		agg := Aggregate{CompletedUnits: units, EventCount: units}
		v := EstimateVelocity(agg, enrolledAt, velocityNow, DefaultParams())
		assert.GreaterOrEqual(t, v.UnitsPerDay, prev)
		prev = v.UnitsPerDay
	}
}
