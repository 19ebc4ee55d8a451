package analytics

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK CALCULATOR
// Derives current/longest daily-activity streaks from the set of calendar
// dates with at least one completion event. Day boundaries follow the
// user's configured timezone (default UTC); there is no sub-day granularity.
// ══════════════════════════════════════════════════════════════════════════════

// Streak holds the derived streak counters.
// Invariant: Longest >= Current >= 0.
type Streak struct {
	// Current - length of the run containing today, or the trailing run when
	// the most recent activity was exactly yesterday (one-day grace so a
	// streak is not zeroed before the user's day ends). Zero when the most
	// recent activity is older than yesterday.
	Current int `json:"current"`

	// Longest - length of the longest run of consecutive active days.
	Longest int `json:"longest"`

	// LastActiveDay - start of the most recent active day. Zero when the
	// activity set is empty.
	LastActiveDay time.Time `json:"last_active_day"`
}

// ComputeStreak derives streaks from activity timestamps. The input need not
// be sorted or deduplicated; multiple events on one date collapse to one
// active day. An empty set yields zero streaks.
func ComputeStreak(activity []time.Time, today time.Time, loc *time.Location) Streak {
	days := timeutil.DistinctDays(activity, loc)
	if len(days) == 0 {
		return Streak{}
	}

	// Walk the ascending day set building maximal runs of consecutive dates.
	longest := 1
	trailing := 1
	for i := 1; i < len(days); i++ {
		if timeutil.IsConsecutiveDay(days[i-1], days[i], loc) {
			trailing++
		} else {
			trailing = 1
		}
		if trailing > longest {
			longest = trailing
		}
	}

	last := days[len(days)-1]
	current := 0
	todayStart := timeutil.DayStart(today, loc)
	switch {
	case last.Equal(todayStart):
		current = trailing
	case timeutil.IsConsecutiveDay(last, todayStart, loc):
		// Most recent activity was yesterday: the grace day keeps the
		// trailing run alive until today ends.
		current = trailing
	default:
		current = 0
	}

	if current > longest {
		longest = current
	}

	return Streak{Current: current, Longest: longest, LastActiveDay: last}
}
