package shared

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// Cross-domain identifiers and bounded numeric types.
// ══════════════════════════════════════════════════════════════════════════════

// UserID represents a unique identifier for a platform user.
type UserID string

// IsValid checks if the user ID is non-empty.
func (u UserID) IsValid() bool {
	return u != ""
}

// String returns the string representation of UserID.
func (u UserID) String() string {
	return string(u)
}

// Score represents a bounded score in [0, 100] (quiz scores, mastery scores).
type Score float64

// IsValid checks that the score is within [0, 100].
func (s Score) IsValid() bool {
	return s >= 0 && s <= 100
}

// Clamp forces the score into [0, 100].
func (s Score) Clamp() Score {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// Percent represents a completion percentage in [0, 100].
type Percent float64

// Clamp forces the percentage into [0, 100]. Underlying counts may overshoot
// planned totals; derived percentages never do.
func (p Percent) Clamp() Percent {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
