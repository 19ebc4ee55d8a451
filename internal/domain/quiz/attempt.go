// Package quiz contains the domain model for adaptive quiz attempts.
// Attempts are append-only records; retries are separate records. This is a
// pure domain layer with zero external dependencies.
package quiz

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// Topic identifies a quiz topic (e.g., "pointers", "goroutines").
type Topic string

// IsValid checks if the topic is non-empty.
func (t Topic) IsValid() bool {
	return t != ""
}

// String returns the string representation of Topic.
func (t Topic) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIFFICULTY
// Ordered sum type with explicit step transitions. Unrecognized raw values
// map to DifficultyUnknown instead of passing the raw string through.
// ══════════════════════════════════════════════════════════════════════════════

// Difficulty is the quiz difficulty level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
	DifficultyUnknown      Difficulty = "unknown"
)

// difficultyOrder defines the step ladder, easiest first.
var difficultyOrder = []Difficulty{
	DifficultyBeginner,
	DifficultyIntermediate,
	DifficultyAdvanced,
	DifficultyExpert,
}

// ParseDifficulty maps a raw store value onto the Difficulty sum type.
// Unrecognized input yields DifficultyUnknown.
func ParseDifficulty(raw string) Difficulty {
	for _, d := range difficultyOrder {
		if Difficulty(raw) == d {
			return d
		}
	}
	return DifficultyUnknown
}

// IsValid checks that the difficulty is a recognized, non-unknown value.
func (d Difficulty) IsValid() bool {
	for _, known := range difficultyOrder {
		if d == known {
			return true
		}
	}
	return false
}

// rank returns the position on the ladder, or -1 for unknown.
func (d Difficulty) rank() int {
	for i, known := range difficultyOrder {
		if d == known {
			return i
		}
	}
	return -1
}

// StepUp returns the next harder difficulty, clamped at expert.
// Unknown stays unknown.
func (d Difficulty) StepUp() Difficulty {
	r := d.rank()
	if r < 0 {
		return DifficultyUnknown
	}
	if r == len(difficultyOrder)-1 {
		return d
	}
	return difficultyOrder[r+1]
}

// StepDown returns the next easier difficulty, clamped at beginner.
// Unknown stays unknown.
func (d Difficulty) StepDown() Difficulty {
	r := d.rank()
	if r < 0 {
		return DifficultyUnknown
	}
	if r == 0 {
		return d
	}
	return difficultyOrder[r-1]
}

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ ATTEMPT
// ══════════════════════════════════════════════════════════════════════════════

// Attempt records one quiz attempt. Append-only; one record per attempt.
type Attempt struct {
	// ID - unique attempt identifier.
	ID string

	// UserID - the user who made the attempt.
	UserID shared.UserID

	// Topic - the quiz topic.
	Topic Topic

	// OccurredAt - when the attempt happened. The ordering key within a topic.
	OccurredAt time.Time

	// Score - attempt score in [0, 100].
	Score shared.Score

	// Difficulty - difficulty level of the attempted quiz.
	Difficulty Difficulty
}

// Validate checks the attempt's closed shape. Malformed attempts are
// quarantined at the store-adapter boundary.
func (a Attempt) Validate() error {
	if !a.UserID.IsValid() {
		return shared.WrapError("quiz", "ValidateAttempt", shared.ErrInvalidID, "attempt missing user ID", nil)
	}
	if !a.Topic.IsValid() {
		return shared.WrapError("quiz", "ValidateAttempt", shared.ErrEmptyValue, "attempt missing topic", nil)
	}
	if a.OccurredAt.IsZero() {
		return shared.WrapError("quiz", "ValidateAttempt", shared.ErrInvalidInput, "attempt missing timestamp", nil)
	}
	if !a.Score.IsValid() {
		return shared.WrapError("quiz", "ValidateAttempt", shared.ErrValueOutOfRange, "attempt score outside [0,100]", nil)
	}
	return nil
}
