package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

func attempt(topic string, minuteOffset int, score float64, diff quiz.Difficulty) quiz.Attempt {
	return quiz.Attempt{
		ID:         "a",
		UserID:     "user-1",
		Topic:      quiz.Topic(topic),
		OccurredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(minuteOffset) * time.Minute),
		Score:      shared.Score(score),
		Difficulty: diff,
	}
}

func topicByName(t *testing.T, profile MasteryProfile, name string) TopicMastery {
	t.Helper()
	for _, tm := range profile.Topics {
		if tm.Topic == quiz.Topic(name) {
			return tm
		}
	}
	t.Fatalf("topic %q not in profile", name)
	return TopicMastery{}
}

func TestComputeMastery_EWMASeededFromFirstAttempt(t *testing.T) {
	// [40, 90, 90] with alpha 0.3: 40 -> 55 -> 65.5. The rolling score is
	// monotonically non-decreasing after the two high scores, and the topic
	// is not weak once it crosses the threshold.
	attempts := []quiz.Attempt{
		attempt("recursion", 0, 40, quiz.DifficultyIntermediate),
		attempt("recursion", 10, 90, quiz.DifficultyIntermediate),
		attempt("recursion", 20, 90, quiz.DifficultyIntermediate),
	}

	profile := ComputeMastery(attempts, DefaultParams())
	tm := topicByName(t, profile, "recursion")

	assert.InDelta(t, 65.5, tm.Score, 0.0001)
	assert.False(t, tm.InsufficientData)
	assert.False(t, tm.Weak)
	assert.Equal(t, 3, tm.Attempts)
}

func TestComputeMastery_RollingScoreNonDecreasingOnHighScores(t *testing.T) {
	p := DefaultParams()
	prev := 40.0
	scores := []float64{40}
	for i := 0; i < 5; i++ {
		scores = append(scores, 90)
		attempts := make([]quiz.Attempt, len(scores))
		for j, s := range scores {
			attempts[j] = attempt("recursion", j*10, s, quiz.DifficultyIntermediate)
		}
		tm := topicByName(t, ComputeMastery(attempts, p), "recursion")
		assert.GreaterOrEqual(t, tm.Score, prev)
		prev = tm.Score
	}
}

func TestComputeMastery_InsufficientDataBelowMinSamples(t *testing.T) {
	attempts := []quiz.Attempt{
		attempt("slices", 0, 95, quiz.DifficultyBeginner),
		attempt("slices", 10, 95, quiz.DifficultyBeginner),
		attempt("maps", 0, 50, quiz.DifficultyBeginner),
		attempt("maps", 10, 50, quiz.DifficultyBeginner),
		attempt("maps", 20, 50, quiz.DifficultyBeginner),
	}

	profile := ComputeMastery(attempts, DefaultParams())

	thin := topicByName(t, profile, "slices")
	assert.True(t, thin.InsufficientData)
	assert.False(t, thin.Weak, "thin topics are never classified weak")

	// Overall excludes the thin topic: only "maps" (score 50) qualifies.
	require.NotNil(t, profile.Overall)
	assert.InDelta(t, 50.0, *profile.Overall, 0.0001)
}

func TestComputeMastery_OverallAbsentWhenNoTopicQualifies(t *testing.T) {
	attempts := []quiz.Attempt{
		attempt("slices", 0, 95, quiz.DifficultyBeginner),
		attempt("maps", 0, 10, quiz.DifficultyBeginner),
	}

	profile := ComputeMastery(attempts, DefaultParams())
	assert.Nil(t, profile.Overall, "overall must be absent, not zero")
}

func TestComputeMastery_EmptyHistory(t *testing.T) {
	profile := ComputeMastery(nil, DefaultParams())
	assert.Empty(t, profile.Topics)
	assert.Nil(t, profile.Overall)
}

func TestComputeMastery_WeakTopicStepsDown(t *testing.T) {
	attempts := []quiz.Attempt{
		attempt("pointers", 0, 30, quiz.DifficultyIntermediate),
		attempt("pointers", 10, 30, quiz.DifficultyIntermediate),
		attempt("pointers", 20, 30, quiz.DifficultyIntermediate),
	}

	tm := topicByName(t, ComputeMastery(attempts, DefaultParams()), "pointers")
	assert.True(t, tm.Weak)
	assert.Equal(t, quiz.DifficultyBeginner, tm.RecommendedDifficulty)
}

func TestComputeMastery_StrongTrailingWindowStepsUp(t *testing.T) {
	attempts := []quiz.Attempt{
		attempt("goroutines", 0, 90, quiz.DifficultyIntermediate),
		attempt("goroutines", 10, 92, quiz.DifficultyIntermediate),
		attempt("goroutines", 20, 95, quiz.DifficultyIntermediate),
	}

	tm := topicByName(t, ComputeMastery(attempts, DefaultParams()), "goroutines")
	assert.False(t, tm.Weak)
	assert.Equal(t, quiz.DifficultyAdvanced, tm.RecommendedDifficulty)
}

func TestComputeMastery_MixedWindowHoldsDifficulty(t *testing.T) {
	attempts := []quiz.Attempt{
		attempt("interfaces", 0, 90, quiz.DifficultyAdvanced),
		attempt("interfaces", 10, 70, quiz.DifficultyAdvanced),
		attempt("interfaces", 20, 95, quiz.DifficultyAdvanced),
	}

	tm := topicByName(t, ComputeMastery(attempts, DefaultParams()), "interfaces")
	assert.False(t, tm.Weak)
	assert.Equal(t, quiz.DifficultyAdvanced, tm.RecommendedDifficulty)
}

func TestComputeMastery_OutOfOrderAttemptsFoldByTimestamp(t *testing.T) {
	ordered := []quiz.Attempt{
		attempt("recursion", 0, 40, quiz.DifficultyIntermediate),
		attempt("recursion", 10, 90, quiz.DifficultyIntermediate),
		attempt("recursion", 20, 90, quiz.DifficultyIntermediate),
	}
	shuffled := []quiz.Attempt{ordered[2], ordered[0], ordered[1]}

	a := topicByName(t, ComputeMastery(ordered, DefaultParams()), "recursion")
	b := topicByName(t, ComputeMastery(shuffled, DefaultParams()), "recursion")
	assert.InDelta(t, a.Score, b.Score, 0.0001)
}

func TestComputeMastery_MalformedAttemptsQuarantined(t *testing.T) {
	bad := attempt("recursion", 0, 150, quiz.DifficultyIntermediate)
	profile := ComputeMastery([]quiz.Attempt{bad}, DefaultParams())
	assert.Empty(t, profile.Topics)
}

func TestComputeMastery_ScoresStayInRange(t *testing.T) {
	attempts := []quiz.Attempt{
		attempt("slices", 0, 0, quiz.DifficultyBeginner),
		attempt("slices", 10, 100, quiz.DifficultyBeginner),
		attempt("slices", 20, 0, quiz.DifficultyBeginner),
		attempt("slices", 30, 100, quiz.DifficultyBeginner),
	}
	tm := topicByName(t, ComputeMastery(attempts, DefaultParams()), "slices")
	assert.GreaterOrEqual(t, tm.Score, 0.0)
	assert.LessOrEqual(t, tm.Score, 100.0)
}
