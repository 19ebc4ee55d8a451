package analytics

import (
	"sort"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
)

// ══════════════════════════════════════════════════════════════════════════════
// MASTERY SCORER
// Derives per-topic and overall mastery from the quiz-attempt history.
// Each topic carries an exponentially-weighted score favoring recent
// performance; thin samples are flagged instead of scored. Absence of data
// is a valid, representable state - nothing in here returns an error.
// ══════════════════════════════════════════════════════════════════════════════

// TopicMastery is the derived state of one quiz topic.
type TopicMastery struct {
	// Topic - the scored topic.
	Topic quiz.Topic `json:"topic"`

	// Score - EWMA of attempt scores, seeded from the first attempt.
	Score float64 `json:"score"`

	// Attempts - number of attempts on the topic.
	Attempts int `json:"attempts"`

	// InsufficientData - true below the minimum sample count. Such topics
	// are excluded from the overall mean and never classified weak.
	InsufficientData bool `json:"insufficient_data"`

	// Weak - true when a sufficiently-sampled score is below the weak
	// threshold. Drives the recommended next difficulty.
	Weak bool `json:"weak"`

	// RecommendedDifficulty - next-quiz difficulty signal: step down when
	// weak, step up when the trailing window is uniformly strong, otherwise
	// hold the last attempted level.
	RecommendedDifficulty quiz.Difficulty `json:"recommended_difficulty"`

	// LastAttemptAt - timestamp of the most recent attempt.
	LastAttemptAt time.Time `json:"last_attempt_at"`
}

// MasteryProfile is the derived mastery state of one user. Recomputed from
// attempts per request; never persisted as source of truth.
type MasteryProfile struct {
	// Topics - per-topic mastery, sorted by topic name for determinism.
	Topics []TopicMastery `json:"topics"`

	// Overall - unweighted mean of sufficiently-sampled topic scores.
	// Nil when no topic qualifies: absent, not a misleading zero.
	Overall *float64 `json:"overall,omitempty"`
}

// ComputeMastery derives the mastery profile from a user's attempt history.
// Attempts may arrive unordered; within a topic they are folded in
// OccurredAt order.
func ComputeMastery(attempts []quiz.Attempt, p Params) MasteryProfile {
	p = p.Sanitize()

	byTopic := make(map[quiz.Topic][]quiz.Attempt)
	for _, a := range attempts {
		if a.Validate() != nil {
			continue
		}
		byTopic[a.Topic] = append(byTopic[a.Topic], a)
	}

	profile := MasteryProfile{Topics: make([]TopicMastery, 0, len(byTopic))}

	var sum float64
	var scored int

	for topic, history := range byTopic {
		tm := scoreTopic(topic, history, p)
		profile.Topics = append(profile.Topics, tm)
		if !tm.InsufficientData {
			sum += tm.Score
			scored++
		}
	}

	sort.Slice(profile.Topics, func(i, j int) bool {
		return profile.Topics[i].Topic < profile.Topics[j].Topic
	})

	if scored > 0 {
		overall := sum / float64(scored)
		profile.Overall = &overall
	}

	return profile
}

// scoreTopic folds one topic's attempts into its derived mastery state.
func scoreTopic(topic quiz.Topic, history []quiz.Attempt, p Params) TopicMastery {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].OccurredAt.Before(history[j].OccurredAt)
	})

	// EWMA seeded from the first attempt so a single strong start is not
	// diluted by an arbitrary prior.
	score := float64(history[0].Score)
	for _, a := range history[1:] {
		score = p.SmoothingAlpha*float64(a.Score) + (1-p.SmoothingAlpha)*score
	}

	last := history[len(history)-1]
	tm := TopicMastery{
		Topic:                 topic,
		Score:                 score,
		Attempts:              len(history),
		InsufficientData:      len(history) < p.MinTopicSamples,
		RecommendedDifficulty: last.Difficulty,
		LastAttemptAt:         last.OccurredAt,
	}

	if tm.InsufficientData {
		return tm
	}

	tm.Weak = score < p.WeakThreshold
	switch {
	case tm.Weak:
		tm.RecommendedDifficulty = last.Difficulty.StepDown()
	case trailingAllAbove(history, p.StepUpWindow, p.StepUpThreshold):
		tm.RecommendedDifficulty = last.Difficulty.StepUp()
	}

	return tm
}

// trailingAllAbove reports whether the last window attempts all exceed the
// threshold. False when fewer than window attempts exist.
func trailingAllAbove(history []quiz.Attempt, window int, threshold float64) bool {
	if len(history) < window {
		return false
	}
	for _, a := range history[len(history)-window:] {
		if float64(a.Score) <= threshold {
			return false
		}
	}
	return true
}
