// Package postgres implements the PostgreSQL event store for the analytics
// service.
package postgres

import (
	"context"
	"fmt"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// QUIZ ATTEMPT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// QuizRepository implements quiz.Repository for PostgreSQL.
type QuizRepository struct {
	conn *Connection
	log  *logger.Logger
}

// NewQuizRepository creates a new QuizRepository. The logger is optional.
func NewQuizRepository(conn *Connection, log *logger.Logger) *QuizRepository {
	return &QuizRepository{conn: conn, log: log}
}

// ListByUser returns the well-formed quiz attempts of one user. Rows that
// fail to scan or validate are quarantined: skipped with a warning.
func (r *QuizRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]quiz.Attempt, error) {
	query := `
		SELECT id, user_id, topic, occurred_at, score, difficulty
		FROM quiz_attempts
		WHERE user_id = $1
		ORDER BY occurred_at ASC
	`

	rows, err := r.conn.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts for user %s: %w", userID, err)
	}
	defer rows.Close()

	attempts := make([]quiz.Attempt, 0)
	quarantined := 0

	for rows.Next() {
		var a quiz.Attempt
		var rawID, rawUserID, rawTopic, rawDifficulty string
		var score float64

		err := rows.Scan(
			&rawID,
			&rawUserID,
			&rawTopic,
			&a.OccurredAt,
			&score,
			&rawDifficulty,
		)
		if err != nil {
			quarantined++
			continue
		}

		a.ID = rawID
		a.UserID = shared.UserID(rawUserID)
		a.Topic = quiz.Topic(rawTopic)
		a.Score = shared.Score(score)
		a.Difficulty = quiz.ParseDifficulty(rawDifficulty)

		if err := a.Validate(); err != nil {
			quarantined++
			continue
		}

		attempts = append(attempts, a)
	}

	if quarantined > 0 && r.log != nil {
		r.log.Warn("quarantined malformed quiz attempts",
			logger.UserID(string(userID)),
			logger.Int("quarantined", quarantined),
		)
	}

	return attempts, rows.Err()
}
