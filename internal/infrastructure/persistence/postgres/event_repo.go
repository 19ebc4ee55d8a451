// Package postgres implements the PostgreSQL event store for the analytics
// service.
package postgres

import (
	"context"
	"fmt"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETION EVENT REPOSITORY IMPLEMENTATION
// Reads the append-only completion history. Malformed rows are quarantined
// here: skipped with a warning, never handed to the arithmetic downstream.
// ══════════════════════════════════════════════════════════════════════════════

// EventRepository implements enrollment.EventRepository for PostgreSQL.
type EventRepository struct {
	conn *Connection
	log  *logger.Logger
}

// NewEventRepository creates a new EventRepository. The logger is optional.
func NewEventRepository(conn *Connection, log *logger.Logger) *EventRepository {
	return &EventRepository{conn: conn, log: log}
}

// ListByEnrollment returns the well-formed completion events of one
// enrollment. Rows that fail to scan or validate are skipped and logged.
func (r *EventRepository) ListByEnrollment(ctx context.Context, id enrollment.EnrollmentID) ([]enrollment.CompletionEvent, error) {
	query := `
		SELECT enrollment_id, module_id, lesson_id, occurred_at,
		       time_spent_minutes, exercises_completed, total_exercises
		FROM completion_events
		WHERE enrollment_id = $1
		ORDER BY occurred_at ASC
	`

	rows, err := r.conn.Query(ctx, query, string(id))
	if err != nil {
		return nil, fmt.Errorf("failed to list completion events for %s: %w", id, err)
	}
	defer rows.Close()

	events := make([]enrollment.CompletionEvent, 0)
	quarantined := 0

	for rows.Next() {
		var ev enrollment.CompletionEvent
		var rawEnrollmentID, rawModuleID, rawLessonID string

		err := rows.Scan(
			&rawEnrollmentID,
			&rawModuleID,
			&rawLessonID,
			&ev.OccurredAt,
			&ev.TimeSpentMinutes,
			&ev.ExercisesCompleted,
			&ev.TotalExercises,
		)
		if err != nil {
			quarantined++
			continue
		}

		ev.EnrollmentID = enrollment.EnrollmentID(rawEnrollmentID)
		ev.ModuleID = enrollment.ModuleID(rawModuleID)
		ev.LessonID = enrollment.LessonID(rawLessonID)

		if err := ev.Validate(); err != nil {
			quarantined++
			continue
		}

		events = append(events, ev)
	}

	if quarantined > 0 && r.log != nil {
		r.log.Warn("quarantined malformed completion events",
			logger.EnrollmentID(string(id)),
			logger.Int("quarantined", quarantined),
		)
	}

	return events, rows.Err()
}
