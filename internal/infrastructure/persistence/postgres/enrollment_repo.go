// Package postgres implements the PostgreSQL event store for the analytics
// service.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLLMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentRepository implements enrollment.Repository for PostgreSQL.
type EnrollmentRepository struct {
	conn *Connection
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(conn *Connection) *EnrollmentRepository {
	return &EnrollmentRepository{conn: conn}
}

const enrollmentColumns = `
	id, user_id, course_id, status, enrolled_at, last_accessed_at,
	current_module_number, current_day, overall_completion,
	average_mastery_score, total_time_spent_minutes
`

// GetByID returns an enrollment summary by ID.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id enrollment.EnrollmentID) (*enrollment.Summary, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments WHERE id = $1`, enrollmentColumns)

	row := r.conn.QueryRow(ctx, query, string(id))
	summary, err := scanEnrollment(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment %s: %w", id, err)
	}

	return summary, nil
}

// ListByUser returns all enrollment summaries for a user, oldest first.
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]*enrollment.Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM enrollments
		WHERE user_id = $1
		ORDER BY enrolled_at ASC, id ASC
	`, enrollmentColumns)

	rows, err := r.conn.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for user %s: %w", userID, err)
	}
	defer rows.Close()

	summaries := make([]*enrollment.Summary, 0)
	for rows.Next() {
		summary, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// GetPlan returns the course plan for a course.
func (r *EnrollmentRepository) GetPlan(ctx context.Context, courseID enrollment.CourseID) (*enrollment.CoursePlan, error) {
	query := `
		SELECT course_id, total_units, total_modules, deadline
		FROM course_plans
		WHERE course_id = $1
	`

	var plan enrollment.CoursePlan
	var rawCourseID string
	var deadline *time.Time

	err := r.conn.QueryRow(ctx, query, string(courseID)).Scan(
		&rawCourseID,
		&plan.TotalUnits,
		&plan.TotalModules,
		&deadline,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get course plan %s: %w", courseID, err)
	}

	plan.CourseID = enrollment.CourseID(rawCourseID)
	plan.Deadline = deadline
	return &plan, nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEnrollment scans one enrollment row. Raw status values go through
// ParseStatus so unrecognized states surface as StatusUnknown instead of
// leaking raw strings into the domain.
func scanEnrollment(row rowScanner) (*enrollment.Summary, error) {
	var s enrollment.Summary
	var rawID, rawUserID, rawCourseID, rawStatus string
	var completion, mastery float64

	err := row.Scan(
		&rawID,
		&rawUserID,
		&rawCourseID,
		&rawStatus,
		&s.EnrolledAt,
		&s.LastAccessedAt,
		&s.CurrentModuleNumber,
		&s.CurrentDay,
		&completion,
		&mastery,
		&s.TotalTimeSpentMinutes,
	)
	if err != nil {
		return nil, err
	}

	s.ID = enrollment.EnrollmentID(rawID)
	s.UserID = shared.UserID(rawUserID)
	s.CourseID = enrollment.CourseID(rawCourseID)
	s.Status = enrollment.ParseStatus(rawStatus)
	s.OverallCompletion = shared.Percent(completion)
	s.AverageMasteryScore = shared.Score(mastery)

	return &s, nil
}
