// Package postgres implements the PostgreSQL event store for the analytics
// service.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE USERS AND ENROLLMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create user profiles and enrollments
-- Version: 001

CREATE TABLE IF NOT EXISTS user_profiles (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    display_name VARCHAR(100) NOT NULL,
    timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS course_plans (
    course_id VARCHAR(100) PRIMARY KEY,
    total_units INTEGER NOT NULL DEFAULT 0,
    total_modules INTEGER NOT NULL DEFAULT 0,
    deadline TIMESTAMP WITH TIME ZONE,

    CONSTRAINT valid_total_units CHECK (total_units >= 0),
    CONSTRAINT valid_total_modules CHECK (total_modules >= 0)
);

-- Enrollment summaries. One row per (user, course); never deleted,
-- archiving happens through status.
CREATE TABLE IF NOT EXISTS enrollments (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    course_id VARCHAR(100) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    enrolled_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    last_accessed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    current_module_number INTEGER NOT NULL DEFAULT 1,
    current_day INTEGER NOT NULL DEFAULT 1,
    overall_completion DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    average_mastery_score DECIMAL(5,2) NOT NULL DEFAULT 0.00,
    total_time_spent_minutes INTEGER NOT NULL DEFAULT 0,

    UNIQUE(user_id, course_id),
    CONSTRAINT valid_status CHECK (status IN ('active', 'completed', 'paused', 'archived')),
    CONSTRAINT valid_completion CHECK (overall_completion >= 0 AND overall_completion <= 100),
    CONSTRAINT valid_time_spent CHECK (total_time_spent_minutes >= 0)
);

CREATE INDEX IF NOT EXISTS idx_enrollments_user_id ON enrollments(user_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments(course_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_status ON enrollments(status);
CREATE INDEX IF NOT EXISTS idx_enrollments_user_enrolled ON enrollments(user_id, enrolled_at);
`

const migration001Down = `
DROP TABLE IF EXISTS enrollments;
DROP TABLE IF EXISTS course_plans;
DROP TABLE IF EXISTS user_profiles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE COMPLETION EVENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create completion events
-- Version: 002
-- Append-only event history; aggregation always folds the full history.

CREATE TABLE IF NOT EXISTS completion_events (
    id BIGSERIAL PRIMARY KEY,
    enrollment_id UUID NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
    module_id VARCHAR(100) NOT NULL,
    lesson_id VARCHAR(100) NOT NULL DEFAULT '',
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
    time_spent_minutes INTEGER NOT NULL DEFAULT 0,
    exercises_completed INTEGER NOT NULL DEFAULT 0,
    total_exercises INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_completion_events_enrollment ON completion_events(enrollment_id);
CREATE INDEX IF NOT EXISTS idx_completion_events_occurred ON completion_events(enrollment_id, occurred_at);
`

const migration002Down = `
DROP TABLE IF EXISTS completion_events;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: CREATE QUIZ ATTEMPTS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create quiz attempts
-- Version: 003

CREATE TABLE IF NOT EXISTS quiz_attempts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES user_profiles(id) ON DELETE CASCADE,
    topic VARCHAR(100) NOT NULL,
    occurred_at TIMESTAMP WITH TIME ZONE NOT NULL,
    score DECIMAL(5,2) NOT NULL,
    difficulty VARCHAR(20) NOT NULL,

    CONSTRAINT valid_score CHECK (score >= 0 AND score <= 100),
    CONSTRAINT valid_difficulty CHECK (difficulty IN ('beginner', 'intermediate', 'advanced', 'expert'))
);

CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user ON quiz_attempts(user_id);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user_topic ON quiz_attempts(user_id, topic);
CREATE INDEX IF NOT EXISTS idx_quiz_attempts_occurred ON quiz_attempts(user_id, occurred_at);
`

const migration003Down = `
DROP TABLE IF EXISTS quiz_attempts;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users_and_enrollments",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_completion_events",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
		{
			Version: 3,
			Name:    "create_quiz_attempts",
			UpSQL:   migration003Up,
			DownSQL: migration003Down,
		},
	}
}
