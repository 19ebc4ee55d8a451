// Package postgres implements the PostgreSQL event store for the analytics
// service.
package postgres

import (
	"context"
	"fmt"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER PROFILE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// GetByID returns a user profile by ID.
func (r *UserRepository) GetByID(ctx context.Context, id shared.UserID) (*user.Profile, error) {
	query := `
		SELECT id, display_name, timezone, created_at
		FROM user_profiles
		WHERE id = $1
	`

	var p user.Profile
	var rawID string

	err := r.conn.QueryRow(ctx, query, string(id)).Scan(
		&rawID,
		&p.DisplayName,
		&p.Timezone,
		&p.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user profile %s: %w", id, err)
	}

	p.ID = shared.UserID(rawID)
	return &p, nil
}
