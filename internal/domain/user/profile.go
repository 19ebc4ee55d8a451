// Package user contains the minimal user profile the analytics layer needs:
// identity, display name, and the configured timezone that anchors calendar
// day boundaries for streaks. Pure domain layer, zero external dependencies.
package user

import (
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// Profile holds the analytics-relevant attributes of a platform user.
type Profile struct {
	// ID - unique user identifier.
	ID shared.UserID

	// DisplayName - name shown on dashboards.
	DisplayName string

	// Timezone - IANA zone name for day-boundary math. Empty means UTC.
	Timezone string

	// CreatedAt - when the user registered.
	CreatedAt time.Time
}

// Location resolves the configured timezone, defaulting to UTC on an empty
// or unknown name.
func (p *Profile) Location() *time.Location {
	if p == nil || p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
