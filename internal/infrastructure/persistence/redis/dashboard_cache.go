// Package redis implements the Redis projection cache for the analytics
// service.
package redis

import (
	"context"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD CACHE
// Short-TTL projection of the composed dashboard read model. A miss is the
// normal path: the query layer recomputes the dashboard fully from one
// snapshot and writes it back here.
// ══════════════════════════════════════════════════════════════════════════════

// DashboardCache implements the query layer's DashboardCache port.
type DashboardCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewDashboardCache creates a dashboard cache with the given TTL.
// A non-positive TTL falls back to the default.
func NewDashboardCache(cache *Cache, ttl time.Duration) *DashboardCache {
	if ttl <= 0 {
		ttl = TTLDashboard
	}
	return &DashboardCache{cache: cache, ttl: ttl}
}

// Get returns the cached dashboard. ErrCacheMiss when absent or expired.
func (d *DashboardCache) Get(ctx context.Context, userID shared.UserID) (*analytics.Dashboard, error) {
	var dash analytics.Dashboard
	if err := d.cache.Get(ctx, DashboardKey(string(userID)), &dash); err != nil {
		return nil, err
	}
	return &dash, nil
}

// Set stores the composed dashboard under the configured TTL.
func (d *DashboardCache) Set(ctx context.Context, userID shared.UserID, dash *analytics.Dashboard) error {
	return d.cache.Set(ctx, DashboardKey(string(userID)), dash, d.ttl)
}

// Invalidate drops the cached dashboard for one user.
func (d *DashboardCache) Invalidate(ctx context.Context, userID shared.UserID) error {
	return d.cache.Delete(ctx, DashboardKey(string(userID)))
}
