// Package store implements the event-store adapter: it assembles the
// immutable snapshots the query layer consumes out of the individual
// PostgreSQL repositories, and owns the retry and circuit-breaker policy
// for talking to the store. The analytics core never retries; resilience
// lives entirely at this boundary.
package store

import (
	"context"
	"time"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/user"
	"github.com/pulselearn/pulselearn-analytics/pkg/circuitbreaker"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
	"github.com/pulselearn/pulselearn-analytics/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT PROVIDER
// ══════════════════════════════════════════════════════════════════════════════

// Provider assembles user and enrollment snapshots from the store repos.
// It implements the query layer's SnapshotProvider port.
type Provider struct {
	users       user.Repository
	enrollments enrollment.Repository
	events      enrollment.EventRepository
	quizzes     quiz.Repository

	retryCfg retry.Config
	breaker  *circuitbreaker.CircuitBreaker
	log      *logger.Logger

	// now is injectable for tests; defaults to the wall clock.
	now func() time.Time
}

// Option configures a Provider.
type Option func(*Provider)

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(p *Provider) { p.retryCfg = cfg }
}

// WithClock overrides the snapshot clock.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// NewProvider creates a snapshot provider over the given repositories.
func NewProvider(
	users user.Repository,
	enrollments enrollment.Repository,
	events enrollment.EventRepository,
	quizzes quiz.Repository,
	log *logger.Logger,
	opts ...Option,
) *Provider {
	breakerCfg := circuitbreaker.DefaultConfig("event-store")
	// A missing row is an answer from a healthy store, not a store failure.
	breakerCfg.IsFailure = func(err error) bool { return !shared.IsNotFound(err) }

	p := &Provider{
		users:       users,
		enrollments: enrollments,
		events:      events,
		quizzes:     quizzes,
		retryCfg:    retry.DefaultConfig(),
		breaker:     circuitbreaker.New(breakerCfg),
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// fetch runs one store operation behind the circuit breaker and retry
// policy. Not-found results are permanent: retrying cannot create a row.
func (p *Provider) fetch(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, p.retryCfg, func(ctx context.Context) error {
			if err := fn(ctx); err != nil {
				if shared.IsNotFound(err) {
					return retry.Permanent(err)
				}
				return err
			}
			return nil
		})
	})
	if err == nil {
		return nil
	}

	if shared.IsNotFound(err) {
		return err
	}
	if p.log != nil {
		p.log.Error("event store fetch failed",
			logger.Operation(op),
			logger.Err(err),
		)
	}
	return shared.WrapError("store", op, shared.ErrUpstream, "event store fetch failed", err)
}

// UserSnapshot assembles everything known about one user: profile,
// enrollments with their full completion histories, and quiz attempts.
func (p *Provider) UserSnapshot(ctx context.Context, userID shared.UserID) (*analytics.UserSnapshot, error) {
	var profile *user.Profile
	if err := p.fetch(ctx, "UserSnapshot", func(ctx context.Context) error {
		var err error
		profile, err = p.users.GetByID(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}

	var summaries []*enrollment.Summary
	if err := p.fetch(ctx, "UserSnapshot", func(ctx context.Context) error {
		var err error
		summaries, err = p.enrollments.ListByUser(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}

	snapshots := make([]enrollment.Snapshot, 0, len(summaries))
	for _, summary := range summaries {
		es, err := p.enrollmentSnapshot(ctx, summary)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *es)
	}

	var attempts []quiz.Attempt
	if err := p.fetch(ctx, "UserSnapshot", func(ctx context.Context) error {
		var err error
		attempts, err = p.quizzes.ListByUser(ctx, userID)
		return err
	}); err != nil {
		return nil, err
	}

	return &analytics.UserSnapshot{
		UserID:      profile.ID,
		DisplayName: profile.DisplayName,
		Location:    profile.Location(),
		Enrollments: snapshots,
		Attempts:    attempts,
		Now:         p.now(),
	}, nil
}

// EnrollmentSnapshot assembles one enrollment's summary, plan, and events,
// carrying the owning user's timezone.
func (p *Provider) EnrollmentSnapshot(ctx context.Context, id enrollment.EnrollmentID) (*analytics.EnrollmentSnapshot, error) {
	var summary *enrollment.Summary
	if err := p.fetch(ctx, "EnrollmentSnapshot", func(ctx context.Context) error {
		var err error
		summary, err = p.enrollments.GetByID(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}

	es, err := p.enrollmentSnapshot(ctx, summary)
	if err != nil {
		return nil, err
	}

	var profile *user.Profile
	if err := p.fetch(ctx, "EnrollmentSnapshot", func(ctx context.Context) error {
		var err error
		profile, err = p.users.GetByID(ctx, summary.UserID)
		return err
	}); err != nil {
		return nil, err
	}

	return &analytics.EnrollmentSnapshot{
		Enrollment: *es,
		Location:   profile.Location(),
		Now:        p.now(),
	}, nil
}

// enrollmentSnapshot fetches the plan and events for one summary. A missing
// course plan is tolerated as an unpublished plan (zero units), matching
// the aggregation rule that reports 0% instead of dividing.
func (p *Provider) enrollmentSnapshot(ctx context.Context, summary *enrollment.Summary) (*enrollment.Snapshot, error) {
	var plan *enrollment.CoursePlan
	err := p.fetch(ctx, "EnrollmentSnapshot", func(ctx context.Context) error {
		var err error
		plan, err = p.enrollments.GetPlan(ctx, summary.CourseID)
		return err
	})
	switch {
	case err == nil:
	case shared.IsNotFound(err):
		plan = &enrollment.CoursePlan{CourseID: summary.CourseID}
	default:
		return nil, err
	}

	var events []enrollment.CompletionEvent
	if err := p.fetch(ctx, "EnrollmentSnapshot", func(ctx context.Context) error {
		var err error
		events, err = p.events.ListByEnrollment(ctx, summary.ID)
		return err
	}); err != nil {
		return nil, err
	}

	return &enrollment.Snapshot{
		Summary: *summary,
		Plan:    *plan,
		Events:  events,
	}, nil
}
