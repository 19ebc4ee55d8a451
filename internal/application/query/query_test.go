package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	user       *analytics.UserSnapshot
	enrollment *analytics.EnrollmentSnapshot
	err        error

	userCalls       int
	enrollmentCalls int
}

func (f *fakeStore) UserSnapshot(_ context.Context, _ shared.UserID) (*analytics.UserSnapshot, error) {
	f.userCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeStore) EnrollmentSnapshot(_ context.Context, _ enrollment.EnrollmentID) (*analytics.EnrollmentSnapshot, error) {
	f.enrollmentCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.enrollment, nil
}

type fakeCache struct {
	stored   map[shared.UserID]*analytics.Dashboard
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{stored: make(map[shared.UserID]*analytics.Dashboard)}
}

func (f *fakeCache) Get(_ context.Context, id shared.UserID) (*analytics.Dashboard, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	dash, ok := f.stored[id]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return dash, nil
}

func (f *fakeCache) Set(_ context.Context, id shared.UserID, dash *analytics.Dashboard) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.stored[id] = dash
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, id shared.UserID) error {
	delete(f.stored, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

func testEnrollmentSnapshot() *analytics.EnrollmentSnapshot {
	return &analytics.EnrollmentSnapshot{
		Enrollment: enrollment.Snapshot{
			Summary: enrollment.Summary{
				ID:         "enr-1",
				UserID:     "user-1",
				CourseID:   "course-1",
				Status:     enrollment.StatusActive,
				EnrolledAt: testNow.AddDate(0, 0, -5),
			},
			Plan: enrollment.CoursePlan{CourseID: "course-1", TotalUnits: 10},
			Events: []enrollment.CompletionEvent{
				{
					EnrollmentID:     "enr-1",
					ModuleID:         "m1",
					LessonID:         "l1",
					OccurredAt:       testNow.AddDate(0, 0, -4),
					TimeSpentMinutes: 30,
				},
				{
					EnrollmentID:     "enr-1",
					ModuleID:         "m1",
					LessonID:         "l2",
					OccurredAt:       testNow.AddDate(0, 0, -2),
					TimeSpentMinutes: 30,
				},
			},
		},
		Now: testNow,
	}
}

func testUserSnapshot() *analytics.UserSnapshot {
	es := testEnrollmentSnapshot()
	attempts := make([]quiz.Attempt, 0, 3)
	for i, score := range []shared.Score{70, 80, 90} {
		attempts = append(attempts, quiz.Attempt{
			ID:         "att-1",
			UserID:     "user-1",
			Topic:      "recursion",
			OccurredAt: testNow.Add(time.Duration(i) * time.Minute),
			Score:      score,
			Difficulty: quiz.DifficultyIntermediate,
		})
	}
	return &analytics.UserSnapshot{
		UserID:      "user-1",
		DisplayName: "Test User",
		Enrollments: []enrollment.Snapshot{es.Enrollment},
		Attempts:    attempts,
		Now:         testNow,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// GetMasteryProfile
// ──────────────────────────────────────────────────────────────────────────────

func TestGetMasteryProfile_ValidatesBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{}
	h := NewGetMasteryProfileHandler(store, analytics.DefaultParams())

	_, err := h.Handle(context.Background(), GetMasteryProfileQuery{UserID: ""})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, store.userCalls, "invalid input must be rejected without touching the store")
}

func TestGetMasteryProfile_NotFound(t *testing.T) {
	store := &fakeStore{err: shared.ErrUserNotFound}
	h := NewGetMasteryProfileHandler(store, analytics.DefaultParams())

	_, err := h.Handle(context.Background(), GetMasteryProfileQuery{UserID: "ghost"})

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestGetMasteryProfile_StoreFailureIsUpstream(t *testing.T) {
	store := &fakeStore{err: shared.ErrStoreUnavailable}
	h := NewGetMasteryProfileHandler(store, analytics.DefaultParams())

	_, err := h.Handle(context.Background(), GetMasteryProfileQuery{UserID: "user-1"})

	require.Error(t, err)
	assert.True(t, shared.IsUpstream(err))
	assert.False(t, shared.IsNotFound(err))
}

func TestGetMasteryProfile_DerivesProfile(t *testing.T) {
	store := &fakeStore{user: testUserSnapshot()}
	h := NewGetMasteryProfileHandler(store, analytics.DefaultParams())

	res, err := h.Handle(context.Background(), GetMasteryProfileQuery{UserID: "user-1"})

	require.NoError(t, err)
	assert.Equal(t, "user-1", res.UserID)
	assert.Equal(t, 3, res.TotalAttempts)
	require.Len(t, res.Topics, 1)
	assert.Equal(t, quiz.Topic("recursion"), res.Topics[0].Topic)
	require.NotNil(t, res.Overall)
	assert.Equal(t, testNow, res.GeneratedAt)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetPerformanceDashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestGetPerformanceDashboard_ValidatesBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{}
	h := NewGetPerformanceDashboardHandler(store, nil, analytics.DefaultParams(), nil)

	_, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: ""})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, store.userCalls)
}

func TestGetPerformanceDashboard_WorksWithoutCache(t *testing.T) {
	store := &fakeStore{user: testUserSnapshot()}
	h := NewGetPerformanceDashboardHandler(store, nil, analytics.DefaultParams(), nil)

	res, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1"})

	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, shared.UserID("user-1"), res.Dashboard.UserID)
	require.Len(t, res.Dashboard.Enrollments, 1)
}

func TestGetPerformanceDashboard_CacheMissComputesAndStores(t *testing.T) {
	store := &fakeStore{user: testUserSnapshot()}
	cache := newFakeCache()
	h := NewGetPerformanceDashboardHandler(store, cache, analytics.DefaultParams(), nil)

	res, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1"})

	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, store.userCalls)
	assert.Equal(t, 1, cache.setCalls)
}

func TestGetPerformanceDashboard_CacheHitSkipsStore(t *testing.T) {
	store := &fakeStore{user: testUserSnapshot()}
	cache := newFakeCache()
	h := NewGetPerformanceDashboardHandler(store, cache, analytics.DefaultParams(), nil)

	first, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1"})
	require.NoError(t, err)

	second, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.True(t, second.FromCache)
	assert.Equal(t, first.Dashboard, second.Dashboard)
	assert.Equal(t, 1, store.userCalls, "hit must not refetch the snapshot")
}

func TestGetPerformanceDashboard_SkipCacheBypassesProjection(t *testing.T) {
	store := &fakeStore{user: testUserSnapshot()}
	cache := newFakeCache()
	h := NewGetPerformanceDashboardHandler(store, cache, analytics.DefaultParams(), nil)

	_, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1"})
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1", SkipCache: true})
	require.NoError(t, err)

	assert.False(t, res.FromCache)
	assert.Equal(t, 2, store.userCalls)
}

func TestGetPerformanceDashboard_CacheWriteFailureIsNotFatal(t *testing.T) {
	store := &fakeStore{user: testUserSnapshot()}
	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	h := NewGetPerformanceDashboardHandler(store, cache, analytics.DefaultParams(), nil)

	res, err := h.Handle(context.Background(), GetPerformanceDashboardQuery{UserID: "user-1"})

	require.NoError(t, err)
	assert.False(t, res.FromCache)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetLearningVelocity
// ──────────────────────────────────────────────────────────────────────────────

func TestGetLearningVelocity_ValidatesBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{}
	h := NewGetLearningVelocityHandler(store, analytics.DefaultParams())

	_, err := h.Handle(context.Background(), GetLearningVelocityQuery{EnrollmentID: ""})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, store.enrollmentCalls)
}

func TestGetLearningVelocity_EstimatesPace(t *testing.T) {
	store := &fakeStore{enrollment: testEnrollmentSnapshot()}
	h := NewGetLearningVelocityHandler(store, analytics.DefaultParams())

	res, err := h.Handle(context.Background(), GetLearningVelocityQuery{EnrollmentID: "enr-1"})

	require.NoError(t, err)
	assert.Equal(t, "enr-1", res.EnrollmentID)
	assert.False(t, res.Velocity.Indeterminate)
	// Two units over five elapsed days.
	assert.InDelta(t, 0.4, res.Velocity.UnitsPerDay, 0.0001)
	assert.Equal(t, 10, res.TotalUnits)
}

func TestGetLearningVelocity_NotFound(t *testing.T) {
	store := &fakeStore{err: shared.ErrEnrollmentNotFound}
	h := NewGetLearningVelocityHandler(store, analytics.DefaultParams())

	_, err := h.Handle(context.Background(), GetLearningVelocityQuery{EnrollmentID: "ghost"})

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// GetCompletionPrediction
// ──────────────────────────────────────────────────────────────────────────────

func TestGetCompletionPrediction_ValidatesBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{}
	h := NewGetCompletionPredictionHandler(store, analytics.DefaultParams())

	_, err := h.Handle(context.Background(), GetCompletionPredictionQuery{EnrollmentID: ""})

	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.Zero(t, store.enrollmentCalls)
}

func TestGetCompletionPrediction_ProjectsCompletion(t *testing.T) {
	store := &fakeStore{enrollment: testEnrollmentSnapshot()}
	h := NewGetCompletionPredictionHandler(store, analytics.DefaultParams())

	res, err := h.Handle(context.Background(), GetCompletionPredictionQuery{EnrollmentID: "enr-1"})

	require.NoError(t, err)
	assert.False(t, res.Prediction.Unpredictable)
	assert.Equal(t, 8, res.Prediction.RemainingUnits)
	// Eight remaining units at 0.4 units/day.
	assert.InDelta(t, 20.0, res.Prediction.ETADays, 0.0001)
	assert.Equal(t, analytics.ConfidenceOnTrack, res.Prediction.Confidence)
}

func TestGetCompletionPrediction_EmptyHistoryIsUnpredictable(t *testing.T) {
	snap := testEnrollmentSnapshot()
	snap.Enrollment.Events = nil
	store := &fakeStore{enrollment: snap}
	h := NewGetCompletionPredictionHandler(store, analytics.DefaultParams())

	res, err := h.Handle(context.Background(), GetCompletionPredictionQuery{EnrollmentID: "enr-1"})

	require.NoError(t, err)
	assert.True(t, res.Prediction.Unpredictable)
	assert.Equal(t, analytics.ConfidenceUnpredictable, res.Prediction.Confidence)
	assert.True(t, res.Velocity.Indeterminate)
}
