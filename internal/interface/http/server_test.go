package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulselearn/pulselearn-analytics/internal/analytics"
	"github.com/pulselearn/pulselearn-analytics/internal/application/query"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/enrollment"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/quiz"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/internal/interface/http/handlers"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake snapshot provider
// ──────────────────────────────────────────────────────────────────────────────

type fakeProvider struct {
	userSnap *analytics.UserSnapshot
	enrSnap  *analytics.EnrollmentSnapshot
	userErr  error
	enrErr   error
}

func (f *fakeProvider) UserSnapshot(_ context.Context, _ shared.UserID) (*analytics.UserSnapshot, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.userSnap, nil
}

func (f *fakeProvider) EnrollmentSnapshot(_ context.Context, _ enrollment.EnrollmentID) (*analytics.EnrollmentSnapshot, error) {
	if f.enrErr != nil {
		return nil, f.enrErr
	}
	return f.enrSnap, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

var apiNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func apiUserSnapshot() *analytics.UserSnapshot {
	return &analytics.UserSnapshot{
		UserID:      "user-1",
		DisplayName: "Test User",
		Attempts: []quiz.Attempt{
			{ID: "a1", UserID: "user-1", Topic: "maps", OccurredAt: apiNow.AddDate(0, 0, -3), Score: 70, Difficulty: quiz.DifficultyBeginner},
			{ID: "a2", UserID: "user-1", Topic: "maps", OccurredAt: apiNow.AddDate(0, 0, -2), Score: 80, Difficulty: quiz.DifficultyBeginner},
			{ID: "a3", UserID: "user-1", Topic: "maps", OccurredAt: apiNow.AddDate(0, 0, -1), Score: 90, Difficulty: quiz.DifficultyBeginner},
		},
		Now: apiNow,
	}
}

func apiEnrollmentSnapshot() *analytics.EnrollmentSnapshot {
	return &analytics.EnrollmentSnapshot{
		Enrollment: enrollment.Snapshot{
			Summary: enrollment.Summary{
				ID:         "enr-1",
				UserID:     "user-1",
				CourseID:   "course-1",
				Status:     enrollment.StatusActive,
				EnrolledAt: apiNow.AddDate(0, 0, -10),
			},
			Plan: enrollment.CoursePlan{CourseID: "course-1", TotalUnits: 10},
			Events: []enrollment.CompletionEvent{
				{EnrollmentID: "enr-1", ModuleID: "m1", OccurredAt: apiNow.AddDate(0, 0, -8), TimeSpentMinutes: 30},
				{EnrollmentID: "enr-1", ModuleID: "m2", OccurredAt: apiNow.AddDate(0, 0, -4), TimeSpentMinutes: 30},
			},
		},
		Now: apiNow,
	}
}

func newTestServer(provider *fakeProvider) *Server {
	params := analytics.DefaultParams()
	log := logger.New(logger.Options{Output: io.Discard})

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0

	return NewServer(cfg, Dependencies{
		GetMasteryProfileHandler:       query.NewGetMasteryProfileHandler(provider, params),
		GetPerformanceDashboardHandler: query.NewGetPerformanceDashboardHandler(provider, nil, params, log),
		GetLearningVelocityHandler:     query.NewGetLearningVelocityHandler(provider, params),
		GetCompletionPredictionHandler: query.NewGetCompletionPredictionHandler(provider, params),
		Logger:                         log,
		HealthChecker:                  handlers.NewNoopHealthChecker(),
	})
}

func doRequest(t *testing.T, s *Server, method, path string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestServer_Health(t *testing.T) {
	s := newTestServer(&fakeProvider{})

	rec, body := doRequest(t, s, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.False(t, body.Timestamp.IsZero())
}

func TestServer_LivenessProbe(t *testing.T) {
	s := newTestServer(&fakeProvider{})

	rec, body := doRequest(t, s, http.MethodGet, "/live")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
}

func TestServer_MasteryProfile(t *testing.T) {
	s := newTestServer(&fakeProvider{userSnap: apiUserSnapshot()})

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/users/user-1/mastery")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	require.NotNil(t, body.Data)

	data := body.Data.(map[string]interface{})
	assert.Equal(t, "user-1", data["user_id"])
	assert.EqualValues(t, 3, data["total_attempts"])
}

func TestServer_MasteryProfile_UserNotFound(t *testing.T) {
	s := newTestServer(&fakeProvider{userErr: shared.ErrUserNotFound})

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/users/ghost/mastery")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "not_found", body.Error.Code)
}

func TestServer_MasteryProfile_StoreFailure(t *testing.T) {
	s := newTestServer(&fakeProvider{userErr: errors.New("connection refused")})

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/users/user-1/mastery")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "internal_error", body.Error.Code)
}

func TestServer_Dashboard(t *testing.T) {
	s := newTestServer(&fakeProvider{userSnap: apiUserSnapshot()})

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/users/user-1/dashboard?refresh=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestServer_Velocity(t *testing.T) {
	s := newTestServer(&fakeProvider{enrSnap: apiEnrollmentSnapshot()})

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/enrollments/enr-1/velocity")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)

	data := body.Data.(map[string]interface{})
	assert.Equal(t, "enr-1", data["enrollment_id"])
	assert.EqualValues(t, 10, data["total_units"])
}

func TestServer_Prediction_EnrollmentNotFound(t *testing.T) {
	s := newTestServer(&fakeProvider{enrErr: shared.ErrEnrollmentNotFound})

	rec, body := doRequest(t, s, http.MethodGet, "/api/v1/enrollments/ghost/prediction")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
}

func TestServer_RequestIDPropagated(t *testing.T) {
	s := newTestServer(&fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}
