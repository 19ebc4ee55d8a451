// Package http implements the REST API for the PulseLearn analytics service.
package http

import (
	"net/http"

	"github.com/pulselearn/pulselearn-analytics/internal/application/query"
	"github.com/pulselearn/pulselearn-analytics/internal/domain/shared"
	"github.com/pulselearn/pulselearn-analytics/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "PulseLearn Analytics API",
		"version":     "v1",
		"description": "Derived learning-performance read models for the PulseLearn course platform",
		"endpoints": map[string]string{
			"health":     "/health",
			"mastery":    "/api/v1/users/{id}/mastery",
			"dashboard":  "/api/v1/users/{id}/dashboard",
			"velocity":   "/api/v1/enrollments/{id}/velocity",
			"prediction": "/api/v1/enrollments/{id}/prediction",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetMasteryProfile handles GET /api/v1/users/{id}/mastery
func (s *Server) handleGetMasteryProfile(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetMasteryProfileHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mastery handler not configured")
		return
	}

	q := query.GetMasteryProfileQuery{
		UserID: r.PathValue("id"),
	}

	result, err := s.deps.GetMasteryProfileHandler.Handle(r.Context(), q)
	if err != nil {
		s.respondQueryError(w, r, err, "mastery profile")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetDashboard handles GET /api/v1/users/{id}/dashboard
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetPerformanceDashboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Dashboard handler not configured")
		return
	}

	q := query.GetPerformanceDashboardQuery{
		UserID:    r.PathValue("id"),
		SkipCache: getQueryParamBool(r, "refresh"),
	}

	result, err := s.deps.GetPerformanceDashboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.respondQueryError(w, r, err, "dashboard")
		return
	}

	if result.FromCache {
		w.Header().Set("X-Cache", "HIT")
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetVelocity handles GET /api/v1/enrollments/{id}/velocity
func (s *Server) handleGetVelocity(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLearningVelocityHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Velocity handler not configured")
		return
	}

	q := query.GetLearningVelocityQuery{
		EnrollmentID: r.PathValue("id"),
	}

	result, err := s.deps.GetLearningVelocityHandler.Handle(r.Context(), q)
	if err != nil {
		s.respondQueryError(w, r, err, "velocity estimate")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetPrediction handles GET /api/v1/enrollments/{id}/prediction
func (s *Server) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetCompletionPredictionHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Prediction handler not configured")
		return
	}

	q := query.GetCompletionPredictionQuery{
		EnrollmentID: r.PathValue("id"),
	}

	result, err := s.deps.GetCompletionPredictionHandler.Handle(r.Context(), q)
	if err != nil {
		s.respondQueryError(w, r, err, "completion prediction")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// respondQueryError maps a query-layer error onto an HTTP status. Validation
// failures never reach the store, so a 400 is cheap; not-found means the
// snapshot the operation requires does not exist.
func (s *Server) respondQueryError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid or missing identifier in request path")
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", "The requested "+subject+" does not exist")
	default:
		s.logger.Error("query failed",
			logger.String("subject", subject),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to compute "+subject+", please retry later")
	}
}
