package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependency is a named readiness check. A nil Checker is reported as
// "not configured" and does not fail readiness.
type Dependency struct {
	Name    string
	Checker HealthChecker
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	deps    []Dependency
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(logger *slog.Logger, deps ...Dependency) *HealthHandler {
	return &HealthHandler{
		deps:    deps,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz reports liveness. It never checks dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz reports readiness. It returns 503 if any configured dependency
// fails its ping. Failure details are logged, not returned.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]string, len(h.deps))
	healthy := true

	for _, dep := range h.deps {
		if dep.Checker == nil {
			checks[dep.Name] = "not configured"
			continue
		}
		if err := dep.Checker.Ping(ctx); err != nil {
			h.logger.Warn("readiness_check_failed", "dependency", dep.Name, "error", err)
			checks[dep.Name] = "unavailable"
			healthy = false
			continue
		}
		checks[dep.Name] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}
