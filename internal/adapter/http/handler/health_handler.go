package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one backing service.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 5 * time.Second,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every backing service answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := map[string]string{"status": "ready"}
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, c.Name+" unhealthy", err.Error())
			return
		}
		status[c.Name] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
