package health

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zsiec/tint/pkg/version"
)

// Response is the body of /health.
type Response struct {
	Status    Status            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]*Check `json:"checks,omitempty"`
}

// Handler handles health check HTTP endpoints.
type Handler struct {
	manager   *Manager
	startTime time.Time
}

// NewHandler creates a new health check handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{
		manager:   manager,
		startTime: time.Now(),
	}
}

// HandleHealth handles the /health endpoint.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	checks := h.manager.RunChecks(ctx)
	overallStatus := h.manager.GetOverallStatus()

	response := Response{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Version:   version.Version,
		Uptime:    h.getUptime(),
		Checks:    checks,
	}

	// Degraded still answers 200.
	statusCode := http.StatusOK
	if overallStatus == StatusDown {
		statusCode = http.StatusServiceUnavailable
	}

	h.writeJSON(w, statusCode, response)
}

// HandleReady reports the status of the last check run without running the
// checks again.
func (h *Handler) HandleReady(w http.ResponseWriter, _ *http.Request) {
	overallStatus := h.manager.GetOverallStatus()

	response := struct {
		Status    Status    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}{
		Status:    overallStatus,
		Timestamp: time.Now(),
	}

	statusCode := http.StatusOK
	if overallStatus == StatusDown {
		statusCode = http.StatusServiceUnavailable
	}

	h.writeJSON(w, statusCode, response)
}

// HandleLive handles the /live endpoint (basic liveness check).
func (h *Handler) HandleLive(w http.ResponseWriter, _ *http.Request) {
	response := struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}{
		Status:    "alive",
		Timestamp: time.Now(),
	}

	h.writeJSON(w, http.StatusOK, response)
}

// getUptime returns the service uptime, e.g. "1 day 2 hours 5 seconds".
func (h *Handler) getUptime() string {
	uptime := time.Since(h.startTime)
	units := []struct {
		value int
		name  string
	}{
		{int(uptime.Hours() / 24), "day"},
		{int(uptime.Hours()) % 24, "hour"},
		{int(uptime.Minutes()) % 60, "minute"},
		{int(uptime.Seconds()) % 60, "second"},
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		if u.value > 0 {
			parts = append(parts, formatUnit(u.value, u.name))
		}
	}
	if len(parts) == 0 {
		return formatUnit(0, "second")
	}
	return strings.Join(parts, " ")
}

// formatUnit formats a unit with proper pluralization
func formatUnit(value int, unit string) string {
	if value == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(value) + " " + unit + "s"
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.manager.logger.WithError(err).Error("Failed to encode health response")
	}
}
