package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"idlewatch/internal/config"
	"idlewatch/internal/database"
	"idlewatch/internal/reporter"
	"idlewatch/pkg/sensor"
)

type Handler struct {
	config   *config.Config
	repo     *database.Repository
	sensor   sensor.Sensor
	reporter *reporter.Reporter
}

func NewHandler(cfg *config.Config, repo *database.Repository, s sensor.Sensor) *Handler {
	return &Handler{
		config:   cfg,
		repo:     repo,
		sensor:   s,
		reporter: reporter.New(cfg, repo),
	}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/samples", h.handleSamples)
	mux.HandleFunc("/api/events", h.handleEvents)
	mux.HandleFunc("/api/report", h.handleReport)

	mux.HandleFunc("/health", h.handleHealth)
}

// handleStatus probes the sensor live: the numbers here are fresh server
// round trips, not the last recorded sample.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idle, err := h.sensor.IdleDuration()
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to query idle time: %v", err), http.StatusBadGateway)
		return
	}

	fullscreen, err := h.sensor.AnyFullscreen(h.config.Exceptions)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to query fullscreen state: %v", err), http.StatusBadGateway)
		return
	}

	respondJSON(w, map[string]interface{}{
		"display_server": h.sensor.DisplayServer(),
		"idle_ms":        idle.Milliseconds(),
		"fullscreen":     fullscreen,
		"timers":         len(h.config.Timers),
	})
}

func (h *Handler) handleSamples(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	since, err := sinceParam(r, 24*time.Hour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	samples, err := h.repo.GetSamplesSince(since)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch samples: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, samples)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	since, err := sinceParam(r, 7*24*time.Hour)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := h.repo.GetActionEventsSince(since)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch events: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, events)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, report)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// sinceParam reads the optional "hours" query parameter as a look-back
// window, falling back to the given default.
func sinceParam(r *http.Request, fallback time.Duration) (time.Time, error) {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return time.Now().Add(-fallback), nil
	}

	var hours int
	if _, err := fmt.Sscanf(raw, "%d", &hours); err != nil || hours <= 0 {
		return time.Time{}, fmt.Errorf("invalid hours parameter: %q", raw)
	}
	return time.Now().Add(-time.Duration(hours) * time.Hour), nil
}

func respondJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
