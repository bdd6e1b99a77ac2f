package handlers

import (
	"database/sql"
	"net/http"

	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/database"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/model"
	"github.com/quantfolio/Portfolio-Valuation-Recorder/internal/service"
)

// SystemHandler serves the daemon-mode status API: database health and the
// outcome of the most recent valuation run.
type SystemHandler struct {
	db      *sql.DB
	tracker *service.RunTracker
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *sql.DB, tracker *service.RunTracker) *SystemHandler {
	return &SystemHandler{
		db:      db,
		tracker: tracker,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := database.HealthCheck(h.db); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	respondJSON(w, http.StatusOK, response)
}

// StatusResponse represents the last-run status response.
type StatusResponse struct {
	HasRun  bool              `json:"hasRun"`
	LastRun *model.RunSummary `json:"lastRun,omitempty"`
	Outcome string            `json:"outcome,omitempty"`
}

// Status returns the summary of the most recent valuation run, or an
// empty response if no run has completed since the daemon started.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	summary, hasRun := h.tracker.Last()
	if !hasRun {
		respondJSON(w, http.StatusOK, StatusResponse{HasRun: false})
		return
	}

	outcome := "success"
	if summary.Failed() {
		outcome = "failure"
	}

	respondJSON(w, http.StatusOK, StatusResponse{
		HasRun:  true,
		LastRun: &summary,
		Outcome: outcome,
	})
}
