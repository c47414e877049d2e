// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/veritable/scorecard/internal/adapters/report"
)

// ReportDependencies defines the interface for report rendering.
type ReportDependencies interface {
	Report(ctx context.Context, profileName, candidateID string) (report.Report, error)
}

// ReportsHandler handles display report requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// HandleGetReport handles GET /reports/{candidate_id}?profile=NAME requests.
func (h *ReportsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	candidateID := strings.TrimPrefix(r.URL.Path, "/reports/")
	if candidateID == "" || strings.Contains(candidateID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	profileName := r.URL.Query().Get("profile")
	if profileName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	doc, err := h.deps.Report(r.Context(), profileName, candidateID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
