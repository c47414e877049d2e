// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/veritable/scorecard/internal/domain/model"
)

// ScoreDependencies defines the interface for score lookups.
type ScoreDependencies interface {
	Score(ctx context.Context, profileName, candidateID string) (model.CompositeScore, error)
}

// ScoresHandler handles composite score requests.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

// HandleGetScore handles GET /scores/{candidate_id}?profile=NAME requests.
func (h *ScoresHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_score"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	candidateID := strings.TrimPrefix(r.URL.Path, "/scores/")
	if candidateID == "" || strings.Contains(candidateID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	profileName := r.URL.Query().Get("profile")
	if profileName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	score, err := h.deps.Score(r.Context(), profileName, candidateID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, score)
}
