// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// RankingDependencies defines the interface for ranking operations.
type RankingDependencies interface {
	TopN(ctx context.Context, profileName string, n int) ([]Entry, error)
	Rank(ctx context.Context, profileName, candidateID string) (Entry, error)
}

// RankingsHandler handles ranking requests.
type RankingsHandler struct {
	deps     RankingDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /rankings?profile=NAME&limit=N requests.
// With candidate=ID it returns that candidate's single ranking row instead.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	profileName := r.URL.Query().Get("profile")
	if profileName == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if candidateID := r.URL.Query().Get("candidate"); candidateID != "" {
		entry, err := h.deps.Rank(r.Context(), profileName, candidateID)
		if err != nil {
			if isNotFound(err) {
				writeError(w, http.StatusNotFound, "not_found", err)
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, entry)
		return
	}

	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), profileName, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
