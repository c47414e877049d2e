// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// ProfileDependencies defines the interface for profile listings.
type ProfileDependencies interface {
	Profiles(ctx context.Context) []ProfileInfo
}

// ProfilesHandler handles profile listing requests.
type ProfilesHandler struct {
	deps ProfileDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// HandleGetProfiles handles GET /profiles requests.
func (h *ProfilesHandler) HandleGetProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Profiles(r.Context()))
}
