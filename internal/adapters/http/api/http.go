// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/veritable/scorecard/internal/adapters/report"
	"github.com/veritable/scorecard/internal/adapters/repository"
	"github.com/veritable/scorecard/internal/domain/dedupe"
	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a run for async scoring. Returns false on backpressure.
	Enqueue(ctx context.Context, run model.Run) bool

	// Resolve validates a profile name against the registry.
	Resolve(ctx context.Context, name string) (*profile.Profile, error)

	// Read operations expose scored results.
	Score(ctx context.Context, profileName, candidateID string) (model.CompositeScore, error)
	TopN(ctx context.Context, profileName string, n int) ([]Entry, error)
	Rank(ctx context.Context, profileName, candidateID string) (Entry, error)
	Profiles(ctx context.Context) []ProfileInfo
	Report(ctx context.Context, profileName, candidateID string) (report.Report, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// ProfileInfo mirrors the read shape returned by profile queries.
type ProfileInfo = types.ProfileInfo

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	runsHandler     *RunsHandler
	scoresHandler   *ScoresHandler
	rankingsHandler *RankingsHandler
	profilesHandler *ProfilesHandler
	reportsHandler  *ReportsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		runsHandler:     NewRunsHandler(deps),
		scoresHandler:   NewScoresHandler(deps),
		rankingsHandler: NewRankingsHandler(deps, maxRankingLimit),
		profilesHandler: NewProfilesHandler(deps),
		reportsHandler:  NewReportsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandlePostRun, "runs"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/profiles", MetricsMiddleware(s.profilesHandler.HandleGetProfiles, "profiles"))
	mux.HandleFunc("/scores/", MetricsMiddleware(s.scoresHandler.HandleGetScore, "scores"))
	mux.HandleFunc("/reports/", MetricsMiddleware(s.reportsHandler.HandleGetReport, "reports"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// Wrap annotates an upstream error with the failing operation.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind creates an operation-scoped error of the given sentinel kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind annotates an upstream error with both an operation and a
// sentinel kind so callers can match with errors.Is.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
