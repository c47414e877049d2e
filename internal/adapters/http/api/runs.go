// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/veritable/scorecard/internal/domain/dedupe"
	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/internal/domain/profile"
	"github.com/veritable/scorecard/internal/domain/taxonomy"
)

// RunDependencies defines the interface for run submission dependencies.
type RunDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, run model.Run) bool
	Resolve(ctx context.Context, name string) (*profile.Profile, error)
}

// RunsHandler handles run submission requests.
type RunsHandler struct {
	deps RunDependencies
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps RunDependencies) *RunsHandler {
	return &RunsHandler{deps: deps}
}

// runRequest mirrors the wire schema for POST /runs.
type runRequest struct {
	RunID     string            `json:"run_id"`
	Profile   string            `json:"profile"`
	Candidate candidateRequest  `json:"candidate"`
	Votes     []voteRequest     `json:"votes"`
	Positions []positionRequest `json:"positions"`
}

type candidateRequest struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Office   string `json:"office"`
	Party    string `json:"party"`
	District string `json:"district"`
}

type voteRequest struct {
	BillID       string `json:"bill_id"`
	BillName     string `json:"bill_name"`
	Date         string `json:"date"`
	Result       string `json:"result"`
	Area         string `json:"area"`
	IssueKey     string `json:"issue_key"`
	Description  string `json:"description"`
	SourceURL    string `json:"source_url"`
	Verification string `json:"verification"`
}

type positionRequest struct {
	IssueKey        string   `json:"issue_key"`
	Area            string   `json:"area"`
	Stance          float64  `json:"stance"`
	EvidenceSources []string `json:"evidence_sources"`
	Confidence      float64  `json:"confidence"`
	Verification    string   `json:"verification"`
}

// validate covers the structural fields the service cannot proceed without.
// Per-record enum and range problems are left to the scoring pipeline, which
// excludes bad records instead of rejecting the whole run.
func (r runRequest) validate() error {
	switch {
	case strings.TrimSpace(r.RunID) == "":
		return errors.New("missing run_id")
	case strings.TrimSpace(r.Profile) == "":
		return errors.New("missing profile")
	case strings.TrimSpace(r.Candidate.ID) == "":
		return errors.New("missing candidate.id")
	}
	return nil
}

// toRun converts the wire request into the domain run. Vote dates accept
// date-only or RFC3339 timestamps; an unparseable date is left zero and the
// record is excluded downstream by validation.
func (r runRequest) toRun() model.Run {
	run := model.Run{
		RunID:       r.RunID,
		ProfileName: r.Profile,
		Candidate: model.Candidate{
			ID:       r.Candidate.ID,
			FullName: r.Candidate.FullName,
			Office:   r.Candidate.Office,
			Party:    r.Candidate.Party,
			District: r.Candidate.District,
		},
		Votes:       make([]model.VoteRecord, 0, len(r.Votes)),
		Positions:   make([]model.PositionRecord, 0, len(r.Positions)),
		SubmittedAt: time.Now().UTC(),
	}

	for _, v := range r.Votes {
		run.Votes = append(run.Votes, model.VoteRecord{
			BillID:       v.BillID,
			BillName:     v.BillName,
			Date:         parseDate(v.Date),
			Result:       taxonomy.VoteResult(v.Result),
			Area:         taxonomy.PolicyArea(v.Area),
			IssueKey:     v.IssueKey,
			Description:  v.Description,
			SourceURL:    v.SourceURL,
			Verification: taxonomy.VerificationStatus(v.Verification),
		})
	}

	for _, p := range r.Positions {
		run.Positions = append(run.Positions, model.PositionRecord{
			IssueKey:        p.IssueKey,
			Area:            taxonomy.PolicyArea(p.Area),
			Stance:          p.Stance,
			EvidenceSources: p.EvidenceSources,
			Confidence:      p.Confidence,
			Verification:    taxonomy.VerificationStatus(p.Verification),
		})
	}

	return run
}

func parseDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// HandlePostRun handles POST /runs requests.
func (h *RunsHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_run"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// An unknown profile is fatal at the boundary: scoring against a
	// missing value set can only produce garbage.
	if _, err := h.deps.Resolve(r.Context(), req.Profile); err != nil {
		writeError(w, http.StatusBadRequest, "unknown_profile", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.RunID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async scoring
	if ok := h.deps.Enqueue(r.Context(), req.toRun()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.RunID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
