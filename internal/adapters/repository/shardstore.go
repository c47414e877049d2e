package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/veritable/scorecard/internal/domain/model"
	"github.com/veritable/scorecard/pkg/metrics"
)

// defaultShardCount balances lock contention against the cost of fanning a
// ranking query across shards.
const defaultShardCount = 16

// shard holds the scores for the candidates hashed into it, grouped by
// profile name.
type shard struct {
	mu     sync.RWMutex
	scores map[string]map[string]model.CompositeScore // profile -> candidate -> score
}

// ShardStore implements Store with candidate-hashed shards. Writes lock one
// shard; ranking reads fan out and sort on demand, which keeps the hot write
// path cheap at the cost of O(n log n) reads. Ranking sets in this domain
// are small (hundreds of candidates), so sort-on-read wins over maintaining
// an ordered structure under every update.
type ShardStore struct {
	shards     []*shard
	shardCount int
}

// NewShardStore creates a sharded in-memory score store.
func NewShardStore(opts ...Option) *ShardStore {
	s := &ShardStore{
		shardCount: defaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{scores: make(map[string]map[string]model.CompositeScore)}
	}

	return s
}

func (s *ShardStore) shardFor(candidateID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(candidateID))
	return s.shards[h.Sum32()%uint32(s.shardCount)]
}

// Upsert stores the composite score for its (profile, candidate) pair.
func (s *ShardStore) Upsert(ctx context.Context, score model.CompositeScore) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if score.Candidate.ID == "" || score.ProfileName == "" {
		metrics.RecordStoreError()
		return false, fmt.Errorf("upsert: empty candidate or profile")
	}

	sh := s.shardFor(score.Candidate.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	byCandidate := sh.scores[score.ProfileName]
	if byCandidate == nil {
		byCandidate = make(map[string]model.CompositeScore)
		sh.scores[score.ProfileName] = byCandidate
	}

	prev, existed := byCandidate[score.Candidate.ID]
	byCandidate[score.Candidate.ID] = score

	changed := !existed || prev.Overall != score.Overall
	if changed {
		metrics.RecordScoreUpdate()
	}
	return changed, nil
}

// Get returns the full composite score for a candidate under a profile.
func (s *ShardStore) Get(ctx context.Context, profileName, candidateID string) (model.CompositeScore, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(candidateID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	score, ok := sh.scores[profileName][candidateID]
	if !ok {
		return model.CompositeScore{}, fmt.Errorf("%w: candidate %s, profile %s", ErrNotFound, candidateID, profileName)
	}
	return score, nil
}

// Rank returns the current rank and score for a candidate under a profile.
// Ties share a rank (competition ranking): two candidates at the same
// overall score report the same position.
func (s *ShardStore) Rank(ctx context.Context, profileName, candidateID string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	entries := s.collect(profileName)
	for _, e := range entries {
		if e.CandidateID == candidateID {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: candidate %s, profile %s", ErrNotFound, candidateID, profileName)
}

// TopN returns the top-N entries for a profile.
func (s *ShardStore) TopN(ctx context.Context, profileName string, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n <= 0 {
		metrics.RecordStoreError()
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	entries := s.collect(profileName)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Count returns the number of distinct candidates with at least one stored
// score.
func (s *ShardStore) Count(ctx context.Context) int {
	candidates := make(map[string]struct{})
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, byCandidate := range sh.scores {
			for id := range byCandidate {
				candidates[id] = struct{}{}
			}
		}
		sh.mu.RUnlock()
	}
	metrics.UpdateTotalCandidates(len(candidates))
	return len(candidates)
}

// collect gathers, sorts, and ranks all entries for one profile.
func (s *ShardStore) collect(profileName string) []Entry {
	var entries []Entry
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, score := range sh.scores[profileName] {
			entries = append(entries, Entry{
				CandidateID:    id,
				Profile:        profileName,
				Overall:        score.Overall,
				Interpretation: score.Interpretation,
			})
		}
		sh.mu.RUnlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Overall != entries[j].Overall {
			return entries[i].Overall > entries[j].Overall
		}
		return entries[i].CandidateID < entries[j].CandidateID
	})

	for i := range entries {
		if i > 0 && entries[i].Overall == entries[i-1].Overall {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}
