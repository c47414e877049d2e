package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veritable/scorecard/pkg/logger"
)

// settleDelay gives the async pipeline time to drain before rankings are
// verified.
const settleDelay = 2 * time.Second

// Run executes a full seeding session: generate runs, submit them
// concurrently, then fetch and sanity-check the resulting ranking.
func Run(ctx context.Context, cfg *Config) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get().Named("loadgen")

	stats := &Stats{StartTime: time.Now()}
	defer func() {
		stats.EndTime = time.Now()
		stats.Duration = stats.EndTime.Sub(stats.StartTime)
		log.Info(ctx, "seeding session finished",
			logger.Int("generated", stats.RunsGenerated),
			logger.Int("submitted", stats.RunsSubmitted),
			logger.Int("successful", stats.RunsSuccessful),
			logger.Int("duplicate", stats.RunsDuplicate),
			logger.Int("failed", stats.RunsFailed),
			logger.Int("rankingEntries", stats.RankingEntries),
			logger.String("duration", stats.Duration.String()),
		)
	}()

	log.Info(ctx, "generating synthetic runs",
		logger.Int("numRuns", cfg.NumRuns),
		logger.String("profile", cfg.Profile),
	)
	runs := generateRuns(cfg)
	stats.RunsGenerated = len(runs)

	if err := submitRuns(ctx, cfg, runs, stats, log); err != nil {
		return err
	}

	// Let workers drain the queue before reading rankings.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(settleDelay):
	}

	return verifyRankings(ctx, cfg, stats, log)
}

// submitRuns pushes the generated runs through POST /runs with a worker pool.
func submitRuns(ctx context.Context, cfg *Config, runs []runPayload, stats *Stats, log logger.Logger) error {
	client := &http.Client{Timeout: cfg.Timeout}
	url := cfg.BaseURL + "/runs"

	var successful, duplicate, failed int64

	runChan := make(chan runPayload, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range runChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				switch submitRun(ctx, client, url, run) {
				case http.StatusAccepted:
					atomic.AddInt64(&successful, 1)
				case http.StatusOK:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if cfg.Verbose {
					log.Debug(ctx, "submitted run", logger.String("runID", run.RunID))
				}
			}
		}()
	}

	for _, run := range runs {
		select {
		case <-ctx.Done():
			close(runChan)
			wg.Wait()
			return ctx.Err()
		case runChan <- run:
		}
	}
	close(runChan)
	wg.Wait()

	stats.RunsSubmitted = len(runs)
	stats.RunsSuccessful = int(successful)
	stats.RunsDuplicate = int(duplicate)
	stats.RunsFailed = int(failed)

	if failed > 0 {
		log.Warn(ctx, "some runs failed to submit", logger.Int("failed", int(failed)))
	}
	return nil
}

// submitRun posts one run and returns the HTTP status, or 0 on transport
// failure.
func submitRun(ctx context.Context, client *http.Client, url string, run runPayload) int {
	body, err := json.Marshal(run)
	if err != nil {
		return 0
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

// verifyRankings fetches the top-N ranking and checks ordering invariants.
func verifyRankings(ctx context.Context, cfg *Config, stats *Stats, log logger.Logger) error {
	client := &http.Client{Timeout: cfg.Timeout}
	url := fmt.Sprintf("%s/rankings?profile=%s&limit=%d", cfg.BaseURL, cfg.Profile, cfg.TopN)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build rankings request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch rankings: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rankings returned status %d", resp.StatusCode)
	}

	var entries []entryPayload
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("decode rankings: %w", err)
	}
	stats.RankingEntries = len(entries)

	for i := 1; i < len(entries); i++ {
		if entries[i].Overall > entries[i-1].Overall {
			return fmt.Errorf("ranking out of order at position %d: %.4f > %.4f",
				i, entries[i].Overall, entries[i-1].Overall)
		}
		if entries[i].Overall < -1 || entries[i].Overall > 1 {
			return fmt.Errorf("overall score out of range at position %d: %.4f", i, entries[i].Overall)
		}
	}

	log.Info(ctx, "ranking verified",
		logger.Int("entries", len(entries)),
	)
	return nil
}
