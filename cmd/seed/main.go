// Command seed generates synthetic scoring runs, submits them to a running
// service, and verifies the resulting rankings.
package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/veritable/scorecard/internal/loadgen"
)

// Default configuration constants.
const (
	defaultNumRuns        = 1000
	defaultTopN           = 50
	defaultWorkerMultiple = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultSessionTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numRuns = flag.Int("runs", defaultNumRuns, "Number of scoring runs to generate and submit")
		prof    = flag.String("profile", "economic-freedom", "Client value profile to score against")
		topN    = flag.Int("top", defaultTopN, "Number of top entries to fetch from the ranking")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkerMultiple, "Number of concurrent submitters")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), defaultSessionTimeout)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL: *baseURL,
		NumRuns: *numRuns,
		Profile: *prof,
		TopN:    *topN,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}

	if err := loadgen.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
