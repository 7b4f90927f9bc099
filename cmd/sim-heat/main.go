package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/heatcast/internal/simheat"
	"github.com/okian/heatcast/pkg/logger"
)

// Default configuration constants.
const (
	defaultRiders        = 4
	defaultScores        = 200
	defaultWavesCounting = 2
	defaultJumpsCounting = 3
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		heatID  = flag.String("heat", "", "Heat id to create (default: random UUID)")
		riders  = flag.Int("riders", defaultRiders, "Number of riders in the heat")
		scores  = flag.Int("scores", defaultScores, "Number of scores to generate and submit")
		waves   = flag.Int("waves", defaultWavesCounting, "Best waves that count per rider")
		jumps   = flag.Int("jumps", defaultJumpsCounting, "Best jumps that count per rider")
		workers = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *heatID == "" {
		*heatID = "heat-" + uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simheat.Config{
		BaseURL:       *baseURL,
		HeatID:        *heatID,
		Riders:        *riders,
		Scores:        *scores,
		WavesCounting: *waves,
		JumpsCounting: *jumps,
		Workers:       *workers,
		Timeout:       *timeout,
		Verbose:       *verbose,
	}

	if err := simheat.Run(ctx, config); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
