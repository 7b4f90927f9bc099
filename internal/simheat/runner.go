package simheat

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/heatcast/pkg/logger"
)

// settleDelay gives the service time to drain per-heat mailboxes before
// the scoreboard is fetched.
const settleDelay = 2 * time.Second

// Run executes the complete heat simulation.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting heat simulation",
		logger.String("baseURL", config.BaseURL),
		logger.String("heatID", config.HeatID),
		logger.Int("riders", config.Riders),
		logger.Int("scores", config.Scores),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Create the heat
	riderIDs := generateRiderIDs(config.Riders)
	if err := createHeat(ctx, client, config, riderIDs); err != nil {
		return fmt.Errorf("heat creation failed: %w", err)
	}

	// Step 3: Generate scores plus the expected event history
	subs, events, err := generateScores(ctx, config, riderIDs, stats)
	if err != nil {
		return fmt.Errorf("score generation failed: %w", err)
	}

	// Step 4: Submit scores concurrently
	if err := submitScores(ctx, config, subs, stats); err != nil {
		return fmt.Errorf("score submission failed: %w", err)
	}

	// Step 5: Let in-flight commands settle
	logger.Get().Info(ctx, "waiting for scores to be processed")
	time.Sleep(settleDelay)

	// Step 6: Fetch the served scoreboard
	served, err := fetchViewerState(ctx, client, config)
	if err != nil {
		return fmt.Errorf("viewer state retrieval failed: %w", err)
	}

	// Step 7: Verify it against the local replay
	expected, err := expectedRanking(events)
	if err != nil {
		return fmt.Errorf("expected ranking failed: %w", err)
	}
	if err := verifyRanking(ctx, served, expected, stats); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	if config.Verbose {
		displayRanking(ctx, served)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	drainAndClose(resp)

	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final simulation statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var scoresPerSecond float64
	if stats.Duration > 0 {
		scoresPerSecond = float64(stats.ScoresSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("scoresGenerated", stats.ScoresGenerated),
		logger.Int("scoresSubmitted", stats.ScoresSubmitted),
		logger.Int("scoresAccepted", stats.ScoresAccepted),
		logger.Int("scoresDuplicate", stats.ScoresDuplicate),
		logger.Int("scoresFailed", stats.ScoresFailed),
		logger.Int("ridersVerified", stats.RidersVerified),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("scoresPerSecond", scoresPerSecond))
}
