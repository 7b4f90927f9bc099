package simheat

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/scoring"
	"github.com/okian/heatcast/internal/domain/view"
	"github.com/okian/heatcast/pkg/logger"
)

// totalTolerance absorbs JSON float round-tripping.
const totalTolerance = 1e-9

// fetchViewerState retrieves the served scoreboard for the heat.
func fetchViewerState(ctx context.Context, client *httpClient, config *Config) (view.ViewerState, error) {
	resp, err := client.get(ctx, config.BaseURL+"/heats/"+config.HeatID)
	if err != nil {
		return view.ViewerState{}, fmt.Errorf("viewer state request failed: %w", err)
	}
	body := drainAndClose(resp)
	if resp.StatusCode != statusOK {
		return view.ViewerState{}, fmt.Errorf("viewer state returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var vs view.ViewerState
	if err := json.Unmarshal(body, &vs); err != nil {
		return view.ViewerState{}, fmt.Errorf("failed to parse viewer state: %w", err)
	}
	return vs, nil
}

// expectedRanking replays the locally built event history and ranks it
// the same way the service does.
func expectedRanking(events []heat.Event) ([]scoring.RiderTotal, error) {
	st, err := heat.Replay(events)
	if err != nil {
		return nil, fmt.Errorf("local replay failed: %w", err)
	}
	return scoring.RiderTotals(st), nil
}

// verifyRanking compares the served scoreboard against the expected
// ranking, row by row.
func verifyRanking(ctx context.Context, served view.ViewerState, expected []scoring.RiderTotal, stats *Stats) error {
	if len(served.Riders) != len(expected) {
		return fmt.Errorf("served %d riders, expected %d", len(served.Riders), len(expected))
	}

	for i, row := range served.Riders {
		want := expected[i]
		if row.Position != i+1 {
			return fmt.Errorf("row %d has position %d", i, row.Position)
		}
		if row.RiderID != want.RiderID {
			return fmt.Errorf("position %d: served rider %s, expected %s", i+1, row.RiderID, want.RiderID)
		}
		if math.Abs(row.Total-want.Total) > totalTolerance {
			return fmt.Errorf("rider %s: served total %.3f, expected %.3f", row.RiderID, row.Total, want.Total)
		}
	}

	stats.RidersVerified = len(served.Riders)
	logger.Get().Info(ctx, "ranking verified", logger.Int("riders", len(served.Riders)))
	return nil
}

// displayRanking logs the final scoreboard.
func displayRanking(ctx context.Context, served view.ViewerState) {
	for _, row := range served.Riders {
		logger.Get().Info(ctx, "scoreboard row",
			logger.Int("position", row.Position),
			logger.String("rider", row.RiderID),
			logger.Float64("waveTotal", row.WaveTotal),
			logger.Float64("jumpTotal", row.JumpTotal),
			logger.Float64("total", row.Total))
	}
}
