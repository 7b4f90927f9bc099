package simheat

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/pkg/logger"
)

// Constants for random number generation.
const (
	scoreTenthsMax   = 101 // 0.0 .. 10.0 in 0.1 steps
	performerBands   = 4
	waveJumpSplitMod = 2
)

// Score bands keep the simulated heat looking like a real one: most
// rides land mid-range, a few are throwaways or bombs.
const (
	bandAverage = 0
	bandHigh    = 1
	bandLow     = 2
	bandWide    = 3
)

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// randomScore produces a judge-style score in 0.1 increments with a
// banded distribution.
func randomScore() float64 {
	var lo, hi int64 // tenths
	switch randomInt(performerBands) {
	case bandAverage:
		lo, hi = 30, 70
	case bandHigh:
		lo, hi = 70, 95
	case bandLow:
		lo, hi = 1, 30
	case bandWide:
		lo, hi = 0, scoreTenthsMax-1
	}
	tenths := lo + randomInt(hi-lo+1)
	return float64(tenths) / 10
}

// generateRiderIDs produces n synthetic rider identifiers.
func generateRiderIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = "rider-" + strconv.Itoa(i+1)
	}
	return ids
}

// generateScores builds the submissions to post and, in parallel, the
// event history a correct service would end up with. The returned
// events start with the heat creation so they can be replayed straight
// into the expected final state.
func generateScores(ctx context.Context, config *Config, riderIDs []string, stats *Stats) ([]submission, []heat.Event, error) {
	logger.Get().Info(ctx, "generating scores",
		logger.Int("scores", config.Scores),
		logger.Int("riders", len(riderIDs)))

	jumpTypes := heat.KnownJumpTypes()
	subs := make([]submission, 0, config.Scores)
	events := make([]heat.Event, 0, config.Scores+1)
	events = append(events, heat.HeatCreated{
		HeatID:   config.HeatID,
		RiderIDs: riderIDs,
		Rules: heat.Rules{
			WavesCounting: config.WavesCounting,
			JumpsCounting: config.JumpsCounting,
		},
	})

	for i := 0; i < config.Scores; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		rider := riderIDs[randomInt(int64(len(riderIDs)))]
		scoreUUID := uuid.New().String()
		score := randomScore()
		at := time.Now().UTC()

		payload := scorePayload{
			ScoreUUID: scoreUUID,
			RiderID:   rider,
			Score:     score,
			TS:        at.Format(time.RFC3339),
		}

		if i%waveJumpSplitMod == 0 {
			subs = append(subs, submission{suffix: "waves", payload: payload})
			events = append(events, heat.WaveScoreAdded{
				HeatID:    config.HeatID,
				ScoreUUID: scoreUUID,
				RiderID:   rider,
				Score:     score,
				At:        at,
			})
			continue
		}

		jump := jumpTypes[randomInt(int64(len(jumpTypes)))]
		payload.JumpType = string(jump)
		subs = append(subs, submission{suffix: "jumps", payload: payload})
		events = append(events, heat.JumpScoreAdded{
			HeatID:    config.HeatID,
			ScoreUUID: scoreUUID,
			RiderID:   rider,
			Score:     score,
			Jump:      jump,
			At:        at,
		})
	}

	stats.ScoresGenerated = len(subs)
	logger.Get().Info(ctx, "generated scores", logger.Int("count", len(subs)))
	return subs, events, nil
}
