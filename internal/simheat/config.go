// Package simheat drives a running heatcast instance through a full
// simulated heat: it creates a heat, floods it with judge scores over
// HTTP, and verifies the served scoreboard against a locally replayed
// ranking.
package simheat

import (
	"time"

	"github.com/okian/heatcast/internal/domain/heat"
)

// Config holds configuration for one simulation run.
type Config struct {
	BaseURL       string        // Base URL of the service
	HeatID        string        // Heat to create and score
	Riders        int           // Number of riders in the heat
	Scores        int           // Number of scores to generate
	WavesCounting int           // Best waves that count per rider
	JumpsCounting int           // Best jumps that count per rider
	Workers       int           // Number of concurrent submitters
	Timeout       time.Duration // HTTP request timeout
	Verbose       bool          // Enable verbose logging
}

// scorePayload mirrors the wave/jump scoring request body.
type scorePayload struct {
	ScoreUUID string  `json:"score_uuid"`
	RiderID   string  `json:"rider_id"`
	Score     float64 `json:"score"`
	JumpType  string  `json:"jump_type,omitempty"`
	TS        string  `json:"ts"`
}

// submission is one score plus the endpoint suffix it posts to.
type submission struct {
	suffix  string // "waves" or "jumps"
	payload scorePayload
}

// createPayload mirrors the heat creation request body.
type createPayload struct {
	HeatID   string     `json:"heat_id"`
	RiderIDs []string   `json:"rider_ids"`
	Rules    heat.Rules `json:"rules"`
}

// Stats holds simulation statistics.
type Stats struct {
	ScoresGenerated int
	ScoresSubmitted int
	ScoresAccepted  int
	ScoresDuplicate int
	ScoresFailed    int
	RidersVerified  int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
