package heat

import "time"

// Event type names as they appear on the wire and in the log.
const (
	TypeHeatCreated    = "heatCreated"
	TypeWaveScoreAdded = "waveScoreAdded"
	TypeJumpScoreAdded = "jumpScoreAdded"
)

// Event is the sealed set of heat events. Evolve switches exhaustively
// over the concrete types below.
type Event interface {
	// Type returns the event's wire name.
	Type() string

	isEvent()
}

// HeatCreated opens the heat. RiderIDs and Rules are the authoritative
// copies; later projections must not alias the slices of the command that
// produced them.
type HeatCreated struct {
	HeatID   string   `json:"heat_id"`
	RiderIDs []string `json:"rider_ids"`
	Rules    Rules    `json:"rules"`
}

// WaveScoreAdded records an accepted wave score.
type WaveScoreAdded struct {
	HeatID    string    `json:"heat_id"`
	ScoreUUID string    `json:"score_uuid"`
	RiderID   string    `json:"rider_id"`
	Score     float64   `json:"score"`
	At        time.Time `json:"ts"`
}

// JumpScoreAdded records an accepted jump score.
type JumpScoreAdded struct {
	HeatID    string    `json:"heat_id"`
	ScoreUUID string    `json:"score_uuid"`
	RiderID   string    `json:"rider_id"`
	Score     float64   `json:"score"`
	Jump      JumpType  `json:"jump_type"`
	At        time.Time `json:"ts"`
}

func (HeatCreated) Type() string    { return TypeHeatCreated }
func (WaveScoreAdded) Type() string { return TypeWaveScoreAdded }
func (JumpScoreAdded) Type() string { return TypeJumpScoreAdded }
func (HeatCreated) isEvent()        {}
func (WaveScoreAdded) isEvent()     {}
func (JumpScoreAdded) isEvent()     {}
