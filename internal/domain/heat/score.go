package heat

import "time"

// JumpType enumerates the recognized jump maneuvers. The decider carries
// the value verbatim; membership is checked at the transport boundary so
// older clients with unknown maneuvers degrade there, not here.
type JumpType string

// Known jump maneuvers.
const (
	JumpForward    JumpType = "forward"
	JumpBackLoop   JumpType = "backLoop"
	JumpFrontLoop  JumpType = "frontLoop"
	JumpTableTop   JumpType = "tableTop"
	JumpCheeseRoll JumpType = "cheeseRoll"
	JumpPushLoop   JumpType = "pushLoop"
)

// KnownJumpTypes lists every recognized maneuver, for boundary validation.
func KnownJumpTypes() []JumpType {
	return []JumpType{
		JumpForward,
		JumpBackLoop,
		JumpFrontLoop,
		JumpTableTop,
		JumpCheeseRoll,
		JumpPushLoop,
	}
}

// Valid reports whether t is a recognized maneuver.
func (t JumpType) Valid() bool {
	for _, k := range KnownJumpTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// Score is the sealed set of recorded score entries. Aggregation switches
// exhaustively over the concrete types below.
type Score interface {
	// UUID returns the score's unique id within the heat.
	UUID() string

	// Rider returns the id of the rider the score belongs to.
	Rider() string

	isScore()
}

// WaveScore is a judged wave ride.
type WaveScore struct {
	ScoreUUID string    `json:"score_uuid"`
	RiderID   string    `json:"rider_id"`
	Score     float64   `json:"score"`
	At        time.Time `json:"ts"`
}

// JumpScore is a judged jump attempt of a specific maneuver.
type JumpScore struct {
	ScoreUUID string    `json:"score_uuid"`
	RiderID   string    `json:"rider_id"`
	Score     float64   `json:"score"`
	Jump      JumpType  `json:"jump_type"`
	At        time.Time `json:"ts"`
}

func (s WaveScore) UUID() string  { return s.ScoreUUID }
func (s WaveScore) Rider() string { return s.RiderID }
func (s JumpScore) UUID() string  { return s.ScoreUUID }
func (s JumpScore) Rider() string { return s.RiderID }
func (WaveScore) isScore()        {}
func (JumpScore) isScore()        {}
