// Package heat implements the heat aggregate as a pure decider:
// commands are validated against replayed state and turned into events,
// events are folded back into state. Nothing in this package performs IO.
package heat

import "time"

// Command is the sealed set of inbound heat commands.
// Decide switches exhaustively over the concrete types below.
type Command interface {
	// HeatID returns the id of the heat the command addresses.
	HeatID() string

	isCommand()
}

// CreateHeat opens a new heat for a fixed set of riders under fixed
// counting rules.
type CreateHeat struct {
	ID       string
	RiderIDs []string
	Rules    Rules
}

// AddWaveScore records a single wave score for one rider.
type AddWaveScore struct {
	ID        string
	ScoreUUID string
	RiderID   string
	Score     float64
	At        time.Time
}

// AddJumpScore records a single jump score for one rider.
type AddJumpScore struct {
	ID        string
	ScoreUUID string
	RiderID   string
	Score     float64
	Jump      JumpType
	At        time.Time
}

func (c CreateHeat) HeatID() string   { return c.ID }
func (c AddWaveScore) HeatID() string { return c.ID }
func (c AddJumpScore) HeatID() string { return c.ID }
func (CreateHeat) isCommand()         {}
func (AddWaveScore) isCommand()       {}
func (AddJumpScore) isCommand()       {}
