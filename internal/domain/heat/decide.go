package heat

import (
	"fmt"
	"math"
)

// Score bounds accepted by the judges' scale.
const (
	minScore = 0.0
	maxScore = 10.0
)

// Decide validates cmd against the current state and returns the events
// it produces. A nil state means the heat does not exist yet. Decide
// never mutates state and never emits partial results: a rejection
// carries one of this package's sentinel kinds and nothing else happens.
func Decide(cmd Command, st *State) ([]Event, error) {
	switch c := cmd.(type) {
	case CreateHeat:
		return decideCreate(c, st)
	case AddWaveScore:
		if err := validateScore(c.ID, c.ScoreUUID, c.RiderID, c.Score, st); err != nil {
			return nil, err
		}
		return []Event{WaveScoreAdded{
			HeatID:    c.ID,
			ScoreUUID: c.ScoreUUID,
			RiderID:   c.RiderID,
			Score:     c.Score,
			At:        c.At,
		}}, nil
	case AddJumpScore:
		if err := validateScore(c.ID, c.ScoreUUID, c.RiderID, c.Score, st); err != nil {
			return nil, err
		}
		return []Event{JumpScoreAdded{
			HeatID:    c.ID,
			ScoreUUID: c.ScoreUUID,
			RiderID:   c.RiderID,
			Score:     c.Score,
			Jump:      c.Jump,
			At:        c.At,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown command %T", cmd)
	}
}

func decideCreate(c CreateHeat, st *State) ([]Event, error) {
	if st != nil {
		return nil, fmt.Errorf("heat %q: %w", c.ID, ErrAlreadyExists)
	}
	if len(c.RiderIDs) == 0 {
		return nil, fmt.Errorf("heat %q: %w", c.ID, ErrNoRiders)
	}
	seen := make(map[string]struct{}, len(c.RiderIDs))
	for _, id := range c.RiderIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("heat %q rider %q: %w", c.ID, id, ErrDuplicateRiders)
		}
		seen[id] = struct{}{}
	}
	if c.Rules.WavesCounting <= 0 || c.Rules.JumpsCounting <= 0 {
		return nil, fmt.Errorf("heat %q: %w", c.ID, ErrInvalidRules)
	}

	// The event owns its own copies so later mutation of the command
	// cannot reach replayed state.
	riders := make([]string, len(c.RiderIDs))
	copy(riders, c.RiderIDs)

	return []Event{HeatCreated{
		HeatID:   c.ID,
		RiderIDs: riders,
		Rules:    c.Rules,
	}}, nil
}

// validateScore runs the shared gate for wave and jump scoring commands.
func validateScore(heatID, scoreUUID, riderID string, score float64, st *State) error {
	if st == nil {
		return fmt.Errorf("heat %q: %w", heatID, ErrNotFound)
	}
	if heatID != st.ID {
		return fmt.Errorf("command heat %q, state heat %q: %w", heatID, st.ID, ErrIDMismatch)
	}
	if !st.HasRider(riderID) {
		return fmt.Errorf("heat %q rider %q: %w", heatID, riderID, ErrRiderNotInHeat)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < minScore || score > maxScore {
		return fmt.Errorf("heat %q score %v: %w", heatID, score, ErrInvalidScore)
	}
	if st.hasScoreUUID(scoreUUID) {
		return fmt.Errorf("heat %q score uuid %q: %w", heatID, scoreUUID, ErrDuplicateScoreUUID)
	}
	return nil
}
