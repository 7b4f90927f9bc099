package heat

import "fmt"

// Evolve folds one event into the state and returns the next state. The
// input state is never mutated; scoring events append onto a fresh slice
// so two Evolve calls with the same inputs yield structurally equal
// outputs. A scoring event on a nil state is a fatal replay
// inconsistency, not a validation outcome.
func Evolve(st *State, ev Event) (*State, error) {
	switch e := ev.(type) {
	case HeatCreated:
		riders := make([]string, len(e.RiderIDs))
		copy(riders, e.RiderIDs)
		return &State{
			ID:       e.HeatID,
			RiderIDs: riders,
			Rules:    e.Rules,
			Scores:   nil,
		}, nil
	case WaveScoreAdded:
		if st == nil {
			return nil, fmt.Errorf("wave score before creation: %w", ErrInvariantViolation)
		}
		return st.withScore(WaveScore{
			ScoreUUID: e.ScoreUUID,
			RiderID:   e.RiderID,
			Score:     e.Score,
			At:        e.At,
		}), nil
	case JumpScoreAdded:
		if st == nil {
			return nil, fmt.Errorf("jump score before creation: %w", ErrInvariantViolation)
		}
		return st.withScore(JumpScore{
			ScoreUUID: e.ScoreUUID,
			RiderID:   e.RiderID,
			Score:     e.Score,
			Jump:      e.Jump,
			At:        e.At,
		}), nil
	default:
		return nil, fmt.Errorf("unknown event %T: %w", ev, ErrInvariantViolation)
	}
}

// withScore returns a copy of the state with sc appended, preserving all
// prior entries and their order.
func (s *State) withScore(sc Score) *State {
	scores := make([]Score, len(s.Scores)+1)
	copy(scores, s.Scores)
	scores[len(s.Scores)] = sc
	return &State{
		ID:       s.ID,
		RiderIDs: s.RiderIDs,
		Rules:    s.Rules,
		Scores:   scores,
	}
}

// Replay folds an ordered event history from the uninitialized state.
// Replaying the events produced by a session of Decide calls always
// reproduces the same state the session accumulated.
func Replay(events []Event) (*State, error) {
	var st *State
	for _, ev := range events {
		next, err := Evolve(st, ev)
		if err != nil {
			return nil, err
		}
		st = next
	}
	return st, nil
}
