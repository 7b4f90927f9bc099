package heat

// Rules fixes how many best scores of each category count toward a
// rider's total.
type Rules struct {
	WavesCounting int `json:"waves_counting"`
	JumpsCounting int `json:"jumps_counting"`
}

// State is the reconstructed heat aggregate. It is never stored directly;
// it only ever exists as the fold of a stream's events. A nil *State means
// the heat has not been created.
type State struct {
	ID       string
	RiderIDs []string
	Rules    Rules
	Scores   []Score
}

// HasRider reports whether riderID was entered in the heat at creation.
func (s *State) HasRider(riderID string) bool {
	for _, id := range s.RiderIDs {
		if id == riderID {
			return true
		}
	}
	return false
}

// hasScoreUUID reports whether uuid already appears among recorded scores.
func (s *State) hasScoreUUID(uuid string) bool {
	for _, sc := range s.Scores {
		if sc.UUID() == uuid {
			return true
		}
	}
	return false
}
