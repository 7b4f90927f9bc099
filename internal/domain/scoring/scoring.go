// Package scoring turns a heat's raw score history into per-rider totals
// and a ranking. Everything here is a pure function over replayed state.
package scoring

import (
	"sort"

	"github.com/okian/heatcast/internal/domain/heat"
)

// RiderTotal is the derived per-rider result. It is recomputed on demand
// from the full score history and never persisted.
type RiderTotal struct {
	RiderID   string  `json:"rider_id"`
	WaveTotal float64 `json:"wave_total"`
	JumpTotal float64 `json:"jump_total"`
	Total     float64 `json:"total"`
}

// WaveTotal sums the rider's wavesCounting best wave scores. Every wave
// score counts independently; fewer scores than the rule allows simply
// sum what exists.
func WaveTotal(riderID string, scores []heat.Score, wavesCounting int) float64 {
	var waves []float64
	for _, s := range scores {
		if w, ok := s.(heat.WaveScore); ok && w.RiderID == riderID {
			waves = append(waves, w.Score)
		}
	}
	return sumTopN(waves, wavesCounting)
}

// JumpTotal sums the rider's jumpsCounting best jumps, counting each
// maneuver at most once: repeated attempts of the same jump type do not
// stack, only the best attempt per type survives.
func JumpTotal(riderID string, scores []heat.Score, jumpsCounting int) float64 {
	bestPerType := make(map[heat.JumpType]float64)
	for _, s := range scores {
		j, ok := s.(heat.JumpScore)
		if !ok || j.RiderID != riderID {
			continue
		}
		if best, seen := bestPerType[j.Jump]; !seen || j.Score > best {
			bestPerType[j.Jump] = j.Score
		}
	}
	bests := make([]float64, 0, len(bestPerType))
	for _, v := range bestPerType {
		bests = append(bests, v)
	}
	return sumTopN(bests, jumpsCounting)
}

// RiderTotals computes totals for every rider in the heat's original
// order and ranks them descending by total. The sort is stable, so equal
// totals keep the riders' entry order as the tie-break.
func RiderTotals(st *heat.State) []RiderTotal {
	if st == nil {
		return nil
	}
	totals := make([]RiderTotal, 0, len(st.RiderIDs))
	for _, riderID := range st.RiderIDs {
		wave := WaveTotal(riderID, st.Scores, st.Rules.WavesCounting)
		jump := JumpTotal(riderID, st.Scores, st.Rules.JumpsCounting)
		totals = append(totals, RiderTotal{
			RiderID:   riderID,
			WaveTotal: wave,
			JumpTotal: jump,
			Total:     wave + jump,
		})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

// sumTopN sorts descending and sums the first n values.
func sumTopN(values []float64, n int) float64 {
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if n > len(values) {
		n = len(values)
	}
	var total float64
	for _, v := range values[:n] {
		total += v
	}
	return total
}
