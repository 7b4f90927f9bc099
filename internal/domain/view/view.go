// Package view builds the display-ready, ranked snapshot of a heat for
// spectators and scoreboards.
package view

import (
	"context"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/scoring"
)

// Profile carries the display metadata resolved for one rider.
type Profile struct {
	Country    string `json:"country"`
	SailNumber string `json:"sail_number"`
	LastName   string `json:"last_name"`
}

// Directory resolves rider display metadata. Implementations return a
// zero Profile for unknown riders rather than an error; a lookup error
// also degrades to the zero Profile so a missing roster entry never
// breaks a live scoreboard.
type Directory interface {
	Lookup(ctx context.Context, riderID string) (Profile, error)
}

// RiderViewerData is one ranked scoreboard row.
type RiderViewerData struct {
	scoring.RiderTotal
	Position   int    `json:"position"`
	Country    string `json:"country"`
	SailNumber string `json:"sail_number"`
	LastName   string `json:"last_name"`
}

// ViewerState is the full scoreboard snapshot for one heat.
type ViewerState struct {
	HeatID string            `json:"heat_id"`
	Riders []RiderViewerData `json:"riders"`
}

// Builder assembles viewer states from replayed heat state.
type Builder struct {
	dir Directory
}

// NewBuilder creates a Builder backed by the given rider directory.
func NewBuilder(dir Directory) *Builder {
	return &Builder{dir: dir}
}

// Build ranks the heat's riders and enriches each row with directory
// metadata. Positions are 1-based over the already-sorted ranking.
func (b *Builder) Build(ctx context.Context, st *heat.State) ViewerState {
	if st == nil {
		return ViewerState{}
	}
	totals := scoring.RiderTotals(st)
	riders := make([]RiderViewerData, 0, len(totals))
	for i, total := range totals {
		profile, err := b.dir.Lookup(ctx, total.RiderID)
		if err != nil {
			profile = Profile{}
		}
		riders = append(riders, RiderViewerData{
			RiderTotal: total,
			Position:   i + 1,
			Country:    profile.Country,
			SailNumber: profile.SailNumber,
			LastName:   profile.LastName,
		})
	}
	return ViewerState{HeatID: st.ID, Riders: riders}
}
