// Package riderdir implements the rider directory collaborator with an
// in-memory roster. Reference data (riders, brackets) is owned elsewhere;
// this adapter only resolves display metadata for the scoreboard.
package riderdir

import (
	"context"
	"sync"

	"github.com/okian/heatcast/internal/domain/view"
)

// Directory is an in-memory view.Directory. Unknown riders resolve to a
// zero Profile so a live scoreboard never fails on a roster gap.
type Directory struct {
	mu       sync.RWMutex
	profiles map[string]view.Profile
}

// Option applies a configuration option to the Directory.
type Option func(*Directory)

// WithProfiles seeds the roster.
func WithProfiles(profiles map[string]view.Profile) Option {
	return func(d *Directory) {
		for id, p := range profiles {
			d.profiles[id] = p
		}
	}
}

// New creates a Directory with configuration options.
func New(opts ...Option) *Directory {
	d := &Directory{
		profiles: make(map[string]view.Profile),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lookup resolves one rider's display metadata.
func (d *Directory) Lookup(_ context.Context, riderID string) (view.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.profiles[riderID], nil
}

// Register adds or replaces a rider's metadata.
func (d *Directory) Register(_ context.Context, riderID string, profile view.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[riderID] = profile
}
