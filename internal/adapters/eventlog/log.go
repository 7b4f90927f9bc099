// Package eventlog defines the contract for the append-only, per-stream
// event log the aggregate service replays from and appends to.
//
// The log is an external collaborator: implementations may be durable.
// The in-memory implementation here carries the contract for a single
// process.
package eventlog

import (
	"context"

	"github.com/okian/heatcast/internal/domain/heat"
)

// AnyVersion disables the expected-version check on Append.
const AnyVersion int64 = -1

// Log is an ordered, append-only, per-stream event sequence.
type Log interface {
	// Append adds events to the end of a stream, in order, as one unit
	// of durability. When expectedVersion is not AnyVersion and the
	// stream has advanced past it, Append fails with ErrVersionConflict
	// and writes nothing. Returns the stream's new version.
	Append(ctx context.Context, streamID string, events []heat.Event, expectedVersion int64) (int64, error)

	// Replay calls apply for every event of the stream in append order
	// and returns the version observed. A missing stream replays zero
	// events at version 0.
	Replay(ctx context.Context, streamID string, apply func(heat.Event) error) (int64, error)

	// Version returns the stream's current version without replaying.
	Version(ctx context.Context, streamID string) int64
}
