package eventlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/pkg/metrics"
)

// Default configuration constants.
const (
	defaultStreamCapacity = 64
)

// MemoryLog implements Log with per-stream in-memory slices. Appends and
// replays for different streams proceed under one RWMutex; the per-stream
// serialization discipline lives in the aggregate service, not here.
type MemoryLog struct {
	mu             sync.RWMutex
	streams        map[string][]heat.Event
	streamCapacity int
	closed         bool
}

// NewMemoryLog creates an in-memory event log with configuration options.
func NewMemoryLog(opts ...Option) *MemoryLog {
	l := &MemoryLog{
		streams:        make(map[string][]heat.Event),
		streamCapacity: defaultStreamCapacity,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append adds events to the stream as one unit: on any failure nothing
// is written.
func (l *MemoryLog) Append(ctx context.Context, streamID string, events []heat.Event, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("append %q: %w", streamID, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, fmt.Errorf("append %q: %w", streamID, ErrClosed)
	}

	stream, ok := l.streams[streamID]
	current := int64(len(stream))
	if expectedVersion != AnyVersion && current != expectedVersion {
		metrics.RecordAppendConflict()
		return current, fmt.Errorf("append %q at version %d, expected %d: %w",
			streamID, current, expectedVersion, ErrVersionConflict)
	}

	if !ok {
		stream = make([]heat.Event, 0, l.streamCapacity)
	}
	l.streams[streamID] = append(stream, events...)
	metrics.RecordEventsAppended(len(events))
	metrics.UpdateStreamCount(len(l.streams))

	return current + int64(len(events)), nil
}

// Replay walks the stream in append order.
func (l *MemoryLog) Replay(ctx context.Context, streamID string, apply func(heat.Event) error) (int64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordReplayLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("replay %q: %w", streamID, err)
	}

	l.mu.RLock()
	stream := l.streams[streamID]
	l.mu.RUnlock()

	for _, ev := range stream {
		if err := apply(ev); err != nil {
			return 0, fmt.Errorf("replay %q: %w", streamID, err)
		}
	}
	return int64(len(stream)), nil
}

// Version returns the stream's current length.
func (l *MemoryLog) Version(_ context.Context, streamID string) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(len(l.streams[streamID]))
}

// Close rejects further appends. Replays of already-written streams keep
// working so in-flight snapshot builds can finish during shutdown.
func (l *MemoryLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
