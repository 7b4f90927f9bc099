// Package app orchestrates the heat aggregate: it replays streams from
// the event log, runs the decider, appends the produced events and
// notifies the broadcast hub. It is the single seam between the pure
// domain and durable storage.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/heatcast/internal/adapters/eventlog"
	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/view"
	"github.com/okian/heatcast/pkg/logger"
	"github.com/okian/heatcast/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMailboxSize = 256
	streamPrefix       = "heat-"
)

// StreamID derives the log stream identifier for a heat.
func StreamID(heatID string) string {
	return streamPrefix + heatID
}

// Broadcaster receives appended events for fan-out. The hub implements
// it; tests substitute fakes.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, heatID string, ev heat.Event)
}

// Result is the outcome of a handled command.
type Result struct {
	HeatID string
	Events []heat.Event
}

// Service handles heat commands against the event log. Commands for one
// heat are serialized through a single-writer worker per stream, so the
// read-decide-append sequence never races with itself; the log's
// expected-version check backs that discipline up.
type Service struct {
	log     eventlog.Log
	builder *view.Builder

	mu          sync.Mutex
	workers     map[string]*streamWorker
	broadcaster Broadcaster
	mailboxSize int
	started     bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMailboxSize bounds each stream worker's command mailbox.
func WithMailboxSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.mailboxSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over the given log and viewer state builder.
func New(log eventlog.Log, builder *view.Builder, opts ...Option) *Service {
	s := &Service{
		log:         log,
		builder:     builder,
		workers:     make(map[string]*streamWorker),
		mailboxSize: defaultMailboxSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBroadcaster wires the hub in after construction; the hub needs the
// service as its snapshot source, so the two cannot be built in one go.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// Start marks the service ready to accept commands.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	s.started = true
	s.logger.Info(ctx, "heat service started", logger.Int("mailbox", s.mailboxSize))
	return nil
}

// Stop drains and stops every stream worker.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	workers := make([]*streamWorker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}
	s.workers = make(map[string]*streamWorker)
	s.mu.Unlock()

	for _, w := range workers {
		w.stop()
	}
	s.logger.Info(context.Background(), "heat service stopped")
}

// HandleCommand validates cmd against the heat's replayed state, appends
// the produced events and returns them. Validation rejections surface
// unchanged; nothing is written or broadcast for them.
func (s *Service) HandleCommand(ctx context.Context, cmd heat.Command) (Result, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCommandLatency(float64(time.Since(start).Milliseconds()))
	}()

	w, err := s.worker(cmd.HeatID())
	if err != nil {
		return Result{}, err
	}
	return w.submit(ctx, cmd)
}

// Snapshot rebuilds the heat's current scoreboard snapshot from its
// full event history. Implements the hub's snapshot source.
func (s *Service) Snapshot(ctx context.Context, heatID string) (view.ViewerState, error) {
	st, _, err := s.replay(ctx, StreamID(heatID))
	if err != nil {
		return view.ViewerState{}, err
	}
	if st == nil {
		return view.ViewerState{}, fmt.Errorf("heat %q: %w", heatID, heat.ErrNotFound)
	}
	return s.builder.Build(ctx, st), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]interface{}{
		"started":     s.started,
		"mailboxSize": s.mailboxSize,
		"streams":     len(s.workers),
	}
}

// worker returns the single writer for a heat, creating it on first use.
func (s *Service) worker(heatID string) (*streamWorker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrStopped
	}
	w, ok := s.workers[heatID]
	if !ok {
		w = newStreamWorker(s, heatID, s.mailboxSize)
		s.workers[heatID] = w
	}
	return w, nil
}

// replay reconstructs a heat's state by folding the stream's history
// through Evolve from the uninitialized state.
func (s *Service) replay(ctx context.Context, streamID string) (*heat.State, int64, error) {
	var st *heat.State
	version, err := s.log.Replay(ctx, streamID, func(ev heat.Event) error {
		next, err := heat.Evolve(st, ev)
		if err != nil {
			return err
		}
		st = next
		return nil
	})
	if err != nil {
		if errors.Is(err, heat.ErrInvariantViolation) {
			// Corrupt stream; must never be treated as a validation
			// outcome.
			s.logger.Error(ctx, "stream replay inconsistent",
				logger.String("stream_id", streamID), logger.Error(err))
		}
		return nil, 0, err
	}
	return st, version, nil
}

// process runs the read-decide-append sequence for one command. Called
// only from the heat's stream worker.
func (s *Service) process(ctx context.Context, cmd heat.Command) (Result, error) {
	heatID := cmd.HeatID()
	streamID := StreamID(heatID)

	st, version, err := s.replay(ctx, streamID)
	if err != nil {
		return Result{}, err
	}

	events, err := heat.Decide(cmd, st)
	if err != nil {
		metrics.RecordCommandRejected(rejectionReason(err))
		return Result{}, err
	}

	// The append is the unit of durability: without it there is no
	// broadcast.
	if _, err := s.log.Append(ctx, streamID, events, version); err != nil {
		return Result{}, err
	}
	metrics.RecordCommandAccepted()

	s.mu.Lock()
	b := s.broadcaster
	s.mu.Unlock()
	if b != nil {
		for _, ev := range events {
			b.BroadcastEvent(ctx, heatID, ev)
		}
	}

	return Result{HeatID: heatID, Events: events}, nil
}
