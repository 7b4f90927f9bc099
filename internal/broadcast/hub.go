// Package broadcast fans heat events and viewer state snapshots out to
// live subscriber connections, one registry per service instance.
package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/view"
	"github.com/okian/heatcast/pkg/logger"
	"github.com/okian/heatcast/pkg/metrics"
)

// Default hub configuration constants.
const (
	defaultHeartbeatInterval = 30 * time.Second
)

// SnapshotSource rebuilds a heat's current viewer state from its event
// history. The aggregate service implements this over its replay path.
type SnapshotSource interface {
	Snapshot(ctx context.Context, heatID string) (view.ViewerState, error)
}

// Subscriptions is one connection's declared interest.
type Subscriptions struct {
	Events bool
	State  bool
}

// Hub owns the per-heat connection registry. It is created at service
// start, shut down with Close, and safe for concurrent use. Broadcasts
// for one heat must be issued in append order by the caller; the hub
// sends synchronously so that order is preserved.
type Hub struct {
	mu    sync.Mutex
	heats map[string]map[Conn]Subscriptions

	// Heartbeat stop channels, keyed by connection. Side table rather
	// than state on the connection so removal cancels exactly once.
	heartbeats map[Conn]chan struct{}

	snapshots SnapshotSource
	interval  time.Duration
	logger    logger.Logger
	closed    bool
}

// NewHub creates a hub that rebuilds snapshots through source.
func NewHub(source SnapshotSource, opts ...Option) *Hub {
	h := &Hub{
		heats:      make(map[string]map[Conn]Subscriptions),
		heartbeats: make(map[Conn]chan struct{}),
		snapshots:  source,
		interval:   defaultHeartbeatInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Get().Named("hub")
	}
	return h
}

// AddConnection registers conn under heatID with no subscriptions yet
// and arms its heartbeat.
func (h *Hub) AddConnection(heatID string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	conns, ok := h.heats[heatID]
	if !ok {
		conns = make(map[Conn]Subscriptions)
		h.heats[heatID] = conns
	}
	if _, registered := conns[conn]; registered {
		return
	}
	conns[conn] = Subscriptions{}

	stop := make(chan struct{})
	h.heartbeats[conn] = stop
	go h.heartbeat(heatID, conn, stop)

	h.updateGaugesLocked()
}

// RemoveConnection unregisters conn, cancels its heartbeat and drops its
// subscription preference. The heat's entry disappears once empty.
func (h *Hub) RemoveConnection(heatID string, conn Conn) {
	h.mu.Lock()
	h.removeLocked(heatID, conn)
	h.mu.Unlock()
}

// SetSubscriptions updates a registered connection's preference. Unknown
// connections are a no-op.
func (h *Hub) SetSubscriptions(heatID string, conn Conn, subs Subscriptions) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.heats[heatID]
	if !ok {
		return
	}
	if _, registered := conns[conn]; !registered {
		return
	}
	conns[conn] = subs
	h.updateGaugesLocked()
}

// HandleClientMessage parses one inbound client message. Malformed JSON
// and unrecognized types are silently ignored; subscribe messages update
// the connection's preference, pong clears the liveness concern.
func (h *Hub) HandleClientMessage(heatID string, conn Conn, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	switch msg.Type {
	case msgTypeSubscribe:
		var subs Subscriptions
		for _, s := range msg.Subscriptions {
			switch s {
			case subscriptionEvents:
				subs.Events = true
			case subscriptionState:
				subs.State = true
			}
		}
		h.SetSubscriptions(heatID, conn, subs)
	case msgTypePong:
		// Liveness acknowledged; nothing to update.
	default:
	}
}

// BroadcastEvent pushes ev to every events-subscriber of the heat and,
// when at least one state-subscriber exists, rebuilds the viewer state
// once and pushes it to every state-subscriber. A failed send prunes
// only the failing connection; the remaining deliveries proceed.
func (h *Hub) BroadcastEvent(ctx context.Context, heatID string, ev heat.Event) {
	type target struct {
		conn Conn
		subs Subscriptions
	}

	h.mu.Lock()
	conns, ok := h.heats[heatID]
	if !ok {
		h.mu.Unlock()
		return
	}
	targets := make([]target, 0, len(conns))
	wantState := false
	for conn, subs := range conns {
		targets = append(targets, target{conn: conn, subs: subs})
		if subs.State {
			wantState = true
		}
	}
	h.mu.Unlock()

	envelope := newEventEnvelope(ev)
	for _, t := range targets {
		if !t.subs.Events {
			continue
		}
		if err := t.conn.WriteJSON(envelope); err != nil {
			h.logger.Warn(ctx, "event send failed, pruning connection",
				logger.String("heat_id", heatID), logger.Error(err))
			metrics.RecordSendFailure()
			h.RemoveConnection(heatID, t.conn)
			continue
		}
		metrics.RecordEventBroadcast()
	}

	if !wantState {
		return
	}

	vs, err := h.snapshots.Snapshot(ctx, heatID)
	if err != nil {
		h.logger.Error(ctx, "viewer state rebuild failed",
			logger.String("heat_id", heatID), logger.Error(err))
		return
	}
	metrics.RecordSnapshotBuild()

	stateMsg := newStateEnvelope(vs)
	for _, t := range targets {
		if !t.subs.State {
			continue
		}
		if err := t.conn.WriteJSON(stateMsg); err != nil {
			h.logger.Warn(ctx, "state send failed, pruning connection",
				logger.String("heat_id", heatID), logger.Error(err))
			metrics.RecordSendFailure()
			h.RemoveConnection(heatID, t.conn)
			continue
		}
		metrics.RecordStateBroadcast()
	}
}

// Close tears down every connection and stops all heartbeats.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for heatID, conns := range h.heats {
		for conn := range conns {
			h.removeLocked(heatID, conn)
		}
	}
}

// heartbeat pings conn on a fixed interval until stopped. A failed ping
// removes the connection, which in turn stops this loop.
func (h *Hub) heartbeat(heatID string, conn Conn, stop chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := conn.WriteJSON(newPingMessage()); err != nil {
				metrics.RecordSendFailure()
				h.RemoveConnection(heatID, conn)
				return
			}
			metrics.RecordHeartbeatSent()
		}
	}
}

// removeLocked unregisters conn under h.mu. Safe to call for connections
// that were already removed.
func (h *Hub) removeLocked(heatID string, conn Conn) {
	conns, ok := h.heats[heatID]
	if !ok {
		return
	}
	if _, registered := conns[conn]; !registered {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.heats, heatID)
	}

	if stop, armed := h.heartbeats[conn]; armed {
		close(stop)
		delete(h.heartbeats, conn)
	}
	_ = conn.Close()

	h.updateGaugesLocked()
}

// updateGaugesLocked refreshes the connection gauges under h.mu.
func (h *Hub) updateGaugesLocked() {
	var total, events, state int
	for _, conns := range h.heats {
		for _, subs := range conns {
			total++
			if subs.Events {
				events++
			}
			if subs.State {
				state++
			}
		}
	}
	metrics.UpdateActiveConnections(total)
	metrics.UpdateEventSubscribers(events)
	metrics.UpdateStateSubscribers(state)
}
