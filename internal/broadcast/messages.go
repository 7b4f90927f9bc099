package broadcast

import (
	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/view"
)

// Wire message type names shared with clients.
const (
	msgTypeSubscribe = "subscribe"
	msgTypePong      = "pong"
	msgTypeEvent     = "event"
	msgTypeState     = "state"
	msgTypePing      = "ping"
)

// Subscription list entries accepted in subscribe messages.
const (
	subscriptionEvents = "events"
	subscriptionState  = "state"
)

// clientMessage is the inbound shape. Unrecognized types and malformed
// payloads are ignored to tolerate protocol drift from older clients.
type clientMessage struct {
	Type          string   `json:"type"`
	Subscriptions []string `json:"subscriptions"`
}

// eventBody is the payload of an event envelope.
type eventBody struct {
	Type string     `json:"type"`
	Data heat.Event `json:"data"`
}

// eventEnvelope is the outbound message for raw events.
type eventEnvelope struct {
	Type  string    `json:"type"`
	Event eventBody `json:"event"`
}

// stateEnvelope is the outbound message for viewer state snapshots.
type stateEnvelope struct {
	Type  string           `json:"type"`
	State view.ViewerState `json:"state"`
}

// pingMessage is the outbound heartbeat.
type pingMessage struct {
	Type string `json:"type"`
}

func newEventEnvelope(ev heat.Event) eventEnvelope {
	return eventEnvelope{
		Type:  msgTypeEvent,
		Event: eventBody{Type: ev.Type(), Data: ev},
	}
}

func newStateEnvelope(vs view.ViewerState) stateEnvelope {
	return stateEnvelope{Type: msgTypeState, State: vs}
}

func newPingMessage() pingMessage {
	return pingMessage{Type: msgTypePing}
}
