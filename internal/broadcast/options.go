package broadcast

import (
	"time"

	"github.com/okian/heatcast/pkg/logger"
)

// Option applies a configuration option to the Hub.
type Option func(*Hub)

// WithHeartbeatInterval sets the ping interval for connections.
func WithHeartbeatInterval(interval time.Duration) Option {
	return func(h *Hub) {
		if interval > 0 {
			h.interval = interval
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}
