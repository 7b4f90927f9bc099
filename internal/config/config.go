// Package config defines service configuration structures and loading
// hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers an optional YAML file and env vars on top.
// - External errors must be wrapped via this package's error kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// HeartbeatIntervalMS sets the viewer connection ping interval.
	HeartbeatIntervalMS int `koanf:"heartbeat_interval_ms"`

	// CommandMailboxSize bounds each heat's command mailbox.
	CommandMailboxSize int `koanf:"command_mailbox_size"`

	// StreamCapacity pre-sizes event slices in the in-memory log.
	StreamCapacity int `koanf:"stream_capacity"`

	// RosterPath points to an optional YAML rider roster for the
	// rider directory; empty means an empty roster.
	RosterPath string `koanf:"roster_path"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		HeartbeatIntervalMS: 30_000,
		CommandMailboxSize:  256,
		StreamCapacity:      64,
		RosterPath:          "",
	}
}
