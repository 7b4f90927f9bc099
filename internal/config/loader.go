package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if HEATCAST_CONFIG is set
//  3. env (prefix HEATCAST_)
func Load(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv("HEATCAST_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: HEATCAST_ADDR, HEATCAST_LOG_LEVEL, ...
	// Keys keep their underscores to match the koanf tags.
	envProvider := env.Provider("HEATCAST_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "heatcast_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.HeartbeatIntervalMS <= 0:
		return fmt.Errorf("%w: heartbeat_interval_ms must be positive", ErrInvalidConfig)
	case c.CommandMailboxSize <= 0:
		return fmt.Errorf("%w: command_mailbox_size must be positive", ErrInvalidConfig)
	}
	return nil
}
