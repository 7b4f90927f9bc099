package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/heatcast/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given default configuration", t, func() {
		cfg := config.New()

		Convey("Then the defaults are sane", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.HeartbeatIntervalMS, ShouldEqual, 30_000)
			So(cfg.CommandMailboxSize, ShouldBeGreaterThan, 0)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the loader", t, func() {
		// Convey re-runs this body once per leaf branch, but t.Setenv
		// cleanups only fire when the whole test ends, so clear any
		// values leaked from sibling branches before each run.
		for _, key := range []string{"HEATCAST_ADDR", "HEATCAST_LOG_LEVEL", "HEATCAST_CONFIG"} {
			So(os.Unsetenv(key), ShouldBeNil)
		}

		ctx := context.Background()

		Convey("When no file or env overrides exist", func() {
			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
		})

		Convey("When env vars override defaults", func() {
			t.Setenv("HEATCAST_ADDR", ":7070")
			t.Setenv("HEATCAST_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.LogLevel, ShouldEqual, "debug")
		})

		Convey("When a YAML file is layered under env", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "heatcast.yaml")
			So(os.WriteFile(path, []byte("addr: \":6060\"\nheartbeat_interval_ms: 5000\n"), 0o600), ShouldBeNil)
			t.Setenv("HEATCAST_CONFIG", path)

			Convey("Then the file values apply", func() {
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.HeartbeatIntervalMS, ShouldEqual, 5000)
			})

			Convey("And env still wins over the file", func() {
				t.Setenv("HEATCAST_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.HeartbeatIntervalMS, ShouldEqual, 5000)
			})
		})

		Convey("When the file does not exist", func() {
			t.Setenv("HEATCAST_CONFIG", "/definitely/not/here.yaml")
			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})

		Convey("When a value fails validation", func() {
			t.Setenv("HEATCAST_ADDR", "")
			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
