package logger_test

import (
	"context"
	"errors"
	"testing"

	logger "github.com/okian/heatcast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When logging at each level", func() {
			l := logger.Get()
			ctx := context.Background()
			So(func() {
				l.Debug(ctx, "debug message", logger.String("k", "v"))
				l.Info(ctx, "info message", logger.Int("n", 1))
				l.Warn(ctx, "warn message", logger.Float64("f", 1.5))
				l.Error(ctx, "error message", logger.Error(errors.New("boom")))
			}, ShouldNotPanic)
		})

		Convey("When deriving a named logger", func() {
			So(logger.Named("hub"), ShouldNotBeNil)
		})

		Convey("When setting the level from a string", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("nope"), ShouldNotBeNil)
		})

		Convey("When syncing", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
