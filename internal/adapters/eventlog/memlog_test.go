package eventlog_test

import (
	"context"
	"errors"
	"testing"

	eventlog "github.com/okian/heatcast/internal/adapters/eventlog"
	"github.com/okian/heatcast/internal/domain/heat"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryLog(t *testing.T) {
	Convey("Given an in-memory event log", t, func() {
		ctx := context.Background()
		log := eventlog.NewMemoryLog()

		created := heat.HeatCreated{HeatID: "heat-1", RiderIDs: []string{"r1"}, Rules: heat.Rules{WavesCounting: 1, JumpsCounting: 1}}
		scored := heat.WaveScoreAdded{HeatID: "heat-1", ScoreUUID: "s1", RiderID: "r1", Score: 5}

		Convey("When replaying a missing stream", func() {
			var seen []heat.Event
			version, err := log.Replay(ctx, "heat-nope", func(ev heat.Event) error {
				seen = append(seen, ev)
				return nil
			})
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 0)
			So(seen, ShouldBeEmpty)
		})

		Convey("When appending and replaying in order", func() {
			v1, err := log.Append(ctx, "heat-1", []heat.Event{created}, 0)
			So(err, ShouldBeNil)
			So(v1, ShouldEqual, 1)

			v2, err := log.Append(ctx, "heat-1", []heat.Event{scored}, v1)
			So(err, ShouldBeNil)
			So(v2, ShouldEqual, 2)

			var seen []heat.Event
			version, err := log.Replay(ctx, "heat-1", func(ev heat.Event) error {
				seen = append(seen, ev)
				return nil
			})
			So(err, ShouldBeNil)
			So(version, ShouldEqual, 2)
			So(seen, ShouldResemble, []heat.Event{heat.Event(created), heat.Event(scored)})
		})

		Convey("When appending at a stale version", func() {
			_, err := log.Append(ctx, "heat-1", []heat.Event{created}, 0)
			So(err, ShouldBeNil)

			_, err = log.Append(ctx, "heat-1", []heat.Event{scored}, 0)

			Convey("Then the append is rejected and nothing is written", func() {
				So(errors.Is(err, eventlog.ErrVersionConflict), ShouldBeTrue)
				So(log.Version(ctx, "heat-1"), ShouldEqual, 1)
			})
		})

		Convey("When appending without a version check", func() {
			_, err := log.Append(ctx, "heat-1", []heat.Event{created}, eventlog.AnyVersion)
			So(err, ShouldBeNil)
			_, err = log.Append(ctx, "heat-1", []heat.Event{scored}, eventlog.AnyVersion)
			So(err, ShouldBeNil)
			So(log.Version(ctx, "heat-1"), ShouldEqual, 2)
		})

		Convey("When a replay callback fails", func() {
			_, err := log.Append(ctx, "heat-1", []heat.Event{created}, 0)
			So(err, ShouldBeNil)

			boom := errors.New("boom")
			_, err = log.Replay(ctx, "heat-1", func(heat.Event) error { return boom })
			So(errors.Is(err, boom), ShouldBeTrue)
		})

		Convey("When the log is closed", func() {
			So(log.Close(), ShouldBeNil)

			_, err := log.Append(ctx, "heat-1", []heat.Event{created}, eventlog.AnyVersion)
			So(errors.Is(err, eventlog.ErrClosed), ShouldBeTrue)
		})
	})
}
