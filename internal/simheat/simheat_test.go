package simheat

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/scoring"
	"github.com/okian/heatcast/internal/domain/view"
	"github.com/okian/heatcast/pkg/logger"
)

func TestRandomScore(t *testing.T) {
	Convey("Given the score generator", t, func() {
		Convey("Then every score is a valid judge score", func() {
			for i := 0; i < 1000; i++ {
				s := randomScore()
				So(s, ShouldBeGreaterThanOrEqualTo, 0)
				So(s, ShouldBeLessThanOrEqualTo, 10)
			}
		})
	})
}

func TestGenerateScores(t *testing.T) {
	Convey("Given a simulation config", t, func() {
		if err := logger.Init(); err != nil {
			t.Fatalf("logger init: %v", err)
		}
		config := &Config{
			HeatID:        "heat-1",
			Scores:        50,
			WavesCounting: 2,
			JumpsCounting: 3,
		}
		riderIDs := generateRiderIDs(4)
		stats := &Stats{}

		Convey("When generating scores", func() {
			subs, events, err := generateScores(context.Background(), config, riderIDs, stats)

			Convey("Then submissions and events line up", func() {
				So(err, ShouldBeNil)
				So(subs, ShouldHaveLength, 50)
				So(events, ShouldHaveLength, 51)
				So(stats.ScoresGenerated, ShouldEqual, 50)
			})

			Convey("Then the history opens with the heat creation", func() {
				So(err, ShouldBeNil)
				created, ok := events[0].(heat.HeatCreated)
				So(ok, ShouldBeTrue)
				So(created.HeatID, ShouldEqual, "heat-1")
				So(created.RiderIDs, ShouldResemble, riderIDs)
			})

			Convey("Then the history replays cleanly", func() {
				So(err, ShouldBeNil)
				st, replayErr := heat.Replay(events)
				So(replayErr, ShouldBeNil)
				So(st, ShouldNotBeNil)
				So(st.Scores, ShouldHaveLength, 50)
			})

			Convey("Then every jump submission names a known maneuver", func() {
				So(err, ShouldBeNil)
				for _, sub := range subs {
					if sub.suffix == "jumps" {
						So(heat.JumpType(sub.payload.JumpType).Valid(), ShouldBeTrue)
					} else {
						So(sub.payload.JumpType, ShouldBeEmpty)
					}
				}
			})
		})
	})
}

func TestVerifyRanking(t *testing.T) {
	Convey("Given an expected ranking", t, func() {
		if err := logger.Init(); err != nil {
			t.Fatalf("logger init: %v", err)
		}
		ctx := context.Background()
		expected := []scoring.RiderTotal{
			{RiderID: "r2", WaveTotal: 9, JumpTotal: 8, Total: 17},
			{RiderID: "r1", WaveTotal: 5, JumpTotal: 4, Total: 9},
		}
		served := view.ViewerState{
			HeatID: "heat-1",
			Riders: []view.RiderViewerData{
				{RiderTotal: expected[0], Position: 1},
				{RiderTotal: expected[1], Position: 2},
			},
		}

		Convey("When the served scoreboard matches", func() {
			stats := &Stats{}
			So(verifyRanking(ctx, served, expected, stats), ShouldBeNil)
			So(stats.RidersVerified, ShouldEqual, 2)
		})

		Convey("When the served order is wrong", func() {
			swapped := view.ViewerState{
				HeatID: "heat-1",
				Riders: []view.RiderViewerData{
					{RiderTotal: expected[1], Position: 1},
					{RiderTotal: expected[0], Position: 2},
				},
			}
			So(verifyRanking(ctx, swapped, expected, &Stats{}), ShouldNotBeNil)
		})

		Convey("When a total drifts", func() {
			drifted := view.ViewerState{
				HeatID: "heat-1",
				Riders: []view.RiderViewerData{
					{RiderTotal: scoring.RiderTotal{RiderID: "r2", Total: 16.5}, Position: 1},
					{RiderTotal: expected[1], Position: 2},
				},
			}
			So(verifyRanking(ctx, drifted, expected, &Stats{}), ShouldNotBeNil)
		})

		Convey("When a rider is missing", func() {
			short := view.ViewerState{
				HeatID: "heat-1",
				Riders: []view.RiderViewerData{
					{RiderTotal: expected[0], Position: 1},
				},
			}
			So(verifyRanking(ctx, short, expected, &Stats{}), ShouldNotBeNil)
		})
	})
}
