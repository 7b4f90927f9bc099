package scoring_test

import (
	"testing"

	"github.com/okian/heatcast/internal/domain/heat"
	scoring "github.com/okian/heatcast/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func wave(uuid, rider string, score float64) heat.Score {
	return heat.WaveScore{ScoreUUID: uuid, RiderID: rider, Score: score}
}

func jump(uuid, rider string, score float64, t heat.JumpType) heat.Score {
	return heat.JumpScore{ScoreUUID: uuid, RiderID: rider, Score: score, Jump: t}
}

func TestWaveTotal(t *testing.T) {
	Convey("Given a rider's wave scores", t, func() {
		scores := []heat.Score{
			wave("s1", "r1", 8.5),
			wave("s2", "r1", 7.0),
			wave("s3", "r2", 9.9),
		}

		Convey("When two waves count", func() {
			So(scoring.WaveTotal("r1", scores, 2), ShouldEqual, 15.5)
		})

		Convey("When only the best wave counts", func() {
			So(scoring.WaveTotal("r1", scores, 1), ShouldEqual, 8.5)
		})

		Convey("When the rule allows more waves than the rider has", func() {
			So(scoring.WaveTotal("r1", scores, 5), ShouldEqual, 15.5)
		})

		Convey("When the rider has no wave scores", func() {
			So(scoring.WaveTotal("r3", scores, 2), ShouldEqual, 0)
		})

		Convey("Then repeated wave scores stack, unlike jumps", func() {
			repeated := []heat.Score{wave("s1", "r1", 6), wave("s2", "r1", 6)}
			So(scoring.WaveTotal("r1", repeated, 2), ShouldEqual, 12)
		})
	})
}

func TestJumpTotal(t *testing.T) {
	Convey("Given a rider's jump attempts", t, func() {
		scores := []heat.Score{
			jump("s1", "r1", 7.5, heat.JumpForward),
			jump("s2", "r1", 6.5, heat.JumpForward),
			jump("s3", "r1", 5.0, heat.JumpBackLoop),
			jump("s4", "r1", 4.0, heat.JumpCheeseRoll),
		}

		Convey("When two jumps count", func() {
			Convey("Then repeated maneuvers collapse to the best attempt first", func() {
				// best-per-type 7.5/5.0/4.0, top two = 12.5
				So(scoring.JumpTotal("r1", scores, 2), ShouldEqual, 12.5)
			})
		})

		Convey("When fewer distinct maneuvers exist than the rule allows", func() {
			So(scoring.JumpTotal("r1", scores, 5), ShouldEqual, 16.5)
		})

		Convey("When another rider shares the heat", func() {
			So(scoring.JumpTotal("r2", scores, 2), ShouldEqual, 0)
		})
	})
}

func TestRiderTotals(t *testing.T) {
	Convey("Given a created heat with scores", t, func() {
		st := &heat.State{
			ID:       "heat-1",
			RiderIDs: []string{"r1", "r2", "r3"},
			Rules:    heat.Rules{WavesCounting: 2, JumpsCounting: 1},
			Scores: []heat.Score{
				wave("s1", "r1", 4.0),
				wave("s2", "r2", 6.0),
				wave("s3", "r3", 5.0),
				jump("s4", "r1", 4.0, heat.JumpForward),
				jump("s5", "r2", 4.0, heat.JumpBackLoop),
			},
		}

		Convey("When computing rider totals", func() {
			totals := scoring.RiderTotals(st)

			Convey("Then riders rank descending by total", func() {
				So(totals, ShouldHaveLength, 3)
				So(totals[0].RiderID, ShouldEqual, "r2")
				So(totals[0].Total, ShouldEqual, 10.0)
				So(totals[1].RiderID, ShouldEqual, "r1")
				So(totals[1].WaveTotal, ShouldEqual, 4.0)
				So(totals[1].JumpTotal, ShouldEqual, 4.0)
				So(totals[2].RiderID, ShouldEqual, "r3")
			})
		})

		Convey("When two riders tie", func() {
			st.Scores = []heat.Score{
				wave("s1", "r2", 8.0),
				wave("s2", "r1", 8.0),
			}
			totals := scoring.RiderTotals(st)

			Convey("Then entry order breaks the tie", func() {
				So(totals[0].RiderID, ShouldEqual, "r1")
				So(totals[1].RiderID, ShouldEqual, "r2")
			})
		})

		Convey("When the heat does not exist", func() {
			So(scoring.RiderTotals(nil), ShouldBeNil)
		})
	})
}
