package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	eventlog "github.com/okian/heatcast/internal/adapters/eventlog"
	riderdir "github.com/okian/heatcast/internal/adapters/riderdir"
	app "github.com/okian/heatcast/internal/app"
	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/internal/domain/view"
	"github.com/okian/heatcast/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []heat.Event
	heats  []string
}

func (b *recordingBroadcaster) BroadcastEvent(_ context.Context, heatID string, ev heat.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	b.heats = append(b.heats, heatID)
}

func (b *recordingBroadcaster) seen() []heat.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]heat.Event, len(b.events))
	copy(out, b.events)
	return out
}

func newTestService(t *testing.T) (*app.Service, *recordingBroadcaster) {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}
	log := eventlog.NewMemoryLog()
	builder := view.NewBuilder(riderdir.New(riderdir.WithProfiles(map[string]view.Profile{
		"r1": {Country: "ES", SailNumber: "E-11", LastName: "Iglesias"},
	})))
	svc := app.New(log, builder, app.WithMailboxSize(16))
	hub := &recordingBroadcaster{}
	svc.SetBroadcaster(hub)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("service start: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc, hub
}

func createCmd(id string, riders ...string) heat.CreateHeat {
	return heat.CreateHeat{
		ID:       id,
		RiderIDs: riders,
		Rules:    heat.Rules{WavesCounting: 2, JumpsCounting: 2},
	}
}

func TestHandleCommand(t *testing.T) {
	Convey("Given a started heat service", t, func() {
		svc, hub := newTestService(t)
		ctx := context.Background()

		Convey("When handling a valid create command", func() {
			res, err := svc.HandleCommand(ctx, createCmd("heat-1", "r1", "r2"))

			Convey("Then the event is returned and broadcast", func() {
				So(err, ShouldBeNil)
				So(res.HeatID, ShouldEqual, "heat-1")
				So(res.Events, ShouldHaveLength, 1)
				So(res.Events[0].Type(), ShouldEqual, heat.TypeHeatCreated)
				So(hub.seen(), ShouldHaveLength, 1)
			})

			Convey("And a second create is rejected without a broadcast", func() {
				_, err := svc.HandleCommand(ctx, createCmd("heat-1", "r1"))
				So(errors.Is(err, heat.ErrAlreadyExists), ShouldBeTrue)
				So(hub.seen(), ShouldHaveLength, 1)
			})
		})

		Convey("When scoring a heat across commands", func() {
			_, err := svc.HandleCommand(ctx, createCmd("heat-1", "r1", "r2"))
			So(err, ShouldBeNil)

			_, err = svc.HandleCommand(ctx, heat.AddWaveScore{
				ID: "heat-1", ScoreUUID: "s1", RiderID: "r1", Score: 8.5, At: time.Now(),
			})
			So(err, ShouldBeNil)

			Convey("Then the replayed state sees earlier commands", func() {
				_, err := svc.HandleCommand(ctx, heat.AddWaveScore{
					ID: "heat-1", ScoreUUID: "s1", RiderID: "r2", Score: 4, At: time.Now(),
				})
				So(errors.Is(err, heat.ErrDuplicateScoreUUID), ShouldBeTrue)
			})

			Convey("And broadcasts follow append order", func() {
				_, err := svc.HandleCommand(ctx, heat.AddJumpScore{
					ID: "heat-1", ScoreUUID: "s2", RiderID: "r2", Score: 6, Jump: heat.JumpBackLoop, At: time.Now(),
				})
				So(err, ShouldBeNil)

				events := hub.seen()
				So(events, ShouldHaveLength, 3)
				So(events[0].Type(), ShouldEqual, heat.TypeHeatCreated)
				So(events[1].Type(), ShouldEqual, heat.TypeWaveScoreAdded)
				So(events[2].Type(), ShouldEqual, heat.TypeJumpScoreAdded)
			})
		})

		Convey("When scoring a heat that does not exist", func() {
			_, err := svc.HandleCommand(ctx, heat.AddWaveScore{
				ID: "heat-404", ScoreUUID: "s1", RiderID: "r1", Score: 5, At: time.Now(),
			})
			So(errors.Is(err, heat.ErrNotFound), ShouldBeTrue)
			So(hub.seen(), ShouldBeEmpty)
		})

		Convey("When many commands race on one heat", func() {
			_, err := svc.HandleCommand(ctx, createCmd("heat-1", "r1"))
			So(err, ShouldBeNil)

			const attempts = 20
			var wg sync.WaitGroup
			errs := make([]error, attempts)
			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					// Same score uuid on purpose: exactly one must win.
					_, errs[i] = svc.HandleCommand(ctx, heat.AddWaveScore{
						ID: "heat-1", ScoreUUID: "contested", RiderID: "r1", Score: 5, At: time.Now(),
					})
				}(i)
			}
			wg.Wait()

			Convey("Then the single-writer discipline admits exactly one", func() {
				accepted := 0
				for _, err := range errs {
					if err == nil {
						accepted++
					} else {
						So(errors.Is(err, heat.ErrDuplicateScoreUUID), ShouldBeTrue)
					}
				}
				So(accepted, ShouldEqual, 1)
			})
		})

		Convey("When the service is stopped", func() {
			svc.Stop()
			_, err := svc.HandleCommand(ctx, createCmd("heat-1", "r1"))
			So(errors.Is(err, app.ErrStopped), ShouldBeTrue)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given a heat with recorded scores", t, func() {
		svc, _ := newTestService(t)
		ctx := context.Background()

		_, err := svc.HandleCommand(ctx, createCmd("heat-1", "r1", "r2"))
		So(err, ShouldBeNil)
		_, err = svc.HandleCommand(ctx, heat.AddWaveScore{ID: "heat-1", ScoreUUID: "s1", RiderID: "r2", Score: 9, At: time.Now()})
		So(err, ShouldBeNil)
		_, err = svc.HandleCommand(ctx, heat.AddWaveScore{ID: "heat-1", ScoreUUID: "s2", RiderID: "r1", Score: 7, At: time.Now()})
		So(err, ShouldBeNil)

		Convey("When building the snapshot", func() {
			vs, err := svc.Snapshot(ctx, "heat-1")

			Convey("Then it carries the ranked, enriched scoreboard", func() {
				So(err, ShouldBeNil)
				So(vs.HeatID, ShouldEqual, "heat-1")
				So(vs.Riders, ShouldHaveLength, 2)
				So(vs.Riders[0].RiderID, ShouldEqual, "r2")
				So(vs.Riders[0].Position, ShouldEqual, 1)
				So(vs.Riders[1].RiderID, ShouldEqual, "r1")
				So(vs.Riders[1].SailNumber, ShouldEqual, "E-11")
			})
		})

		Convey("When the heat does not exist", func() {
			_, err := svc.Snapshot(ctx, "heat-404")
			So(errors.Is(err, heat.ErrNotFound), ShouldBeTrue)
		})
	})
}
