package app

import (
	"context"
	"fmt"

	"github.com/okian/heatcast/internal/domain/heat"
)

// request pairs a command with its caller's reply channel.
type request struct {
	ctx   context.Context
	cmd   heat.Command
	reply chan response
}

type response struct {
	result Result
	err    error
}

// streamWorker is the single writer for one heat's stream. All commands
// for the heat flow through its mailbox, so two concurrent commands can
// never both read the same pre-command state.
type streamWorker struct {
	heatID  string
	svc     *Service
	mailbox chan request
	quit    chan struct{}
	done    chan struct{}
}

func newStreamWorker(svc *Service, heatID string, mailboxSize int) *streamWorker {
	w := &streamWorker{
		heatID:  heatID,
		svc:     svc,
		mailbox: make(chan request, mailboxSize),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *streamWorker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			// Drain callers that already queued so nobody hangs.
			for {
				select {
				case req := <-w.mailbox:
					req.reply <- response{err: ErrStopped}
				default:
					return
				}
			}
		case req := <-w.mailbox:
			result, err := w.svc.process(req.ctx, req.cmd)
			req.reply <- response{result: result, err: err}
		}
	}
}

// submit queues cmd and waits for the worker's answer.
func (w *streamWorker) submit(ctx context.Context, cmd heat.Command) (Result, error) {
	req := request{ctx: ctx, cmd: cmd, reply: make(chan response, 1)}
	select {
	case w.mailbox <- req:
	case <-w.quit:
		return Result{}, ErrStopped
	case <-ctx.Done():
		return Result{}, fmt.Errorf("submit %q: %w", w.heatID, ctx.Err())
	}

	select {
	case resp := <-req.reply:
		return resp.result, resp.err
	case <-ctx.Done():
		return Result{}, fmt.Errorf("await %q: %w", w.heatID, ctx.Err())
	}
}

// stop ends the worker after the in-flight command finishes.
func (w *streamWorker) stop() {
	close(w.quit)
	<-w.done
}
