package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/publisher"
)

// Ticker runs one status cycle. *publisher.Publisher satisfies it.
type Ticker interface {
	Tick(ctx context.Context) (publisher.Outcome, error)
}

// Request is an on-demand tick. Done, when set, is called from the loop
// goroutine with the result of the tick that served the request.
type Request struct {
	Source string
	Done   func(publisher.Outcome, error)
}

// StatusTicker drives the publisher: once on start, then every interval,
// plus manual requests. Ticks never overlap; a slow tick delays the next one.
type StatusTicker struct {
	ticker        Ticker
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
	manualTrigger chan Request

	mu      sync.Mutex
	stopped bool
}

// NewStatusTicker creates a ticker with a single pending-request slot.
func NewStatusTicker(t Ticker, log logger.Logger, interval time.Duration) *StatusTicker {
	return &StatusTicker{
		ticker:        t,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		manualTrigger: make(chan Request, 1),
	}
}

// Start launches the loop. The first tick runs right away.
func (st *StatusTicker) Start(ctx context.Context) {
	go func() {
		defer close(st.doneCh)
		defer st.drain()

		st.run(ctx, "startup", nil)

		ticker := time.NewTicker(st.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.run(ctx, "interval", nil)
			case req := <-st.manualTrigger:
				st.logger.Info("manual refresh triggered", logger.String("source", req.Source))
				st.run(ctx, req.Source, req.Done)
			case <-st.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Trigger queues a manual tick. It returns false when one is already pending
// or the loop has exited.
func (st *StatusTicker) Trigger(req Request) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.stopped {
		return false
	}
	select {
	case st.manualTrigger <- req:
		return true
	default:
		st.logger.Debug("refresh already pending", logger.String("source", req.Source))
		return false
	}
}

// Stop ends the loop after the running tick, if any, returns.
func (st *StatusTicker) Stop() {
	close(st.stopCh)
}

// Done is closed once the loop has exited.
func (st *StatusTicker) Done() <-chan struct{} {
	return st.doneCh
}

// drain closes the request slot. A request still waiting in it is answered
// as skipped so its caller is not left hanging.
func (st *StatusTicker) drain() {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.stopped = true
	select {
	case req := <-st.manualTrigger:
		st.logger.Info("dropping pending refresh on shutdown", logger.String("source", req.Source))
		if req.Done != nil {
			req.Done(publisher.OutcomeSkipped, nil)
		}
	default:
	}
}

func (st *StatusTicker) run(ctx context.Context, source string, done func(publisher.Outcome, error)) {
	if ctx.Err() != nil {
		if done != nil {
			done(publisher.OutcomeSkipped, nil)
		}
		return
	}

	outcome, err := st.ticker.Tick(ctx)
	switch {
	case err != nil:
		st.logger.Error("status tick failed",
			logger.String("source", source),
			logger.String("outcome", string(outcome)),
			logger.Error(err))
	case outcome == publisher.OutcomeEdited:
		st.logger.Debug("status tick done",
			logger.String("source", source),
			logger.String("outcome", string(outcome)))
	default:
		st.logger.Info("status tick done",
			logger.String("source", source),
			logger.String("outcome", string(outcome)))
	}

	if done != nil {
		done(outcome, err)
	}
}
