package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/blockscope-dev/blockscope/internal/scanclient"
)

var (
	// ErrStopped is returned when events are dispatched to a controller that is not running.
	ErrStopped = errors.New("scan controller is not running")
	// ErrScanRejected is returned by Submit when the submission was ignored.
	ErrScanRejected = errors.New("a scan is already in progress")
)

// Scanner is the scanning service the controller depends on.
type Scanner interface {
	ScanContract(ctx context.Context, code, name string) (*scanclient.ScanResult, error)
}

type envelope struct {
	event Event
	reply chan result
}

type result struct {
	state    State
	accepted bool
}

// Controller owns the scan workflow state. All mutations happen on the goroutine
// running Run; other goroutines send events and read snapshots.
type Controller struct {
	scanner Scanner
	logger  hclog.Logger
	now     func() time.Time

	events  chan envelope
	stopped chan struct{}

	mu          sync.RWMutex
	snapshot    State
	subscribers map[int]chan State
	nextSub     int
}

// New creates a controller in the initial state. Call Run to start processing events.
func New(scanner Scanner, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{
		scanner:     scanner,
		logger:      logger,
		now:         time.Now,
		events:      make(chan envelope),
		stopped:     make(chan struct{}),
		snapshot:    NewState(),
		subscribers: map[int]chan State{},
	}
}

// Run processes events until ctx is cancelled. It must be called exactly once.
// Scans started by the controller run with ctx.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.stopped)

	state := NewState()
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("scan controller stopped")
			return
		case env := <-c.events:
			next, effect := Reduce(state, env.event)
			accepted := effect != nil
			next.Version = state.Version + 1
			state = next
			c.publish(state)

			if effect != nil {
				c.logger.Info("scan started", "contract", effect.Name)
				go c.scan(ctx, *effect)
			}
			if env.reply != nil {
				env.reply <- result{state: state.Clone(), accepted: accepted}
			}
		}
	}
}

// Dispatch sends an event to the controller and returns the state after it was applied.
func (c *Controller) Dispatch(ctx context.Context, e Event) (State, error) {
	res, err := c.dispatch(ctx, e)
	return res.state, err
}

func (c *Controller) dispatch(ctx context.Context, e Event) (result, error) {
	env := envelope{event: e, reply: make(chan result, 1)}
	select {
	case c.events <- env:
	case <-c.stopped:
		return result{}, ErrStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
	select {
	case res := <-env.reply:
		return res, nil
	case <-c.stopped:
		return result{}, ErrStopped
	}
}

// Submit dispatches a scan submission and waits until the scan resolves.
// It returns ErrScanRejected when the controller ignored the submission.
func (c *Controller) Submit(ctx context.Context, code, name string) (State, error) {
	updates, cancel := c.Subscribe()
	defer cancel()

	res, err := c.dispatch(ctx, SubmitScan{Code: code, Name: name})
	if err != nil {
		return State{}, err
	}
	if !res.accepted {
		return res.state, ErrScanRejected
	}

	for {
		select {
		case st := <-updates:
			if st.Version > res.state.Version && !st.Loading {
				return st, nil
			}
		case <-c.stopped:
			return c.Snapshot(), ErrStopped
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot.Clone()
}

// Subscribe returns a channel receiving the latest state after each change.
// Slow subscribers only see the most recent state.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan State, 1)
	c.subscribers[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *Controller) publish(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = state.Clone()
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- state.Clone()
	}
}

// scan calls the scanning service and feeds the outcome back into the event loop.
func (c *Controller) scan(ctx context.Context, req StartScan) {
	var event Event
	func() {
		defer func() {
			if r := recover(); r != nil {
				event = ScanFailed{Err: fmt.Errorf("scan failed unexpectedly: %v", r)}
			}
		}()

		res, err := c.scanner.ScanContract(ctx, req.Code, req.Name)
		if err != nil {
			event = ScanFailed{Err: err}
			return
		}
		event = ScanSucceeded{Result: res, At: c.now().UTC()}
	}()

	switch ev := event.(type) {
	case ScanFailed:
		c.logger.Warn("scan failed", "contract", req.Name, "error", ev.Err)
	case ScanSucceeded:
		count := 0
		if ev.Result != nil {
			count = len(ev.Result.Findings)
		}
		c.logger.Info("scan completed", "contract", req.Name, "findings", count)
	}

	select {
	case c.events <- envelope{event: event}:
	case <-c.stopped:
	}
}
