// Package autosave debounces edits to an in-memory record into single
// consolidated writes against the persistence layer.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scsmith60/messhall/internal/model"
)

var autosaveLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	autosaveLogger = l
}

// Config wires a Coordinator to its record. Snapshot must return a full
// copy of every tracked field; the coordinator never sends diffs.
type Config[S any] struct {
	// Delay is the quiet period after the last NotifyChanged before a
	// save fires.
	Delay time.Duration

	// SavedDisplay is how long the saved status shows before reverting
	// to idle.
	SavedDisplay time.Duration

	Snapshot func() S
	Validate func() error
	Write    func(ctx context.Context, snap S) error

	// OnStatus receives every status transition. Never called after
	// Close. Runs under the coordinator lock, so it must not call back
	// into the Coordinator.
	OnStatus func(model.SaveStatus)
}

// Coordinator guarantees that after a quiet period following the last
// edit, exactly one write carrying the full current snapshot reaches the
// store, with at most one write in flight at any time.
type Coordinator[S any] struct {
	cfg Config[S]

	mu       sync.Mutex
	timer    *time.Timer
	revert   *time.Timer
	inFlight bool
	closed   bool
	status   model.SaveStatus
}

func New[S any](cfg Config[S]) *Coordinator[S] {
	if cfg.Delay <= 0 {
		cfg.Delay = time.Second
	}
	if cfg.SavedDisplay <= 0 {
		cfg.SavedDisplay = 1500 * time.Millisecond
	}

	return &Coordinator[S]{
		cfg:    cfg,
		status: model.Idle(),
	}
}

// NotifyChanged (re)arms the delay timer. It never performs I/O itself;
// the write happens once the timer elapses without being re-armed.
func (c *Coordinator[S]) NotifyChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.timer == nil {
		c.timer = time.AfterFunc(c.cfg.Delay, c.fire)
	} else {
		c.timer.Reset(c.cfg.Delay)
	}
}

// Status returns the last reported save status.
func (c *Coordinator[S]) Status() model.SaveStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Close cancels any pending timer so no write starts after teardown. An
// already in-flight write is left to complete or fail on its own; its
// outcome is not reported anywhere.
func (c *Coordinator[S]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.timer != nil {
		c.timer.Stop()
	}
	if c.revert != nil {
		c.revert.Stop()
	}
}

// fire runs on the timer goroutine when the quiet period elapses.
func (c *Coordinator[S]) fire() {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	// A write is already in flight: drop this tick. The next
	// NotifyChanged re-arms normally once the write completes, so the
	// newest state goes out on the following cycle. A tick that lands
	// here with no later edit is never persisted.
	if c.inFlight {
		autosaveLogger.Debug().Msg("Save tick dropped, write in flight")
		c.mu.Unlock()
		return
	}

	if err := c.cfg.Validate(); err != nil {
		c.setStatusLocked(model.SaveError(err.Error()))
		c.mu.Unlock()
		return
	}

	c.inFlight = true
	snap := c.cfg.Snapshot()
	c.setStatusLocked(model.Saving())
	c.mu.Unlock()

	// Background context on purpose: Close must not cancel a write
	// that already started.
	err := c.cfg.Write(context.Background(), snap)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false

	if err != nil {
		autosaveLogger.Debug().Err(err).Msg("Autosave write failed")
		c.setStatusLocked(model.SaveError(err.Error()))
		return
	}

	c.setStatusLocked(model.Saved())
	c.scheduleRevertLocked()
}

// scheduleRevertLocked arms the saved-to-idle display timer. The revert
// only lands if the status is still saved when it fires.
func (c *Coordinator[S]) scheduleRevertLocked() {
	if c.revert == nil {
		c.revert = time.AfterFunc(c.cfg.SavedDisplay, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.closed || c.status.State != model.SaveStateSaved {
				return
			}
			c.setStatusLocked(model.Idle())
		})
	} else {
		c.revert.Reset(c.cfg.SavedDisplay)
	}
}

func (c *Coordinator[S]) setStatusLocked(status model.SaveStatus) {
	c.status = status
	if c.closed || c.cfg.OnStatus == nil {
		return
	}
	c.cfg.OnStatus(status)
}
