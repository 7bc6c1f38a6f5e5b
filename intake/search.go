// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package intake

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/exam-intake/models"
)

const (
	// MinQueryLength is the shortest identifier prefix that is searched.
	MinQueryLength = 4

	// DefaultDebounce is the delay before an automatic search fires.
	DefaultDebounce = 400 * time.Millisecond
)

// LookupFunc searches the store for an identifier. A nil slice with a nil
// error means nothing was found.
type LookupFunc func(ctx context.Context, passport string) ([]models.CandidateRecord, error)

// SearchState is a snapshot of one identifier field's lookup.
type SearchState struct {
	Query    string
	Seq      uint64 // latest sequence number; responses for older ones are discarded
	Applied  uint64 // sequence number whose result is displayed
	Busy     bool
	Results  []models.CandidateRecord
	NotFound bool
}

// Coordinator sequences debounced lookups for one identifier field. Only
// the response to the most recently issued lookup may change its state.
type Coordinator struct {
	ctx    context.Context
	lookup LookupFunc
	delay  time.Duration

	mu        sync.Mutex
	state     SearchState
	issued    string // query of the newest issued lookup
	issuedSeq uint64
	timer     *time.Timer
	timerGen  uint64
	onChange  func(SearchState)
	version   uint64

	// Notifications are delivered in state order. Snapshots older than
	// one already queued are dropped.
	notifyMu sync.Mutex
	queued   uint64
	pending  []notification
	draining bool

	inflight sync.WaitGroup
}

type notification struct {
	fn    func(SearchState)
	state SearchState
}

// NewCoordinator returns a coordinator whose lookups run under ctx.
func NewCoordinator(ctx context.Context, lookup LookupFunc, delay time.Duration) *Coordinator {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Coordinator{ctx: ctx, lookup: lookup, delay: delay}
}

// OnChange registers a callback invoked with visible state changes, oldest
// first. It is called without the coordinator's lock held and may call back
// into the coordinator.
func (c *Coordinator) OnChange(fn func(SearchState)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Input records a keystroke. Short input clears the results at once;
// anything else (re)starts the debounce timer. A query that differs from
// the one in flight advances the sequence number so its response is
// discarded when it arrives.
func (c *Coordinator) Input(raw string) {
	query := models.NormalizeIdentifier(raw)

	c.mu.Lock()
	c.state.Query = query
	c.stopTimerLocked()
	if len(query) < MinQueryLength {
		c.idleLocked()
		c.unlockAndNotify()
		return
	}
	if query != c.issued {
		c.state.Seq++
	}
	gen := c.timerGen
	c.timer = time.AfterFunc(c.delay, func() { c.fire(gen, query) })
	c.unlockAndNotify()
}

// SearchNow bypasses the debounce delay.
func (c *Coordinator) SearchNow(raw string) {
	query := models.NormalizeIdentifier(raw)

	c.mu.Lock()
	c.state.Query = query
	c.stopTimerLocked()
	if len(query) < MinQueryLength {
		c.idleLocked()
	} else {
		c.issueLocked(query, true)
	}
	c.unlockAndNotify()
}

// State returns a copy of the current state.
func (c *Coordinator) State() SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Wait blocks until every issued lookup has returned.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// Stop cancels a pending debounce timer. Lookups already issued still
// complete and are fenced as usual.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopTimerLocked()
	if c.state.Busy && c.issuedSeq != c.state.Seq {
		// Nothing current is in flight any more.
		c.state.Busy = false
		c.unlockAndNotify()
		return
	}
	c.mu.Unlock()
}

func (c *Coordinator) fire(gen uint64, query string) {
	c.mu.Lock()
	if gen != c.timerGen || query != c.state.Query {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.issueLocked(query, false)
	c.unlockAndNotify()
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

// idleLocked clears the field's results. The sequence number advances so
// that a lookup still in flight cannot repopulate the cleared field.
func (c *Coordinator) idleLocked() {
	c.state.Seq++
	c.state.Applied = c.state.Seq
	c.state.Busy = false
	c.state.Results = nil
	c.state.NotFound = false
	c.issued = ""
}

func (c *Coordinator) issueLocked(query string, manual bool) {
	c.state.Seq++
	seq := c.state.Seq
	c.issued, c.issuedSeq = query, seq
	c.state.Busy = true
	c.state.NotFound = false
	if manual {
		c.state.Results = nil
	}

	c.inflight.Add(1)
	go c.run(seq, query)
}

func (c *Coordinator) run(seq uint64, query string) {
	defer c.inflight.Done()

	results, err := c.lookup(c.ctx, query)

	c.mu.Lock()
	if seq != c.state.Seq {
		c.mu.Unlock()
		slog.Debug("stale search response discarded", "seq", seq, "query", query)
		return
	}
	if err != nil {
		slog.Warn("search failed, treating as not found", "query", query, "error", err)
		results = nil
	}
	c.state.Applied = seq
	c.state.Busy = false
	c.state.Results = results
	c.state.NotFound = len(results) == 0
	c.unlockAndNotify()
}

func (c *Coordinator) snapshotLocked() SearchState {
	s := c.state
	s.Results = slices.Clone(c.state.Results)
	return s
}

// unlockAndNotify releases c.mu and reports the state it held.
func (c *Coordinator) unlockAndNotify() {
	c.version++
	version := c.version
	snapshot := c.snapshotLocked()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		c.deliver(version, notification{fn: fn, state: snapshot})
	}
}

// deliver queues n and, unless another goroutine is already draining the
// queue, runs callbacks until it is empty.
func (c *Coordinator) deliver(version uint64, n notification) {
	c.notifyMu.Lock()
	if version <= c.queued {
		c.notifyMu.Unlock()
		return
	}
	c.queued = version
	c.pending = append(c.pending, n)
	if c.draining {
		c.notifyMu.Unlock()
		return
	}

	c.draining = true
	for len(c.pending) > 0 {
		next := c.pending[0]
		c.pending = c.pending[1:]
		c.notifyMu.Unlock()
		next.fn(next.state)
		c.notifyMu.Lock()
	}
	c.draining = false
	c.notifyMu.Unlock()
}
