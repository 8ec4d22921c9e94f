// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchrace

import (
	"sync"

	"github.com/webscale/fetchrace/clock"
	"github.com/webscale/fetchrace/sink"
	"github.com/webscale/fetchrace/waitcond"
)

// A RaceCoordinator runs a set of competing RacerSinks toward a single
// target sink.TargetSink and arbitrates which one of them, the
// winner, is allowed to actually write to the target.
//
// RaceCoordinator owns every RacerSink it creates (via NewRacer) for
// as long as the RaceCoordinator is open. Close disqualifies every
// racer still attached: a disqualified racer's subsequent writes are
// silently dropped, and ownership of it passes to the racer itself
// until its fetch calls Done, at which point it is released. This
// lets a losing fetch keep running to completion, on its own
// goroutine, long after the RaceCoordinator that spawned it has gone
// away.
//
// A RaceCoordinator must be constructed with NewRaceCoordinator; its
// zero value is not usable. A RaceCoordinator is safe for concurrent
// use by multiple goroutines.
type RaceCoordinator struct {
	target sink.TargetSink
	clk    clock.Clock

	mu     sync.Mutex
	winner *RacerSink
	signal *waitcond.DeadlineWaiter
	racers []*RacerSink
	closed bool
}

// NewRaceCoordinator constructs a RaceCoordinator that will write the
// winning racer's output to target.
//
// NewRaceCoordinator panics if target or clk is nil.
func NewRaceCoordinator(target sink.TargetSink, clk clock.Clock) *RaceCoordinator {
	if target == nil {
		panic(msgNilTarget)
	}
	if clk == nil {
		panic(msgNilClock)
	}
	c := &RaceCoordinator{
		target: target,
		clk:    clk,
	}
	c.signal = waitcond.New(&c.mu, clk)
	return c
}

// NewRacer constructs a new RacerSink attached to this coordinator,
// competing to be the first to write to the coordinator's target
// sink. The racer's request headers are snapshotted from the target's
// request headers at construction time; the caller must ensure
// request headers do not mutate for the duration of the race.
//
// The returned RacerSink is valid for as long as the RaceCoordinator
// is open, and for as long afterward as the racer's own fetch keeps
// running (see Close).
//
// NewRacer panics if called after Close.
func (c *RaceCoordinator) NewRacer() *RacerSink {
	// Built before taking c.mu: newRacerSink calls into the target
	// sink, which must not happen while a race lock is held.
	r := newRacerSink(c, c.target)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic(msgClosed)
	}
	c.racers = append(c.racers, r)
	return r
}

// WaitForWinner blocks until a winner has been chosen or deadlineMs
// (an absolute time on the coordinator's clock) passes, whichever
// occurs first. It returns true if a winner was chosen before the
// deadline, false on timeout.
//
// WaitForWinner is safe to call repeatedly, including concurrently
// with racers still racing. Once WaitForWinner has returned true, it
// (and every later call, and Winner) will continue to return true for
// the remaining life of the RaceCoordinator: successive calls with
// later deadlines are the idiomatic way to drive a hedging policy.
func (c *RaceCoordinator) WaitForWinner(deadlineMs int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signal.WaitUntil(deadlineMs, func() bool { return c.winner != nil })
}

// Winner returns the racer that has won the race, or nil if no racer
// has won yet. Once WaitForWinner has returned true, Winner will
// never again return nil.
func (c *RaceCoordinator) Winner() *RacerSink {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.winner
}

// finish is called by a racer attempting to claim victory. It latches
// racer as the winner if no winner has been chosen yet, and reports
// whether racer is the (possibly pre-existing) winner.
func (c *RaceCoordinator) finish(racer *RacerSink) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.winner == nil {
		c.winner = racer
		c.signal.Signal()
	}
	return c.winner == racer
}

// Close disqualifies every racer created by this coordinator that is
// still attached. A disqualified racer can no longer write to the
// target sink, even if it had already won; it is responsible for its
// own lifetime from this point on, and is released once its fetch
// calls Done (immediately, if it is already done).
//
// Close is idempotent. After Close returns, NewRacer panics if called
// again.
func (c *RaceCoordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	racers := c.racers
	c.racers = nil
	c.mu.Unlock()

	for _, r := range racers {
		r.disqualify()
	}
}
