// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package waitcond provides a condition variable supporting
// absolute-deadline timed waits, the primitive the race coordinator
// uses to implement WaitForWinner and WaitForDone.
package waitcond

import (
	"sync"
	"time"

	"github.com/webscale/fetchrace/clock"
)

// A DeadlineWaiter is a condition variable, bound to a caller-supplied
// mutex, that can wait for a predicate to become true before an
// absolute deadline.
//
// A DeadlineWaiter must be constructed with New; its zero value is not
// usable. A DeadlineWaiter is not safe for concurrent use by itself;
// callers must hold the associated mutex before calling WaitUntil, and
// should typically hold it when calling Signal, exactly as with
// sync.Cond.
type DeadlineWaiter struct {
	clk  clock.Clock
	cond *sync.Cond
}

// New constructs a DeadlineWaiter guarded by mu and driven by clk.
//
// New panics if mu or clk is nil.
func New(mu sync.Locker, clk clock.Clock) *DeadlineWaiter {
	if mu == nil {
		panic("waitcond: nil mutex")
	}
	if clk == nil {
		panic("waitcond: nil clock")
	}
	return &DeadlineWaiter{
		clk:  clk,
		cond: sync.NewCond(mu),
	}
}

// WaitUntil blocks, with the associated mutex held, until pred returns
// true or deadlineMs (an absolute time on the DeadlineWaiter's clock)
// passes, whichever occurs first.
//
// The caller must hold the associated mutex before calling WaitUntil.
// pred is invoked with the mutex held, including on every spurious
// wakeup. WaitUntil returns true if pred became true before the
// deadline, or false on timeout; in either case, the mutex is held
// again on return.
//
// Successive calls to WaitUntil by different goroutines with
// increasing deadlines compose correctly: each call independently
// recomputes its own remaining time against clk on every wakeup, so
// there is no drift from time already spent waiting in a previous
// call.
func (w *DeadlineWaiter) WaitUntil(deadlineMs int64, pred func() bool) bool {
	for !pred() {
		remaining := deadlineMs - w.clk.NowMs()
		if remaining <= 0 {
			return false
		}
		w.timedWait(time.Duration(remaining) * time.Millisecond)
	}
	return true
}

// Signal wakes every goroutine blocked in WaitUntil on this
// DeadlineWaiter. The caller should typically hold the associated
// mutex when calling Signal, to ensure the state change the waiters
// are waiting on is visible once they wake.
func (w *DeadlineWaiter) Signal() {
	w.cond.Broadcast()
}

// timedWait releases the associated mutex, waits until either d has
// elapsed or Signal is called, and reacquires the mutex before
// returning.
func (w *DeadlineWaiter) timedWait(d time.Duration) {
	timer := time.AfterFunc(d, w.cond.Broadcast)
	defer timer.Stop()
	w.cond.Wait()
}
