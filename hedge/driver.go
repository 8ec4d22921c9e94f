// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import (
	"context"
	"log"
	"time"

	"github.com/webscale/fetchrace"
	"github.com/webscale/fetchrace/clock"
	"github.com/webscale/fetchrace/sink"
)

// A Fetcher performs one fetch attempt, writing its output through r.
// It must follow the sink.TargetSink contract: at most one
// HeadersComplete call, any number of Write/Flush calls after that,
// and exactly one terminal Done call.
//
// Run invokes each Fetcher on its own goroutine.
type Fetcher func(ctx context.Context, r *fetchrace.RacerSink)

// Options configures a hedged fetch driven by Run.
type Options struct {
	// T1 is how long Run waits for the primary fetch to produce
	// output before considering a secondary hedge.
	T1 time.Duration
	// T2 is how long Run waits, from the start of the fetch, for any
	// racer (primary or hedge) to produce output before giving up.
	T2 time.Duration
	// T3 is how long Run waits, from the start of the fetch, for the
	// winning racer to finish once chosen.
	T3 time.Duration

	// Starter decides whether the secondary hedge scheduled at T1
	// should actually be spawned. If nil, AlwaysStart is used.
	Starter Starter

	// Logger, if non-nil, receives a line for each hedge-relevant
	// event: a secondary hedge being spawned or skipped, a winner
	// being latched, and either deadline being exceeded.
	Logger *log.Logger
}

func (o Options) starter() Starter {
	if o.Starter == nil {
		return AlwaysStart
	}
	return o.Starter
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Run executes the normative hedged-fetch driver pattern: it spawns
// primary against a new racer, waits until Options.T1 for a winner and
// spawns secondary against another new racer if none has appeared (and
// Options.Starter allows it), waits until Options.T2 for a winner and
// gives up with ErrNoWinner if still none, waits until Options.T3 for
// the winner to finish and gives up with ErrWinnerIncomplete if it
// hasn't, and otherwise returns nil with target populated by the
// winner's output.
//
// Run always closes the race coordinator it creates before returning,
// which disqualifies any racer still in flight; a disqualified racer
// that is not yet done continues running to completion on its own
// goroutine and self-releases when it eventually calls Done.
func Run(ctx context.Context, target sink.TargetSink, clk clock.Clock, opts Options, primary, secondary Fetcher) error {
	start := clk.NowMs()
	race := fetchrace.NewRaceCoordinator(target, clk)
	defer race.Close()

	primaryRacer := race.NewRacer()
	go primary(ctx, primaryRacer)

	if !race.WaitForWinner(start + opts.T1.Milliseconds()) {
		if secondary != nil && opts.starter().Start() {
			opts.logf("hedge: spawning secondary hedge after %s", opts.T1)
			secondaryRacer := race.NewRacer()
			go secondary(ctx, secondaryRacer)
		} else {
			opts.logf("hedge: skipping secondary hedge after %s", opts.T1)
		}
	}

	if !race.WaitForWinner(start + opts.T2.Milliseconds()) {
		opts.logf("hedge: no winner after %s", opts.T2)
		return ErrNoWinner
	}

	winner := race.Winner()
	opts.logf("hedge: winner %s latched", winner.ID())

	if !winner.WaitForDone(start + opts.T3.Milliseconds()) {
		opts.logf("hedge: winner %s did not finish after %s", winner.ID(), opts.T3)
		return ErrWinnerIncomplete
	}

	return nil
}
