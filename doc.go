// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchrace implements a fetch-race coordinator: a primitive that
runs several competing fetches toward a single destination sink,
selects the first fetch to produce output as the sole winner, and
transparently discards the work of all others.

The problem this solves is hedged latency. When a primary fetch may
stall, secondary fetches can be started opportunistically, and the
target sink receives a stream of bytes from whichever source wakes up
first, without the caller having to implement cancellation, draining,
or lifetime management of the losers.

Create a RaceCoordinator bound to a target sink.TargetSink, ask it for a
new RacerSink for each fetch attempt, and hand the racer to a fetcher in
place of the real target:

	race := fetchrace.NewRaceCoordinator(target, clock.System())
	defer race.Close()

	go runFetch(race.NewRacer())

	if !race.WaitForWinner(start + 15) {
		go runBackupFetch(race.NewRacer())
	}
	if !race.WaitForWinner(start + 500) {
		return false // No fetch produced output in time.
	}
	if !race.Winner().WaitForDone(start + 1000) {
		return false // Winner was writing, but too slowly.
	}
	// target now holds the winner's output.

RaceCoordinator owns every RacerSink it creates. Losing racers may
finish long after the RaceCoordinator itself has been closed; Close
disqualifies every racer still attached, which severs its link to the
target sink and, once that racer's fetch calls Done, releases it.

See package github.com/webscale/fetchrace/hedge for a ready-made driver
implementing exactly this caller-side pattern.
*/
package fetchrace
