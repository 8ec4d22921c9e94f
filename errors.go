// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchrace

// Misuse messages. The race coordinator panics on programmer error
// rather than returning an error, matching the corresponding panics in
// package racing (httpx/racing: nil scheduler, etc.): these are
// violations of the sink contract that a correct caller never
// triggers.
const (
	msgNilTarget  = "fetchrace: nil target sink"
	msgNilClock   = "fetchrace: nil clock"
	msgDoubleDone = "fetchrace: Done called twice on the same racer"
	msgClosed     = "fetchrace: NewRacer called on a closed RaceCoordinator"
)
