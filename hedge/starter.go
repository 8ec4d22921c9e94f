// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import (
	"time"

	"golang.org/x/time/rate"
)

// A Starter decides whether a scheduled secondary hedge should
// actually be spawned.
//
// Implementations of Starter must be safe for concurrent use by
// multiple goroutines.
type Starter interface {
	// Start returns true if a hedge that has reached its T1 deadline
	// should really be spawned, or false if it should be skipped,
	// leaving only the fetches already racing.
	Start() bool
}

// AlwaysStart is a Starter that starts every scheduled hedge. It is
// the default used by Run when Options.Starter is nil.
var AlwaysStart Starter = alwaysStarter{}

type alwaysStarter struct{}

func (alwaysStarter) Start() bool { return true }

// NewLimitedStarter constructs a Starter that throttles secondary
// hedges using a token-bucket rate limiter: at most burst hedges may
// start in a burst, refilling at r hedges per second thereafter.
//
// This addresses the same concern as a hand-rolled sliding-window
// throttle (skip starting a redundant hedge if too many have already
// started recently) using the ecosystem's rate limiter instead.
func NewLimitedStarter(r rate.Limit, burst int) Starter {
	return &limitedStarter{limiter: rate.NewLimiter(r, burst)}
}

type limitedStarter struct {
	limiter *rate.Limiter
}

func (s *limitedStarter) Start() bool {
	return s.limiter.AllowN(time.Now(), 1)
}
