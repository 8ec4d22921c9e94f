// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package hedge implements the caller-side hedged-fetch driver pattern
that package fetchrace's own documentation describes: start a primary
fetch, spawn secondary fetches if the first hasn't produced output by
configurable deadlines, and give up if nothing has produced output, or
finished producing output, by further deadlines.

	opts := hedge.Options{T1: 15 * time.Millisecond, T2: 500 * time.Millisecond, T3: time.Second}
	err := hedge.Run(ctx, target, clock.System(), opts, primaryFetch, backupFetch)

Package hedge also provides a Starter that throttles how often secondary
hedges may fire (NewLimitedStarter, built on golang.org/x/time/rate) and
a way to load Options from a small YAML configuration document
(LoadOptions).
*/
package hedge
