// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import "errors"

// ErrNoWinner is returned by Run when no racer produced any output
// before Options.T2 elapsed.
var ErrNoWinner = errors.New("hedge: no racer produced output before the deadline")

// ErrWinnerIncomplete is returned by Run when a winner was chosen but
// did not finish writing before Options.T3 elapsed.
var ErrWinnerIncomplete = errors.New("hedge: winner did not finish before the deadline")
