// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchrace

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/webscale/fetchrace/sink"
	"github.com/webscale/fetchrace/waitcond"
)

// A RacerSink is one competing attempt in a fetch race. It implements
// sink.TargetSink so a fetcher cannot tell it apart from writing
// directly to the real target.
//
// The first RacerSink to reach any output-producing method (Write,
// Flush, or HeadersComplete) becomes the race's winner and, from then
// on, proxies every call through to the underlying target sink. Every
// other RacerSink's output-producing methods silently succeed without
// writing anything.
//
// A RacerSink must be constructed by a RaceCoordinator's NewRacer; its
// zero value is not usable. A RacerSink is safe for concurrent use by
// multiple goroutines.
type RacerSink struct {
	id             uuid.UUID
	requestHeaders http.Header

	mu     sync.Mutex
	parent *RaceCoordinator // nil once disqualified
	target sink.TargetSink  // nil once disqualified

	responseHeaders      http.Header
	extraResponseHeaders http.Header
	contentLength        int64
	contentLengthKnown   bool

	done     bool
	doneCond *waitcond.DeadlineWaiter
}

func newRacerSink(parent *RaceCoordinator, target sink.TargetSink) *RacerSink {
	r := &RacerSink{
		id:                   uuid.New(),
		requestHeaders:       cloneHeader(target.RequestHeaders()),
		parent:               parent,
		target:               target,
		responseHeaders:      make(http.Header),
		extraResponseHeaders: make(http.Header),
	}
	r.doneCond = waitcond.New(&r.mu, parent.clk)
	return r
}

func cloneHeader(h http.Header) http.Header {
	if h == nil {
		return make(http.Header)
	}
	return h.Clone()
}

// ID returns a unique identifier assigned to this racer at
// construction time, for log correlation between a hedging driver's
// log lines and the underlying fetcher's own logs.
func (r *RacerSink) ID() uuid.UUID {
	return r.id
}

// ClaimWin attempts to register this racer as the race's winner. It
// returns true if this racer is the winner (whether it was the first
// to claim the win, or had already claimed it), or false if another
// racer already won, or if this racer has been disqualified.
//
// ClaimWin is idempotent for the true winner: once it has returned
// true for a given racer, it returns true for every subsequent call by
// that same racer. For every other racer, it returns false forever.
func (r *RacerSink) ClaimWin() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parent == nil {
		return false
	}
	return r.parent.finish(r)
}

// WaitForDone blocks until this racer's fetch calls Done, or
// deadlineMs (an absolute time on the owning coordinator's clock)
// passes, whichever occurs first. It returns true if the fetch
// completed before the deadline, false on timeout.
//
// WaitForDone should only be called by the coordinator-owning caller,
// and only while the racer remains attached to its coordinator (that
// is, before the coordinator is closed).
func (r *RacerSink) WaitForDone(deadlineMs int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneCond.WaitUntil(deadlineMs, func() bool { return r.done })
}

// RequestHeaders returns the snapshot of request headers taken when
// this racer was created.
func (r *RacerSink) RequestHeaders() http.Header {
	return r.requestHeaders
}

// ResponseHeaders returns this racer's response headers, to be
// populated by the fetcher before HeadersComplete.
func (r *RacerSink) ResponseHeaders() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responseHeaders
}

// ExtraResponseHeaders returns this racer's extra response headers, to
// be populated by the fetcher before HeadersComplete.
func (r *RacerSink) ExtraResponseHeaders() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.extraResponseHeaders
}

// SetContentLength records the content length the fetcher discovered
// for this racer's response.
func (r *RacerSink) SetContentLength(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contentLength = n
	r.contentLengthKnown = true
}

// ContentLengthKnown reports whether SetContentLength has been called.
func (r *RacerSink) ContentLengthKnown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contentLengthKnown
}

// ContentLength returns the content length set by SetContentLength, or
// zero if ContentLengthKnown is false.
func (r *RacerSink) ContentLength() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contentLength
}

// HeadersComplete claims the win and, if successful, copies this
// racer's response headers, extra response headers, and known content
// length onto the target sink before forwarding HeadersComplete to it.
// This is the single point at which response metadata crosses over to
// the winner's output path. If this racer is not the winner, it
// silently does nothing.
func (r *RacerSink) HeadersComplete() {
	if !r.ClaimWin() {
		return
	}
	r.mu.Lock()
	target := r.target
	responseHeaders := r.responseHeaders
	extraResponseHeaders := r.extraResponseHeaders
	contentLength := r.contentLength
	contentLengthKnown := r.contentLengthKnown
	r.mu.Unlock()
	if target == nil {
		// Won the claim, but was disqualified before this call
		// reached the target (the Winner+Detached+not-yet-Done
		// state): the racer keeps the win but has no target left,
		// so its output is dropped.
		return
	}
	for k, v := range responseHeaders {
		target.ResponseHeaders()[k] = v
	}
	for k, v := range extraResponseHeaders {
		target.ExtraResponseHeaders()[k] = v
	}
	if contentLengthKnown {
		target.SetContentLength(contentLength)
	}
	target.HeadersComplete()
}

// Write claims the win and, if successful, forwards p to the target
// sink. If this racer is not the winner, the bytes are silently
// dropped and Write still reports success, since a dropped write is
// not a failure from the fetcher's perspective.
func (r *RacerSink) Write(p []byte) (bool, error) {
	if !r.ClaimWin() {
		return true, nil
	}
	target := r.currentTarget()
	if target == nil {
		return true, nil
	}
	return target.Write(p)
}

// Flush claims the win and, if successful, forwards the flush to the
// target sink. If this racer is not the winner, Flush silently
// succeeds without forwarding anything.
func (r *RacerSink) Flush() (bool, error) {
	if !r.ClaimWin() {
		return true, nil
	}
	target := r.currentTarget()
	if target == nil {
		return true, nil
	}
	return target.Flush()
}

// Done is the terminal call on this racer. If this racer has
// previously claimed the win, Done(success) is forwarded to the target
// sink first. Afterward, this racer is marked done and, if it has been
// disqualified in the meantime, it releases itself (there is nothing
// further to release in Go beyond making it eligible for garbage
// collection once the fetcher drops its own reference, but this is
// still the point at which it may do so).
//
// Done panics if called more than once on the same racer.
func (r *RacerSink) Done(success bool) {
	r.mu.Lock()
	target := r.target
	won := r.parent != nil && r.parent.Winner() == r
	r.mu.Unlock()
	if won && target != nil {
		target.Done(success)
	}

	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		panic(msgDoubleDone)
	}
	r.done = true
	r.doneCond.Signal()
	r.mu.Unlock()
}

// IsCachedResultValid reports true unconditionally if this racer has
// been disqualified, since the result is meaningless once the racer is
// out of the race and further cache validation work should not be
// discouraged. Otherwise it is forwarded to the target sink.
func (r *RacerSink) IsCachedResultValid(headers http.Header) bool {
	target := r.currentTarget()
	if target == nil {
		return true
	}
	return target.IsCachedResultValid(headers)
}

// IsBackgroundFetch reports true if this racer has been disqualified,
// marking the underlying fetch as low priority since its output is
// being discarded. Otherwise it is forwarded to the target sink.
func (r *RacerSink) IsBackgroundFetch() bool {
	target := r.currentTarget()
	if target == nil {
		return true
	}
	return target.IsBackgroundFetch()
}

// RequestContext returns the request context of the coordinator's
// target sink, or the background context if this racer has been
// disqualified.
func (r *RacerSink) RequestContext() context.Context {
	target := r.currentTarget()
	if target == nil {
		return context.Background()
	}
	return target.RequestContext()
}

// currentTarget returns the target sink this racer should forward to,
// or nil if disqualified.
func (r *RacerSink) currentTarget() sink.TargetSink {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}

// disqualify severs this racer's link to its coordinator and target.
// It is called by the coordinator exactly once per attached racer,
// during coordinator teardown. If the racer's fetch has already called
// Done, disqualify does nothing further (there is nothing left to
// release); otherwise, ownership of the racer passes to the racer
// itself until Done is eventually called.
func (r *RacerSink) disqualify() {
	r.mu.Lock()
	r.parent = nil
	r.target = nil
	r.mu.Unlock()
}

var _ sink.TargetSink = (*RacerSink)(nil)
