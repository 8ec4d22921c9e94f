// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sink defines the capability contract a fetch writes its
// output to, and provides a couple of minimal reference
// implementations for tests and simple callers.
package sink

import (
	"context"
	"net/http"
)

// A TargetSink is the destination of a single fetch's headers and
// body.
//
// A RacerSink (package fetchrace) implements TargetSink so that a
// fetcher cannot tell it apart from writing directly to the real
// target; it proxies calls through to an underlying TargetSink only
// if it has won its race.
//
// Implementations of TargetSink must be safe to call from whatever
// goroutine drives the corresponding fetch; the race coordinator never
// calls a TargetSink method while holding one of its own locks.
type TargetSink interface {
	// RequestHeaders returns the request headers for this fetch. The
	// returned header must not be modified by anything downstream of
	// HeadersComplete.
	RequestHeaders() http.Header

	// ResponseHeaders returns the response headers, to be populated by
	// the fetcher before HeadersComplete is called.
	ResponseHeaders() http.Header

	// ExtraResponseHeaders returns supplementary response headers (for
	// example, headers synthesized by the fetcher rather than received
	// over the wire), also to be populated before HeadersComplete.
	ExtraResponseHeaders() http.Header

	// SetContentLength records a known response content length.
	SetContentLength(n int64)

	// ContentLengthKnown reports whether SetContentLength has been
	// called.
	ContentLengthKnown() bool

	// ContentLength returns the content length set by SetContentLength,
	// or zero if ContentLengthKnown is false.
	ContentLength() int64

	// HeadersComplete signals the end of the header phase. It is
	// called at most once per sink, and always before any Write or
	// Flush.
	HeadersComplete()

	// Write appends body bytes. The returned bool indicates downstream
	// acceptance; the error reports any I/O failure encountered while
	// writing.
	Write(p []byte) (bool, error)

	// Flush marks a boundary the downstream may act on (for example,
	// flushing a buffered writer). Its return values have the same
	// meaning as Write's.
	Flush() (bool, error)

	// Done is the terminal call for this sink. After Done, no further
	// method may be invoked on the sink. success indicates whether the
	// fetch as a whole succeeded.
	Done(success bool)

	// IsCachedResultValid is an advisory hint fetchers may use to
	// short-circuit cache validation, given the supplied candidate
	// cached response headers.
	IsCachedResultValid(headers http.Header) bool

	// IsBackgroundFetch is an advisory priority hint.
	IsBackgroundFetch() bool

	// RequestContext returns the opaque per-request context propagated
	// to child sinks, such as a RacerSink created from this sink.
	RequestContext() context.Context
}
