// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"net/http"
)

// Discard is a TargetSink that accepts and drops everything written to
// it. Use it when a race is run purely for its side effects (such as
// warming a downstream cache) and the winning output itself is not
// needed.
type Discard struct {
	ctx             context.Context
	requestHeaders  http.Header
	responseHeaders http.Header
}

// NewDiscard constructs a Discard sink bound to ctx with the given
// request headers. If ctx is nil, context.Background is used.
func NewDiscard(ctx context.Context, requestHeaders http.Header) *Discard {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestHeaders == nil {
		requestHeaders = make(http.Header)
	}
	return &Discard{
		ctx:             ctx,
		requestHeaders:  requestHeaders,
		responseHeaders: make(http.Header),
	}
}

func (d *Discard) RequestHeaders() http.Header          { return d.requestHeaders }
func (d *Discard) ResponseHeaders() http.Header         { return d.responseHeaders }
func (d *Discard) ExtraResponseHeaders() http.Header    { return make(http.Header) }
func (d *Discard) SetContentLength(_ int64)             {}
func (d *Discard) ContentLengthKnown() bool             { return false }
func (d *Discard) ContentLength() int64                 { return 0 }
func (d *Discard) HeadersComplete()                     {}
func (d *Discard) Write(p []byte) (bool, error)         { return true, nil }
func (d *Discard) Flush() (bool, error)                 { return true, nil }
func (d *Discard) Done(_ bool)                          {}
func (d *Discard) IsCachedResultValid(_ http.Header) bool { return false }
func (d *Discard) IsBackgroundFetch() bool              { return true }
func (d *Discard) RequestContext() context.Context      { return d.ctx }

var _ TargetSink = (*Discard)(nil)
