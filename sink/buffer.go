// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"bytes"
	"context"
	"net/http"
	"sync"
)

// A Buffer is an in-memory TargetSink. It buffers the response body
// into memory and records the headers, content length, and terminal
// success flag it was given.
//
// Buffer is safe for concurrent use by multiple goroutines, but is
// only intended to be written to by a single winning fetch at a time,
// per the TargetSink contract.
type Buffer struct {
	requestHeaders http.Header
	ctx            context.Context

	mu                    sync.Mutex
	responseHeaders       http.Header
	extraResponseHeaders  http.Header
	contentLength         int64
	contentLengthKnown    bool
	body                  bytes.Buffer
	headersCompleteCalled bool
	done                  bool
	success               bool
	cachedValid           bool
	backgroundFetch       bool
}

// NewBuffer constructs a Buffer bound to ctx, with the given request
// headers. If ctx is nil, context.Background is used.
func NewBuffer(ctx context.Context, requestHeaders http.Header) *Buffer {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestHeaders == nil {
		requestHeaders = make(http.Header)
	}
	return &Buffer{
		requestHeaders:  requestHeaders,
		ctx:             ctx,
		responseHeaders: make(http.Header),
	}
}

// SetCachedResultValid controls the value IsCachedResultValid returns.
// The default is false.
func (b *Buffer) SetCachedResultValid(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cachedValid = v
}

// SetBackgroundFetch controls the value IsBackgroundFetch returns. The
// default is false.
func (b *Buffer) SetBackgroundFetch(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backgroundFetch = v
}

// Body returns a copy of the bytes written so far.
func (b *Buffer) Body() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]byte, b.body.Len())
	copy(out, b.body.Bytes())
	return out
}

// Result reports whether Done has been called, and with what success
// value.
func (b *Buffer) Result() (done, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done, b.success
}

// HeadersCompleteCalled reports whether HeadersComplete has been
// called.
func (b *Buffer) HeadersCompleteCalled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.headersCompleteCalled
}

func (b *Buffer) RequestHeaders() http.Header {
	return b.requestHeaders
}

func (b *Buffer) ResponseHeaders() http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.responseHeaders
}

func (b *Buffer) ExtraResponseHeaders() http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.extraResponseHeaders == nil {
		b.extraResponseHeaders = make(http.Header)
	}
	return b.extraResponseHeaders
}

func (b *Buffer) SetContentLength(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contentLength = n
	b.contentLengthKnown = true
}

func (b *Buffer) ContentLengthKnown() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.contentLengthKnown
}

func (b *Buffer) ContentLength() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.contentLength
}

func (b *Buffer) HeadersComplete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.headersCompleteCalled = true
}

func (b *Buffer) Write(p []byte) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.body.Write(p)
	return err == nil, err
}

func (b *Buffer) Flush() (bool, error) {
	return true, nil
}

func (b *Buffer) Done(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done = true
	b.success = success
}

func (b *Buffer) IsCachedResultValid(_ http.Header) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cachedValid
}

func (b *Buffer) IsBackgroundFetch() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backgroundFetch
}

func (b *Buffer) RequestContext() context.Context {
	return b.ctx
}

var _ TargetSink = (*Buffer)(nil)
