// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webscale/fetchrace"
	"github.com/webscale/fetchrace/clock"
	"github.com/webscale/fetchrace/sink"
)

func TestRun_PrimaryWinsBeforeT1(t *testing.T) {
	target := sink.NewBuffer(nil, nil)
	secondarySpawned := false

	primary := func(_ context.Context, r *fetchrace.RacerSink) {
		r.HeadersComplete()
		ok, err := r.Write([]byte("fast"))
		assert.True(t, ok)
		assert.NoError(t, err)
		r.Done(true)
	}
	secondary := func(_ context.Context, r *fetchrace.RacerSink) {
		secondarySpawned = true
		r.Done(true)
	}

	opts := Options{T1: 100 * time.Millisecond, T2: 200 * time.Millisecond, T3: 300 * time.Millisecond}
	err := Run(context.Background(), target, clock.System(), opts, primary, secondary)
	require.NoError(t, err)
	assert.False(t, secondarySpawned)
	assert.Equal(t, []byte("fast"), target.Body())
	done, success := target.Result()
	assert.True(t, done)
	assert.True(t, success)
}

func TestRun_SecondaryWinsAfterT1(t *testing.T) {
	target := sink.NewBuffer(nil, nil)

	primary := func(_ context.Context, r *fetchrace.RacerSink) {
		time.Sleep(150 * time.Millisecond)
		r.HeadersComplete()
		r.Write([]byte("slow"))
		r.Done(true)
	}
	secondary := func(_ context.Context, r *fetchrace.RacerSink) {
		r.HeadersComplete()
		r.Write([]byte("hedge"))
		r.Done(true)
	}

	opts := Options{T1: 20 * time.Millisecond, T2: 200 * time.Millisecond, T3: 400 * time.Millisecond}
	err := Run(context.Background(), target, clock.System(), opts, primary, secondary)
	require.NoError(t, err)
	assert.Equal(t, []byte("hedge"), target.Body())

	time.Sleep(200 * time.Millisecond) // let the disqualified primary finish
}

func TestRun_NoWinnerByT2(t *testing.T) {
	target := sink.NewBuffer(nil, nil)

	block := make(chan struct{})
	defer close(block)

	primary := func(_ context.Context, r *fetchrace.RacerSink) {
		<-block
		r.Done(true)
	}

	opts := Options{T1: 10 * time.Millisecond, T2: 30 * time.Millisecond, T3: 100 * time.Millisecond}
	err := Run(context.Background(), target, clock.System(), opts, primary, nil)
	assert.ErrorIs(t, err, ErrNoWinner)
}

func TestRun_WinnerIncompleteByT3(t *testing.T) {
	target := sink.NewBuffer(nil, nil)

	block := make(chan struct{})
	defer close(block)

	primary := func(_ context.Context, r *fetchrace.RacerSink) {
		r.HeadersComplete()
		<-block
		r.Done(true)
	}

	opts := Options{T1: 10 * time.Millisecond, T2: 20 * time.Millisecond, T3: 40 * time.Millisecond}
	err := Run(context.Background(), target, clock.System(), opts, primary, nil)
	assert.ErrorIs(t, err, ErrWinnerIncomplete)
}

func TestRun_StarterDeclinesHedge(t *testing.T) {
	target := sink.NewBuffer(nil, nil)
	secondarySpawned := false

	block := make(chan struct{})

	primary := func(_ context.Context, r *fetchrace.RacerSink) {
		<-block
		r.HeadersComplete()
		r.Write([]byte("eventually"))
		r.Done(true)
	}
	secondary := func(_ context.Context, r *fetchrace.RacerSink) {
		secondarySpawned = true
		r.Done(true)
	}

	opts := Options{
		T1:      10 * time.Millisecond,
		T2:      40 * time.Millisecond,
		T3:      60 * time.Millisecond,
		Starter: NewLimitedStarter(0, 0),
	}

	go func() {
		time.Sleep(25 * time.Millisecond)
		close(block)
	}()

	err := Run(context.Background(), target, clock.System(), opts, primary, secondary)
	require.NoError(t, err)
	assert.False(t, secondarySpawned)
}
