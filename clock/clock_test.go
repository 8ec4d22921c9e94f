// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem(t *testing.T) {
	c := System()
	before := time.Now().UnixMilli()
	got := c.NowMs()
	after := time.Now().UnixMilli()
	assert.GreaterOrEqual(t, got, before)
	assert.LessOrEqual(t, got, after)
}

func TestFake(t *testing.T) {
	t.Run("NewFake", func(t *testing.T) {
		f := NewFake(100)
		assert.EqualValues(t, 100, f.NowMs())
	})
	t.Run("Advance", func(t *testing.T) {
		f := NewFake(100)
		f.Advance(50)
		assert.EqualValues(t, 150, f.NowMs())
		assert.PanicsWithValue(t, "clock: negative advance", func() { f.Advance(-1) })
	})
	t.Run("Set", func(t *testing.T) {
		f := NewFake(100)
		f.Set(200)
		assert.EqualValues(t, 200, f.NowMs())
		assert.PanicsWithValue(t, "clock: time travel", func() { f.Set(50) })
	})
	t.Run("zero value", func(t *testing.T) {
		var f Fake
		assert.EqualValues(t, 0, f.NowMs())
	})
}
