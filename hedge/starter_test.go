// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestAlwaysStart(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.True(t, AlwaysStart.Start())
	}
}

func TestNewLimitedStarter(t *testing.T) {
	st := NewLimitedStarter(rate.Inf, 0)
	assert.True(t, st.Start())
	assert.True(t, st.Start())

	limited := NewLimitedStarter(0, 1)
	assert.True(t, limited.Start())
	assert.False(t, limited.Start())
}
