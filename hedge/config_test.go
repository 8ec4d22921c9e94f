// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOptions(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		opts, err := LoadOptions(strings.NewReader("t1: 15ms\nt2: 500ms\nt3: 1s\n"))
		require.NoError(t, err)
		assert.Equal(t, 15*time.Millisecond, opts.T1)
		assert.Equal(t, 500*time.Millisecond, opts.T2)
		assert.Equal(t, time.Second, opts.T3)
	})
	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadOptions(strings.NewReader("t1: [\n"))
		assert.Error(t, err)
	})
	t.Run("bad duration", func(t *testing.T) {
		_, err := LoadOptions(strings.NewReader("t1: not-a-duration\nt2: 1s\nt3: 1s\n"))
		assert.Error(t, err)
	})
}
