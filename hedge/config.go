// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package hedge

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// rawOptions mirrors Options but with duration fields expressed as
// strings parseable by time.ParseDuration (e.g. "50ms", "2s"), since
// time.Duration does not implement yaml.Unmarshaler.
type rawOptions struct {
	T1 string `yaml:"t1"`
	T2 string `yaml:"t2"`
	T3 string `yaml:"t3"`
}

// LoadOptions reads a YAML document of the form:
//
//	t1: 15ms
//	t2: 500ms
//	t3: 1s
//
// and returns the corresponding Options. The Starter and Logger fields
// are left at their zero values; callers wanting those should set them
// on the returned Options directly.
func LoadOptions(r io.Reader) (Options, error) {
	var raw rawOptions
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return Options{}, fmt.Errorf("hedge: decoding options: %w", err)
	}

	t1, err := time.ParseDuration(raw.T1)
	if err != nil {
		return Options{}, fmt.Errorf("hedge: parsing t1: %w", err)
	}
	t2, err := time.ParseDuration(raw.T2)
	if err != nil {
		return Options{}, fmt.Errorf("hedge: parsing t2: %w", err)
	}
	t3, err := time.ParseDuration(raw.T3)
	if err != nil {
		return Options{}, fmt.Errorf("hedge: parsing t3: %w", err)
	}

	return Options{T1: t1, T2: t2, T3: t3}, nil
}
