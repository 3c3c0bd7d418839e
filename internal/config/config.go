/*
 * Copyright 2024 The Pique Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config turns parsed CLI flags into a validated run configuration
// shared by the ingest and traversal drivers.
package config

import (
	"github.com/pkg/errors"
)

// Format selects the adjacency-matrix output encoding.
type Format int

const (
	// MatrixMarket is the default output format.
	MatrixMarket Format = iota
	// HarwellBoeing is the alternative CSC output format.
	HarwellBoeing
)

// Default flag values, matching the CLI contract.
const (
	DefaultN       = uint64(100000000)
	DefaultK       = uint32(25)
	DefaultThreads = uint32(1)
)

// Config is a validated run configuration built from CLI flags.
type Config struct {
	N         uint64
	K         uint32
	Threads   uint32
	Verbose   bool
	Format    Format
	Seed      uint32
	HasSeed   bool
	Output    string
	InputPath string // empty means stdin
}

// New validates raw flag values: n and k must be nonzero, 2k must fit in
// 64 bits, and a zero thread count becomes DefaultThreads. The DLCBF sizing
// is derived separately by DLCBFBuckets.
func New(n uint64, k uint32, threads uint32, verbose bool, format Format, seed uint32, hasSeed bool, output, inputPath string) (*Config, error) {
	switch {
	case n == 0:
		return nil, errors.New("config: -n must be greater than zero")
	case k == 0:
		return nil, errors.New("config: -k must be greater than zero")
	case 2*uint64(k) > 64:
		return nil, errors.Errorf("config: -k=%d exceeds the 64-bit k-mer word width (2k must be <= 64)", k)
	case threads == 0:
		threads = DefaultThreads
	}
	return &Config{
		N:         n,
		K:         k,
		Threads:   threads,
		Verbose:   verbose,
		Format:    format,
		Seed:      seed,
		HasSeed:   hasSeed,
		Output:    output,
		InputPath: inputPath,
	}, nil
}

// DLCBFBuckets returns the buckets-per-subtable and cells-per-bucket
// derived from N, fixing d=4 subtables and m=8 cells per bucket per spec
// §6.
func (c *Config) DLCBFBuckets() (buckets, cellsPerBucket uint64) {
	const d = 4
	const m = 8
	buckets = c.N / d / m
	if buckets == 0 {
		buckets = 1
	}
	return buckets, m
}
