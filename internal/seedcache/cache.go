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

// Package seedcache implements a fixed-size, direct-mapped, probabilistic
// leaky hash table used to estimate heavy-hitter k-mers without a heap on
// the fast path. On a slot collision, the incumbent is evicted with
// probability that decreases geometrically with its observed count, so a
// truly hot key's expected residency time grows exponentially with its
// count — an approximate top-N estimator good enough to seed a graph
// traversal.
package seedcache

import (
	"sort"
	"sync"

	fasthash "github.com/opencoff/go-fasthash"

	"github.com/pique-graph/pique/internal/kmer"
	"github.com/pique-graph/pique/internal/prng"
)

// cellsPerLock is the granularity of the per-cell-block mutex.
const cellsPerLock = 16

// DefaultSize is the default number of cells in a new cache.
const DefaultSize = 250000

// DefaultBaseReplacePr is the default base eviction probability (§4.4).
const DefaultBaseReplacePr = 0.9

// slotSeed distinguishes this table's hash from kmer.H64, the same way the
// teacher keeps its frequency sketch's hash independent of the cache's own
// key hash.
const slotSeed = uint64(0x5eedcache)

type cell struct {
	x     kmer.Kmer
	count uint32
}

// Cache is a fixed-size, direct-mapped, leaky seed table.
type Cache struct {
	cells         []cell
	mutexes       []sync.Mutex
	rngMu         sync.Mutex
	rng           *prng.CMWC
	baseReplacePr float64
}

// New allocates a cache with n cells, using rngSeed to seed the shared RNG
// used for eviction decisions.
func New(n uint64, baseReplacePr float64, rngSeed uint32) *Cache {
	if n == 0 {
		n = DefaultSize
	}
	if baseReplacePr <= 0 {
		baseReplacePr = DefaultBaseReplacePr
	}
	lockCount := (n + cellsPerLock - 1) / cellsPerLock
	return &Cache{
		cells:         make([]cell, n),
		mutexes:       make([]sync.Mutex, lockCount),
		rng:           prng.New(rngSeed),
		baseReplacePr: baseReplacePr,
	}
}

func (c *Cache) slot(x kmer.Kmer) uint64 {
	var b [8]byte
	v := uint64(x)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return fasthash.Hash64(slotSeed, b[:]) % uint64(len(c.cells))
}

// Inc increments the count for x, possibly evicting whatever currently
// occupies its slot. It returns the new count for x (which is 1 if x
// replaced an incumbent, or 0 if x lost the eviction draw and was not
// stored).
func (c *Cache) Inc(x kmer.Kmer) uint32 {
	i := c.slot(x)
	mu := &c.mutexes[i/cellsPerLock]
	mu.Lock()
	defer mu.Unlock()

	slot := &c.cells[i]
	if slot.x == x && slot.count > 0 {
		if slot.count < ^uint32(0) {
			slot.count++
		}
		return slot.count
	}

	pr := pow(c.baseReplacePr, float64(slot.count))
	c.rngMu.Lock()
	r := c.rng.Float64()
	c.rngMu.Unlock()

	if r < pr {
		slot.x = x
		slot.count = 1
		return 1
	}
	return 0
}

func pow(base, exp float64) float64 {
	if exp == 0 {
		return 1
	}
	result := 1.0
	// Counts are bounded (uint32), so a simple repeated-squaring power
	// suffices without pulling in math.Pow's full generality; for very
	// large exponents the probability underflows to 0 either way.
	n := int64(exp)
	b := base
	for n > 0 {
		if n&1 == 1 {
			result *= b
		}
		b *= b
		n >>= 1
		if b == 0 {
			break
		}
	}
	return result
}

// Seed is a (kmer, count) pair returned by SortedSeeds.
type Seed struct {
	Kmer  kmer.Kmer
	Count uint32
}

// SortedSeeds takes a snapshot of all occupied cells and returns them sorted
// by count, descending. It is meant to be called once, after ingest has
// finished and before traversal starts; it is not safe to call concurrently
// with Inc.
func (c *Cache) SortedSeeds() []Seed {
	seeds := make([]Seed, 0, len(c.cells))
	for _, cell := range c.cells {
		if cell.count > 0 {
			seeds = append(seeds, Seed{Kmer: cell.x, Count: cell.count})
		}
	}
	sort.Slice(seeds, func(i, j int) bool {
		return seeds[i].Count > seeds[j].Count
	})
	return seeds
}

// Len returns the number of cells in the table.
func (c *Cache) Len() int {
	return len(c.cells)
}
