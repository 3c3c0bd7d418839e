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

// Package dlcbf implements a d-left counting Bloom filter: d independent
// subtables of fixed-width (fingerprint, counter) cells, grouped into
// buckets of m cells each. It approximately counts occurrences of a key
// (here, a canonical k-mer) with bounded memory and concurrent, linearizable
// per-key add/get/delete.
//
// The design and its fixed constants (d=4 subtables, 14-bit fingerprints,
// 10-bit saturating counters, 16-bucket lock groups) mirror a d-left
// counting Bloom filter variant described by Bonomi et al. (2006) and
// implemented with exactly this cell layout in the reference C sources this
// module is ported from.
package dlcbf

import (
	"sync"

	"github.com/pique-graph/pique/internal/kmer"
)

// numSubtables is fixed: changing it would require re-deriving the mixer
// chain and the lock-ordering argument below, so it is not exposed as a
// constructor parameter.
const numSubtables = 4

// blocksPerLock is the number of consecutive buckets in a subtable that
// share one mutex. Coarser than per-bucket locking, it trades a little
// contention for a much smaller mutex array.
const blocksPerLock = 16

// Filter is a d-left counting Bloom filter over canonical k-mers.
type Filter struct {
	n          uint64 // buckets per subtable
	m          uint64 // cells per bucket
	subtables  [numSubtables][]cell
	mutexes    [numSubtables][]sync.Mutex
}

// New allocates a filter with n buckets per subtable and m cells per
// bucket (d=4 subtables, fixed).
func New(n, m uint64) *Filter {
	if n == 0 {
		n = 1
	}
	if m == 0 {
		m = 8
	}
	f := &Filter{n: n, m: m}
	lockCount := (n + blocksPerLock - 1) / blocksPerLock
	for i := 0; i < numSubtables; i++ {
		f.subtables[i] = make([]cell, n*m)
		f.mutexes[i] = make([]sync.Mutex, lockCount)
	}
	return f
}

// candidateHashes derives the d bucket indices and the fingerprint for x.
func (f *Filter) candidateHashes(x kmer.Kmer) (buckets [numSubtables]uint64, fp uint32) {
	h0 := kmer.H64(x)
	fp = fingerprintOf(h0)
	h1 := h0
	for i := 0; i < numSubtables; i++ {
		h1 = kmer.Mix(h0, h1)
		buckets[i] = h1 % f.n
	}
	return buckets, fp
}

func (f *Filter) lockFor(subtable int, bucket uint64) *sync.Mutex {
	return &f.mutexes[subtable][bucket/blocksPerLock]
}

func (f *Filter) bucketSlice(subtable int, bucket uint64) []cell {
	start := bucket * f.m
	return f.subtables[subtable][start : start+f.m]
}

// find scans subtables in order 0..d-1, locking one at a time and
// releasing on a miss, returning with the winning subtable's lock held on
// a hit. The caller must unlock it.
func (f *Filter) find(x kmer.Kmer) (subtable int, cellIdx uint64, held *sync.Mutex, ok bool) {
	buckets, fp := f.candidateHashes(x)
	for i := 0; i < numSubtables; i++ {
		mu := f.lockFor(i, buckets[i])
		mu.Lock()
		bucket := f.bucketSlice(i, buckets[i])
		for j, c := range bucket {
			if c.fingerprint() == fp {
				return i, buckets[i]*f.m + uint64(j), mu, true
			}
		}
		mu.Unlock()
	}
	return 0, 0, nil, false
}

// Get returns the approximate count for x, or 0 if absent.
func (f *Filter) Get(x kmer.Kmer) uint32 {
	i, idx, mu, ok := f.find(x)
	if !ok {
		return 0
	}
	defer mu.Unlock()
	return f.subtables[i][idx].counter()
}

// Del clears the cell holding x (both fingerprint and counter), a logical
// delete. A counter of 0 with a nonzero fingerprint never occurs after Del
// because the whole cell, not just the counter, is cleared.
func (f *Filter) Del(x kmer.Kmer) {
	i, idx, mu, ok := f.find(x)
	if !ok {
		return
	}
	f.subtables[i][idx] = 0
	mu.Unlock()
}

// Inc is Add(x, 1).
func (f *Filter) Inc(x kmer.Kmer) uint32 {
	return f.Add(x, 1)
}

// Add increases the count for x by delta, inserting it if absent. It
// returns the new count, or 0 if x was absent and no subtable had room to
// place it (a silent, accepted capacity-exhaustion failure).
//
// To place a new key, every candidate bucket across all d subtables must be
// inspected before a decision can be made (d-left: insert into the
// least-full bucket, ties broken toward the lowest subtable index), so this
// holds every not-yet-known-full bucket's lock simultaneously, always in
// subtable order 0..d-1. That fixed order is what makes concurrent Add
// calls for different keys, and Add/Get/Del races for the same key,
// deadlock-free and linearizable per key.
func (f *Filter) Add(x kmer.Kmer, delta uint32) uint32 {
	buckets, fp := f.candidateHashes(x)

	var locked [numSubtables]*sync.Mutex
	var emptyIdx [numSubtables]int // index within bucket of first empty cell, or -1
	var bucketLen [numSubtables]int
	defer func() {
		for _, mu := range locked {
			if mu != nil {
				mu.Unlock()
			}
		}
	}()

	for i := 0; i < numSubtables; i++ {
		mu := f.lockFor(i, buckets[i])
		mu.Lock()
		locked[i] = mu

		bucket := f.bucketSlice(i, buckets[i])
		emptyIdx[i] = -1
		found := -1
		occupied := 0
		for j, c := range bucket {
			if c.fingerprint() == fp {
				found = j
				break
			}
			if c.empty() {
				// Del can leave a hole anywhere in a bucket, so keep
				// scanning past it for x and remember only the first
				// empty cell as the insertion point.
				if emptyIdx[i] == -1 {
					emptyIdx[i] = j
				}
				continue
			}
			occupied++
		}

		if found >= 0 {
			cur := bucket[found].counter()
			next := cur + delta
			if next > cntMax {
				next = cntMax
			}
			bucket[found] = withCounter(bucket[found], next)
			return next
		}

		if emptyIdx[i] == -1 {
			// Bucket full: nothing more to learn from this subtable, so
			// release its lock now instead of holding it through the rest
			// of the scan.
			bucketLen[i] = int(f.m)
			mu.Unlock()
			locked[i] = nil
		} else {
			bucketLen[i] = occupied
		}
	}

	// d-left: choose the least-full candidate bucket, ties toward the
	// lowest subtable index.
	best := -1
	bestLen := int(f.m) + 1
	for i := 0; i < numSubtables; i++ {
		if locked[i] == nil {
			continue // this subtable's bucket was full
		}
		if bucketLen[i] < bestLen {
			best = i
			bestLen = bucketLen[i]
		}
	}

	if best == -1 {
		return 0
	}

	if delta > cntMax {
		delta = cntMax
	}
	bucket := f.bucketSlice(best, buckets[best])
	bucket[emptyIdx[best]] = packCell(fp, delta)
	return delta
}

// Clear resets every cell to empty.
func (f *Filter) Clear() {
	for i := 0; i < numSubtables; i++ {
		for j := range f.mutexes[i] {
			f.mutexes[i][j].Lock()
		}
	}
	for i := 0; i < numSubtables; i++ {
		for j := range f.subtables[i] {
			f.subtables[i][j] = 0
		}
	}
	for i := 0; i < numSubtables; i++ {
		for j := range f.mutexes[i] {
			f.mutexes[i][j].Unlock()
		}
	}
}

// Copy returns a deep copy of f. The caller is responsible for ensuring no
// concurrent writers are active during the copy.
func (f *Filter) Copy() *Filter {
	c := New(f.n, f.m)
	for i := 0; i < numSubtables; i++ {
		copy(c.subtables[i], f.subtables[i])
	}
	return c
}

// Buckets returns the configured number of buckets per subtable.
func (f *Filter) Buckets() uint64 { return f.n }

// CellsPerBucket returns the configured number of cells per bucket.
func (f *Filter) CellsPerBucket() uint64 { return f.m }
