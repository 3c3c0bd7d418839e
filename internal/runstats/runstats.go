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

// Package runstats collects lock-free counters for an ingest or traversal
// run shared across many worker goroutines. Each counter is sharded across
// 256 cache-line-padded slots, hashed to by the calling goroutine's own
// worker index, so incrementing never contends with a different worker
// incrementing the same counter.
package runstats

import (
	"bytes"
	"fmt"
	"sync/atomic"
)

// Counter names used by the ingest and traversal drivers.
type Counter int

const (
	RecordsRead Counter = iota
	KmersObserved
	RecordsSkipped
	FilterInsertsDropped
	SeedEvictions
	EdgesEmitted
	NodesAssigned
	numCounters
)

func (c Counter) String() string {
	switch c {
	case RecordsRead:
		return "records-read"
	case KmersObserved:
		return "kmers-observed"
	case RecordsSkipped:
		return "records-skipped"
	case FilterInsertsDropped:
		return "filter-inserts-dropped"
	case SeedEvictions:
		return "seed-evictions"
	case EdgesEmitted:
		return "edges-emitted"
	case NodesAssigned:
		return "nodes-assigned"
	default:
		return "unknown"
	}
}

const shards = 256

// padWords spaces shards one 64-byte cache line (8 uint64s) apart.
const padWords = 8

// Stats is a snapshot-able set of run counters, safe for concurrent
// increments from any number of worker goroutines.
type Stats struct {
	all [numCounters][]*uint64
}

// New allocates a zeroed set of counters.
func New() *Stats {
	s := &Stats{}
	for i := 0; i < numCounters; i++ {
		slots := make([]uint64, shards*padWords)
		ptrs := make([]*uint64, shards)
		for j := range ptrs {
			ptrs[j] = &slots[j*padWords]
		}
		s.all[i] = ptrs
	}
	return s
}

// Add increments counter c by delta. shardHint (typically the worker
// index) picks which of the counter's padded slots absorbs the write, so
// two workers with different hints never invalidate each other's cache
// line.
func (s *Stats) Add(c Counter, shardHint int, delta uint64) {
	if s == nil {
		return
	}
	idx := shardHint % shards
	atomic.AddUint64(s.all[c][idx], delta)
}

// Get returns the current total for counter c across all shards.
func (s *Stats) Get(c Counter) uint64 {
	if s == nil {
		return 0
	}
	var total uint64
	for _, p := range s.all[c] {
		total += atomic.LoadUint64(p)
	}
	return total
}

// String renders every counter's total, in declaration order.
func (s *Stats) String() string {
	if s == nil {
		return ""
	}
	var buf bytes.Buffer
	for i := 0; i < numCounters; i++ {
		c := Counter(i)
		fmt.Fprintf(&buf, "%s: %d ", c, s.Get(c))
	}
	return buf.String()
}
