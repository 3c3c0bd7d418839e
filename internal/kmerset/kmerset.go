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

// Package kmerset is an insertion-ordered, quadratically-probed hash set
// over canonical k-mers. Every distinct key is assigned a stable, 1-based
// index the first time it is added; looking a key up later returns that
// same index, or 0 if the key was never added. It is not safe for
// concurrent use; the traversal's merge phase owns one instance per run.
package kmerset

import (
	"encoding/binary"

	"github.com/dchest/siphash"

	"github.com/pique-graph/pique/internal/kmer"
)

// primes are near-powers-of-two sizes for the backing array. The probe
// sequence (see probe below) does not reach every slot of a prime-sized
// table: it reaches roughly three quarters of them (41 of 53 for the
// smallest size).
var primes = [...]uint32{
	53, 97, 193, 389,
	769, 1543, 3079, 6151,
	12289, 24593, 49157, 98317,
	196613, 393241, 786433, 1572869,
	3145739, 6291469, 12582917, 25165843,
	50331653, 100663319, 201326611, 402653189,
	805306457, 1610612741, 3221225473, 4294967291,
}

// maxLoad is the load factor above which the table grows to the next prime.
const maxLoad = 0.7

// hashKey is a fixed siphash key; the set's probe sequence need not be
// unpredictable to an adversary, only evenly distributed, so a fixed key is
// fine here.
var hashKey = [16]byte{0x70, 0x69, 0x71, 0x75, 0x65, 0x2d, 0x6b, 0x6d,
	0x65, 0x72, 0x73, 0x65, 0x74, 0x00, 0x00, 0x01}

func hash(x kmer.Kmer) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(x))
	h := siphash.New(hashKey)
	h.Write(b[:])
	return uint32(h.Sum64())
}

// probe is simple quadratic probing: h + i/2 + i^2/2.
func probe(h, i uint32) uint32 {
	return h + i/2 + (i*i)/2
}

type cell struct {
	x   kmer.Kmer
	idx uint32 // 0 means empty
}

// Set is an insertion-ordered set of canonical k-mers with 1-based indices.
type Set struct {
	cells   []cell
	sizeIdx int
	n       uint32 // number of occupied cells / highest index assigned
	maxN    uint32
}

// New allocates an empty set.
func New() *Set {
	s := &Set{sizeIdx: 0}
	s.cells = make([]cell, primes[0])
	s.maxN = uint32(maxLoad * float64(primes[0]))
	return s
}

// Size returns the number of distinct keys added so far.
func (s *Set) Size() uint32 { return s.n }

func (s *Set) capacity() uint32 { return primes[s.sizeIdx] }

func (s *Set) expand() {
	s.sizeIdx++
	newCells := make([]cell, primes[s.sizeIdx])
	for _, c := range s.cells {
		if c.idx == 0 {
			continue
		}
		h := hash(c.x)
		k := h % primes[s.sizeIdx]
		probeNum := uint32(1)
		for {
			if newCells[k].idx == 0 {
				newCells[k] = c
				break
			}
			k = probe(h, probeNum) % primes[s.sizeIdx]
			probeNum++
		}
	}
	s.cells = newCells
	s.maxN = uint32(maxLoad * float64(primes[s.sizeIdx]))
}

// Add inserts x if absent and returns its 1-based index, assigning a new
// one (len+1) on first insertion and returning the existing index
// otherwise.
func (s *Set) Add(x kmer.Kmer) uint32 {
	if s.n >= s.maxN {
		s.expand()
	}

	h := hash(x)
	size := s.capacity()
	k := h % size
	probeNum := uint32(1)
	for {
		if s.cells[k].idx == 0 {
			s.n++
			s.cells[k] = cell{x: x, idx: s.n}
			return s.n
		}
		if s.cells[k].x == x {
			return s.cells[k].idx
		}
		k = probe(h, probeNum) % size
		probeNum++
	}
}

// Get returns the 1-based index of x, or 0 if x was never added.
func (s *Set) Get(x kmer.Kmer) uint32 {
	h := hash(x)
	size := s.capacity()
	k := h % size
	first := k
	probeNum := uint32(1)
	for {
		if s.cells[k].idx == 0 {
			return 0
		}
		if s.cells[k].x == x {
			return s.cells[k].idx
		}
		k = probe(h, probeNum) % size
		probeNum++
		if k == first {
			return 0
		}
	}
}
