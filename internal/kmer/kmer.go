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

// Package kmer implements the 2-bit nucleotide k-mer primitive: packing,
// the canonical (strand-independent) representation, and the pair of
// hash functions the rest of the module builds on (a strong 64-bit
// avalanching hash, and a stateful mixer used to derive independent
// sub-hashes from it).
package kmer

import (
	"encoding/binary"
	"sync"

	farm "github.com/dgryski/go-farm"
	"github.com/cespare/xxhash/v2"
)

// Kmer is a packed sequence of nucleotides, two bits each, right-aligned.
// A-C-G-T map to 0-1-2-3. Only the low 2*k bits are meaningful for a given k.
type Kmer uint64

// Base codes.
const (
	A Kmer = 0
	C Kmer = 1
	G Kmer = 2
	T Kmer = 3
)

var (
	complementOnce sync.Once
	complementTbl  [4]Kmer
)

func complement() [4]Kmer {
	complementOnce.Do(func() {
		complementTbl[A] = T
		complementTbl[T] = A
		complementTbl[C] = G
		complementTbl[G] = C
	})
	return complementTbl
}

// Mask returns the bitmask selecting the low 2*k bits, i.e. (1<<2k)-1.
func Mask(k uint32) Kmer {
	return Kmer(1)<<(2*k) - 1
}

// RevComp returns the reverse complement of a k-mer of length k.
func RevComp(x Kmer, k uint32) Kmer {
	comp := complement()
	var y Kmer
	for i := uint32(0); i < k; i++ {
		base := x & 3
		x >>= 2
		y = (y << 2) | comp[base]
	}
	return y
}

// Canonical returns min(x, RevComp(x,k)), the strand-independent form of a
// k-mer. canonical(canonical(x,k),k) == canonical(x,k) and
// canonical(revcomp(x,k),k) == canonical(x,k) both hold by construction.
func Canonical(x Kmer, k uint32) Kmer {
	rc := RevComp(x, k)
	if rc < x {
		return rc
	}
	return x
}

// H64 returns a strong, well-mixed 64-bit hash of a k-mer. It is the seed
// for DLCBF subtable/fingerprint derivation (via Mix); the seed cache and
// the kmer set use their own, independent slot hashes.
func H64(x Kmer) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(x))
	return xxhash.Sum64(b[:])
}

// Mix derives the next hash in an independent-looking sequence from a pair
// of prior hashes. Repeated application — h1 = Mix(h0, h0); h2 = Mix(h0,
// h1); ... — yields a chain of sub-hashes suitable for picking independent
// bucket indices across the DLCBF's subtables.
func Mix(h0, h1 uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], h0)
	binary.LittleEndian.PutUint64(b[8:16], h1)
	return farm.Hash64WithSeed(b[:], h0)
}
