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

// Package wstack provides the two stack types the traversal worker pool
// shares its frontier through: a mutex-protected, doubling-capacity global
// stack of k-mers, and an unshared, mutex-free per-worker edge buffer.
package wstack

import (
	"sync"

	"github.com/pique-graph/pique/internal/kmer"
)

const initialCapacity = 1024

// KmerStack is a LIFO stack of k-mers, safe for concurrent push/pop by many
// worker goroutines draining a shared traversal frontier.
type KmerStack struct {
	mu sync.Mutex
	xs []kmer.Kmer
}

// NewKmerStack returns an empty stack.
func NewKmerStack() *KmerStack {
	return &KmerStack{xs: make([]kmer.Kmer, 0, initialCapacity)}
}

// Push adds x to the top of the stack.
func (s *KmerStack) Push(x kmer.Kmer) {
	s.mu.Lock()
	s.xs = append(s.xs, x)
	s.mu.Unlock()
}

// Pop removes and returns the top of the stack. ok is false if the stack
// was empty.
func (s *KmerStack) Pop() (x kmer.Kmer, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.xs)
	if n == 0 {
		return 0, false
	}
	x = s.xs[n-1]
	s.xs = s.xs[:n-1]
	return x, true
}

// Len returns the current number of elements. It is a snapshot: another
// goroutine may push or pop before the caller acts on it.
func (s *KmerStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.xs)
}

// Edge is one adjacency record discovered during traversal: U and V are
// the canonical k-mers themselves (not yet reduced to matrix indices —
// that happens in the merge phase, which assigns indices through a
// kmer set).
type Edge struct {
	U, V  kmer.Kmer
	Count uint32
}

// LocalEdgeStack accumulates edges for a single traversal worker. It is
// never shared between goroutines, so unlike KmerStack it needs no mutex.
type LocalEdgeStack struct {
	es []Edge
}

// NewLocalEdgeStack returns an empty, unshared edge buffer.
func NewLocalEdgeStack() *LocalEdgeStack {
	return &LocalEdgeStack{es: make([]Edge, 0, initialCapacity)}
}

// Push appends e.
func (s *LocalEdgeStack) Push(e Edge) {
	s.es = append(s.es, e)
}

// Pop removes and returns the most recently pushed edge.
func (s *LocalEdgeStack) Pop() (Edge, bool) {
	n := len(s.es)
	if n == 0 {
		return Edge{}, false
	}
	e := s.es[n-1]
	s.es = s.es[:n-1]
	return e, true
}

// Edges returns the accumulated edges in push order. The caller must not
// mutate the returned slice's backing array concurrently with further
// pushes.
func (s *LocalEdgeStack) Edges() []Edge {
	return s.es
}

// Len returns the number of buffered edges.
func (s *LocalEdgeStack) Len() int {
	return len(s.es)
}
