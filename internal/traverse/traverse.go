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

// Package traverse runs the parallel seeded traversal that turns an ingest
// run's DLCBF and seed cache into a sparse adjacency matrix edge list.
//
// Phase A seeds a shared frontier from the highest-count entries in the
// seed cache. Phase B spawns a worker pool that drains the frontier,
// enumerating each popped k-mer's four out-extensions and four
// in-extensions (on both strands) against the DLCBF, deleting each k-mer
// from the filter once visited so the frontier is self-limiting. Phase C
// merges every worker's local edge list through an insertion-ordered k-mer
// set to assign 1-based node indices.
package traverse

import (
	"sync"

	"github.com/pique-graph/pique/internal/dlcbf"
	"github.com/pique-graph/pique/internal/kmer"
	"github.com/pique-graph/pique/internal/kmerset"
	"github.com/pique-graph/pique/internal/matrix"
	"github.com/pique-graph/pique/internal/pglog"
	"github.com/pique-graph/pique/internal/runstats"
	"github.com/pique-graph/pique/internal/seedcache"
	"github.com/pique-graph/pique/internal/wstack"
)

// Result is the outcome of a traversal run: enough to hand directly to a
// matrix writer.
type Result struct {
	NodeCount uint32
	EdgeCount int
	Edges     []matrix.Edge
}

// Run seeds and traverses filt using seeds as the starting-point source,
// spawning workers goroutines to share the work. k must match the value
// used to build filt and seeds during ingest.
func Run(filt *dlcbf.Filter, seeds *seedcache.Cache, k uint32, workers int, log *pglog.Logger) Result {
	if workers < 1 {
		workers = 1
	}
	mask := kmer.Mask(k)
	stats := runstats.New()

	// Phase A: seed the shared frontier, highest count first, from the
	// canonicalized snapshot (an Open Question in the source resolved in
	// favor of canonicalizing, consistent with the worker loop's own
	// first step).
	global := wstack.NewKmerStack()
	for _, s := range seeds.SortedSeeds() {
		if s.Count == 0 {
			continue
		}
		global.Push(kmer.Canonical(s.Kmer, k))
	}
	if log != nil {
		log.Verbosef("traverse: seeded %d starting points", global.Len())
	}

	// Phase B: parallel DFS over the shared frontier with per-worker
	// local stacks.
	edgeLists := make([][]wstack.Edge, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			edgeLists[idx] = traverseWorker(filt, global, k, mask, idx, stats)
		}(w)
	}
	wg.Wait()

	// Phase C: merge all local edge lists through the kmer set, assigning
	// stable 1-based node indices in first-seen order.
	set := kmerset.New()
	var edges []matrix.Edge
	for _, local := range edgeLists {
		for _, e := range local {
			edges = append(edges, matrix.Edge{
				U:     set.Add(e.U),
				V:     set.Add(e.V),
				Count: e.Count,
			})
		}
	}
	stats.Add(runstats.EdgesEmitted, 0, uint64(len(edges)))
	stats.Add(runstats.NodesAssigned, 0, uint64(set.Size()))

	result := Result{
		NodeCount: set.Size(),
		EdgeCount: len(edges),
		Edges:     edges,
	}
	if log != nil {
		log.Verbosef("traverse: %d nodes, %d edges", result.NodeCount, result.EdgeCount)
	}
	return result
}

// traverseWorker drains the shared frontier, falling back to its own local
// stack first, until both are empty. idx is this worker's shard index into
// stats, which it updates as it visits and deletes k-mers.
func traverseWorker(filt *dlcbf.Filter, global *wstack.KmerStack, k uint32, mask kmer.Kmer, idx int, stats *runstats.Stats) []wstack.Edge {
	local := wstack.NewKmerStack()
	edges := wstack.NewLocalEdgeStack()

	popNext := func() (kmer.Kmer, bool) {
		if x, ok := local.Pop(); ok {
			return x, true
		}
		return global.Pop()
	}

	for {
		x, ok := popNext()
		if !ok {
			break
		}
		u := kmer.Canonical(x, k)
		c := filt.Get(u)
		if c == 0 {
			continue // already consumed by another worker
		}

		visitStrand(filt, u, c, k, mask, local, edges)
		uRC := kmer.RevComp(u, k)
		visitStrand(filt, uRC, c, k, mask, local, edges)

		filt.Del(u)
		stats.Add(runstats.KmersObserved, idx, 1)
	}

	return edges.Edges()
}

// visitStrand enumerates the four out-extensions and four in-extensions of
// u, pushing any that have nonzero count as both a frontier entry and an
// edge record.
func visitStrand(filt *dlcbf.Filter, u kmer.Kmer, count uint32, k uint32, mask kmer.Kmer, local *wstack.KmerStack, edges *wstack.LocalEdgeStack) {
	uc := kmer.Canonical(u, k)

	for x := kmer.Kmer(0); x < 4; x++ {
		v := ((u << 2) | x) & mask
		vc := kmer.Canonical(v, k)
		if cnt := filt.Get(vc); cnt > 0 {
			edges.Push(wstack.Edge{U: uc, V: vc, Count: cnt})
			local.Push(vc)
		}
	}

	shift := 2 * (k - 1)
	for x := kmer.Kmer(0); x < 4; x++ {
		up := ((u >> 2) | (x << shift)) & mask
		upc := kmer.Canonical(up, k)
		if cnt := filt.Get(upc); cnt > 0 {
			edges.Push(wstack.Edge{U: upc, V: uc, Count: count})
			local.Push(upc)
		}
	}
}
