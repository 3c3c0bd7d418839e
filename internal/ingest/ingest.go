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

// Package ingest drives reads from a seqio.RecordReader into the DLCBF and
// seed cache: for every read, it 2-bit encodes the bases, slides a k-mer
// window across them, and records the canonical form of each full k-mer.
package ingest

import (
	"context"
	"sync"

	"github.com/pique-graph/pique/internal/dlcbf"
	"github.com/pique-graph/pique/internal/kmer"
	"github.com/pique-graph/pique/internal/pglog"
	"github.com/pique-graph/pique/internal/runstats"
	"github.com/pique-graph/pique/internal/seedcache"
	"github.com/pique-graph/pique/internal/seqio"
)

// Stats summarizes one ingest run.
type Stats struct {
	Records int
	Kmers   int
	Skipped int
}

// lockedReader serializes Next() calls from a seqio.RecordReader across
// worker goroutines, the same single "read one record" mutex spec.md's
// concurrency table names for the input stream.
type lockedReader struct {
	mu sync.Mutex
	r  seqio.RecordReader
}

func (l *lockedReader) next() ([]byte, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Next()
}

func baseCode(b byte) (kmer.Kmer, bool) {
	switch b {
	case 'A', 'a':
		return kmer.A, true
	case 'C', 'c':
		return kmer.C, true
	case 'G', 'g':
		return kmer.G, true
	case 'T', 't':
		return kmer.T, true
	default:
		return 0, false
	}
}

// Run reads every record from r, splitting work across workers goroutines,
// feeding every canonical k-mer seen into filt and seeds. Counts are kept
// in a set of per-worker sharded atomic counters (runstats) rather than a
// shared mutex, since they are updated on every base of every read.
func Run(ctx context.Context, r seqio.RecordReader, filt *dlcbf.Filter, seeds *seedcache.Cache, k uint32, workers int, log *pglog.Logger) (Stats, error) {
	if workers < 1 {
		workers = 1
	}
	mask := kmer.Mask(k)
	lr := &lockedReader{r: r}
	stats := runstats.New()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerIdx int) {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				seq, ok, err := lr.next()
				if err != nil || !ok {
					return
				}
				stats.Add(runstats.RecordsRead, workerIdx, 1)

				var x kmer.Kmer
				var filled uint32
				for i := 0; i < len(seq); i++ {
					code, valid := baseCode(seq[i])
					if !valid {
						// A non-ACGT byte restarts the window; it cannot
						// be packed into a 2-bit k-mer.
						x = 0
						filled = 0
						continue
					}
					x = ((x << 2) | code) & mask
					if filled < k {
						filled++
					}

					if filled >= k {
						y := kmer.Canonical(x, k)
						if filt.Inc(y) == 0 {
							stats.Add(runstats.FilterInsertsDropped, workerIdx, 1)
						}
						seeds.Inc(y)
						stats.Add(runstats.KmersObserved, workerIdx, 1)
					}
				}
			}
		}(w)
	}
	wg.Wait()

	result := Stats{
		Records: int(stats.Get(runstats.RecordsRead)),
		Kmers:   int(stats.Get(runstats.KmersObserved)),
		Skipped: r.Skipped(),
	}
	if log != nil {
		log.Verbosef("ingest: %d records, %d k-mers, %d skipped, %d filter drops",
			result.Records, result.Kmers, result.Skipped, stats.Get(runstats.FilterInsertsDropped))
	}
	return result, nil
}
