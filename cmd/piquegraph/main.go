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

// Command piquegraph ingests FASTQ/FASTA reads and emits a sparse
// adjacency matrix of the De Bruijn graph over the k-mers it observes, in
// Matrix Market or Harwell-Boeing format.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/opencoff/pflag"
	"golang.org/x/sys/unix"

	"github.com/pique-graph/pique/internal/config"
	"github.com/pique-graph/pique/internal/dlcbf"
	"github.com/pique-graph/pique/internal/ingest"
	"github.com/pique-graph/pique/internal/matrix"
	"github.com/pique-graph/pique/internal/pglog"
	"github.com/pique-graph/pique/internal/seedcache"
	"github.com/pique-graph/pique/internal/seqio"
	"github.com/pique-graph/pique/internal/traverse"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("piquegraph", flag.ContinueOnError)

	var (
		n        uint64
		k        uint32
		threads  uint32
		verbose  bool
		showVer  bool
		format   string
		seed     uint32
		hasSeed  bool
		output   string
	)

	fs.Uint64VarP(&n, "n", "n", config.DefaultN, "upper bound on distinct k-mers")
	fs.Uint32VarP(&k, "k", "k", config.DefaultK, "k-mer size")
	fs.Uint32VarP(&threads, "threads", "t", config.DefaultThreads, "worker count")
	fs.BoolVarP(&verbose, "verbose", "v", false, "progress reporting")
	fs.BoolVarP(&showVer, "version", "V", false, "print version and exit")
	fs.StringVar(&format, "format", "mm", "output format: mm (Matrix Market) or hb (Harwell-Boeing)")
	fs.Uint32Var(&seed, "seed", 0, "PRNG seed (defaults to OS entropy)")
	fs.StringVarP(&output, "output", "o", "", "output path (defaults to stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: piquegraph [options] [input]\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if showVer {
		fmt.Println("piquegraph", version)
		return 0
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			hasSeed = true
		}
	})

	var fmtSel config.Format
	switch format {
	case "mm":
		fmtSel = config.MatrixMarket
	case "hb":
		fmtSel = config.HarwellBoeing
	default:
		fmt.Fprintf(os.Stderr, "piquegraph: unknown --format %q (want mm or hb)\n", format)
		return 1
	}

	// Only the first positional argument is read; any further paths are
	// ignored. With none, input comes from stdin.
	inputPath := ""
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	cfg, err := config.New(n, k, threads, verbose, fmtSel, seed, hasSeed, output, inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "piquegraph:", err)
		return 1
	}

	log := pglog.Default(cfg.Verbose)

	if !cfg.HasSeed {
		cfg.Seed = entropySeed()
	}

	var in *os.File
	if cfg.InputPath == "" {
		in = os.Stdin
	} else {
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "piquegraph:", err)
			return 1
		}
		defer f.Close()
		in = f
	}

	reader, err := seqio.NewAutoReader(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "piquegraph:", err)
		return 1
	}

	buckets, cellsPerBucket := cfg.DLCBFBuckets()
	filt := dlcbf.New(buckets, cellsPerBucket)
	seeds := seedcache.New(seedcache.DefaultSize, seedcache.DefaultBaseReplacePr, cfg.Seed)

	start := time.Now()
	stats, err := ingest.Run(context.Background(), reader, filt, seeds, cfg.K, int(cfg.Threads), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "piquegraph:", err)
		return 1
	}
	log.Verbosef("ingest done in %s: %s records, %s k-mers", time.Since(start),
		humanize.Comma(int64(stats.Records)), humanize.Comma(int64(stats.Kmers)))

	result := traverse.Run(filt, seeds, cfg.K, int(cfg.Threads), log)
	log.Verbosef("graph: %s nodes, %s edges (%s)", humanize.Comma(int64(result.NodeCount)),
		humanize.Comma(int64(result.EdgeCount)), humanize.Bytes(uint64(result.EdgeCount*12)))

	var out *os.File
	if cfg.Output == "" {
		out = os.Stdout
	} else {
		f, err := os.Create(cfg.Output)
		if err != nil {
			fmt.Fprintln(os.Stderr, "piquegraph:", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	matrixEdges := make([]matrix.Edge, len(result.Edges))
	copy(matrixEdges, result.Edges)

	switch cfg.Format {
	case config.HarwellBoeing:
		err = matrix.WriteHarwellBoeing(out, result.NodeCount, matrixEdges)
	default:
		err = matrix.WriteMatrixMarket(out, result.NodeCount, matrixEdges)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "piquegraph:", err)
		return 1
	}
	return 0
}

// entropySeed draws a seed from the OS CSPRNG on platforms that support
// getrandom(2), falling back to the wall clock elsewhere.
func entropySeed() uint32 {
	var b [4]byte
	if _, err := unix.Getrandom(b[:], 0); err == nil {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return uint32(time.Now().UnixNano())
}
