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

// Command piquestats reports summary statistics on a Matrix Market
// adjacency matrix produced by piquegraph: node/edge counts, an
// out-degree histogram, and connected-component sizes.
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	flag "github.com/opencoff/pflag"

	"github.com/pique-graph/pique/internal/graphstats"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("piquestats", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: piquestats adjmat.mm\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "piquestats:", err)
		return 1
	}
	defer f.Close()

	stats, err := graphstats.Compute(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "piquestats:", err)
		return 1
	}

	fmt.Printf("nodes:\t%s\n", humanize.Comma(int64(stats.NodeCount)))
	fmt.Printf("edges:\t%s\n", humanize.Comma(int64(stats.EdgeCount)))
	fmt.Printf("out-degree min/mean/max:\t%d / %.2f / %d\n", stats.MinOutDegree, stats.MeanOutDegree, stats.MaxOutDegree)
	fmt.Printf("fraction degree 0:\t%.4f\n", stats.FractionIsolated)
	fmt.Printf("fraction degree >4:\t%.4f\n", stats.FractionHighDegree)
	fmt.Printf("connected components:\t%d\n", len(stats.ComponentSizes))
	for i, size := range stats.ComponentSizes {
		fmt.Printf("  component %d:\t%s nodes\n", i, humanize.Comma(int64(size)))
	}
	return 0
}
