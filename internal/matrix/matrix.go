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

// Package matrix writes the traversal's edge list as a sparse adjacency
// matrix, in either Matrix Market coordinate or Harwell-Boeing (CSC)
// format. Both treat the graph as an N x N integer matrix where N is the
// node count and each entry is an edge's observed count.
package matrix

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Edge is one adjacency entry: row U, column V, and the observed count at
// V. Both are 1-based node indices.
type Edge struct {
	U, V  uint32
	Count uint32
}

// WriteMatrixMarket writes the edge list in Matrix Market "coordinate
// integer general" format: a banner line, a "N N M" size line, then one
// "u v count" line per edge, in the order given. Duplicate (u,v) pairs are
// passed through unchanged, per the traversal's own duplication contract.
func WriteMatrixMarket(w io.Writer, nodeCount uint32, edges []Edge) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate integer general"); err != nil {
		return errors.Wrap(err, "matrix: writing banner")
	}
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", nodeCount, nodeCount, len(edges)); err != nil {
		return errors.Wrap(err, "matrix: writing size line")
	}
	for _, e := range edges {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", e.U, e.V, e.Count); err != nil {
			return errors.Wrap(err, "matrix: writing edge line")
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "matrix: flushing output")
	}
	return nil
}

// WriteHarwellBoeing writes the edge list in Harwell-Boeing "RUA integer"
// format: an 80-column title line, a 4x14-wide totals line, a type/
// dimensions line, one line holding the three format codes, then column
// pointers, row indices, and values, each one value per line.
//
// Column pointers use the corrected construction (no off-by-one): entries
// are sorted by (V, U), and col_ptr[j] is the 1-based index of the first
// entry whose column is j+1, or col_ptr[j+1] if column j+1 is empty.
func WriteHarwellBoeing(w io.Writer, nodeCount uint32, edges []Edge) error {
	bw := bufio.NewWriter(w)

	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].V != sorted[j].V {
			return sorted[i].V < sorted[j].V
		}
		return sorted[i].U < sorted[j].U
	})

	nnz := len(sorted)
	colPtr := buildColumnPointers(nodeCount, sorted)

	title := fmt.Sprintf("%-72s%-8s", "pique de bruijn graph adjacency matrix", "padjmat")
	if len(title) > 80 {
		title = title[:80]
	}
	if _, err := fmt.Fprintln(bw, title); err != nil {
		return errors.Wrap(err, "matrix: writing title")
	}

	ptrLines, idxLines, valLines := len(colPtr), nnz, nnz
	totalLines := ptrLines + idxLines + valLines
	if _, err := fmt.Fprintf(bw, "%14d%14d%14d%14d\n", totalLines, ptrLines, idxLines, valLines); err != nil {
		return errors.Wrap(err, "matrix: writing totals line")
	}
	if _, err := fmt.Fprintf(bw, "%-3s%11d%14d%14d%14d\n", "RUA", 0, nodeCount, nodeCount, nnz); err != nil {
		return errors.Wrap(err, "matrix: writing type/dimensions line")
	}
	if _, err := fmt.Fprintln(bw, "(10I8)         (10I8)         (8E16.9)       "); err != nil {
		return errors.Wrap(err, "matrix: writing format codes")
	}

	for _, p := range colPtr {
		if _, err := fmt.Fprintf(bw, "%11d\n", p); err != nil {
			return errors.Wrap(err, "matrix: writing column pointer")
		}
	}
	for _, e := range sorted {
		if _, err := fmt.Fprintf(bw, "%11d\n", e.U); err != nil {
			return errors.Wrap(err, "matrix: writing row index")
		}
	}
	for _, e := range sorted {
		if _, err := fmt.Fprintf(bw, "%9d\n", e.Count); err != nil {
			return errors.Wrap(err, "matrix: writing value")
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "matrix: flushing output")
	}
	return nil
}

// buildColumnPointers returns nodeCount+1 1-based pointers into a
// V-then-U sorted edge list: colPtr[j] is the 1-based index of the first
// entry in column j+1, or the same value as colPtr[j+1] if column j+1 has
// no entries at all. sorted being grouped by ascending V lets this walk
// the edge list once, left to right, rather than searching per column.
func buildColumnPointers(nodeCount uint32, sorted []Edge) []uint32 {
	colPtr := make([]uint32, nodeCount+1)
	idx := 0
	for col := uint32(1); col <= nodeCount; col++ {
		for idx < len(sorted) && sorted[idx].V < col {
			idx++
		}
		colPtr[col-1] = uint32(idx) + 1
	}
	colPtr[nodeCount] = uint32(len(sorted)) + 1
	return colPtr
}
