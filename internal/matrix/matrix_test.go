package matrix

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleEdges() []Edge {
	return []Edge{
		{U: 1, V: 2, Count: 1},
		{U: 2, V: 3, Count: 1},
		{U: 3, V: 2, Count: 1},
	}
}

func TestWriteMatrixMarketBannerAndSize(t *testing.T) {
	var buf bytes.Buffer
	edges := sampleEdges()
	require.NoError(t, WriteMatrixMarket(&buf, 3, edges))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, "%%MatrixMarket matrix coordinate integer general", lines[0])
	require.Equal(t, "3 3 3", lines[1])
	require.Len(t, lines, 2+len(edges))
}

func TestWriteMatrixMarketPreservesDuplicates(t *testing.T) {
	var buf bytes.Buffer
	edges := []Edge{{U: 1, V: 1, Count: 1}, {U: 1, V: 1, Count: 1}}
	require.NoError(t, WriteMatrixMarket(&buf, 1, edges))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "1 1 1", lines[2])
	require.Equal(t, "1 1 1", lines[3])
}

func TestBuildColumnPointersNonDecreasingAndBoundsNNZ(t *testing.T) {
	edges := sampleEdges()
	sorted := make([]Edge, len(edges))
	copy(sorted, edges)
	// V-then-U order: (3,2) (1,2) (2,3) -> sorted by V then U: V=2 has U=1,3; V=3 has U=2
	colPtr := buildColumnPointers(3, []Edge{
		{U: 1, V: 2, Count: 1},
		{U: 3, V: 2, Count: 1},
		{U: 2, V: 3, Count: 1},
	})
	require.Len(t, colPtr, 4)
	for i := 1; i < len(colPtr); i++ {
		require.GreaterOrEqual(t, colPtr[i], colPtr[i-1])
	}
	require.Equal(t, uint32(4), colPtr[3]) // nnz+1
}

func TestBuildColumnPointersEmptyColumnInheritsSuccessor(t *testing.T) {
	// Node 2 has no incoming edges; column 2's pointer must equal
	// column 3's pointer.
	colPtr := buildColumnPointers(3, []Edge{
		{U: 1, V: 1, Count: 1},
		{U: 1, V: 3, Count: 1},
	})
	require.Equal(t, colPtr[1], colPtr[2])
}

func TestWriteHarwellBoeingProducesRowCountMatchingNNZ(t *testing.T) {
	var buf bytes.Buffer
	edges := sampleEdges()
	require.NoError(t, WriteHarwellBoeing(&buf, 3, edges))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// title + totals + type/dims + 1 format line + (N+1 col ptrs) + nnz rows + nnz vals
	expected := 4 + (3 + 1) + len(edges) + len(edges)
	require.Len(t, lines, expected)
}
