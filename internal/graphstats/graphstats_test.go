package graphstats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeBasicCounts(t *testing.T) {
	mm := "%%MatrixMarket matrix coordinate integer general\n3 3 2\n1 2 1\n2 3 1\n"
	stats, err := Compute(strings.NewReader(mm))
	require.NoError(t, err)
	require.Equal(t, uint32(3), stats.NodeCount)
	require.Equal(t, 2, stats.EdgeCount)
}

func TestComputeSingleComponentWhenFullyConnected(t *testing.T) {
	mm := "%%MatrixMarket matrix coordinate integer general\n3 3 2\n1 2 1\n2 3 1\n"
	stats, err := Compute(strings.NewReader(mm))
	require.NoError(t, err)
	require.Len(t, stats.ComponentSizes, 1)
	require.Equal(t, 3, stats.ComponentSizes[0])
}

func TestComputeDetectsDisjointComponents(t *testing.T) {
	mm := "%%MatrixMarket matrix coordinate integer general\n4 4 1\n1 2 1\n"
	stats, err := Compute(strings.NewReader(mm))
	require.NoError(t, err)
	require.Len(t, stats.ComponentSizes, 3) // {1,2}, {3}, {4}
}

func TestComputeRejectsWrongBanner(t *testing.T) {
	_, err := Compute(strings.NewReader("not a matrix market file\n"))
	require.Error(t, err)
}

func TestComputeOutOfBoundsEdgeErrors(t *testing.T) {
	mm := "%%MatrixMarket matrix coordinate integer general\n2 2 1\n5 1 1\n"
	_, err := Compute(strings.NewReader(mm))
	require.Error(t, err)
}
