package kmerset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pique-graph/pique/internal/kmer"
)

func TestAddAssignsStableOneBasedIndices(t *testing.T) {
	s := New()
	i1 := s.Add(kmer.Kmer(10))
	i2 := s.Add(kmer.Kmer(20))
	require.Equal(t, uint32(1), i1)
	require.Equal(t, uint32(2), i2)

	// Re-adding returns the same index, doesn't bump Size.
	require.Equal(t, i1, s.Add(kmer.Kmer(10)))
	require.Equal(t, uint32(2), s.Size())
}

func TestGetUnknownKeyReturnsZero(t *testing.T) {
	s := New()
	s.Add(kmer.Kmer(1))
	require.Equal(t, uint32(0), s.Get(kmer.Kmer(999)))
}

func TestExpandPreservesAllIndices(t *testing.T) {
	s := New()
	const count = 100 // forces at least one expansion past the 53-slot table
	indices := make(map[kmer.Kmer]uint32, count)
	for i := 0; i < count; i++ {
		indices[kmer.Kmer(i)] = s.Add(kmer.Kmer(i))
	}
	require.Equal(t, uint32(count), s.Size())
	for k, idx := range indices {
		require.Equal(t, idx, s.Get(k))
	}
}
