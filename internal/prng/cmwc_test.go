package prng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSameSeedProducesSameSequence(t *testing.T) {
	a := New(12345)
	b := New(12345)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Uint32(), b.Uint32())
	}
}

func TestDifferentSeedsDivergeQuickly(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 16; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	require.Less(t, same, 16)
}

func TestFloat64StaysInUnitInterval(t *testing.T) {
	r := New(42)
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestUint32DoesNotRepeatImmediately(t *testing.T) {
	r := New(7)
	seen := make(map[uint32]bool)
	repeats := 0
	for i := 0; i < 1000; i++ {
		v := r.Uint32()
		if seen[v] {
			repeats++
		}
		seen[v] = true
	}
	require.Less(t, repeats, 10)
}
