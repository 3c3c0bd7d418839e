package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRejectsZeroN(t *testing.T) {
	_, err := New(0, 25, 1, false, MatrixMarket, 0, false, "", "")
	require.Error(t, err)
}

func TestNewRejectsZeroK(t *testing.T) {
	_, err := New(1000, 0, 1, false, MatrixMarket, 0, false, "", "")
	require.Error(t, err)
}

func TestNewRejectsKTooWide(t *testing.T) {
	_, err := New(1000, 33, 1, false, MatrixMarket, 0, false, "", "")
	require.Error(t, err)
}

func TestNewDefaultsZeroThreadsToOne(t *testing.T) {
	c, err := New(1000, 25, 0, false, MatrixMarket, 0, false, "", "")
	require.NoError(t, err)
	require.Equal(t, DefaultThreads, c.Threads)
}

func TestDLCBFBucketsDerivedFromN(t *testing.T) {
	c, err := New(100000000, 25, 1, false, MatrixMarket, 0, false, "", "")
	require.NoError(t, err)
	buckets, cells := c.DLCBFBuckets()
	require.Equal(t, uint64(100000000/4/8), buckets)
	require.Equal(t, uint64(8), cells)
}
