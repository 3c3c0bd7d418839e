package runstats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAccumulatesAcrossShards(t *testing.T) {
	s := New()
	s.Add(RecordsRead, 0, 5)
	s.Add(RecordsRead, 1, 3)
	require.Equal(t, uint64(8), s.Get(RecordsRead))
}

func TestCountersAreIndependent(t *testing.T) {
	s := New()
	s.Add(RecordsRead, 0, 1)
	require.Equal(t, uint64(0), s.Get(KmersObserved))
}

func TestConcurrentAddsDoNotLoseIncrements(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for w := 0; w < 32; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Add(KmersObserved, worker, 1)
			}
		}(w)
	}
	wg.Wait()
	require.Equal(t, uint64(3200), s.Get(KmersObserved))
}

func TestNilStatsIsSafeNoOp(t *testing.T) {
	var s *Stats
	require.NotPanics(t, func() {
		s.Add(RecordsRead, 0, 1)
		_ = s.Get(RecordsRead)
		_ = s.String()
	})
}
