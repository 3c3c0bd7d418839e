package wstack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pique-graph/pique/internal/kmer"
)

func TestKmerStackPushPopOrder(t *testing.T) {
	s := NewKmerStack()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	x, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, kmer.Kmer(3), x)

	require.Equal(t, 2, s.Len())
}

func TestKmerStackPopEmpty(t *testing.T) {
	s := NewKmerStack()
	_, ok := s.Pop()
	require.False(t, ok)
}

func TestKmerStackGrowsPastInitialCapacity(t *testing.T) {
	s := NewKmerStack()
	for i := 0; i < initialCapacity*3; i++ {
		s.Push(kmer.Kmer(i))
	}
	require.Equal(t, initialCapacity*3, s.Len())
}

func TestKmerStackConcurrentPushPopConserveCount(t *testing.T) {
	s := NewKmerStack()
	const total = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			s.Push(kmer.Kmer(i))
		}
	}()
	wg.Wait()

	popped := 0
	for {
		if _, ok := s.Pop(); !ok {
			break
		}
		popped++
	}
	require.Equal(t, total, popped)
}

func TestLocalEdgeStackPushPop(t *testing.T) {
	s := NewLocalEdgeStack()
	s.Push(Edge{U: 1, V: 2, Count: 5})
	s.Push(Edge{U: 2, V: 3, Count: 1})

	e, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, Edge{U: 2, V: 3, Count: 1}, e)
	require.Equal(t, 1, s.Len())
}
