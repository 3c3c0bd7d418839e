package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pique-graph/pique/internal/dlcbf"
	"github.com/pique-graph/pique/internal/kmer"
	"github.com/pique-graph/pique/internal/seedcache"
)

func TestRunCountsKmersFromSingleRead(t *testing.T) {
	const k = 4
	filt := dlcbf.New(1024, 8)
	seeds := seedcache.New(1024, 0.9, 1)
	r, err := newTestReader(">r1\nACGTAC\n")
	require.NoError(t, err)

	stats, err := Run(context.Background(), r, filt, seeds, k, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Records)
	require.Equal(t, 3, stats.Kmers) // ACGT, CGTA, GTAC

	require.Equal(t, uint32(1), filt.Get(kmer.Canonical(encode("ACGT"), k)))
}

func TestRunWithMultipleWorkersConservesKmerCount(t *testing.T) {
	const k = 4
	filt := dlcbf.New(4096, 8)
	seeds := seedcache.New(4096, 0.9, 1)
	r, err := newTestReader(strings.Repeat(">r\nACGTACGTAC\n", 20))
	require.NoError(t, err)

	stats, err := Run(context.Background(), r, filt, seeds, k, 4, nil)
	require.NoError(t, err)
	require.Equal(t, 20, stats.Records)
	require.Equal(t, 20*7, stats.Kmers) // 10-base read, k=4 -> 7 windows per read
}

func encode(seq string) kmer.Kmer {
	var x kmer.Kmer
	for i := 0; i < len(seq); i++ {
		var code kmer.Kmer
		switch seq[i] {
		case 'A':
			code = kmer.A
		case 'C':
			code = kmer.C
		case 'G':
			code = kmer.G
		case 'T':
			code = kmer.T
		}
		x = (x << 2) | code
	}
	return x
}

// testReader is a minimal seqio.RecordReader over an in-memory FASTA
// string, used so this package's tests don't need to import seqio's
// concrete auto-detecting reader.
type testReader struct {
	records [][]byte
	i       int
}

func newTestReader(fasta string) (*testReader, error) {
	lines := strings.Split(strings.TrimSpace(fasta), "\n")
	var recs [][]byte
	var cur strings.Builder
	have := false
	for _, line := range lines {
		if strings.HasPrefix(line, ">") {
			if have {
				recs = append(recs, []byte(cur.String()))
				cur.Reset()
			}
			have = true
			continue
		}
		cur.WriteString(line)
	}
	if have {
		recs = append(recs, []byte(cur.String()))
	}
	return &testReader{records: recs}, nil
}

func (t *testReader) Next() ([]byte, bool, error) {
	if t.i >= len(t.records) {
		return nil, false, nil
	}
	r := t.records[t.i]
	t.i++
	return r, true, nil
}

func (t *testReader) Skipped() int { return 0 }
