package seqio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAutoReaderDetectsFasta(t *testing.T) {
	r, err := NewAutoReader(strings.NewReader(">r1\nACGTAC\n>r2\nTTTT\n"))
	require.NoError(t, err)

	seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGTAC", string(seq))

	seq, ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "TTTT", string(seq))

	_, ok, err = r.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAutoReaderDetectsFastq(t *testing.T) {
	data := "@r1\nACGT\n+\nIIII\n@r2\nGGGG\n+r2\nIIII\n"
	r, err := NewAutoReader(strings.NewReader(data))
	require.NoError(t, err)

	seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGT", string(seq))

	seq, ok, err = r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "GGGG", string(seq))
}

func TestFastqMismatchedQualityLengthIsSkipped(t *testing.T) {
	data := "@bad\nACGT\n+\nII\n@good\nTTTT\n+\nIIII\n"
	r, err := NewAutoReader(strings.NewReader(data))
	require.NoError(t, err)

	seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "TTTT", string(seq))
	require.Equal(t, 1, r.Skipped())
}

func TestFastaMultilineSequenceIsConcatenated(t *testing.T) {
	r, err := NewAutoReader(strings.NewReader(">r1\nACGT\nACGT\n"))
	require.NoError(t, err)

	seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGTACGT", string(seq))
}

func TestLeadingWhitespaceToleratedBeforeSniffing(t *testing.T) {
	r, err := NewAutoReader(strings.NewReader("\n\n>r1\nACGT\n"))
	require.NoError(t, err)

	seq, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ACGT", string(seq))
}
