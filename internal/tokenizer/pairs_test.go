package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunksOf(parts ...string) []Chunk {
	out := make([]Chunk, len(parts))
	for i, p := range parts {
		out[i] = Chunk{Symbols: ExpandBytes(p), Freq: 1}
	}
	return out
}

func TestPairCounter_Count(t *testing.T) {
	for _, counter := range []PairCounter{ScanCounter{}, OrderedCounter{}} {
		counts := counter.CountPairs(chunksOf("abab", "b", "ab"))

		assert.Equal(t, 3, counts.count(Pair{'a', 'b'}))
		assert.Equal(t, 1, counts.count(Pair{'b', 'a'}))
		// "abab" + "b" must not produce a (b, b) pair across the boundary.
		assert.Equal(t, 0, counts.count(Pair{'b', 'b'}))
		assert.Equal(t, 2, counts.Len())
	}
}

func TestPairCounter_Freq(t *testing.T) {
	chunks := []Chunk{{Symbols: ExpandBytes("ab"), Freq: 5}, {Symbols: ExpandBytes("ba"), Freq: 2}}

	counts := ScanCounter{}.CountPairs(chunks)
	assert.Equal(t, 5, counts.count(Pair{'a', 'b'}))
	assert.Equal(t, 2, counts.count(Pair{'b', 'a'}))
}

func TestPairCounts_BestFirstSeen(t *testing.T) {
	for _, counter := range []PairCounter{ScanCounter{}, OrderedCounter{}} {
		// Every pair occurs once; the first one scanned must win, not the
		// lexicographically smallest.
		counts := counter.CountPairs(chunksOf("xy", " ab"))

		best, n, ok := counts.Best()
		require.True(t, ok)
		assert.Equal(t, Pair{'x', 'y'}, best)
		assert.Equal(t, 1, n)
		assert.Equal(t, []Pair{{'x', 'y'}, {' ', 'a'}, {'a', 'b'}}, counts.pairs)
	}
}

func TestPairCounts_BestHighest(t *testing.T) {
	counts := ScanCounter{}.CountPairs(chunksOf("xy", "abab", "ab"))

	best, n, ok := counts.Best()
	require.True(t, ok)
	assert.Equal(t, Pair{'a', 'b'}, best)
	assert.Equal(t, 3, n)
}

func TestPairCounts_Empty(t *testing.T) {
	counts := ScanCounter{}.CountPairs(chunksOf("a", "b", ""))

	_, _, ok := counts.Best()
	assert.False(t, ok)
	assert.Equal(t, 0, counts.Len())
}

func TestCounters_Agree(t *testing.T) {
	tr := NewTrainer()
	chunks, err := tr.Chunks("the cat sat on the mat, the end. 1234 5678 !!")
	require.NoError(t, err)

	scan := ScanCounter{}.CountPairs(chunks)
	ordered := OrderedCounter{}.CountPairs(chunks)

	assert.Equal(t, scan.pairs, ordered.pairs)
	for _, p := range scan.pairs {
		assert.Equal(t, scan.count(p), ordered.count(p))
	}
}

func TestPairCounterByName(t *testing.T) {
	c, ok := PairCounterByName("")
	require.True(t, ok)
	assert.IsType(t, ScanCounter{}, c)

	c, ok = PairCounterByName(CounterOrdered)
	require.True(t, ok)
	assert.IsType(t, OrderedCounter{}, c)

	_, ok = PairCounterByName("heap")
	assert.False(t, ok)
}
