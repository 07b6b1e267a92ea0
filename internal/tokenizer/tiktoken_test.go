package tokenizer

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTikToken_Roundtrip(t *testing.T) {
	tok := trainedTokenizer(t, sampleCorpus, 400)

	tt, err := NewTikToken("axiom", tok.Table(), "")
	require.NoError(t, err)
	assert.Equal(t, "axiom", tt.Name())

	tests := []struct {
		name string
		text string
	}{
		{name: "simple text", text: "Hello, world!"},
		{name: "with newlines", text: "Hello\nWorld\n"},
		{name: "unicode", text: "Hello 世界! 🌍"},
		{name: "empty string", text: ""},
		{name: "corpus", text: sampleCorpus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := tt.Encode(tc.text)
			require.NoError(t, err)
			for _, id := range tokens {
				assert.Less(t, int(id), tok.VocabSize())
			}

			decoded, err := tt.Decode(tokens)
			require.NoError(t, err)
			assert.Equal(t, tc.text, decoded)
		})
	}
}

func TestTikToken_WholeWordToken(t *testing.T) {
	tok := trainedTokenizer(t, "hello hello world", 266)

	tt, err := NewTikToken("hello", tok.Table(), DefaultSplitPattern)
	require.NoError(t, err)

	tokens, err := tt.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, []int32{259, 265}, tokens)
	assert.Equal(t, 266, tt.VocabSize())
}

func TestTikTokenRanks(t *testing.T) {
	table, err := BuildMergeTable([]MergeRecord{
		{Pair: Pair{'a', 'b'}, ID: 256},
		{Pair: Pair{'b', 'c'}, ID: 257},
		{Pair: Pair{256, 'c'}, ID: 258},
		{Pair: Pair{'a', 257}, ID: 259}, // also "abc"
	})
	require.NoError(t, err)

	ranks := TikTokenRanks(table)
	assert.Len(t, ranks, 259)
	assert.Equal(t, 258, ranks["abc"])
	assert.Equal(t, int('a'), ranks["a"])
}

func TestWriteTikTokenRanks(t *testing.T) {
	tok := trainedTokenizer(t, "hello hello world", 258)

	var buf bytes.Buffer
	require.NoError(t, WriteTikTokenRanks(&buf, tok.Table()))

	sc := bufio.NewScanner(&buf)
	n := 0
	for sc.Scan() {
		token, rank, ok := strings.Cut(sc.Text(), " ")
		require.True(t, ok)
		raw, err := base64.StdEncoding.DecodeString(token)
		require.NoError(t, err)
		id, err := strconv.Atoi(rank)
		require.NoError(t, err)

		want, err := tok.Table().Lookup(int32(id))
		require.NoError(t, err)
		assert.Equal(t, want, raw)
		assert.Equal(t, n, id)
		n++
	}
	assert.Equal(t, 258, n)
}

func TestTikToken_DuplicateAndUnknownIDs(t *testing.T) {
	table, err := BuildMergeTable([]MergeRecord{
		{Pair: Pair{'a', 'b'}, ID: 256},
		{Pair: Pair{'b', 'c'}, ID: 257},
		{Pair: Pair{256, 'c'}, ID: 258},
		{Pair: Pair{'a', 257}, ID: 259}, // also "abc"
	})
	require.NoError(t, err)

	tt, err := NewTikToken("dup", table, "")
	require.NoError(t, err)
	assert.Equal(t, table.Size(), tt.VocabSize())

	ids, err := tt.Encode("abc")
	require.NoError(t, err)
	assert.Equal(t, []int32{258}, ids)

	tests := []struct {
		name   string
		tokens []int32
		want   string
	}{
		{name: "lower duplicate", tokens: []int32{258}, want: "abc"},
		{name: "higher duplicate", tokens: []int32{259}, want: "abc"},
		{name: "unknown between known", tokens: []int32{259, 9999, 'x'}, want: "abc�x"},
		{name: "negative", tokens: []int32{-1}, want: "�"},
		{name: "truncated rune", tokens: []int32{0xe2, 0x82}, want: "�"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tt.Decode(tc.tokens)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
