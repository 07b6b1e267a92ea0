package tokenizer_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/axiomdb/axiom/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI(t *testing.T) {
	tok := tokenizer.New(tokenizer.WithLogEvery(0))
	require.NoError(t, tok.Train(context.Background(), "hello hello world", 266))
	assert.Equal(t, 266, tok.VocabSize())

	ids, err := tok.Encode("hello world")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "axiom.merges")
	require.NoError(t, tok.Save(path))

	loaded, err := tokenizer.Load(path)
	require.NoError(t, err)

	got, err := loaded.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, ids, got)

	text, err := loaded.Decode(got)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	var _ tokenizer.Tokenizer = loaded
}

func TestPublicTikToken(t *testing.T) {
	tok := tokenizer.New(tokenizer.WithLogEvery(0))
	require.NoError(t, tok.Train(context.Background(), "hello hello world", 266))

	tt, err := tokenizer.NewTikToken("demo", tok)
	require.NoError(t, err)

	ids, err := tt.Encode("hello")
	require.NoError(t, err)
	assert.Equal(t, []int32{259}, ids)
}

func TestPublicEncodeBatch(t *testing.T) {
	tok := tokenizer.New(
		tokenizer.WithLogEvery(0),
		tokenizer.WithParallel(tokenizer.ParallelConfig{Enabled: true, NumWorkers: 2, MinChunkSize: 1}),
	)
	require.NoError(t, tok.Train(context.Background(), "hello hello world", 266))

	batch, err := tok.EncodeBatch([]string{"hello", "world", "hello world"})
	require.NoError(t, err)
	assert.Equal(t, [][]int32{{259}, {119, 111, 114, 108, 100}, {259, 265}}, batch)
}

func TestPublicTikToken_UsesSplitPattern(t *testing.T) {
	pre, err := tokenizer.NewPreTokenizer(`\S+|\s+`)
	require.NoError(t, err)
	tok := tokenizer.New(tokenizer.WithLogEvery(0), tokenizer.WithPreTokenizer(pre))
	require.NoError(t, tok.Train(context.Background(), "hello hello world", 266))

	tt, err := tokenizer.NewTikToken("spaces", tok)
	require.NoError(t, err)

	want, err := tok.Encode("hello world")
	require.NoError(t, err)
	got, err := tt.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, []int32{259, ' ', 263}, got)
}
