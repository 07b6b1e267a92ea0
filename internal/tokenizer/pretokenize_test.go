package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreTokenizer_Split(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "words",
			text: "Hello world",
			want: []string{"Hello", " world"},
		},
		{
			name: "contraction",
			text: "it's we'll",
			want: []string{"it", "'s", " we", "'ll"},
		},
		{
			name: "digits and symbols",
			text: "pay 123 now!!",
			want: []string{"pay", " 123", " now", "!!"},
		},
		{
			name: "double space keeps one space with the word",
			text: "a  b",
			want: []string{"a", " ", " b"},
		},
		{
			name: "trailing whitespace",
			text: "end  ",
			want: []string{"end", "  "},
		},
		{
			name: "newline",
			text: "x\ny",
			want: []string{"x", "\n", "y"},
		},
		{
			name: "unicode letters",
			text: "héllo 世界",
			want: []string{"héllo", " 世界"},
		},
	}

	p := defaultPreTokenizer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Split(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreTokenizer_Lossless(t *testing.T) {
	texts := []string{
		"The quick brown fox jumps over the lazy dog.",
		"  leading and trailing  \t\n",
		"I'm sure they'd've known 42,000 things…",
		"emoji 🌍🚀 and tabs\t\tend",
		"\xffbroken\xfe utf8",
	}

	for _, text := range texts {
		chunks, err := defaultPreTokenizer.Split(text)
		require.NoError(t, err)
		assert.Equal(t, text, strings.Join(chunks, ""))
		for _, c := range chunks {
			assert.NotEmpty(t, c)
		}
	}
}

func TestNewPreTokenizer_InvalidPattern(t *testing.T) {
	_, err := NewPreTokenizer(`(unclosed`)
	assert.Error(t, err)
}

func TestPreTokenizer_CustomPattern(t *testing.T) {
	p, err := NewPreTokenizer(`\S+`)
	require.NoError(t, err)
	assert.Equal(t, `\S+`, p.Pattern())

	got, err := p.Split("a bc")
	require.NoError(t, err)
	// The unmatched space still becomes a chunk.
	assert.Equal(t, []string{"a", " ", "bc"}, got)
}

func TestExpandBytes(t *testing.T) {
	assert.Equal(t, []int32{104, 105}, ExpandBytes("hi"))
	assert.Equal(t, []int32{0xc3, 0xa9}, ExpandBytes("é"))
	assert.Empty(t, ExpandBytes(""))

	b, ok := CollapseBytes([]int32{104, 105})
	require.True(t, ok)
	assert.Equal(t, []byte("hi"), b)

	_, ok = CollapseBytes([]int32{104, 256})
	assert.False(t, ok)
}
