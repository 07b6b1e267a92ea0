package tokenizer

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// TikToken runs a trained merge table through the pkoukk/tiktoken-go engine.
//
// tiktoken encodes by byte-string rank rather than by merge pair: a chunk that
// is itself a vocabulary entry becomes one token, and otherwise the adjacent
// parts whose concatenation has the lowest rank are joined first. For tables
// learned by this package that usually reproduces BPETokenizer.Encode, and
// Decode always inverts it.
//
// tiktoken keys its vocabulary by byte string, so when two merges expand to
// the same bytes only the lower ID is ever produced by Encode. Decode still
// accepts the higher one and every other ID of the table.
type TikToken struct {
	encoding *tiktoken.Tiktoken
	canon    []int // canon[id] is the tiktoken rank of id's bytes
	name     string
}

var _ Tokenizer = (*TikToken)(nil)

// NewTikToken builds a tiktoken encoder from table, splitting text with pattern.
// An empty pattern means DefaultSplitPattern.
func NewTikToken(name string, table *MergeTable, pattern string) (*TikToken, error) {
	if pattern == "" {
		pattern = DefaultSplitPattern
	}

	ranks := TikTokenRanks(table)
	bpe, err := tiktoken.NewCoreBPE(ranks, map[string]int{}, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to build tiktoken encoding %q: %w", name, err)
	}

	enc := &tiktoken.Encoding{
		Name:           name,
		PatStr:         pattern,
		MergeableRanks: ranks,
		SpecialTokens:  map[string]int{},
		ExplicitNVocab: len(ranks),
	}

	canon := make([]int, table.Size())
	for id, bs := range table.vocab {
		canon[id] = ranks[string(bs)]
	}

	return &TikToken{
		encoding: tiktoken.NewTiktoken(bpe, enc, map[string]any{}),
		canon:    canon,
		name:     name,
	}, nil
}

// TikTokenRanks maps every vocabulary byte string to its ID. When two merges
// expand to the same bytes the lower ID is kept.
func TikTokenRanks(table *MergeTable) map[string]int {
	ranks := make(map[string]int, table.Size())
	for id := range table.vocab {
		key := string(table.vocab[id])
		if _, ok := ranks[key]; !ok {
			ranks[key] = id
		}
	}
	return ranks
}

// WriteTikTokenRanks writes table in the .tiktoken format: one
// "base64(token) rank" line per vocabulary entry, ascending by rank.
func WriteTikTokenRanks(w io.Writer, table *MergeTable) error {
	ranks := TikTokenRanks(table)
	buf := make([]byte, 0, 64)
	for id, bs := range table.vocab {
		if ranks[string(bs)] != id {
			continue
		}
		buf = base64.StdEncoding.AppendEncode(buf[:0], bs)
		buf = append(buf, ' ')
		buf = strconv.AppendInt(buf, int64(id), 10)
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("failed to write tiktoken ranks: %w", err)
		}
	}
	return nil
}

// Encode converts text to token IDs.
func (t *TikToken) Encode(text string) ([]int32, error) {
	tokens := t.encoding.Encode(text, nil, nil)

	result := make([]int32, len(tokens))
	for i, tok := range tokens {
		result[i] = int32(tok) //nolint:gosec // G115: Token ID fits in int32 - vocab size < 2^31.
	}

	return result, nil
}

// Decode converts token IDs back to text. IDs outside the table become
// U+FFFD, as does invalid UTF-8, matching BPETokenizer.Decode.
func (t *TikToken) Decode(tokens []int32) (string, error) {
	buf := make([]byte, 0, len(tokens)*4)
	run := make([]int, 0, len(tokens))
	flush := func() {
		if len(run) > 0 {
			buf = append(buf, t.encoding.Decode(run)...)
			run = run[:0]
		}
	}

	for _, tok := range tokens {
		if tok < 0 || int(tok) >= len(t.canon) {
			flush()
			buf = utf8.AppendRune(buf, utf8.RuneError)
			continue
		}
		run = append(run, t.canon[tok])
	}
	flush()

	if utf8.Valid(buf) {
		return string(buf), nil
	}
	return toValidUTF8(buf), nil
}

// VocabSize returns the size of the underlying merge table.
func (t *TikToken) VocabSize() int {
	return len(t.canon)
}

// Name returns the encoding name.
func (t *TikToken) Name() string {
	return t.name
}
