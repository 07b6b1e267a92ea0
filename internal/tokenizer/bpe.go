package tokenizer

import (
	"context"
	"fmt"
	"sync/atomic"
	"unicode/utf8"

	"github.com/axiomdb/axiom/internal/parallel"
)

// BPETokenizer is a byte-level BPE tokenizer.
//
// The merge table is immutable once installed; Train and Load swap in a new
// table atomically, so Encode and Decode may run concurrently with them and
// with each other.
type BPETokenizer struct {
	table atomic.Pointer[MergeTable]
	opts  options
}

var (
	_ Tokenizer = (*BPETokenizer)(nil)
	_ Trainable = (*BPETokenizer)(nil)
)

// NewBPETokenizer creates an untrained tokenizer: 256 byte symbols, no merges.
func NewBPETokenizer(opts ...Option) *BPETokenizer {
	return NewBPETokenizerFromTable(NewMergeTable(), opts...)
}

// NewBPETokenizerFromTable creates a tokenizer that uses table.
func NewBPETokenizerFromTable(table *MergeTable, opts ...Option) *BPETokenizer {
	b := &BPETokenizer{opts: newOptions(opts)}
	b.table.Store(table)
	return b
}

// Table returns the current merge table.
func (b *BPETokenizer) Table() *MergeTable {
	return b.table.Load()
}

// Train discards the current vocabulary and learns a new one from corpus with
// at most vocabSize symbols.
//
// If ctx is cancelled the merges learned so far are installed and the context
// error is returned.
func (b *BPETokenizer) Train(ctx context.Context, corpus string, vocabSize int) error {
	table, err := newTrainer(b.opts).Train(ctx, corpus, vocabSize)
	b.table.Store(table)
	if err != nil {
		return fmt.Errorf("bpe training stopped after %d merges: %w", table.NumMerges(), err)
	}
	return nil
}

// Encode converts text to token IDs.
func (b *BPETokenizer) Encode(text string) ([]int32, error) {
	return b.encode(b.table.Load(), text)
}

func (b *BPETokenizer) encode(table *MergeTable, text string) ([]int32, error) {
	chunks, err := b.opts.pre.Split(text)
	if err != nil {
		return nil, err
	}

	tokens := make([]int32, 0, len(text))
	for _, chunk := range chunks {
		tokens = append(tokens, encodeChunk(table, b.opts.applier, chunk)...)
	}
	return tokens, nil
}

// encodeChunk expands chunk to bytes and replays merges lowest rank first
// until no adjacent pair is a known merge.
func encodeChunk(table *MergeTable, applier MergeApplier, chunk string) []int32 {
	ids := ExpandBytes(chunk)
	for len(ids) >= 2 {
		var best Pair
		bestID := int32(-1)
		for i := 0; i+1 < len(ids); i++ {
			p := Pair{ids[i], ids[i+1]}
			if id, ok := table.Rank(p); ok && (bestID < 0 || id < bestID) {
				best = p
				bestID = id
			}
		}
		if bestID < 0 {
			break
		}
		ids = applier.ApplyMerge(ids, best, bestID)
	}
	return ids
}

// EncodeBatch encodes texts independently, in parallel when the batch is
// large enough.
func (b *BPETokenizer) EncodeBatch(texts []string) ([][]int32, error) {
	table := b.table.Load()
	out := make([][]int32, len(texts))
	errs := make([]error, len(texts))

	parallel.For(len(texts), func(i int) {
		out[i], errs[i] = b.encode(table, texts[i])
	}, b.opts.parallel)

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("failed to encode text %d: %w", i, err)
		}
	}
	return out, nil
}

// Decode converts token IDs back to text.
//
// Unknown IDs and invalid UTF-8 are replaced with U+FFFD; neither is an error.
// Each unknown ID and each maximal ill-formed byte sequence yields one
// replacement. Unknown IDs are logged.
func (b *BPETokenizer) Decode(tokens []int32) (string, error) {
	text, unknown := b.DecodeWithReport(tokens)
	if unknown > 0 {
		b.opts.logger.Warn("decode replaced unknown symbols", "unknown", unknown, "tokens", len(tokens))
	}
	return text, nil
}

// DecodeWithReport decodes tokens and returns how many IDs had no
// vocabulary entry.
func (b *BPETokenizer) DecodeWithReport(tokens []int32) (string, int) {
	buf, unknown := b.DecodeBytes(tokens)
	if utf8.Valid(buf) {
		return string(buf), unknown
	}
	return toValidUTF8(buf), unknown
}

// DecodeBytes concatenates the byte sequences of tokens. Unknown IDs are
// replaced with the UTF-8 encoding of U+FFFD.
func (b *BPETokenizer) DecodeBytes(tokens []int32) ([]byte, int) {
	table := b.table.Load()
	buf := make([]byte, 0, len(tokens)*4)
	unknown := 0
	for _, id := range tokens {
		bs, err := table.Lookup(id)
		if err != nil {
			buf = utf8.AppendRune(buf, utf8.RuneError)
			unknown++
			continue
		}
		buf = append(buf, bs...)
	}
	return buf, unknown
}

// toValidUTF8 replaces each maximal ill-formed subsequence of buf with one
// U+FFFD: a truncated multi-byte rune becomes a single replacement, while a
// byte that can never start a rune is replaced on its own.
func toValidUTF8(buf []byte) string {
	out := make([]byte, 0, len(buf)+8)
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			out = utf8.AppendRune(out, utf8.RuneError)
			size = maximalSubpart(buf)
		} else {
			out = append(out, buf[:size]...)
		}
		buf = buf[size:]
	}
	return string(out)
}

// maximalSubpart returns the length of the ill-formed sequence at the start of
// b: its lead byte plus the continuation bytes that were still acceptable
// before the sequence broke off. It is at least 1.
func maximalSubpart(b []byte) int {
	lo, hi := byte(0x80), byte(0xbf)
	var need int
	switch lead := b[0]; {
	case lead >= 0xc2 && lead <= 0xdf:
		need = 1
	case lead == 0xe0:
		need, lo = 2, 0xa0
	case lead == 0xed:
		need, hi = 2, 0x9f
	case lead >= 0xe1 && lead <= 0xef:
		need = 2
	case lead == 0xf0:
		need, lo = 3, 0x90
	case lead == 0xf4:
		need, hi = 3, 0x8f
	case lead >= 0xf1 && lead <= 0xf3:
		need = 3
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		n++
		lo, hi = 0x80, 0xbf
	}
	return n
}

// VocabSize returns the total vocabulary size.
func (b *BPETokenizer) VocabSize() int {
	return b.table.Load().Size()
}

// SplitPattern returns the pre-tokenization pattern chunks are split with.
func (b *BPETokenizer) SplitPattern() string {
	return b.opts.pre.Pattern()
}

// NumMerges returns the number of learned merges.
func (b *BPETokenizer) NumMerges() int {
	return b.table.Load().NumMerges()
}
