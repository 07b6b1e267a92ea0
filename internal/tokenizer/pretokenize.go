package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultSplitPattern is the byte-level BPE pre-tokenization pattern.
//
// Alternatives are tried left to right, first match wins:
//   - 's 't 're 've 'm 'll 'd: contraction suffixes.
//   - " ?\p{L}+": a run of letters, optionally preceded by one space.
//   - " ?\p{N}+": a run of digits, optionally preceded by one space.
//   - " ?[^\s\p{L}\p{N}]+": a run of other symbols, optionally preceded by one space.
//   - "\s+(?!\S)": whitespace not followed by a non-whitespace character.
//   - "\s+": any remaining whitespace.
const DefaultSplitPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// PreTokenizer splits raw text into chunks. Concatenating the chunks always
// reproduces the input byte for byte.
type PreTokenizer struct {
	pattern string
	re      *regexp2.Regexp
}

// NewPreTokenizer compiles pattern into a PreTokenizer.
func NewPreTokenizer(pattern string) (*PreTokenizer, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("failed to compile split pattern: %w", err)
	}
	return &PreTokenizer{pattern: pattern, re: re}, nil
}

// defaultPreTokenizer is shared by every tokenizer built without an explicit pattern.
var defaultPreTokenizer = mustPreTokenizer(DefaultSplitPattern)

func mustPreTokenizer(pattern string) *PreTokenizer {
	p, err := NewPreTokenizer(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// Pattern returns the source of the split pattern.
func (p *PreTokenizer) Pattern() string {
	return p.pattern
}

// Split returns the chunks of text in order.
//
// Matching runs over runes, but chunk boundaries are mapped back to the byte
// offsets of the original string, so invalid UTF-8 bytes survive untouched.
// Any span the pattern does not cover becomes a chunk of its own.
func (p *PreTokenizer) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	runes := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		runes = append(runes, r)
		offsets = append(offsets, i)
		i += size
	}
	offsets = append(offsets, len(text))

	var chunks []string
	last := 0
	m, err := p.re.FindRunesMatch(runes)
	for ; m != nil && err == nil; m, err = p.re.FindNextMatch(m) {
		if m.Length == 0 {
			continue
		}
		if m.Index > last {
			chunks = append(chunks, text[offsets[last]:offsets[m.Index]])
		}
		end := m.Index + m.Length
		chunks = append(chunks, text[offsets[m.Index]:offsets[end]])
		last = end
	}
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}
	if last < len(runes) {
		chunks = append(chunks, text[offsets[last]:])
	}

	return chunks, nil
}
