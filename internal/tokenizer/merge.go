package tokenizer

// MergeApplier rewrites a symbol sequence, replacing every non-overlapping
// left-to-right occurrence of a pair with a new ID.
//
// Implementations must not modify the input slice. When the pair does not
// occur they may return the input unchanged.
type MergeApplier interface {
	ApplyMerge(symbols []int32, p Pair, id int32) []int32
}

// ArenaMerger rewrites in two passes: the first computes the output length,
// the second fills a freshly allocated buffer of exactly that size.
type ArenaMerger struct{}

// ApplyMerge implements MergeApplier.
func (ArenaMerger) ApplyMerge(symbols []int32, p Pair, id int32) []int32 {
	n := len(symbols)
	if n < 2 {
		return symbols
	}

	outLen := 0
	for i := 0; i < n; {
		if i+1 < n && symbols[i] == p.Left && symbols[i+1] == p.Right {
			i += 2
		} else {
			i++
		}
		outLen++
	}
	if outLen == n {
		return symbols
	}

	out := make([]int32, outLen)
	j := 0
	for i := 0; i < n; {
		if i+1 < n && symbols[i] == p.Left && symbols[i+1] == p.Right {
			out[j] = id
			i += 2
		} else {
			out[j] = symbols[i]
			i++
		}
		j++
	}
	return out
}
