package tokenizer

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Pair is an ordered pair of adjacent symbol IDs.
type Pair struct {
	Left  int32
	Right int32
}

// Chunk is one distinct pre-tokenization unit of a training corpus.
//
// Identical chunks are collapsed into a single entry whose Freq is the number
// of times it occurs. Chunks keep the order of their first appearance, which
// keeps the first-seen order of pairs identical to a scan of the raw corpus.
type Chunk struct {
	Symbols []int32
	Freq    int
}

// PairCounts holds adjacent-pair frequencies in first-observed order.
type PairCounts struct {
	index  map[Pair]int
	pairs  []Pair
	counts []int
}

// NewPairCounts returns an empty PairCounts with room for n pairs.
func NewPairCounts(n int) *PairCounts {
	return &PairCounts{
		index:  make(map[Pair]int, n),
		pairs:  make([]Pair, 0, n),
		counts: make([]int, 0, n),
	}
}

// Add increases the count of p by n, registering p on first sight.
func (c *PairCounts) Add(p Pair, n int) {
	if i, ok := c.index[p]; ok {
		c.counts[i] += n
		return
	}
	c.index[p] = len(c.pairs)
	c.pairs = append(c.pairs, p)
	c.counts = append(c.counts, n)
}

// Len returns the number of distinct pairs.
func (c *PairCounts) Len() int {
	return len(c.pairs)
}

// count returns the count of p, or 0.
func (c *PairCounts) count(p Pair) int {
	if i, ok := c.index[p]; ok {
		return c.counts[i]
	}
	return 0
}

// Best returns the pair with the strictly highest count. Among equal counts
// the pair observed first wins.
func (c *PairCounts) Best() (Pair, int, bool) {
	best := -1
	bestCount := 0
	for i, n := range c.counts {
		if n > bestCount {
			best = i
			bestCount = n
		}
	}
	if best < 0 {
		return Pair{}, 0, false
	}
	return c.pairs[best], bestCount, true
}

// PairCounter counts adjacent pairs inside chunks. Pairs spanning two chunks
// are never counted.
type PairCounter interface {
	CountPairs(chunks []Chunk) *PairCounts
}

// ScanCounter counts pairs with a single array scan per chunk.
type ScanCounter struct{}

// CountPairs implements PairCounter.
func (ScanCounter) CountPairs(chunks []Chunk) *PairCounts {
	counts := NewPairCounts(len(chunks))
	for _, ch := range chunks {
		s := ch.Symbols
		for i := 0; i+1 < len(s); i++ {
			counts.Add(Pair{s[i], s[i+1]}, ch.Freq)
		}
	}
	return counts
}

// OrderedCounter counts pairs in an insertion-ordered hash map. It is slower
// than ScanCounter and produces identical results.
type OrderedCounter struct{}

// CountPairs implements PairCounter.
func (OrderedCounter) CountPairs(chunks []Chunk) *PairCounts {
	m := linkedhashmap.New()
	for _, ch := range chunks {
		s := ch.Symbols
		for i := 0; i+1 < len(s); i++ {
			p := Pair{s[i], s[i+1]}
			if v, ok := m.Get(p); ok {
				m.Put(p, v.(int)+ch.Freq)
			} else {
				m.Put(p, ch.Freq)
			}
		}
	}

	counts := NewPairCounts(m.Size())
	it := m.Iterator()
	for it.Next() {
		counts.Add(it.Key().(Pair), it.Value().(int))
	}
	return counts
}

// Counter names accepted by PairCounterByName.
const (
	CounterScan    = "scan"
	CounterOrdered = "ordered"
)

// PairCounterByName returns the counter strategy registered under name.
func PairCounterByName(name string) (PairCounter, bool) {
	switch name {
	case "", CounterScan:
		return ScanCounter{}, true
	case CounterOrdered:
		return OrderedCounter{}, true
	default:
		return nil, false
	}
}
