package tokenizer

import "strconv"

// MergeRecord is one learned merge: Pair becomes ID. The ID is also the rank.
type MergeRecord struct {
	Pair Pair
	ID   int32
}

// MergeTable is the vocabulary derived from an ordered list of merges.
//
// vocab[b] is the single byte b for b < NumBytes, and
// vocab[r.ID] == vocab[r.Pair.Left] + vocab[r.Pair.Right] for every record r.
// A MergeTable handed out by a tokenizer is never modified again.
type MergeTable struct {
	records []MergeRecord
	ranks   map[Pair]int32
	vocab   [][]byte
}

// NewMergeTable returns the base table: 256 byte symbols and no merges.
func NewMergeTable() *MergeTable {
	vocab := make([][]byte, NumBytes)
	for b := range vocab {
		vocab[b] = []byte{byte(b)}
	}
	return &MergeTable{
		ranks: make(map[Pair]int32),
		vocab: vocab,
	}
}

// BuildMergeTable replays records in order. Every record must reference only
// IDs defined before it, carry the next sequential ID, and introduce a pair
// not seen before; otherwise a *MergeTableError is returned and no table is built.
func BuildMergeTable(records []MergeRecord) (*MergeTable, error) {
	t := NewMergeTable()
	for i, rec := range records {
		if err := t.append(rec); err != nil {
			err.Index = i
			return nil, err
		}
	}
	return t, nil
}

func (t *MergeTable) append(rec MergeRecord) *MergeTableError {
	next := int32(len(t.vocab)) //nolint:gosec // G115: vocabulary size fits in int32.
	switch {
	case rec.ID != next:
		return &MergeTableError{Record: rec, Reason: "expected id " + strconv.Itoa(int(next))}
	case !t.defined(rec.Pair.Left) || !t.defined(rec.Pair.Right):
		return &MergeTableError{Record: rec, Reason: "references an undefined symbol"}
	}
	if _, dup := t.ranks[rec.Pair]; dup {
		return &MergeTableError{Record: rec, Reason: "duplicate pair"}
	}
	t.push(rec.Pair)
	return nil
}

// push records p as the next merge and returns its record.
func (t *MergeTable) push(p Pair) MergeRecord {
	id := int32(len(t.vocab)) //nolint:gosec // G115: vocabulary size fits in int32.
	left, right := t.vocab[p.Left], t.vocab[p.Right]
	merged := make([]byte, 0, len(left)+len(right))
	merged = append(merged, left...)
	merged = append(merged, right...)

	rec := MergeRecord{Pair: p, ID: id}
	t.vocab = append(t.vocab, merged)
	t.ranks[p] = id
	t.records = append(t.records, rec)
	return rec
}

func (t *MergeTable) defined(id int32) bool {
	return id >= 0 && int(id) < len(t.vocab)
}

// Lookup returns the bytes symbol id expands to.
func (t *MergeTable) Lookup(id int32) ([]byte, error) {
	if !t.defined(id) {
		return nil, &UnknownSymbolError{ID: id}
	}
	return t.vocab[id], nil
}

// Rank returns the ID the pair merges into, if it is a learned merge.
func (t *MergeTable) Rank(p Pair) (int32, bool) {
	id, ok := t.ranks[p]
	return id, ok
}

// Size returns the vocabulary size: 256 plus the number of merges.
func (t *MergeTable) Size() int {
	return len(t.vocab)
}

// NumMerges returns the number of learned merges.
func (t *MergeTable) NumMerges() int {
	return len(t.records)
}

// Records returns a copy of the merges in ascending ID order.
func (t *MergeTable) Records() []MergeRecord {
	out := make([]MergeRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Display returns the bytes of id quoted for display, with control and
// non-UTF-8 bytes escaped. Unknown IDs render as "<unk:ID>".
func (t *MergeTable) Display(id int32) string {
	bs, err := t.Lookup(id)
	if err != nil {
		return "<unk:" + strconv.Itoa(int(id)) + ">"
	}
	q := strconv.Quote(string(bs))
	return q[1 : len(q)-1]
}
