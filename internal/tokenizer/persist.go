package tokenizer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/axiomdb/axiom/internal/serialization"
)

// Save writes the merge table to path. A ".cbor" extension selects the binary
// encoding; anything else gets the text format.
func (b *BPETokenizer) Save(path string) error {
	return b.SaveAs(path, serialization.FormatForPath(path))
}

// SaveAs writes the merge table to path in the given format.
func (b *BPETokenizer) SaveAs(path string, format serialization.Format) error {
	if err := serialization.WriteFile(path, format, toRecords(b.table.Load())); err != nil {
		return fmt.Errorf("failed to save merge table: %w", err)
	}
	b.opts.logger.Debug("merge table saved", "path", path, "format", format, "merges", b.NumMerges())
	return nil
}

// WriteMerges encodes the merge table to w.
func (b *BPETokenizer) WriteMerges(w io.Writer, format serialization.Format) error {
	return serialization.Write(w, format, toRecords(b.table.Load()))
}

// Load replaces the merge table with the one stored at path. On any error the
// current table is left untouched.
func (b *BPETokenizer) Load(path string) error {
	records, err := serialization.ReadFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("failed to open merge table: %w", err)
		}
		return fmt.Errorf("failed to load %s: %w", path, &MergeTableError{Index: -1, Reason: "cannot decode", Err: err})
	}

	table, err := BuildMergeTable(fromRecords(records))
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	b.table.Store(table)
	b.opts.logger.Debug("merge table loaded", "path", path, "merges", b.NumMerges())
	return nil
}

// ReadMerges replaces the merge table with one decoded from r, in either format.
func (b *BPETokenizer) ReadMerges(r io.Reader) error {
	table, err := ReadMergeTable(r)
	if err != nil {
		return err
	}
	b.table.Store(table)
	return nil
}

// ReadMergeTable decodes and validates a merge table. Every failure wraps
// ErrMalformedMergeTable.
func ReadMergeTable(r io.Reader) (*MergeTable, error) {
	records, err := serialization.Read(r)
	if err != nil {
		return nil, &MergeTableError{Index: -1, Reason: "cannot decode", Err: err}
	}
	return BuildMergeTable(fromRecords(records))
}

// LoadBPE creates a tokenizer from the merge table stored at path.
func LoadBPE(path string, opts ...Option) (*BPETokenizer, error) {
	b := NewBPETokenizer(opts...)
	if err := b.Load(path); err != nil {
		return nil, err
	}
	return b, nil
}

func toRecords(t *MergeTable) []serialization.Record {
	out := make([]serialization.Record, len(t.records))
	for i, r := range t.records {
		out[i] = serialization.Record{Left: r.Pair.Left, Right: r.Pair.Right, ID: r.ID}
	}
	return out
}

func fromRecords(in []serialization.Record) []MergeRecord {
	out := make([]MergeRecord, len(in))
	for i, r := range in {
		out[i] = MergeRecord{Pair: Pair{Left: r.Left, Right: r.Right}, ID: r.ID}
	}
	return out
}
