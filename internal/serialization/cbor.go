package serialization

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

type cborFile struct {
	Magic    string     `cbor:"1,keyasint"`
	Version  uint       `cbor:"2,keyasint"`
	Merges   [][3]int32 `cbor:"3,keyasint"`
	Checksum []byte     `cbor:"4,keyasint,omitempty"`
}

// WriteCBOR writes records as a single CBOR map.
func WriteCBOR(w io.Writer, records []Record) error {
	sum := RecordsChecksum(records)
	f := cborFile{
		Magic:    cborMagic,
		Version:  FormatVersion,
		Merges:   make([][3]int32, len(records)),
		Checksum: sum[:],
	}
	for i, r := range records {
		f.Merges[i] = [3]int32{r.Left, r.Right, r.ID}
	}
	if err := cbor.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("failed to encode merge table: %w", err)
	}
	return nil
}

// ReadCBOR reads records written by WriteCBOR.
func ReadCBOR(r io.Reader) ([]Record, error) {
	var f cborFile
	if err := cbor.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode merge table: %w", err)
	}
	if f.Magic != cborMagic {
		return nil, ErrInvalidMagic
	}
	if f.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}

	records := make([]Record, len(f.Merges))
	for i, m := range f.Merges {
		if m[0] < 0 || m[1] < 0 || m[2] < 0 {
			return nil, fmt.Errorf("%w: merge %d has a negative id", ErrInvalidRecord, i)
		}
		records[i] = Record{Left: m[0], Right: m[1], ID: m[2]}
	}

	if len(f.Checksum) > 0 {
		var stored [32]byte
		if len(f.Checksum) != len(stored) {
			return nil, ErrChecksumMismatch
		}
		copy(stored[:], f.Checksum)
		if err := ValidateChecksum(RecordsChecksum(records), stored); err != nil {
			return nil, err
		}
	}
	return records, nil
}
