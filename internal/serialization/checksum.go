package serialization

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// RecordsChecksum hashes records in their canonical text form
// ("left right id\n" per record), independent of the file encoding.
func RecordsChecksum(records []Record) [32]byte {
	h := sha256.New()
	buf := make([]byte, 0, 32)
	for _, r := range records {
		buf = appendRecord(buf[:0], r)
		_, _ = h.Write(buf)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [32]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}

func appendRecord(buf []byte, r Record) []byte {
	buf = strconv.AppendInt(buf, int64(r.Left), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(r.Right), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(r.ID), 10)
	return append(buf, '\n')
}

func formatChecksum(sum [32]byte) string {
	return hex.EncodeToString(sum[:])
}

func parseChecksum(s string) ([32]byte, error) {
	var sum [32]byte
	b, err := hex.DecodeString(s)
	if err != nil {
		return sum, err
	}
	if len(b) != len(sum) {
		return sum, ErrChecksumMismatch
	}
	copy(sum[:], b)
	return sum, nil
}
