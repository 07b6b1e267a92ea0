package serialization

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteText writes records in the text format with a full header.
func WriteText(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s%d\n", textMagic, FormatVersion)
	fmt.Fprintf(bw, "# merges %d\n", len(records))
	fmt.Fprintf(bw, "# sha256 %s\n", formatChecksum(RecordsChecksum(records)))

	buf := make([]byte, 0, 32)
	for _, r := range records {
		buf = appendRecord(buf[:0], r)
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("failed to write merge record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write merge table: %w", err)
	}
	return nil
}

// ReadText parses the text format. Blank lines are skipped.
//
//nolint:gocognit // Header and record parsing share one pass over the lines.
func ReadText(r io.Reader) ([]Record, error) {
	var (
		records     []Record
		wantCount   = -1
		wantSum     [32]byte
		hasChecksum bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		if strings.HasPrefix(text, "#") {
			body := strings.TrimSpace(strings.TrimPrefix(text, "#"))
			if strings.HasPrefix(body, textMagic) {
				v, err := strconv.Atoi(strings.TrimPrefix(body, textMagic))
				if err != nil || v != FormatVersion {
					return nil, &ParseError{Line: line, Text: text, Err: ErrUnsupportedVersion}
				}
				continue
			}

			key, value, _ := strings.Cut(body, " ")
			value = strings.TrimSpace(value)
			switch key {
			case "merges":
				n, err := strconv.Atoi(value)
				if err != nil || n < 0 {
					return nil, &ParseError{Line: line, Text: text, Err: ErrCountMismatch}
				}
				wantCount = n
			case "sha256":
				sum, err := parseChecksum(value)
				if err != nil {
					return nil, &ParseError{Line: line, Text: text, Err: ErrChecksumMismatch}
				}
				wantSum = sum
				hasChecksum = true
			}
			continue
		}

		rec, err := parseRecord(text)
		if err != nil {
			return nil, &ParseError{Line: line, Text: text, Err: err}
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read merge table: %w", err)
	}

	if wantCount >= 0 && wantCount != len(records) {
		return nil, fmt.Errorf("%w: header says %d, found %d", ErrCountMismatch, wantCount, len(records))
	}
	if hasChecksum {
		if err := ValidateChecksum(RecordsChecksum(records), wantSum); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func parseRecord(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return Record{}, fmt.Errorf("%w: want 3 fields, got %d", ErrInvalidRecord, len(fields))
	}
	var vals [3]int32
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		if v < 0 {
			return Record{}, fmt.Errorf("%w: negative id %d", ErrInvalidRecord, v)
		}
		vals[i] = int32(v)
	}
	return Record{Left: vals[0], Right: vals[1], ID: vals[2]}, nil
}
