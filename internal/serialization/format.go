package serialization

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FormatVersion is the merge file version written by this package.
	FormatVersion = 1

	textMagic = "axiom bpe v"
	cborMagic = "axiom-bpe"
)

// Record is one merge: Left and Right combine into ID.
type Record struct {
	Left  int32
	Right int32
	ID    int32
}

// Format selects a merge table encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("%w: %q (expected text|cbor)", ErrUnknownFormat, name)
	}
}

// FormatForPath picks the format implied by a file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return FormatCBOR
	}
	return FormatText
}

// Write encodes records to w.
func Write(w io.Writer, f Format, records []Record) error {
	switch f {
	case FormatText, "":
		return WriteText(w, records)
	case FormatCBOR:
		return WriteCBOR(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Read decodes records from r, detecting the encoding from the first byte.
func Read(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(1)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read merge table: %w", err)
	}
	// CBOR maps have major type 5 (0xa0-0xbf); text starts with '#', a digit or whitespace.
	if first[0]&0xe0 == 0xa0 {
		return ReadCBOR(br)
	}
	return ReadText(br)
}

// WriteFile writes records to path atomically: the data goes to a temporary
// file in the same directory which then replaces path.
func WriteFile(path string, f Format, records []Record) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // No-op once renamed
	}()

	w := bufio.NewWriter(tmp)
	if err := Write(w, f, records); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write merge table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to install merge table: %w", err)
	}
	return nil
}

// ReadFile reads the records stored at path.
func ReadFile(path string) ([]Record, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for tokenizer loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return Read(file)
}
