package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrCountMismatch      = errors.New("merge count does not match header")
	ErrInvalidRecord      = errors.New("invalid merge record")
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnknownFormat      = errors.New("unknown format")
)

// ParseError reports a problem at a specific line of a text merge file.
type ParseError struct {
	Line int    // 1-based line number
	Text string // Offending line
	Err  error  // Cause
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

// Unwrap returns the cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}
