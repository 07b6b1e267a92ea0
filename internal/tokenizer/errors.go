package tokenizer

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrMalformedMergeTable = errors.New("malformed merge table")
)

// UnknownSymbolError reports an ID with no vocabulary entry.
type UnknownSymbolError struct {
	ID int32
}

// Error implements the error interface.
func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %d", e.ID)
}

// Unwrap returns ErrUnknownSymbol.
func (e *UnknownSymbolError) Unwrap() error {
	return ErrUnknownSymbol
}

// MergeTableError describes why a merge table was rejected.
type MergeTableError struct {
	Index  int         // Position of the offending record (0-based), -1 if not record specific
	Record MergeRecord // Offending record
	Reason string      // What is wrong with it
	Err    error       // Underlying cause, if any
}

// Error implements the error interface.
func (e *MergeTableError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Index < 0 {
		return fmt.Sprintf("malformed merge table: %s", msg)
	}
	return fmt.Sprintf("malformed merge table: record %d (%d %d -> %d): %s",
		e.Index, e.Record.Pair.Left, e.Record.Pair.Right, e.Record.ID, msg)
}

// Unwrap returns ErrMalformedMergeTable and the underlying cause.
func (e *MergeTableError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedMergeTable, e.Err}
	}
	return []error{ErrMalformedMergeTable}
}
