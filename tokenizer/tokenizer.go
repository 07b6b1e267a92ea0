// Package tokenizer provides the axiom byte-level BPE tokenizer.
//
// This package wraps the internal implementation and provides a clean
// public API for training, encoding, decoding and persisting a tokenizer.
//
// Example usage:
//
//	import "github.com/axiomdb/axiom/tokenizer"
//
//	// Train
//	tok := tokenizer.New()
//	if err := tok.Train(ctx, corpus, 30000); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Encode text
//	ids, err := tok.Encode("Hello, world!")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Decode tokens
//	text, err := tok.Decode(ids)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Persist and reload
//	if err := tok.Save("axiom.merges"); err != nil {
//	    log.Fatal(err)
//	}
//	tok, err = tokenizer.Load("axiom.merges")
package tokenizer

import (
	"github.com/axiomdb/axiom/internal/parallel"
	"github.com/axiomdb/axiom/internal/tokenizer"
)

// Tokenizer is the core interface for text tokenization.
type Tokenizer = tokenizer.Tokenizer

// BPE is the byte-level BPE tokenizer.
type BPE = tokenizer.BPETokenizer

// Option configures a BPE tokenizer.
type Option = tokenizer.Option

// MergeRecord is one learned merge.
type MergeRecord = tokenizer.MergeRecord

// Pair is an ordered pair of symbol IDs.
type Pair = tokenizer.Pair

// MergeTableError describes why a merge table was rejected.
type MergeTableError = tokenizer.MergeTableError

// ParallelConfig controls batch encoding parallelism (see WithParallel).
type ParallelConfig = parallel.Config

// Errors reported by the tokenizer.
var (
	ErrUnknownSymbol       = tokenizer.ErrUnknownSymbol
	ErrMalformedMergeTable = tokenizer.ErrMalformedMergeTable
)

// Options.
var (
	WithLogger        = tokenizer.WithLogger
	WithLogEvery      = tokenizer.WithLogEvery
	WithPairCounter   = tokenizer.WithPairCounter
	WithMergeApplier  = tokenizer.WithMergeApplier
	WithStepObserver  = tokenizer.WithStepObserver
	WithPreTokenizer  = tokenizer.WithPreTokenizer
	WithParallel      = tokenizer.WithParallel
	NewPreTokenizer   = tokenizer.NewPreTokenizer
	PairCounterByName = tokenizer.PairCounterByName
)

// New creates an untrained BPE tokenizer (256 byte symbols).
func New(opts ...Option) *BPE {
	return tokenizer.NewBPETokenizer(opts...)
}

// Load creates a BPE tokenizer from a saved merge table.
func Load(path string, opts ...Option) (*BPE, error) {
	return tokenizer.LoadBPE(path, opts...)
}

// NewTikToken exposes a trained tokenizer through the tiktoken engine.
func NewTikToken(name string, tok *BPE) (Tokenizer, error) {
	return tokenizer.NewTikToken(name, tok.Table(), tok.SplitPattern())
}
