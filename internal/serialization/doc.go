// Package serialization reads and writes BPE merge tables.
//
// Two encodings are supported.
//
// Text (default), one merge per line in ascending id order:
//
//	# axiom bpe v1
//	# merges 3
//	# sha256 5f2b...
//	104 101 256
//	108 108 257
//	256 257 258
//
// Header lines start with '#'. They are optional on read, so a bare list of
// "left right id" lines is accepted. When a sha256 line is present it must
// match the record lines.
//
// CBOR, a single map with integer keys:
//
//	1: magic "axiom-bpe"
//	2: version (uint)
//	3: merges ([[left, right, id], ...])
//	4: sha256 of the equivalent text record lines
//
// ReadFile sniffs the first byte to pick the decoder, so callers never need
// to know which encoding a file uses.
package serialization
