// Package tokenizer implements a byte-level BPE (byte-pair encoding) tokenizer.
//
// The package is organised around the data flow of BPE:
//   - Pre-tokenization: text is split into chunks with a Unicode-aware
//     pattern; merges never cross chunk boundaries.
//   - Byte expansion: each chunk becomes its UTF-8 byte values (IDs 0-255).
//   - Training: the most frequent adjacent pair is merged into a new ID,
//     repeatedly, until the target vocabulary size is reached.
//   - Encoding: learned merges are replayed by rank (lowest ID first).
//   - Decoding: IDs are expanded back to bytes and read as UTF-8.
//
// Example usage:
//
//	tok := tokenizer.NewBPETokenizer()
//	if err := tok.Train(ctx, corpus, 1000); err != nil {
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
//	// Persist the merge table
//	if err := tok.Save("axiom.merges"); err != nil {
//	    log.Fatal(err)
//	}
package tokenizer
