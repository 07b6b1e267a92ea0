package tokenizer

// Tokenizer is the core interface for text tokenization.
//
// The surrounding system treats a tokenizer as a text <-> ID black box and
// never looks at merges, ranks, or chunking.
type Tokenizer interface {
	// Encode converts text to token IDs.
	Encode(text string) ([]int32, error)

	// Decode converts token IDs back to text.
	Decode(tokens []int32) (string, error)

	// VocabSize returns the total vocabulary size.
	VocabSize() int
}

// BatchEncoder encodes many independent texts at once.
type BatchEncoder interface {
	// EncodeBatch encodes each text; result[i] corresponds to texts[i].
	EncodeBatch(texts []string) ([][]int32, error)
}

// Trainable is a tokenizer whose vocabulary is learned from a corpus.
type Trainable interface {
	Tokenizer
	BatchEncoder

	// Save writes the learned merge table to path.
	Save(path string) error

	// Load replaces the merge table with the one stored at path.
	Load(path string) error
}
