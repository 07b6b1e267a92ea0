package tokenizer

// NumBytes is the size of the base alphabet. IDs below it are raw bytes.
const NumBytes = 256

// ExpandBytes converts a chunk to the symbol IDs of its UTF-8 bytes.
func ExpandBytes(chunk string) []int32 {
	ids := make([]int32, len(chunk))
	for i := 0; i < len(chunk); i++ {
		ids[i] = int32(chunk[i])
	}
	return ids
}

// CollapseBytes is the inverse of ExpandBytes for sequences made only of
// base symbols. It reports false if any ID is not a raw byte.
func CollapseBytes(ids []int32) ([]byte, bool) {
	out := make([]byte, len(ids))
	for i, id := range ids {
		if id < 0 || id >= NumBytes {
			return nil, false
		}
		out[i] = byte(id)
	}
	return out, true
}
