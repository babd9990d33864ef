package chunker

import "strings"

// Chunk splits text into overlapping word windows. Window i starts at word
// offset i*stride with stride = max(1, size-overlap), so overlap >= size
// still terminates. The last window may be short. Empty text gives an empty
// slice.
func Chunk(text string, size int, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := size - overlap
	if stride < 1 {
		stride = 1
	}

	var chunks []string
	for i := 0; i < len(words); i += stride {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}
