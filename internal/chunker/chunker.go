// Package chunker splits raw document text into overlapping fixed-size
// windows for independent embedding.
package chunker

import (
	"fmt"

	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

// Chunk is a bounded substring of a source document. IDs are sequential
// starting at 1 and reflect original document order, not relevance.
type Chunk struct {
	ChunkID int    `json:"chunk_id"`
	Text    string `json:"text"`
}

// Split cuts text into windows of at most window runes, each starting
// window-overlap runes after the previous one. The final chunk may be
// shorter than window. Offsets are measured in runes so multi-byte text
// never gets cut mid-character.
//
// Returns a ValidationError when text is empty or when the parameters
// would not terminate (window <= 0 or overlap outside [0, window)).
func Split(text string, window, overlap int) ([]Chunk, error) {
	if text == "" {
		return nil, &service.ValidationError{Field: "text", Message: "no text found to chunk"}
	}
	if window <= 0 {
		return nil, &service.ValidationError{Field: "window", Message: "must be greater than 0"}
	}
	if overlap < 0 || overlap >= window {
		// A stride of window-overlap <= 0 would never advance.
		return nil, &service.ValidationError{
			Field:   "overlap",
			Message: fmt.Sprintf("must be in [0, %d)", window),
		}
	}

	runes := []rune(text)
	stride := window - overlap

	chunks := make([]Chunk, 0, (len(runes)+stride-1)/stride)
	for start := 0; start < len(runes); start += stride {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			ChunkID: len(chunks) + 1,
			Text:    string(runes[start:end]),
		})
	}

	return chunks, nil
}
