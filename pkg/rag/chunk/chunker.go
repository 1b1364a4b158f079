package chunk

import (
	"errors"
	"strings"
)

const (
	DefaultMaxChars = 8000
	DefaultOverlap  = 300
)

// ErrInvalidWindow is returned when the window cannot make forward progress.
var ErrInvalidWindow = errors.New("chunk: overlap must be non-negative and smaller than max chars")

// Chunk is a contiguous window of the source text. Start is a character (rune) offset.
type Chunk struct {
	Start int    `json:"start"`
	Text  string `json:"text"`
}

// End returns the character offset right after the chunk.
func (c Chunk) End() int {
	return c.Start + len([]rune(c.Text))
}

// Split cuts text into overlapping windows of at most maxChars characters.
// The text is trimmed first; blank input yields no chunks.
func Split(text string, maxChars, overlap int) ([]Chunk, error) {
	if maxChars <= 0 || overlap < 0 || overlap >= maxChars {
		return nil, ErrInvalidWindow
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []Chunk{}, nil
	}

	runes := []rune(text)
	totalLen := len(runes)

	var chunks []Chunk
	start := 0
	for {
		end := start + maxChars
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, Chunk{Start: start, Text: string(runes[start:end])})

		if end == totalLen {
			break
		}

		start = end - overlap
		if start < 0 {
			start = 0
		}
	}

	return chunks, nil
}

// SplitDefault splits with the 8000/300 window.
func SplitDefault(text string) []Chunk {
	chunks, _ := Split(text, DefaultMaxChars, DefaultOverlap)
	return chunks
}
