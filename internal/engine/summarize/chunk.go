// Package summarize turns a cleaned transcript into a length-targeted summary:
// chunk, map each chunk sequentially, reduce, and expand once if short.
package summarize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxChunkSize is the chunk budget in characters.
const DefaultMaxChunkSize = 5000

// Chunk is one bounded slice of a transcript.
type Chunk struct {
	Index int
	Text  string
}

// Len is the chunk length in characters.
func (c Chunk) Len() int { return utf8.RuneCountInString(c.Text) }

// Split cuts text into chunks of at most maxChars characters. A chunk ends at
// the last sentence terminator past its halfway point; failing that at the last
// word boundary; failing that exactly at the budget. Whitespace at cut points
// is dropped, nothing else is.
func Split(text string, maxChars int) []Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkSize
	}
	runes := []rune(text)
	var chunks []Chunk

	start := 0
	for {
		for start < len(runes) && unicode.IsSpace(runes[start]) {
			start++
		}
		if start >= len(runes) {
			return chunks
		}

		end := start + maxChars
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = cutPoint(runes, start, end)
		}

		chunk := strings.TrimRightFunc(string(runes[start:end]), unicode.IsSpace)
		chunks = append(chunks, Chunk{Index: len(chunks), Text: chunk})
		start = end
	}
}

// cutPoint picks the end (exclusive) of the chunk starting at start whose hard
// limit is limit. runes[limit] exists.
func cutPoint(runes []rune, start, limit int) int {
	half := start + (limit-start)/2

	for i := limit - 1; i >= half; i-- {
		if isTerminator(runes[i]) && unicode.IsSpace(runes[i+1]) {
			return i + 1
		}
	}
	for i := limit; i > start; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return limit
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
