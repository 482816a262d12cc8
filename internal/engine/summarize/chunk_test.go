package summarize

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "Hello world.", 50, []string{"Hello world."}},
		{"sentence past halfway", "One two. Three four five six", 15, []string{"One two.", "Three four five", "six"}},
		{"terminator before halfway ignored", "Hi. alpha beta gamma delta", 20, []string{"Hi. alpha beta gamma", "delta"}},
		{"word boundary", "aaaa bbbb cccc dddd", 10, []string{"aaaa bbbb", "cccc dddd"}},
		{"hard cut", "abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"multibyte", "ééééé ééééé", 5, []string{"ééééé", "ééééé"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text, tt.max)
			assert.Equal(t, tt.want, nilIfEmpty(texts(got)))
			for i, c := range got {
				assert.Equal(t, i, c.Index)
			}
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestSplitDefaultSize(t *testing.T) {
	text := strings.Repeat("word ", 2000) // 10000 chars
	chunks := Split(text, 0)
	assert.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.Len(), DefaultMaxChunkSize)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestSplitReconstructsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`([a-zA-Zé]{1,12}[.!?]? {1,2}){0,80}`).Draw(t, "text")
		max := rapid.IntRange(1, 200).Draw(t, "max")

		chunks := Split(text, max)

		var joined strings.Builder
		for _, c := range chunks {
			if c.Len() > max {
				t.Fatalf("chunk %d has %d chars, max %d", c.Index, c.Len(), max)
			}
			if c.Text == "" {
				t.Fatalf("chunk %d is empty", c.Index)
			}
			joined.WriteString(c.Text)
		}
		if stripSpace(joined.String()) != stripSpace(text) {
			t.Fatalf("reconstruction mismatch:\n got %q\nwant %q", joined.String(), text)
		}
	})
}

func TestSplitNeverBreaksSentenceWhenNotNeeded(t *testing.T) {
	// Every sentence fits the budget, so every chunk must end on a terminator.
	sentence := "The quick brown fox jumps. "
	text := strings.Repeat(sentence, 30)
	for _, c := range Split(text, 100) {
		assert.True(t, strings.HasSuffix(c.Text, "."), c.Text)
	}
}
