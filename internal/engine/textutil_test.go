package engine

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCleanTranscript(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"timestamps", "0:00 intro 1:23 we start 12:45 done", "intro we start done"},
		{"hour timestamps", "1:02:03 long video", "long video"},
		{"brackets", "[Music] welcome back [Applause] everyone", "welcome back everyone"},
		{"nested brackets", "a [outer [inner] tail] b", "a b"},
		{"whitespace", "  lots \n\n of\t\tspace  ", "lots of space"},
		{"ratio kept", "the score was 3-1 at half", "the score was 3-1 at half"},
		{"empty", "", ""},
		{"only noise", "[Music] 0:01 [Music]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTranscript(tt.raw); got != tt.want {
				t.Errorf("CleanTranscript(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCleanTranscriptIdempotent(t *testing.T) {
	alphabet := rapid.SampledFrom([]string{"a", "b", "1", "2", ":", "[", "]", " ", "\n", "\t", "x", "05", "12:30", "[Music]"})
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(alphabet).Draw(t, "parts")
		raw := ""
		for _, p := range parts {
			raw += p
		}
		once := CleanTranscript(raw)
		twice := CleanTranscript(once)
		if once != twice {
			t.Fatalf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	})
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"  two   words ", 2},
		{"line\nbreak\ttab", 3},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
