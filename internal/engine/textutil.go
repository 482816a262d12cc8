package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentChrome is used when no randomized user agent is available.
const UserAgentChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

var (
	timestampRe = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)
	bracketRe   = regexp.MustCompile(`\[[^\[\]]*\]`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// CleanTranscript strips timestamps (m:ss, mm:ss, h:mm:ss), bracketed annotations
// such as [Music], and collapses whitespace. It is pure and idempotent.
func CleanTranscript(raw string) string {
	s := raw
	for {
		next := cleanPass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanPass(s string) string {
	s = timestampRe.ReplaceAllString(s, " ")
	s = bracketRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// WordCount counts whitespace-separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
