package sources

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go_recap/internal/engine"
)

const (
	ytBaseURL          = "https://www.youtube.com"
	ytMaxChannelLength = 100
)

var (
	videoIDRE     = regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)
	channelURLRE  = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?youtube\.com/(@[\w.-]+|channel/[\w-]+|c/[\w.-]+|user/[\w.-]+)(?:[/?#].*)?$`)
	handleRE      = regexp.MustCompile(`^@[\w.-]{1,99}$`)
	channelNameRE = regexp.MustCompile(`^[\p{L}\p{N}\s_.'&-]+$`)
)

// ExtractVideoID pulls the 11-char video ID from any YouTube URL format.
func ExtractVideoID(rawURL string) string {
	m := videoIDRE.FindStringSubmatch(rawURL)
	if len(m) >= 2 {
		return m[1]
	}
	return ""
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(id string) string {
	return ytBaseURL + "/watch?v=" + id
}

// ValidateVideoURL accepts youtube.com/watch and youtu.be links and returns the
// canonical watch URL.
func ValidateVideoURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", engine.Validation("Video URL is required")
	}
	if !strings.Contains(raw, "youtube.com/watch") && !strings.Contains(raw, "youtu.be/") {
		return "", engine.Validation("Invalid YouTube URL")
	}
	id := ExtractVideoID(raw)
	if id == "" {
		return "", engine.Validation("Invalid YouTube URL")
	}
	return WatchURL(id), nil
}

// ValidateChannelInput checks a free-form channel name, @handle or channel URL.
func ValidateChannelInput(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return "", engine.Validation("Channel name cannot be empty")
	case utf8.RuneCountInString(s) > ytMaxChannelLength:
		return "", engine.Validation("Channel name is too long")
	case IsChannelURL(s), handleRE.MatchString(s), channelNameRE.MatchString(s):
		return s, nil
	}
	return "", engine.Validation("Invalid channel name or URL format")
}

// IsChannelURL reports whether s already points at a channel page.
func IsChannelURL(s string) bool {
	return channelURLRE.MatchString(strings.TrimSpace(s))
}

// channelURLFromInput returns the canonical channel URL when the input needs no
// search: a channel URL or a bare @handle.
func channelURLFromInput(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if m := channelURLRE.FindStringSubmatch(s); m != nil {
		return ytBaseURL + "/" + m[1], true
	}
	if handleRE.MatchString(s) {
		return ytBaseURL + "/" + s, true
	}
	return "", false
}

// absoluteURL resolves href against the site origin.
func absoluteURL(href string) string {
	base, _ := url.Parse(ytBaseURL + "/")
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// channelBaseURL strips trailing tabs and query so "/videos" can be appended.
func channelBaseURL(channelURL string) string {
	u, err := url.Parse(channelURL)
	if err != nil {
		return strings.TrimRight(channelURL, "/")
	}
	u.RawQuery, u.Fragment = "", ""
	path := strings.TrimRight(u.Path, "/")
	for _, tab := range []string{"/videos", "/featured", "/streams", "/shorts", "/playlists", "/about"} {
		path = strings.TrimSuffix(path, tab)
	}
	u.Path = path
	return u.String()
}

func searchURL(input string) string {
	return ytBaseURL + "/results?search_query=" + url.QueryEscape(input+" channel")
}
