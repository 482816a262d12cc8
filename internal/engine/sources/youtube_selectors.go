package sources

import (
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine/browser"
)

// Selector tables for the YouTube web UI. The markup has no stable contract and
// ships several variants at once, so every semantic target lists its known
// strategies in preference order. Zero timeouts are filled with the configured
// element timeout at call time.

var ytConsentButton = browser.Target{
	Name: "consent button",
	Candidates: []browser.Candidate{
		{Selector: `button[aria-label="Accept all"]`, Timeout: 5 * time.Second},
		{Selector: `button[aria-label="Accept the use of cookies and other data for the purposes described"]`, Timeout: time.Second},
		{Selector: `form[action*="consent"] button`, Timeout: time.Second},
	},
}

// --- Channel search ---

// ytSearchResult races a channel card against a video card.
var ytSearchResult = browser.Target{
	Name: "search result card",
	Candidates: []browser.Candidate{
		{Selector: "ytd-channel-renderer", Timeout: 5 * time.Second},
		{Selector: "ytd-video-renderer", Timeout: 5 * time.Second},
	},
}

const (
	ytRaceChannelCard = 0
	ytRaceVideoCard   = 1
)

var ytChannelCardLink = browser.Target{
	Name: "channel card link",
	Candidates: []browser.Candidate{
		{Selector: "a#main-link"},
		{Selector: "a.channel-link"},
		{Selector: `a[href^="/@"]`},
		{Selector: `a[href^="/channel/"]`},
	},
}

var ytVideoCardChannelLink = browser.Target{
	Name: "video card channel link",
	Candidates: []browser.Candidate{
		{Selector: "ytd-channel-name a.yt-formatted-string"},
		{Selector: "#channel-info a"},
		{Selector: "a.yt-formatted-string"},
		{Selector: `a[href^="/@"]`},
	},
}

// ytCardChannelName works under both card kinds.
var ytCardChannelName = browser.Target{
	Name: "card channel name",
	Candidates: []browser.Candidate{
		{Selector: "#channel-title #text"},
		{Selector: "ytd-channel-name #text"},
		{Selector: "#channel-title"},
		{Selector: "#channel-name"},
	},
}

var ytChannelName = browser.Target{
	Name: "channel name",
	Candidates: []browser.Candidate{
		{Selector: "#channel-name .ytd-channel-name", Timeout: 3 * time.Second},
		{Selector: "#channel-header ytd-channel-name", Timeout: 2 * time.Second},
		{Selector: "#inner-header-container #text", Timeout: 2 * time.Second},
		{Selector: "ytd-channel-name yt-formatted-string#text", Timeout: 2 * time.Second},
		{Selector: "yt-page-header-renderer h1", Timeout: 2 * time.Second},
	},
}

// --- Videos tab ---

var ytVideoGrid = browser.Target{
	Name: "video grid",
	Candidates: []browser.Candidate{
		{Selector: "ytd-rich-grid-renderer"},
		{Selector: "#contents.ytd-rich-grid-renderer"},
		{Selector: "#primary ytd-rich-grid-renderer"},
		{Selector: "#contents ytd-rich-item-renderer"},
	},
}

const ytGridItem = "ytd-rich-item-renderer"

var ytGridItemTitle = browser.Target{
	Name: "grid item title",
	Candidates: []browser.Candidate{
		{Selector: "a#video-title"},
		{Selector: "#video-title"},
		{Selector: "#video-title-link"},
		{Selector: "h3 a"},
	},
}

var ytGridItemLink = browser.Target{
	Name: "grid item link",
	Candidates: []browser.Candidate{
		{Selector: "a#thumbnail[href]"},
		{Selector: "a#video-title-link[href]"},
		{Selector: `a[href*="watch?v="]`},
	},
}

// --- Watch page ---

var ytPlayer = browser.Target{
	Name: "video player",
	Candidates: []browser.Candidate{
		{Selector: "video"},
		{Selector: "#movie_player"},
	},
}

var ytVideoTitle = browser.Target{
	Name: "video title",
	Candidates: []browser.Candidate{
		{Selector: "h1 ytd-watch-metadata", Timeout: 2 * time.Second},
		{Selector: "ytd-watch-metadata h1 yt-formatted-string", Timeout: 2 * time.Second},
		{Selector: "h1.ytd-video-primary-info-renderer", Timeout: time.Second},
	},
}

var ytExpandDescription = browser.Target{
	Name: "description expander",
	Candidates: []browser.Candidate{
		{Selector: "tp-yt-paper-button#expand", Timeout: 2 * time.Second},
		{Selector: "#expand", Timeout: 2 * time.Second},
		{Selector: "#more", Timeout: 2 * time.Second},
		{Selector: "#description-inline-expander button", Timeout: 2 * time.Second},
	},
}

var ytShowTranscript = browser.Target{
	Name: "show transcript button",
	Candidates: []browser.Candidate{
		{Selector: `button[aria-label="Show transcript"]`, Timeout: 5 * time.Second},
		{Selector: "ytd-video-description-transcript-section-renderer button", Timeout: 5 * time.Second},
		{Selector: ".ytd-video-description-transcript-section-renderer button", Timeout: 2 * time.Second},
		{Selector: "#primary-button ytd-button-renderer button", Timeout: 2 * time.Second},
		{Selector: "#button-container ytd-button-renderer button", Timeout: 2 * time.Second},
	},
}

var ytMoreActions = browser.Target{
	Name: "more actions menu",
	Candidates: []browser.Candidate{
		{Selector: `button[aria-label="More actions"]`, Timeout: 5 * time.Second},
		{Selector: "ytd-menu-renderer yt-button-shape#button-shape button", Timeout: 2 * time.Second},
		{Selector: "#actions ytd-menu-renderer button", Timeout: 2 * time.Second},
	},
}

// ytMenuItem is awaited, then every match is scanned by text.
var ytMenuItem = browser.Target{
	Name: "overflow menu item",
	Candidates: []browser.Candidate{
		{Selector: "tp-yt-paper-item", Timeout: 2 * time.Second},
		{Selector: "ytd-menu-service-item-renderer", Timeout: 2 * time.Second},
		{Selector: "yt-list-item-view-model", Timeout: 2 * time.Second},
	},
}

// ytTranscriptMenuLabel is matched case-insensitively against menu item text.
const ytTranscriptMenuLabel = "transcript"

var ytTranscriptPanel = browser.Target{
	Name: "transcript panel",
	Candidates: []browser.Candidate{
		{Selector: "ytd-transcript-renderer"},
		{Selector: "ytd-transcript-search-panel-renderer"},
	},
}

const ytTranscriptSegment = "ytd-transcript-segment-renderer"

var ytSegmentText = browser.Target{
	Name: "segment text",
	Candidates: []browser.Candidate{
		{Selector: "#text"},
		{Selector: ".segment-text"},
		{Selector: "yt-formatted-string.segment-text"},
	},
}

// withTimeout returns a copy of t with zero candidate timeouts set to d.
func withTimeout(t browser.Target, d time.Duration) browser.Target {
	out := browser.Target{Name: t.Name, Candidates: make([]browser.Candidate, len(t.Candidates))}
	for i, c := range t.Candidates {
		if c.Timeout <= 0 {
			c.Timeout = d
		}
		out.Candidates[i] = c
	}
	return out
}
