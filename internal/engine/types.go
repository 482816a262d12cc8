package engine

// --- Pipeline domain types ---

// ChannelRef identifies a channel: what the caller typed and what it resolved to.
type ChannelRef struct {
	Input string `json:"input"`
	URL   string `json:"url"` // always absolute
	Name  string `json:"name,omitempty"`
}

// DisplayName returns the resolved name, falling back to the raw input.
func (c ChannelRef) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Input
}

// VideoRef is one video. ID is the v query parameter of URL.
type VideoRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"` // always absolute
}

// Transcript is scraped transcript text before and after cleaning.
type Transcript struct {
	Raw   string
	Clean string
	Title string // watch page title, empty if it could not be read
}

// FinalSummary is the terminal artifact of the summarization engine.
type FinalSummary struct {
	Text        string `json:"text"`
	WordCount   int    `json:"word_count"`
	TargetWords int    `json:"target_words"`
	Chunks      int    `json:"chunks"`
	Expanded    bool   `json:"expanded"`
	Provider    string `json:"provider"`
}
