package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text or json)", format)
}

// writeResult prints a run outcome. JSON prints the envelope for both success
// and failure; text prints only successful recaps, errors go to the caller.
func writeResult(w io.Writer, format string, recap *pipeline.Recap, err error) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pipeline.Respond(recap, err))
	}
	if err != nil {
		return nil
	}
	return writeText(w, recap)
}

func writeText(w io.Writer, r *pipeline.Recap) error {
	var sb strings.Builder
	sb.WriteString("\nVideo Summary:\n")
	sb.WriteString("=============\n")
	if r.ChannelName != "" {
		fmt.Fprintf(&sb, "Channel: %s\n", r.ChannelName)
	}
	fmt.Fprintf(&sb, "Title: %s\n", r.Title)
	fmt.Fprintf(&sb, "URL: %s\n", r.VideoURL)
	fmt.Fprintf(&sb, "Provider: %s (%d words", r.Provider, r.WordCount)
	if r.Expanded {
		sb.WriteString(", expanded")
	}
	sb.WriteString(")\n")
	sb.WriteString("\nSummary:\n")
	sb.WriteString(r.Summary)
	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
