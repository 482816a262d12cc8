// go_recap — YouTube channel recap: latest video, full transcript, AI summary.
//
// Drives headless Chrome through YouTube's own UI to read transcripts and
// summarizes them with the first configured provider (Groq, OpenAI, Anthropic,
// Google). Runs from the command line, on a schedule, as an HTTP API or as an
// MCP server; see internal/commands.
package main

import (
	"fmt"
	"os"

	"github.com/anatolykoptev/go_recap/internal/commands"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
