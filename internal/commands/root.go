// Package commands implements the go_recap command line.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_recap/internal/logger"
)

var (
	// version is set by Execute from the linker-provided main.version.
	version = "dev"

	// outputFormat controls output format (text, json).
	outputFormat string

	// logLevel overrides LOG_LEVEL.
	logLevel string
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "go_recap",
	Short: "Summarize the latest video of a YouTube channel",
	Long: `go_recap finds a YouTube channel, takes its most recent upload, reads the
full transcript from the watch page in headless Chrome and writes a narrative
summary with the first configured AI provider (Groq, OpenAI, Anthropic, Google).

Run it once from the command line, on a schedule with watch, or as a service
with serve (HTTP) or mcp (Model Context Protocol).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		level := logLevel
		if level == "" {
			level = env.Str("LOG_LEVEL", "info")
		}
		logger.Setup(logger.Config{
			Writer:      cmd.ErrOrStderr(),
			Format:      env.Str("LOG_FORMAT", ""),
			Environment: env.Str("APP_ENV", "development"),
			Level:       logger.ParseLevel(level),
		})
	},
}

// Execute runs the CLI.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default $LOG_LEVEL or info)",
	)

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
