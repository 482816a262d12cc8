package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <channel>",
	Short: "Summarize the latest video of a channel",
	Long: `Resolve a channel by name, @handle or URL, pick its most recent upload and
print a summary of its transcript.`,
	Example: `  go_recap summarize veritasium
  go_recap summarize @veritasium --format json
  go_recap summarize https://www.youtube.com/@veritasium`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, func(ctx context.Context, r *pipeline.Runner) (*pipeline.Recap, error) {
			return r.SummarizeChannel(ctx, args[0])
		})
	},
}

var videoCmd = &cobra.Command{
	Use:   "video <url>",
	Short: "Summarize one video by URL",
	Example: `  go_recap video https://www.youtube.com/watch?v=dQw4w9WgXcQ
  go_recap video https://youtu.be/dQw4w9WgXcQ`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(cmd, func(ctx context.Context, r *pipeline.Runner) (*pipeline.Recap, error) {
			return r.SummarizeVideo(ctx, args[0])
		})
	},
}

// runOnce builds a runner, executes fn under a signal-aware context and prints
// the outcome. A signal closes the browser so the run fails fast.
func runOnce(cmd *cobra.Command, fn func(context.Context, *pipeline.Runner) (*pipeline.Recap, error)) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}
	r, err := newRunner()
	if err != nil {
		return errors.New(pipeline.Message(err))
	}
	defer r.Close()

	ctx, stop := signalContext()
	defer stop()
	defer context.AfterFunc(ctx, func() { _ = r.Close() })()

	recap, err := fn(ctx, r)
	if werr := writeResult(cmd.OutOrStdout(), outputFormat, recap, err); werr != nil {
		return werr
	}
	if err != nil {
		return errors.New(pipeline.Message(err))
	}
	return nil
}
