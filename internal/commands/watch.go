package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

var watchEvery time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <channel>",
	Short: "Summarize a channel's latest video on a schedule",
	Long: `Run summarize for a channel immediately and then once per interval until
interrupted. A recap is printed only when the latest video changed since the
previous successful run; failed runs are logged and retried on the next tick.`,
	Example: `  go_recap watch veritasium --every 6h`,
	Args:    cobra.ExactArgs(1),
	RunE:    runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchEvery, "every", 24*time.Hour,
		"Interval between runs")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := validateFormat(outputFormat); err != nil {
		return err
	}
	if watchEvery < time.Minute {
		return fmt.Errorf("--every must be at least 1m, got %s", watchEvery)
	}
	r, err := newRunner()
	if err != nil {
		return errors.New(pipeline.Message(err))
	}
	defer r.Close()

	ctx, stop := signalContext()
	defer stop()
	defer context.AfterFunc(ctx, func() { _ = r.Close() })()

	w := &watcher{
		channel: args[0],
		run:     r.SummarizeChannel,
		out:     cmd.OutOrStdout(),
		format:  outputFormat,
	}
	ticker := time.NewTicker(watchEvery)
	defer ticker.Stop()
	return w.loop(ctx, ticker.C)
}

// watcher runs one channel on every tick and prints new videos only.
type watcher struct {
	channel string
	run     func(ctx context.Context, channel string) (*pipeline.Recap, error)
	out     io.Writer
	format  string

	lastURL string
}

// loop runs once immediately and then per tick until ctx is done.
func (w *watcher) loop(ctx context.Context, tick <-chan time.Time) error {
	slog.Info("watch: started", slog.String("channel", w.channel))
	for {
		if err := w.once(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			slog.Info("watch: stopped", slog.String("channel", w.channel))
			return nil
		case <-tick:
		}
	}
}

// once performs a single run. Pipeline failures are logged, not returned;
// only output errors stop the loop.
func (w *watcher) once(ctx context.Context) error {
	recap, err := w.run(ctx, w.channel)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.Warn("watch: run failed, retrying next tick",
			slog.String("channel", w.channel),
			slog.String("error", pipeline.Message(err)))
		return nil
	}
	if recap.VideoURL == w.lastURL {
		slog.Info("watch: no new upload", slog.String("url", recap.VideoURL))
		return nil
	}
	w.lastURL = recap.VideoURL
	return writeResult(w.out, w.format, recap, nil)
}
