package commands

import (
	"errors"
	"log/slog"
	"net"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_recap/internal/api"
	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

var (
	servePort       string
	serveRateLimit  int
	serveTrustProxy bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the summarizer over HTTP",
	Long: `Start the HTTP API:

  GET  /                 service banner
  GET  /health           health check
  GET  /metrics          operational counters
  POST /summarize        {"channel": "..."} or {"videoUrl": "..."}
  POST /summarize/video  {"url": "..."}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", env.Str("PORT", "3000"),
		"Port to listen on")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", env.Int("API_RATE_LIMIT", 10),
		"Summarize requests per minute per client IP (0 disables)")
	serveCmd.Flags().BoolVar(&serveTrustProxy, "trust-proxy", parseBool(env.Str("API_TRUST_PROXY", ""), false),
		"Take the client IP from X-Forwarded-For / X-Real-IP (only behind a reverse proxy)")
}

func runServe(_ *cobra.Command, _ []string) error {
	r, err := newRunner()
	if err != nil {
		return errors.New(pipeline.Message(err))
	}
	defer func() {
		if err := r.Close(); err != nil {
			slog.Warn("serve: browser close failed", slog.Any("error", err))
		}
	}()

	ctx, stop := signalContext()
	defer stop()

	srv := api.NewServer(r, api.Options{
		Version:    version,
		RateLimit:  serveRateLimit,
		RateBurst:  max(serveRateLimit/2, 1),
		TrustProxy: serveTrustProxy,
	})
	return srv.ListenAndServe(ctx, net.JoinHostPort("", servePort))
}
