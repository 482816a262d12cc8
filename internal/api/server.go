// Package api serves the summarization pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

// Runner is the pipeline the handlers drive. *pipeline.Runner implements it.
type Runner interface {
	SummarizeChannel(ctx context.Context, input string) (*pipeline.Recap, error)
	SummarizeVideo(ctx context.Context, videoURL string) (*pipeline.Recap, error)
}

// Options configures the HTTP surface.
type Options struct {
	Version     string
	RateLimit   int           // requests per RateWindow per client IP; 0 disables
	RateWindow  time.Duration // default one minute
	RateBurst   int
	MaxBodySize int64 // default 1 MiB
	TrustProxy  bool  // take the client IP from X-Forwarded-For / X-Real-IP
	Logger      *slog.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	runner  Runner
	opts    Options
	router  *chi.Mux
	logger  *slog.Logger
	limiter *keyedLimiter
	started time.Time
}

// NewServer creates a server with all routes configured.
func NewServer(runner Runner, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = 1 << 20
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		runner:  runner,
		opts:    opts,
		router:  chi.NewRouter(),
		logger:  opts.Logger,
		started: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.opts.TrustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleIndex)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/metrics", s.handleMetrics)

	s.router.Group(func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			s.limiter = newKeyedLimiter(s.opts.RateLimit, s.opts.RateWindow, s.opts.RateBurst)
			r.Use(rateLimit(s.limiter, s.logger))
		}
		r.Post("/summarize", s.handleSummarize)
		r.Post("/summarize/video", s.handleSummarizeVideo)
	})
}

// Close releases background resources. Safe to call more than once.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// logRequests logs one line per request with status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("api: request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	defer s.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		// A run drives a browser and several LLM calls; leave room for it.
		WriteTimeout: 10 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api: listening", slog.String("addr", addr), slog.String("version", s.opts.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
