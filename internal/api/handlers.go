package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

// SummarizeRequest is the body of POST /summarize. VideoURL wins when both are set.
type SummarizeRequest struct {
	Channel  string `json:"channel"`
	VideoURL string `json:"videoUrl"`
}

// VideoRequest is the body of POST /summarize/video.
type VideoRequest struct {
	URL string `json:"url"`
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status  string  `json:"status"`
	Uptime  float64 `json:"uptime"` // seconds
	Version string  `json:"version"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pipeline.OK(map[string]any{
		"message": "Video Summarizer API is running",
		"version": s.opts.Version,
		"endpoints": map[string]string{
			"POST /summarize":       "Summarize latest video from YouTube channel",
			"POST /summarize/video": "Summarize specific YouTube video URL",
			"GET /health":           "Health check endpoint",
			"GET /metrics":          "Operational counters",
		},
	}), s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pipeline.OK(HealthResponse{
		Status:  "healthy",
		Uptime:  time.Since(s.started).Seconds(),
		Version: s.opts.Version,
	}), s.logger)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(engine.FormatMetrics()))
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	channel := strings.TrimSpace(req.Channel)
	videoURL := strings.TrimSpace(req.VideoURL)

	var (
		recap *pipeline.Recap
		err   error
	)
	switch {
	case videoURL != "":
		recap, err = s.runner.SummarizeVideo(r.Context(), videoURL)
	case channel != "":
		recap, err = s.runner.SummarizeChannel(r.Context(), channel)
	default:
		writeJSON(w, http.StatusBadRequest,
			pipeline.Reject("Either channel name/URL or video URL is required"), s.logger)
		return
	}
	s.respond(w, recap, err)
}

func (s *Server) handleSummarizeVideo(w http.ResponseWriter, r *http.Request) {
	var req VideoRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, pipeline.Reject("Video URL is required"), s.logger)
		return
	}
	recap, err := s.runner.SummarizeVideo(r.Context(), req.URL)
	s.respond(w, recap, err)
}

// decode reads a JSON body into dst, answering 400 on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodySize)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.logger.Debug("api: bad request body", slog.Any("error", err))
		writeJSON(w, http.StatusBadRequest, pipeline.Reject("Invalid request format"), s.logger)
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, recap *pipeline.Recap, err error) {
	writeJSON(w, pipeline.Status(err), pipeline.Respond(recap, err), s.logger)
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("api: encode response failed", slog.Any("error", err))
	}
}
