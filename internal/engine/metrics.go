package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	PipelineRuns       atomic.Int64
	PipelineErrors     atomic.Int64
	BrowserLaunches    atomic.Int64
	BrowserPages       atomic.Int64
	LocatorHits        atomic.Int64
	LocatorMisses      atomic.Int64
	TranscriptRequests atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	LLMThrottled       atomic.Int64
	ChunksSummarized   atomic.Int64
	SummaryExpansions  atomic.Int64
}

var metricKeys = []string{
	"pipeline_runs", "pipeline_errors",
	"browser_launches", "browser_pages",
	"locator_hits", "locator_misses",
	"transcript_requests",
	"llm_calls", "llm_errors", "llm_throttled",
	"chunks_summarized", "summary_expansions",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"pipeline_runs":       metrics.PipelineRuns.Load(),
		"pipeline_errors":     metrics.PipelineErrors.Load(),
		"browser_launches":    metrics.BrowserLaunches.Load(),
		"browser_pages":       metrics.BrowserPages.Load(),
		"locator_hits":        metrics.LocatorHits.Load(),
		"locator_misses":      metrics.LocatorMisses.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"llm_throttled":       metrics.LLMThrottled.Load(),
		"chunks_summarized":   metrics.ChunksSummarized.Load(),
		"summary_expansions":  metrics.SummaryExpansions.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sub-packages.
func IncrPipelineRuns()       { metrics.PipelineRuns.Add(1) }
func IncrPipelineErrors()     { metrics.PipelineErrors.Add(1) }
func IncrBrowserLaunches()    { metrics.BrowserLaunches.Add(1) }
func IncrBrowserPages()       { metrics.BrowserPages.Add(1) }
func IncrLocatorHits()        { metrics.LocatorHits.Add(1) }
func IncrLocatorMisses()      { metrics.LocatorMisses.Add(1) }
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrLLMCalls()           { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()          { metrics.LLMErrors.Add(1) }
func IncrLLMThrottled()       { metrics.LLMThrottled.Add(1) }
func IncrChunksSummarized()   { metrics.ChunksSummarized.Add(1) }
func IncrSummaryExpansions()  { metrics.SummaryExpansions.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
