// Package recapserver exposes the summarization pipeline as MCP tools.
package recapserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_recap/internal/pipeline"
)

// Runner is the pipeline the tools drive. *pipeline.Runner implements it.
type Runner interface {
	SummarizeChannel(ctx context.Context, input string) (*pipeline.Recap, error)
	SummarizeVideo(ctx context.Context, videoURL string) (*pipeline.Recap, error)
}

// ChannelInput is the argument of summarize_channel.
type ChannelInput struct {
	Channel string `json:"channel" jsonschema:"YouTube channel name, @handle, or channel URL (e.g. veritasium, @veritasium, https://www.youtube.com/@veritasium)"`
}

// VideoInput is the argument of summarize_video.
type VideoInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL (youtube.com/watch?v=... or youtu.be/...)"`
}

// RegisterTools registers summarize_channel and summarize_video on server.
func RegisterTools(server *mcp.Server, r Runner) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_channel",
		Description: "Find a YouTube channel by name, @handle or URL, take its most recent upload, extract the full transcript from the watch page and return a narrative summary of about 500 words. Takes one to several minutes.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: ptr(true)},
	}, summarizeChannel(r))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "summarize_video",
		Description: "Extract the full transcript of one YouTube video and return a narrative summary of about 500 words. Accepts youtube.com/watch and youtu.be links.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, OpenWorldHint: ptr(true)},
	}, summarizeVideo(r))
}

func summarizeChannel(r Runner) mcp.ToolHandlerFor[ChannelInput, *pipeline.Recap] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ChannelInput) (*mcp.CallToolResult, *pipeline.Recap, error) {
		channel := strings.TrimSpace(input.Channel)
		if channel == "" {
			return nil, nil, errors.New("channel is required")
		}
		recap, err := r.SummarizeChannel(ctx, channel)
		return result("summarize_channel", recap, err)
	}
}

func summarizeVideo(r Runner) mcp.ToolHandlerFor[VideoInput, *pipeline.Recap] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input VideoInput) (*mcp.CallToolResult, *pipeline.Recap, error) {
		url := strings.TrimSpace(input.URL)
		if url == "" {
			return nil, nil, errors.New("url is required")
		}
		recap, err := r.SummarizeVideo(ctx, url)
		return result("summarize_video", recap, err)
	}
}

// result reports pipeline failures with their user-facing message only.
func result(tool string, recap *pipeline.Recap, err error) (*mcp.CallToolResult, *pipeline.Recap, error) {
	if err != nil {
		slog.Warn(tool+": failed", slog.Any("error", err))
		return nil, nil, errors.New(pipeline.Message(err))
	}
	return nil, recap, nil
}

func ptr[T any](v T) *T { return &v }
