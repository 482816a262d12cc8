package commands

import (
	"errors"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_recap/internal/engine"
	"github.com/anatolykoptev/go_recap/internal/pipeline"
	"github.com/anatolykoptev/go_recap/internal/recapserver"
)

var mcpPort string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the summarizer as MCP tools",
	Long: `Start an MCP server exposing summarize_channel and summarize_video.
Runs as HTTP MCP server or stdio transport.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpPort, "port", env.Str("MCP_PORT", "8892"),
		"Port for the HTTP MCP transport")
}

func runMCP(_ *cobra.Command, _ []string) error {
	r, err := newRunner()
	if err != nil {
		return errors.New(pipeline.Message(err))
	}
	defer r.Close()

	slog.Info("starting go_recap", slog.String("port", mcpPort))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_recap",
		Version: version,
	}, nil)

	recapserver.RegisterTools(server, r)
	slog.Info("tools registered", slog.Int("count", 2))

	return mcpserver.Run(server, mcpserver.Config{
		Name:         "go_recap",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	})
}
