package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docent-ai/docent/internal/adapters/driving/mcp"
)

var mcpDocument string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Use --document to load a document before serving; otherwise clients load
one with the load_document tool.

Examples:
  # Stdio mode (default, for Claude Desktop)
  docent mcp serve --document paper.pdf

  # HTTP mode (for MCP Inspector, remote access)
  docent mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docent": {
        "command": "/path/to/docent",
        "args": ["mcp", "serve", "--document", "/path/to/paper.pdf"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVarP(&mcpDocument, "document", "d", "", "document to load before serving")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if err := ensureServices(); err != nil {
		return err
	}

	if mcpDocument != "" {
		if _, err := ingestService.Ingest(cmd.Context(), mcpDocument); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
	}

	ports := &mcp.Ports{
		Ingest:  ingestService,
		Ask:     askService,
		Session: session,
		Units:   unitStore,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
