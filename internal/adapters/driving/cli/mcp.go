package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JeanYan3D/tinatools/internal/adapters/driving/mcp"
	"github.com/JeanYan3D/tinatools/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the operations to MCP clients",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Expose every webhook operation as a Model Context Protocol tool.

Stdio is the default transport, so the command can be registered directly
with a desktop assistant. --port serves the streamable HTTP transport
instead. Token status is available as the tinatools://tokens/{integration}
resource.

Examples:
  # Stdio mode (default, for desktop assistants)
  tinatools mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  tinatools mcp serve --port 8081`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve streamable HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	a, cleanup, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	server, err := mcp.NewServer(&mcp.Ports{
		Dispatcher: a.Dispatcher,
		Tokens:     a.Tokens,
	}, version)
	if err != nil {
		return err
	}

	if port > 0 {
		return server.RunHTTP(cmd.Context(), fmt.Sprintf(":%d", port))
	}
	// stdout carries the protocol in stdio mode.
	logger.Debug("MCP server on stdio with %d tools", len(a.Dispatcher.Operations()))
	return server.Run(cmd.Context())
}
