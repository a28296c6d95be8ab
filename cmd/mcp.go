package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"podseek/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing the transcript archive",
	Long: `Run a Model Context Protocol (MCP) server that exposes podseek as tools.

The MCP server provides four tools:
- search_transcripts: full-text search with highlighted snippets
- ask_podcast: answer a question using transcripts as context
- list_episodes: list the episode catalog
- sync_transcripts: run one synchronization cycle

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  podseek mcp

  # Run MCP server with HTTP transport on port 8080
  podseek mcp --transport=http --port=8080`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses stdio protocol, so keep stdout and stderr clean
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		internal.InitMCPLogging(config)
		internal.EnsureYTDLP(cmd.Context())

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}
		defer app.Close()

		mcpServer := internal.NewMCPServer(app)

		if transport == "http" {
			fmt.Printf("Starting podseek MCP server on HTTP port %d...\n", port)
		}

		// Start the server (this will block until context is cancelled)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
