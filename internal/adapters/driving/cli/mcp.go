package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	mcpserver "github.com/corpora-labs/corpora-cli/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Exposes the knowledge base to AI assistants over the Model Context
Protocol. By default the server speaks stdio, which is what desktop
clients expect; pass --port to serve streamable HTTP instead.

Claude Desktop configuration (claude_desktop_config.json):

  {
    "mcpServers": {
      "corpora": {
        "command": "corpora",
        "args": ["mcp"]
      }
    }
  }

Tools: search, list_documents, delete_document, job_status,
cluster_documents. Documents are also exposed as corpora:// resources.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	server, err := mcpserver.NewServer(&mcpserver.Ports{
		Search:   searchService,
		Document: documentService,
		Jobs:     jobService,
		Cluster:  clusterService,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if err := ensureCollection(cmd); err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		cmd.Printf("MCP server listening on %s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}
