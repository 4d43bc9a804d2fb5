package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kgraph-dev/kgraph/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

AI agents can analyze trees, query graphs, and fetch layouts through
MCP tools instead of spawning CLI commands. Graphs published during the
session stay in the in-memory store, so an agent can analyze once and
query many times.

Available Tools:
  analyze_codebase    Build and publish a knowledge graph
  query_graph         Similarity, dependency, and cluster queries
  generate_from_graph Rendering-ready node records for doc generation
  get_visualization   Deterministic 2D positions for a graph
  graph_stats         Graph metadata and counts

All tool arguments and results are plain JSON.

Examples:
  kg mcp           # Serve on stdio until the client disconnects
  kg mcp -v        # Serve with debug logging on stderr`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log := newLogger()
	defer log.Sync()

	st, analyzer, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	return mcp.New(cfg, analyzer, st, log).ServeStdio()
}
