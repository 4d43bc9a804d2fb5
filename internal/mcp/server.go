// Package mcp exposes the knowledge-graph operations as MCP (Model
// Context Protocol) tools so AI agents can analyze and query codebases
// over stdio. Every tool accepts and returns plain structured data (JSON
// text), keeping the core transport-agnostic; nothing a tool returns can
// mutate a published graph.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kgraph-dev/kgraph/internal/analyze"
	"github.com/kgraph-dev/kgraph/internal/config"
	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/layout"
	"github.com/kgraph-dev/kgraph/internal/query"
	"github.com/kgraph-dev/kgraph/internal/store"
)

// Version reported in the MCP handshake.
const Version = "0.1.0"

// Server wraps the MCP server with the graph pipeline and store.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
	analyzer  *analyze.Analyzer
	store     *store.Store
	engine    *query.Engine
	log       *zap.Logger
}

// New creates an MCP server over the given components and registers the
// tools. A nil logger is replaced with a no-op logger.
func New(cfg *config.Config, analyzer *analyze.Analyzer, s *store.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		mcpServer: server.NewMCPServer("kg", Version, server.WithToolCapabilities(false)),
		cfg:       cfg,
		analyzer:  analyzer,
		store:     s,
		engine:    query.New(s),
		log:       log,
	}
	srv.registerTools()
	return srv
}

// ServeStdio runs the server over stdin/stdout until the transport
// closes.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_codebase",
		mcp.WithDescription("Analyze a source tree and publish a knowledge graph. Returns the graph id and summary metadata."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Root path of the source tree to analyze"),
		),
		mcp.WithBoolean("recursive",
			mcp.Description("Descend into subdirectories (default: true)"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Maximum directory depth below the root"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Store file and member content on graph nodes"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleAnalyze)

	queryTool := mcp.NewTool("query_graph",
		mcp.WithDescription("Query a published knowledge graph. Modes: similarity (default), dependency, cluster."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Query text"),
		),
		mcp.WithString("type",
			mcp.Description("Query mode: similarity, dependency, or cluster"),
		),
		mcp.WithString("graph_id",
			mcp.Description("Graph to query (default: most recent)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		),
	)
	s.mcpServer.AddTool(queryTool, s.handleQuery)

	vizTool := mcp.NewTool("get_visualization",
		mcp.WithDescription("Generate deterministic 2D positions for a graph. Layouts: hierarchical, circular, force."),
		mcp.WithString("layout",
			mcp.Description("Layout name (default from config)"),
		),
		mcp.WithString("graph_id",
			mcp.Description("Graph to lay out (default: most recent)"),
		),
	)
	s.mcpServer.AddTool(vizTool, s.handleVisualization)

	generateTool := mcp.NewTool("generate_from_graph",
		mcp.WithDescription("Query a graph and return rendering-ready node records (location, extent, doc description, content when stored) for documentation or code generation. Read-only."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Query text used to select nodes"),
		),
		mcp.WithString("type",
			mcp.Description("Query mode: similarity, dependency, or cluster"),
		),
		mcp.WithString("graph_id",
			mcp.Description("Graph to query (default: most recent)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of nodes"),
		),
	)
	s.mcpServer.AddTool(generateTool, s.handleGenerate)

	statsTool := mcp.NewTool("graph_stats",
		mcp.WithDescription("Return metadata for a published graph: counts, language histogram, clustering coefficient, diameter."),
		mcp.WithString("graph_id",
			mcp.Description("Graph to describe (default: most recent)"),
		),
	)
	s.mcpServer.AddTool(statsTool, s.handleStats)
}

func (s *Server) handleAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	recursive := true
	if r, ok := args["recursive"].(bool); ok {
		recursive = r
	}
	includeContent, _ := args["include_content"].(bool)

	opts := s.cfg.ScannerOptions(recursive, includeContent, false)
	if d, ok := args["max_depth"].(float64); ok && d >= 1 {
		opts.MaxDepth = int(d)
	}

	g, err := s.analyzer.Run(ctx, path, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"graphId":  g.ID,
		"nodes":    len(g.Nodes),
		"edges":    len(g.Edges),
		"metadata": g.Metadata,
	})
}

func (s *Server) handleQuery(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	q, ok := args["query"].(string)
	if !ok || q == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	opts := query.Options{MaxHops: s.cfg.Query.MaxHops, Limit: s.cfg.Query.DefaultLimit}
	if mode, ok := args["type"].(string); ok {
		opts.Mode = query.Mode(mode)
	}
	if id, ok := args["graph_id"].(string); ok {
		opts.GraphID = id
	}
	if limit, ok := args["limit"].(float64); ok && limit >= 1 {
		opts.Limit = int(limit)
	}

	results, err := s.engine.Query(q, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"results": queryRecords(results),
		"count":   len(results),
	})
}

func (s *Server) handleVisualization(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	name := s.cfg.Layout.Default
	if l, ok := args["layout"].(string); ok && l != "" {
		name = l
	}
	id, _ := args["graph_id"].(string)

	g, err := s.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	positions, err := layout.Positions(g, layout.Name(name))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"graphId":   g.ID,
		"layout":    name,
		"positions": positions,
	})
}

func (s *Server) handleGenerate(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	q, ok := args["query"].(string)
	if !ok || q == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	opts := query.Options{MaxHops: s.cfg.Query.MaxHops, Limit: s.cfg.Query.DefaultLimit}
	if mode, ok := args["type"].(string); ok {
		opts.Mode = query.Mode(mode)
	}
	if id, ok := args["graph_id"].(string); ok {
		opts.GraphID = id
	}
	if limit, ok := args["limit"].(float64); ok && limit >= 1 {
		opts.Limit = int(limit)
	}

	results, err := s.engine.Query(q, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records := make([]contextRecord, len(results))
	for i, r := range results {
		n := r.Node
		records[i] = contextRecord{
			ID:          n.ID,
			Type:        n.Type,
			Name:        n.Name,
			FilePath:    n.Metadata.FilePath,
			StartLine:   n.Metadata.StartLine,
			EndLine:     n.Metadata.EndLine,
			Description: n.Metadata.Description,
			Content:     n.Content,
			Score:       r.Score,
		}
	}
	return jsonResult(map[string]any{
		"query": q,
		"nodes": records,
		"count": len(records),
	})
}

func (s *Server) handleStats(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, _ := req.GetArguments()["graph_id"].(string)

	g, err := s.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"graphId":  g.ID,
		"nodes":    len(g.Nodes),
		"edges":    len(g.Edges),
		"metadata": g.Metadata,
	})
}

// contextRecord is one node prepared for a documentation or
// code-generation consumer: everything needed to render, nothing that can
// reach back into the graph.
type contextRecord struct {
	ID          string         `json:"id"`
	Type        graph.NodeType `json:"type"`
	Name        string         `json:"name"`
	FilePath    string         `json:"filePath,omitempty"`
	StartLine   int            `json:"startLine,omitempty"`
	EndLine     int            `json:"endLine,omitempty"`
	Description string         `json:"description,omitempty"`
	Content     string         `json:"content,omitempty"`
	Score       float64        `json:"score"`
}

// queryRecord is the plain-data shape of one query result crossing the
// transport boundary. Node content is elided; the consumer renders from
// names, scores, and metadata.
type queryRecord struct {
	ID          string         `json:"id"`
	Type        graph.NodeType `json:"type"`
	Name        string         `json:"name"`
	Score       float64        `json:"score"`
	Hops        int            `json:"hops,omitempty"`
	Explanation string         `json:"explanation"`
	FilePath    string         `json:"filePath,omitempty"`
}

func queryRecords(results []query.Result) []queryRecord {
	records := make([]queryRecord, len(results))
	for i, r := range results {
		records[i] = queryRecord{
			ID:          r.Node.ID,
			Type:        r.Node.Type,
			Name:        r.Node.Name,
			Score:       r.Score,
			Hops:        r.Hops,
			Explanation: r.Explanation,
			FilePath:    r.Node.Metadata.FilePath,
		}
	}
	return records
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
