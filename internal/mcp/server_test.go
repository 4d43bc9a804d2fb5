package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kgraph-dev/kgraph/internal/analyze"
	"github.com/kgraph-dev/kgraph/internal/config"
	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/hyper"
	"github.com/kgraph-dev/kgraph/internal/store"
)

func testServer(t *testing.T) (*Server, *graph.KnowledgeGraph) {
	t.Helper()

	b := graph.NewBuilder("/repo")
	b.AddNode(&graph.Node{
		ID:   "file-aaaaaaaaaaaa",
		Type: graph.NodeFile,
		Name: "auth.ts",
		Metadata: graph.NodeMetadata{
			FilePath:   "/repo/auth.ts",
			Complexity: 3,
			Language:   "typescript",
		},
	})
	b.AddNode(&graph.Node{
		ID:   "function-bbbbbbbbbbbb",
		Type: graph.NodeFunction,
		Name: "authenticate",
		Metadata: graph.NodeMetadata{
			FilePath: "/repo/auth.ts",
		},
	})
	b.AddEdge(&graph.Edge{
		Source: "file-aaaaaaaaaaaa",
		Target: "function-bbbbbbbbbbbb",
		Type:   graph.EdgeContains,
		Weight: 1,
	})
	g := b.Build(time.Now())

	st, err := store.New(0)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	if err := st.Publish(g); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	cfg := config.DefaultConfig()
	analyzer := analyze.New(st, hyper.New(nil, nil), nil)
	return New(cfg, analyzer, st, nil), g
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestHandleQueryReturnsMatches(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleQuery(context.Background(), request(map[string]any{
		"query": "authenticate",
	}))
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var payload struct {
		Results []queryRecord `json:"results"`
		Count   int           `json:"count"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if payload.Count == 0 {
		t.Fatal("expected at least one result")
	}
	if payload.Results[0].Name != "authenticate" {
		t.Errorf("top result = %q, want %q", payload.Results[0].Name, "authenticate")
	}
}

func TestHandleQueryMissingArgument(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleQuery(context.Background(), request(nil))
	if err != nil {
		t.Fatalf("handleQuery: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for missing query argument")
	}
}

func TestHandleGenerateReturnsRenderableRecords(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleGenerate(context.Background(), request(map[string]any{
		"query": "authenticate",
	}))
	if err != nil {
		t.Fatalf("handleGenerate: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var payload struct {
		Query string          `json:"query"`
		Nodes []contextRecord `json:"nodes"`
		Count int             `json:"count"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if payload.Count == 0 {
		t.Fatal("expected at least one record")
	}
	rec := payload.Nodes[0]
	if rec.Name != "authenticate" {
		t.Errorf("top record name = %q, want %q", rec.Name, "authenticate")
	}
	if rec.FilePath == "" {
		t.Error("record should carry the source file path")
	}
}

func TestHandleStatsDefaultsToMostRecent(t *testing.T) {
	s, g := testServer(t)

	res, err := s.handleStats(context.Background(), request(nil))
	if err != nil {
		t.Fatalf("handleStats: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var payload struct {
		GraphID string `json:"graphId"`
		Nodes   int    `json:"nodes"`
		Edges   int    `json:"edges"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if payload.GraphID != g.ID {
		t.Errorf("graphId = %q, want %q", payload.GraphID, g.ID)
	}
	if payload.Nodes != len(g.Nodes) || payload.Edges != len(g.Edges) {
		t.Errorf("counts = (%d, %d), want (%d, %d)", payload.Nodes, payload.Edges, len(g.Nodes), len(g.Edges))
	}
}

func TestHandleStatsUnknownGraph(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleStats(context.Background(), request(map[string]any{
		"graph_id": "g-deadbeef-0",
	}))
	if err != nil {
		t.Fatalf("handleStats: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for unknown graph id")
	}
}

func TestHandleVisualizationPositionsAllNodes(t *testing.T) {
	s, g := testServer(t)

	res, err := s.handleVisualization(context.Background(), request(map[string]any{
		"layout": "circular",
	}))
	if err != nil {
		t.Fatalf("handleVisualization: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var payload struct {
		Layout    string                    `json:"layout"`
		Positions map[string]graph.Position `json:"positions"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if payload.Layout != "circular" {
		t.Errorf("layout = %q, want circular", payload.Layout)
	}
	if len(payload.Positions) != len(g.Nodes) {
		t.Errorf("positions cover %d nodes, want %d", len(payload.Positions), len(g.Nodes))
	}
}

func TestHandleVisualizationUnknownLayout(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleVisualization(context.Background(), request(map[string]any{
		"layout": "spiral",
	}))
	if err != nil {
		t.Fatalf("handleVisualization: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for unknown layout")
	}
}

func TestHandleAnalyzeMissingPath(t *testing.T) {
	s, _ := testServer(t)

	res, err := s.handleAnalyze(context.Background(), request(nil))
	if err != nil {
		t.Fatalf("handleAnalyze: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for missing path argument")
	}
	if !strings.Contains(resultText(t, res), "path") {
		t.Errorf("error text %q should mention the missing argument", resultText(t, res))
	}
}
