package query

import (
	"errors"
	"testing"
	"time"

	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/store"
)

func publishGraph(t *testing.T, nodes []*graph.Node, edges []*graph.Edge) *Engine {
	t.Helper()
	b := graph.NewBuilder("/src")
	for _, n := range nodes {
		b.AddNode(n)
	}
	for _, e := range edges {
		b.AddEdge(e)
	}
	s, err := store.New(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Publish(b.Build(time.Now())); err != nil {
		t.Fatal(err)
	}
	return New(s)
}

func nodeNamed(id, name string) *graph.Node {
	return &graph.Node{ID: id, Type: graph.NodeFunction, Name: name}
}

func TestQuery_SimilarityRanking(t *testing.T) {
	e := publishGraph(t, []*graph.Node{
		nodeNamed("a", "parseConfig"),
		{ID: "b", Type: graph.NodeFunction, Name: "loadConfig",
			Metadata: graph.NodeMetadata{Description: "parse and load settings"}},
		nodeNamed("c", "render"),
	}, nil)

	results, err := e.Query("parse config", Options{Mode: ModeSimilarity})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (render scores 0 and is filtered)", len(results))
	}
	// b matches both words (description has "parse", name has "config"),
	// a matches both too; ties keep node order, so a first.
	if results[0].Node.ID != "a" || results[1].Node.ID != "b" {
		t.Errorf("order = %s, %s; want a, b", results[0].Node.ID, results[1].Node.ID)
	}
	for _, r := range results {
		if r.Score != 1 {
			t.Errorf("score for %s = %v, want 1", r.Node.ID, r.Score)
		}
		if r.Explanation == "" {
			t.Error("missing explanation")
		}
	}
}

func TestQuery_SimilarityThresholdOnlyInSimilarityMode(t *testing.T) {
	e := publishGraph(t, []*graph.Node{
		nodeNamed("a", "handler"),
		nodeNamed("b", "unrelated"),
	}, nil)

	sim, err := e.Query("handler", Options{Mode: ModeSimilarity})
	if err != nil {
		t.Fatal(err)
	}
	if len(sim) != 1 {
		t.Errorf("similarity mode results = %d, want 1 (zero scores filtered)", len(sim))
	}

	all, err := e.Query("handler", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("default mode results = %d, want 2 (unfiltered)", len(all))
	}
	if all[0].Node.ID != "a" {
		t.Errorf("default mode should still rank the match first, got %s", all[0].Node.ID)
	}
}

func TestQuery_Limit(t *testing.T) {
	nodes := []*graph.Node{
		nodeNamed("a", "worker1"), nodeNamed("b", "worker2"),
		nodeNamed("c", "worker3"), nodeNamed("d", "worker4"),
	}
	e := publishGraph(t, nodes, nil)

	results, err := e.Query("worker", Options{Mode: ModeSimilarity, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("results = %d, want limit 2", len(results))
	}
}

func TestQuery_DependencyRanksByHops(t *testing.T) {
	e := publishGraph(t,
		[]*graph.Node{
			nodeNamed("a", "apiHandler"),
			nodeNamed("b", "service"),
			nodeNamed("c", "repository"),
		},
		[]*graph.Edge{
			{Source: "a", Target: "b", Type: graph.EdgeCalls, Weight: 1},
			{Source: "b", Target: "c", Type: graph.EdgeCalls, Weight: 1},
		},
	)

	results, err := e.Query("apiHandler", Options{Mode: ModeDependency})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	if results[0].Node.ID != "a" || results[0].Hops != 0 {
		t.Errorf("seed should rank first at 0 hops, got %s at %d", results[0].Node.ID, results[0].Hops)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Hops < results[i-1].Hops {
			t.Error("dependency results not in ascending hop order")
		}
	}
}

func TestQuery_DependencyNoMatchReturnsEmpty(t *testing.T) {
	e := publishGraph(t, []*graph.Node{nodeNamed("a", "handler")}, nil)

	results, err := e.Query("nonexistent", Options{Mode: ModeDependency})
	if err != nil {
		t.Fatalf("no-match dependency query must not error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestQuery_ClusterMembers(t *testing.T) {
	e := publishGraph(t,
		[]*graph.Node{
			nodeNamed("a", "auth"),
			nodeNamed("b", "session"),
			nodeNamed("c", "billing"),
			nodeNamed("d", "invoice"),
		},
		[]*graph.Edge{
			{Source: "a", Target: "b", Type: graph.EdgeImports, Weight: 1},
			{Source: "c", Target: "d", Type: graph.EdgeImports, Weight: 1},
		},
	)

	results, err := e.Query("session", Options{Mode: ModeCluster})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want the 2-node cluster containing the match", len(results))
	}
	for _, r := range results {
		if r.Score != 1.0 {
			t.Errorf("cluster member score = %v, want 1.0", r.Score)
		}
		if r.Node.ID == "c" || r.Node.ID == "d" {
			t.Errorf("node %s from the other cluster leaked in", r.Node.ID)
		}
	}
}

func TestQuery_ClusterNoStructuralEdges(t *testing.T) {
	e := publishGraph(t,
		[]*graph.Node{nodeNamed("a", "auth"), nodeNamed("b", "session")},
		[]*graph.Edge{{Source: "a", Target: "b", Type: graph.EdgeCalls, Weight: 1}},
	)

	results, err := e.Query("auth", Options{Mode: ModeCluster})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0 (no structural edges, no singleton clusters)", len(results))
	}
}

func TestQuery_UnknownGraphID(t *testing.T) {
	e := publishGraph(t, []*graph.Node{nodeNamed("a", "x")}, nil)
	_, err := e.Query("x", Options{GraphID: "g-00000000-0"})
	if !errors.Is(err, store.ErrGraphNotFound) {
		t.Errorf("expected ErrGraphNotFound, got %v", err)
	}
}

func TestQuery_EmptyStore(t *testing.T) {
	s, _ := store.New(0)
	e := New(s)
	_, err := e.Query("x", Options{})
	if !errors.Is(err, store.ErrEmptyStore) {
		t.Errorf("expected ErrEmptyStore, got %v", err)
	}
}
