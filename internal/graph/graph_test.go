package graph

import (
	"testing"
	"time"
)

func TestNodeID_Deterministic(t *testing.T) {
	a := NodeID(NodeFile, "/src/app.ts")
	b := NodeID(NodeFile, "/src/app.ts")
	if a != b {
		t.Errorf("same path produced different ids: %s vs %s", a, b)
	}
	if a == NodeID(NodeFile, "/src/other.ts") {
		t.Error("different paths produced the same id")
	}
	if a == NodeID(NodeDirectory, "/src/app.ts") {
		t.Error("different types produced the same id")
	}
}

func TestMemberNodeID_DistinctFromFile(t *testing.T) {
	file := NodeID(NodeFile, "/src/app.ts")
	fn := MemberNodeID(NodeFunction, "/src/app.ts", "main")
	cls := MemberNodeID(NodeClass, "/src/app.ts", "App")

	if file == fn || fn == cls {
		t.Errorf("member ids collide: file=%s fn=%s class=%s", file, fn, cls)
	}
	if fn != MemberNodeID(NodeFunction, "/src/app.ts", "main") {
		t.Error("re-deriving a member id changed its value")
	}
}

func TestEdgeID_Format(t *testing.T) {
	got := EdgeID("a", EdgeContains, "b")
	if got != "a-contains-b" {
		t.Errorf("EdgeID = %q, want %q", got, "a-contains-b")
	}
}

func TestBuilder_DeduplicatesNodes(t *testing.T) {
	b := NewBuilder("/src")
	b.AddNode(&Node{ID: "n1", Type: NodeFile, Name: "first"})
	b.AddNode(&Node{ID: "n2", Type: NodeFile, Name: "second"})
	b.AddNode(&Node{ID: "n1", Type: NodeFile, Name: "rewritten"})

	g := b.Build(time.Now())
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(g.Nodes))
	}
	// Later write wins but keeps insertion order.
	if g.Nodes[0].Name != "rewritten" {
		t.Errorf("expected overwrite to win, got %q", g.Nodes[0].Name)
	}
	if g.NodeByID("n2") == nil {
		t.Error("NodeByID lost a node")
	}
}

func TestBuilder_DropsDanglingEdges(t *testing.T) {
	b := NewBuilder("/src")
	b.AddNode(&Node{ID: "a", Type: NodeFile})
	b.AddNode(&Node{ID: "b", Type: NodeFile})
	b.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeImports, Weight: 1})
	b.AddEdge(&Edge{Source: "a", Target: "missing", Type: EdgeImports, Weight: 1})

	g := b.Build(time.Now())
	if len(g.Edges) != 1 {
		t.Fatalf("expected dangling edge to be dropped, got %d edges", len(g.Edges))
	}
	for _, e := range g.Edges {
		if g.NodeByID(e.Source) == nil || g.NodeByID(e.Target) == nil {
			t.Errorf("edge %s references a missing node", e.ID)
		}
	}
}

func TestBuilder_Aggregates(t *testing.T) {
	b := NewBuilder("/src")
	b.AddNode(&Node{
		ID: "f1", Type: NodeFile,
		Metadata: NodeMetadata{FilePath: "/src/a.ts", EndLine: 100, Complexity: 4},
	})
	b.AddNode(&Node{
		ID: "f2", Type: NodeFile,
		Metadata: NodeMetadata{FilePath: "/src/b.go", EndLine: 50, Complexity: 2},
	})
	b.AddNode(&Node{ID: "d1", Type: NodeDirectory, Metadata: NodeMetadata{FilePath: "/src"}})

	md := b.Build(time.Now()).Metadata
	if md.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", md.TotalFiles)
	}
	if md.TotalLines != 150 {
		t.Errorf("TotalLines = %d, want 150", md.TotalLines)
	}
	if md.AverageComplexity != 3 {
		t.Errorf("AverageComplexity = %f, want 3", md.AverageComplexity)
	}
	if md.Languages["typescript"] != 1 || md.Languages["go"] != 1 {
		t.Errorf("unexpected language histogram: %v", md.Languages)
	}
}

func TestGraphID_DistinctAcrossRuns(t *testing.T) {
	t0 := time.UnixMilli(1000)
	t1 := time.UnixMilli(2000)
	if GraphID("/src", t0) == GraphID("/src", t1) {
		t.Error("expected distinct graph ids for distinct timestamps")
	}
	if GraphID("/src", t0) != GraphID("/src", t0) {
		t.Error("expected identical graph ids for identical inputs")
	}
}

func TestAdjacency_UndirectedView(t *testing.T) {
	b := NewBuilder("/src")
	for _, id := range []string{"a", "b", "c"} {
		b.AddNode(&Node{ID: id, Type: NodeFile})
	}
	b.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeImports, Weight: 1})
	b.AddEdge(&Edge{Source: "b", Target: "a", Type: EdgeReferences, Weight: 1})
	b.AddEdge(&Edge{Source: "b", Target: "c", Type: EdgeContains, Weight: 1})
	g := b.Build(time.Now())

	adj := NewAdjacency(g, nil)
	if adj.Degree("b") != 2 {
		t.Errorf("degree(b) = %d, want 2 (parallel edges dedup to one neighbor)", adj.Degree("b"))
	}
	if !adj.Connected("a", "b") || !adj.Connected("c", "b") {
		t.Error("expected undirected connectivity in both directions")
	}
	if adj.Connected("a", "c") {
		t.Error("a and c are not directly connected")
	}
}

func TestAdjacency_TypeFilter(t *testing.T) {
	b := NewBuilder("/src")
	b.AddNode(&Node{ID: "a", Type: NodeFile})
	b.AddNode(&Node{ID: "b", Type: NodeFile})
	b.AddEdge(&Edge{Source: "a", Target: "b", Type: EdgeCalls, Weight: 1})
	g := b.Build(time.Now())

	adj := NewAdjacency(g, StructuralEdgeTypes)
	if adj.Degree("a") != 0 {
		t.Errorf("calls edge leaked through structural filter, degree=%d", adj.Degree("a"))
	}
}
