package layout

import (
	"testing"
	"time"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

func testGraph(t *testing.T) *graph.KnowledgeGraph {
	t.Helper()
	b := graph.NewBuilder("/src")
	b.AddNode(&graph.Node{ID: "d", Type: graph.NodeDirectory, Name: "src"})
	b.AddNode(&graph.Node{ID: "f", Type: graph.NodeFile, Name: "app.ts", Metadata: graph.NodeMetadata{Complexity: 9}})
	b.AddNode(&graph.Node{ID: "fn", Type: graph.NodeFunction, Name: "main", Metadata: graph.NodeMetadata{Complexity: 4}})
	b.AddEdge(&graph.Edge{Source: "d", Target: "f", Type: graph.EdgeContains, Weight: 1})
	b.AddEdge(&graph.Edge{Source: "f", Target: "fn", Type: graph.EdgeContains, Weight: 1})
	return b.Build(time.UnixMilli(1000))
}

func TestPositions_AllLayoutsCoverAllNodes(t *testing.T) {
	g := testGraph(t)
	for _, name := range []Name{Hierarchical, Circular, Force} {
		t.Run(string(name), func(t *testing.T) {
			pos, err := Positions(g, name)
			if err != nil {
				t.Fatal(err)
			}
			if len(pos) != len(g.Nodes) {
				t.Errorf("positions = %d, want %d", len(pos), len(g.Nodes))
			}
			for _, n := range g.Nodes {
				p, ok := pos[n.ID]
				if !ok {
					t.Errorf("node %s has no position", n.ID)
					continue
				}
				if p.Size <= 0 || p.Color == "" {
					t.Errorf("node %s missing presentational attributes: %+v", n.ID, p)
				}
			}
		})
	}
}

func TestPositions_Deterministic(t *testing.T) {
	g := testGraph(t)
	for _, name := range []Name{Hierarchical, Circular, Force} {
		first, err := Positions(g, name)
		if err != nil {
			t.Fatal(err)
		}
		second, err := Positions(g, name)
		if err != nil {
			t.Fatal(err)
		}
		for id, p := range first {
			if second[id] != p {
				t.Errorf("%s layout differs between runs for node %s", name, id)
			}
		}
	}
}

func TestPositions_UnknownLayout(t *testing.T) {
	if _, err := Positions(testGraph(t), "spiral"); err == nil {
		t.Error("expected error for unknown layout name")
	}
}

func TestHierarchical_RowsByType(t *testing.T) {
	g := testGraph(t)
	pos, err := Positions(g, Hierarchical)
	if err != nil {
		t.Fatal(err)
	}
	// Directory row above file row above function row.
	if !(pos["d"].Y < pos["f"].Y && pos["f"].Y < pos["fn"].Y) {
		t.Errorf("rows out of type order: d=%v f=%v fn=%v", pos["d"].Y, pos["f"].Y, pos["fn"].Y)
	}
}

func TestCircular_DistinctAngles(t *testing.T) {
	g := testGraph(t)
	pos, err := Positions(g, Circular)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[[2]float64]bool)
	for _, n := range g.Nodes {
		key := [2]float64{pos[n.ID].X, pos[n.ID].Y}
		if seen[key] {
			t.Error("two nodes share a circular position")
		}
		seen[key] = true
	}
}

func TestNodeSize(t *testing.T) {
	if NodeSize(0) != 8 {
		t.Errorf("NodeSize(0) = %v, want 8", NodeSize(0))
	}
	if NodeSize(4) != 12 {
		t.Errorf("NodeSize(4) = %v, want 12", NodeSize(4))
	}
	if NodeSize(1) >= NodeSize(100) {
		t.Error("NodeSize must be monotonic in complexity")
	}
	if NodeSize(1e9) != 40 {
		t.Errorf("NodeSize cap = %v, want 40", NodeSize(1e9))
	}
}

func TestColors_FixedLookup(t *testing.T) {
	if NodeColor(graph.NodeFile) == NodeColor(graph.NodeFunction) {
		t.Error("file and function colors should differ")
	}
	if NodeColor("bogus") != defaultColor {
		t.Error("unknown node type should get the default color")
	}
	if EdgeColor(graph.EdgeImports) == "" || EdgeColor("bogus") != defaultColor {
		t.Error("edge color lookup broken")
	}
}
