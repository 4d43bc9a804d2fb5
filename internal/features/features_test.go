package features

import (
	"math"
	"testing"
	"time"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

func buildGraph(t *testing.T, nodes []*graph.Node, edges []*graph.Edge) *graph.KnowledgeGraph {
	t.Helper()
	b := graph.NewBuilder("/src")
	for _, n := range nodes {
		b.AddNode(n)
	}
	for _, e := range edges {
		b.AddEdge(e)
	}
	return b.Build(time.Now())
}

func TestExtract_FieldForField(t *testing.T) {
	node := &graph.Node{
		ID:      "fn",
		Type:    graph.NodeFunction,
		Name:    "handler",
		Content: "return a a b",
		Metadata: graph.NodeMetadata{
			Complexity:   3,
			Size:         999,
			StartLine:    10,
			EndLine:      25,
			Dependencies: []string{"./a", "./b"},
			Exports:      []string{"handler"},
			Imports:      []string{"./a", "./b"},
		},
	}
	other := &graph.Node{ID: "file", Type: graph.NodeFile}
	g := buildGraph(t,
		[]*graph.Node{node, other},
		[]*graph.Edge{
			{Source: "file", Target: "fn", Type: graph.EdgeContains, Weight: 1},
			{Source: "fn", Target: "file", Type: graph.EdgeReferences, Weight: 1},
		},
	)

	v := Extract(node, graph.NewAdjacency(g, nil))
	if len(v) != Length {
		t.Fatalf("vector length = %d, want %d", len(v), Length)
	}

	want := map[int]float64{
		FieldTypeCode:         4,
		FieldComplexity:       3,
		FieldLogSize:          3, // log10(999+1)
		FieldLineSpan:         15,
		FieldInDegree:         1,
		FieldOutDegree:        1,
		FieldDependencies:     2,
		FieldExports:          1,
		FieldImports:          2,
		FieldTokens:           4,
		FieldDistinctTokens:   3,
		FieldLexicalDiversity: 0.75,
	}
	for idx, w := range want {
		if math.Abs(v[idx]-w) > 1e-9 {
			t.Errorf("field %d = %v, want %v", idx, v[idx], w)
		}
	}
	for i := FieldLexicalDiversity + 1; i < Length; i++ {
		if v[i] != 0 {
			t.Errorf("field %d = %v, want zero padding", i, v[i])
		}
	}
}

func TestExtract_NoContent(t *testing.T) {
	node := &graph.Node{ID: "f", Type: graph.NodeFile}
	g := buildGraph(t, []*graph.Node{node}, nil)

	v := Extract(node, graph.NewAdjacency(g, nil))
	if v[FieldTokens] != 0 || v[FieldDistinctTokens] != 0 {
		t.Error("empty content must produce zero token counts")
	}
	if v[FieldLexicalDiversity] != 0 {
		t.Errorf("lexical diversity = %v, want 0 for empty content", v[FieldLexicalDiversity])
	}
}

func TestExtract_Deterministic(t *testing.T) {
	node := &graph.Node{
		ID: "f", Type: graph.NodeFile, Content: "x y z",
		Metadata: graph.NodeMetadata{Complexity: 2, Size: 10, EndLine: 5},
	}
	g := buildGraph(t, []*graph.Node{node}, nil)
	adj := graph.NewAdjacency(g, nil)

	a := Extract(node, adj)
	b := Extract(node, adj)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("field %d differs between identical extractions", i)
		}
	}
}
