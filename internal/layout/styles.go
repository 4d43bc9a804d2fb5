package layout

import (
	"math"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// nodeColors is a fixed lookup of render colors per node type.
var nodeColors = map[graph.NodeType]string{
	graph.NodeFile:      "#4A90D9",
	graph.NodeDirectory: "#8F6ED5",
	graph.NodeClass:     "#E8A33D",
	graph.NodeFunction:  "#50B86C",
	graph.NodeInterface: "#D9564A",
	graph.NodeModule:    "#3DBDC4",
	graph.NodeConcept:   "#9B9B9B",
}

// edgeColors is a fixed lookup of render colors per edge type.
var edgeColors = map[graph.EdgeType]string{
	graph.EdgeImports:    "#4A90D9",
	graph.EdgeExtends:    "#E8A33D",
	graph.EdgeImplements: "#D9564A",
	graph.EdgeCalls:      "#50B86C",
	graph.EdgeContains:   "#BBBBBB",
	graph.EdgeReferences: "#8F6ED5",
	graph.EdgeSimilarTo:  "#C46DB4",
	graph.EdgeDependsOn:  "#7A7A7A",
}

const defaultColor = "#666666"

// NodeColor returns the render color for a node type.
func NodeColor(t graph.NodeType) string {
	if c, ok := nodeColors[t]; ok {
		return c
	}
	return defaultColor
}

// EdgeColor returns the render color for an edge type.
func EdgeColor(t graph.EdgeType) string {
	if c, ok := edgeColors[t]; ok {
		return c
	}
	return defaultColor
}

// NodeSize maps complexity to a visual radius: monotonic, sublinear, and
// capped so one giant function cannot dominate the canvas.
func NodeSize(complexity float64) float64 {
	if complexity < 0 {
		complexity = 0
	}
	size := 8 + 2*math.Sqrt(complexity)
	return math.Min(size, 40)
}
