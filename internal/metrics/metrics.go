// Package metrics implements the graph algorithms run once per published
// graph: clustering coefficient, diameter, bounded dependency traversal,
// and structural clustering. All algorithms treat edges as undirected by
// symmetrizing on read; graph storage is never mutated.
package metrics

import (
	"github.com/kgraph-dev/kgraph/internal/graph"
)

// Compute fills the derived metadata fields of a graph that the assembler
// leaves zero: the mean clustering coefficient and the diameter. It runs
// before the graph is published, while the analysis run still owns it.
func Compute(g *graph.KnowledgeGraph) {
	adj := graph.NewAdjacency(g, nil)
	g.Metadata.ClusteringCoefficient = ClusteringCoefficient(g, adj)
	g.Metadata.Diameter = Diameter(g, adj)
}
