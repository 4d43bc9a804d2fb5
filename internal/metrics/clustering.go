package metrics

import (
	"github.com/kgraph-dev/kgraph/internal/graph"
)

// ClusteringCoefficient returns the mean local clustering coefficient over
// nodes with at least two undirected neighbors. For each eligible node the
// local value is the fraction of neighbor pairs that are themselves
// directly connected. Nodes with fewer than two neighbors are excluded
// from the mean, not counted as zero; a graph with no eligible node has
// coefficient 0.
func ClusteringCoefficient(g *graph.KnowledgeGraph, adj *graph.Adjacency) float64 {
	var sum float64
	var eligible int

	for _, n := range g.Nodes {
		neighbors := adj.Neighbors(n.ID)
		if len(neighbors) < 2 {
			continue
		}
		eligible++

		triangles := 0
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				if adj.Connected(neighbors[i], neighbors[j]) {
					triangles++
				}
			}
		}
		pairs := len(neighbors) * (len(neighbors) - 1) / 2
		sum += float64(triangles) / float64(pairs)
	}

	if eligible == 0 {
		return 0
	}
	return sum / float64(eligible)
}
