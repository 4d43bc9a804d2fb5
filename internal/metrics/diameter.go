package metrics

import (
	"github.com/kgraph-dev/kgraph/internal/graph"
)

// unreachable marks pairs with no path in the distance matrix.
const unreachable = int(^uint(0) >> 2)

// Diameter returns the longest shortest-path distance between any two
// reachable nodes, treating every edge as undirected with unit weight.
// Unreachable pairs are ignored, so a disconnected graph reports the
// largest diameter among its components; an empty or edgeless graph
// reports 0.
//
// All-pairs shortest paths via Floyd-Warshall: O(V^3), acceptable at the
// graph sizes one analysis run produces.
func Diameter(g *graph.KnowledgeGraph, adj *graph.Adjacency) int {
	n := len(g.Nodes)
	if n == 0 {
		return 0
	}

	index := make(map[string]int, n)
	for i, node := range g.Nodes {
		index[node.ID] = i
	}

	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
		for j := range dist[i] {
			if i == j {
				continue
			}
			dist[i][j] = unreachable
		}
	}
	for _, node := range g.Nodes {
		i := index[node.ID]
		for _, neighbor := range adj.Neighbors(node.ID) {
			dist[i][index[neighbor]] = 1
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			ik := dist[i][k]
			if ik >= unreachable {
				continue
			}
			for j := 0; j < n; j++ {
				if through := ik + dist[k][j]; through < dist[i][j] {
					dist[i][j] = through
				}
			}
		}
	}

	diameter := 0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if dist[i][j] < unreachable && dist[i][j] > diameter {
				diameter = dist[i][j]
			}
		}
	}
	return diameter
}
