package metrics

import (
	"github.com/kgraph-dev/kgraph/internal/graph"
)

// StructuralClusters returns the connected components of the graph
// restricted to structural edge types (imports, contains, references).
// Two nodes are co-clustered only if connected through that subset, not
// through arbitrary relation types. Singleton components are discarded.
// Cluster order and member order follow node insertion order, so the
// output is deterministic.
func StructuralClusters(g *graph.KnowledgeGraph) [][]string {
	adj := graph.NewAdjacency(g, graph.StructuralEdgeTypes)

	visited := make(map[string]bool, len(g.Nodes))
	var clusters [][]string

	for _, n := range g.Nodes {
		if visited[n.ID] {
			continue
		}
		component := collectComponent(adj, n.ID, visited)
		if len(component) > 1 {
			clusters = append(clusters, component)
		}
	}
	return clusters
}

// collectComponent gathers the connected component of start by BFS over
// the undirected view.
func collectComponent(adj *graph.Adjacency, start string, visited map[string]bool) []string {
	visited[start] = true
	component := []string{start}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range adj.Neighbors(current) {
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			component = append(component, neighbor)
			queue = append(queue, neighbor)
		}
	}
	return component
}
