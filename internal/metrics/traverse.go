package metrics

import (
	"github.com/kgraph-dev/kgraph/internal/graph"
)

// DefaultMaxHops bounds dependency traversal when the caller does not say
// otherwise.
const DefaultMaxHops = 3

// Reached is one node found by a bounded traversal, with its hop distance
// from the seed.
type Reached struct {
	NodeID string
	Hops   int
}

// Traverse performs a breadth-first traversal from seed, following edges
// in either direction, capped at maxHops. The seed itself is reported at
// hop 0; results are in BFS order, so ascending hop distance. A maxHops
// of zero or less selects DefaultMaxHops. An unknown seed returns nil.
func Traverse(adj *graph.Adjacency, seed string, maxHops int) []Reached {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	if _, known := adj.Forward[seed]; !known {
		return nil
	}

	visited := map[string]bool{seed: true}
	result := []Reached{{NodeID: seed, Hops: 0}}
	frontier := []string{seed}

	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		var next []string
		visit := func(neighbor string) {
			if visited[neighbor] {
				return
			}
			visited[neighbor] = true
			result = append(result, Reached{NodeID: neighbor, Hops: hop})
			next = append(next, neighbor)
		}
		for _, id := range frontier {
			for _, neighbor := range adj.Forward[id] {
				visit(neighbor)
			}
			for _, neighbor := range adj.Reverse[id] {
				visit(neighbor)
			}
		}
		frontier = next
	}
	return result
}
