package graph

// Adjacency is a read-only adjacency view over a published graph.
// Forward holds edge targets per source, Reverse holds edge sources per
// target. Algorithms that need an undirected view symmetrize on read via
// Neighbors; storage is never mutated.
type Adjacency struct {
	Forward map[string][]string
	Reverse map[string][]string

	undirected map[string][]string
}

// NewAdjacency builds the adjacency view for g, optionally restricted to a
// subset of edge types. A nil filter includes every edge.
func NewAdjacency(g *KnowledgeGraph, types map[EdgeType]bool) *Adjacency {
	a := &Adjacency{
		Forward:    make(map[string][]string, len(g.Nodes)),
		Reverse:    make(map[string][]string, len(g.Nodes)),
		undirected: make(map[string][]string, len(g.Nodes)),
	}

	for _, n := range g.Nodes {
		a.Forward[n.ID] = nil
		a.Reverse[n.ID] = nil
	}

	seen := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if types != nil && !types[e.Type] {
			continue
		}
		a.Forward[e.Source] = append(a.Forward[e.Source], e.Target)
		a.Reverse[e.Target] = append(a.Reverse[e.Target], e.Source)

		// Undirected view, deduplicated so parallel edges of different
		// types count one neighbor.
		for _, pair := range [][2]string{{e.Source, e.Target}, {e.Target, e.Source}} {
			if pair[0] == pair[1] || seen[pair] {
				continue
			}
			seen[pair] = true
			a.undirected[pair[0]] = append(a.undirected[pair[0]], pair[1])
		}
	}
	return a
}

// Neighbors returns the undirected neighbor set of a node.
func (a *Adjacency) Neighbors(id string) []string {
	return a.undirected[id]
}

// Connected reports whether an edge exists between x and y in either
// direction.
func (a *Adjacency) Connected(x, y string) bool {
	for _, n := range a.undirected[x] {
		if n == y {
			return true
		}
	}
	return false
}

// Degree returns the undirected degree of a node.
func (a *Adjacency) Degree(id string) int {
	return len(a.undirected[id])
}

// InDegree returns the number of edges pointing at the node.
func (a *Adjacency) InDegree(id string) int {
	return len(a.Reverse[id])
}

// OutDegree returns the number of edges leaving the node.
func (a *Adjacency) OutDegree(id string) int {
	return len(a.Forward[id])
}
