// Package layout produces deterministic 2D positions for external
// rendering. Output is purely presentational: same graph content plus same
// layout name always yields the same positions, and nothing else is
// guaranteed.
package layout

import (
	"fmt"
	"math"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// Name selects a layout strategy.
type Name string

const (
	// Hierarchical places nodes in rows by type, columns by per-type index.
	Hierarchical Name = "hierarchical"
	// Circular places nodes at equal angles by node index.
	Circular Name = "circular"
	// Force refines a seeded circular placement with a fixed number of
	// connectivity-weighted iterations.
	Force Name = "force"
)

// typeOrder fixes the row order of the hierarchical layout.
var typeOrder = []graph.NodeType{
	graph.NodeDirectory,
	graph.NodeModule,
	graph.NodeFile,
	graph.NodeClass,
	graph.NodeInterface,
	graph.NodeFunction,
	graph.NodeConcept,
}

const (
	rowSpacing    = 120.0
	columnSpacing = 100.0
	circleRadius  = 300.0
	forceRounds   = 50
	forcePull     = 0.1
)

// Positions computes a position for every node of g under the named
// layout. The graph itself is not modified; callers attach positions to
// their own copies.
func Positions(g *graph.KnowledgeGraph, name Name) (map[string]graph.Position, error) {
	var coords map[string][2]float64
	switch name {
	case Hierarchical:
		coords = hierarchical(g)
	case Circular:
		coords = circular(g)
	case Force:
		coords = force(g)
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}

	out := make(map[string]graph.Position, len(g.Nodes))
	for _, n := range g.Nodes {
		xy := coords[n.ID]
		out[n.ID] = graph.Position{
			X:     xy[0],
			Y:     xy[1],
			Size:  NodeSize(n.Metadata.Complexity),
			Color: NodeColor(n.Type),
		}
	}
	return out, nil
}

func hierarchical(g *graph.KnowledgeGraph) map[string][2]float64 {
	row := make(map[graph.NodeType]int, len(typeOrder))
	for i, t := range typeOrder {
		row[t] = i
	}

	coords := make(map[string][2]float64, len(g.Nodes))
	columns := make(map[graph.NodeType]int)
	for _, n := range g.Nodes {
		r, ok := row[n.Type]
		if !ok {
			r = len(typeOrder)
		}
		c := columns[n.Type]
		columns[n.Type]++
		coords[n.ID] = [2]float64{float64(c) * columnSpacing, float64(r) * rowSpacing}
	}
	return coords
}

func circular(g *graph.KnowledgeGraph) map[string][2]float64 {
	coords := make(map[string][2]float64, len(g.Nodes))
	n := len(g.Nodes)
	for i, node := range g.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(max(n, 1))
		coords[node.ID] = [2]float64{
			circleRadius * math.Cos(angle),
			circleRadius * math.Sin(angle),
		}
	}
	return coords
}

// force starts from the circular placement and, for a fixed number of
// rounds, pulls each node toward the weighted centroid of its neighbors.
// No randomness anywhere, so the result is reproducible.
func force(g *graph.KnowledgeGraph) map[string][2]float64 {
	coords := circular(g)

	type pull struct {
		id     string
		weight float64
	}
	neighbors := make(map[string][]pull, len(g.Nodes))
	for _, e := range g.Edges {
		w := e.Weight
		if w <= 0 {
			w = 1
		}
		neighbors[e.Source] = append(neighbors[e.Source], pull{e.Target, w})
		neighbors[e.Target] = append(neighbors[e.Target], pull{e.Source, w})
	}

	for round := 0; round < forceRounds; round++ {
		next := make(map[string][2]float64, len(coords))
		for _, n := range g.Nodes {
			cur := coords[n.ID]
			pulls := neighbors[n.ID]
			if len(pulls) == 0 {
				next[n.ID] = cur
				continue
			}
			var cx, cy, total float64
			for _, p := range pulls {
				xy := coords[p.id]
				cx += xy[0] * p.weight
				cy += xy[1] * p.weight
				total += p.weight
			}
			cx /= total
			cy /= total
			next[n.ID] = [2]float64{
				cur[0] + (cx-cur[0])*forcePull,
				cur[1] + (cy-cur[1])*forcePull,
			}
		}
		coords = next
	}
	return coords
}
