// Package query answers similarity, dependency, and cluster lookups
// against a published knowledge graph, returning ranked, explained
// results.
//
// The similarity score is deliberately literal: the fraction of query
// words found as substrings of a node's name, description, and content
// after lowercasing. No stemming, no word-boundary matching. Short query
// words can therefore tie or false-positive; this is a known precision
// limitation kept for compatibility, not an oversight to fix silently.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/hyper"
	"github.com/kgraph-dev/kgraph/internal/metrics"
	"github.com/kgraph-dev/kgraph/internal/store"
)

// Mode selects the query strategy.
type Mode string

const (
	// ModeDefault scores like similarity but returns unfiltered results.
	ModeDefault Mode = ""
	// ModeSimilarity filters scored results above the threshold.
	ModeSimilarity Mode = "similarity"
	// ModeDependency walks the dependency neighborhood of a seed node.
	ModeDependency Mode = "dependency"
	// ModeCluster returns the structural cluster containing a name match.
	ModeCluster Mode = "cluster"
)

// similarityThreshold filters similarity-mode results; scores must be
// strictly greater.
const similarityThreshold = 0.1

// DefaultLimit caps results when the caller does not supply a limit.
const DefaultLimit = 20

// Options parameterizes one query.
type Options struct {
	// GraphID selects the graph; empty means the most recent.
	GraphID string
	// Mode selects the strategy; empty is the unfiltered default.
	Mode Mode
	// Limit truncates results after sorting; <= 0 selects DefaultLimit.
	Limit int
	// MaxHops bounds dependency traversal; <= 0 selects the default.
	MaxHops int
}

// Result is one matched node with its rank explanation.
type Result struct {
	Node        *graph.Node `json:"node"`
	Score       float64     `json:"score"`
	Hops        int         `json:"hops,omitempty"`
	Explanation string      `json:"explanation"`
	// HyperbolicDistance is the Poincare distance to the query seed, set
	// when both endpoints carry embeddings (dependency mode only).
	HyperbolicDistance float64 `json:"hyperbolicDistance,omitempty"`
}

// Engine answers queries against graphs resident in a store. It is
// stateless per call and safe for concurrent use.
type Engine struct {
	store *store.Store
}

// New creates an Engine over the given store.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Query runs one lookup. An unknown graph id surfaces the store's typed
// not-found error; a query that simply matches nothing returns an empty
// result list and no error.
func (e *Engine) Query(q string, opts Options) ([]Result, error) {
	g, err := e.store.Get(opts.GraphID)
	if err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var results []Result
	switch opts.Mode {
	case ModeSimilarity:
		results = similarity(g, q, true)
	case ModeDependency:
		results = dependency(g, q, opts.MaxHops)
	case ModeCluster:
		results = cluster(g, q)
	default:
		results = similarity(g, q, false)
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// similarity scores every node by the fraction of query words contained in
// its searchable text. Ties keep original node order.
func similarity(g *graph.KnowledgeGraph, q string, filtered bool) []Result {
	words := strings.Fields(strings.ToLower(q))
	if len(words) == 0 {
		return nil
	}

	var results []Result
	for _, n := range g.Nodes {
		haystack := strings.ToLower(n.Name + " " + n.Metadata.Description + " " + n.Content)
		matched := 0
		for _, w := range words {
			if strings.Contains(haystack, w) {
				matched++
			}
		}
		score := float64(matched) / float64(len(words))
		if filtered && score <= similarityThreshold {
			continue
		}
		results = append(results, Result{
			Node:        n,
			Score:       score,
			Explanation: fmt.Sprintf("matched %d of %d query words", matched, len(words)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// dependency finds the first node whose name contains the query and walks
// its bounded neighborhood in both directions, ranking by hop distance.
func dependency(g *graph.KnowledgeGraph, q string, maxHops int) []Result {
	seed := findByName(g, q)
	if seed == nil {
		return nil
	}

	adj := graph.NewAdjacency(g, nil)
	reached := metrics.Traverse(adj, seed.ID, maxHops)

	results := make([]Result, 0, len(reached))
	for _, r := range reached {
		n := g.NodeByID(r.NodeID)
		if n == nil {
			continue
		}
		res := Result{
			Node:        n,
			Score:       1 / float64(1+r.Hops),
			Hops:        r.Hops,
			Explanation: fmt.Sprintf("%d hops from %s", r.Hops, seed.Name),
		}
		if len(seed.Embedding) > 0 && len(n.Embedding) > 0 && n != seed {
			res.HyperbolicDistance = hyper.Distance(seed.Embedding, n.Embedding)
		}
		results = append(results, res)
	}
	return results
}

// cluster returns every member of the first structural cluster containing
// a name match, each scored 1.0.
func cluster(g *graph.KnowledgeGraph, q string) []Result {
	needle := strings.ToLower(q)
	for _, members := range metrics.StructuralClusters(g) {
		matched := false
		for _, id := range members {
			n := g.NodeByID(id)
			if n != nil && strings.Contains(strings.ToLower(n.Name), needle) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		results := make([]Result, 0, len(members))
		for _, id := range members {
			n := g.NodeByID(id)
			if n == nil {
				continue
			}
			results = append(results, Result{
				Node:        n,
				Score:       1.0,
				Explanation: fmt.Sprintf("in structural cluster of %d nodes", len(members)),
			})
		}
		return results
	}
	return nil
}

// findByName returns the first node (insertion order) whose name contains
// the query, case-insensitively.
func findByName(g *graph.KnowledgeGraph, q string) *graph.Node {
	needle := strings.ToLower(q)
	if needle == "" {
		return nil
	}
	for _, n := range g.Nodes {
		if strings.Contains(strings.ToLower(n.Name), needle) {
			return n
		}
	}
	return nil
}
