// Package analyze orchestrates one analysis run: scan the tree, assemble
// the graph, extract features, embed every node, compute derived metrics,
// and publish the finished graph atomically. No partial graph is ever
// published; a failed run leaves the store untouched.
package analyze

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kgraph-dev/kgraph/internal/features"
	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/hyper"
	"github.com/kgraph-dev/kgraph/internal/metrics"
	"github.com/kgraph-dev/kgraph/internal/scanner"
	"github.com/kgraph-dev/kgraph/internal/store"
)

// Analyzer runs the full pipeline. One Analyzer may serve many runs; each
// run owns its graph exclusively until publication.
type Analyzer struct {
	store    *store.Store
	embedder *hyper.Embedder
	log      *zap.Logger
}

// New creates an Analyzer. A nil logger is replaced with a no-op logger.
func New(s *store.Store, e *hyper.Embedder, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{store: s, embedder: e, log: log}
}

// Run analyzes rootPath and publishes the resulting graph. A missing root
// aborts the whole run; unreadable files are skipped with a warning inside
// the scanner.
func (a *Analyzer) Run(ctx context.Context, rootPath string, opts scanner.Options) (*graph.KnowledgeGraph, error) {
	start := time.Now()

	scan, err := scanner.New(opts, a.log)
	if err != nil {
		return nil, err
	}
	res, err := scan.Scan(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	b := graph.NewBuilder(rootPath)
	for _, n := range res.Nodes {
		b.AddNode(n)
	}
	for _, e := range res.Edges {
		b.AddEdge(e)
	}
	g := b.Build(time.Now())

	// Embeddings are computed against the assembled graph so degree
	// features see the final edge set.
	adj := graph.NewAdjacency(g, nil)
	for _, n := range g.Nodes {
		n.Embedding = a.embedder.Embed(ctx, features.Extract(n, adj))
	}

	metrics.Compute(g)

	if err := a.store.Publish(g); err != nil {
		return nil, fmt.Errorf("publishing graph: %w", err)
	}

	a.log.Info("analysis complete",
		zap.String("graph", g.ID),
		zap.String("root", rootPath),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("edges", len(g.Edges)),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return g, nil
}
