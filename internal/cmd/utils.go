package cmd

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kgraph-dev/kgraph/internal/analyze"
	"github.com/kgraph-dev/kgraph/internal/config"
	"github.com/kgraph-dev/kgraph/internal/graph"
	"github.com/kgraph-dev/kgraph/internal/hyper"
	"github.com/kgraph-dev/kgraph/internal/output"
	"github.com/kgraph-dev/kgraph/internal/store"
)

// Shared helpers for command implementations

// loadConfig loads .kg/config.yaml from the working directory upward,
// falling back to defaults when no config exists.
func loadConfig() *config.Config {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// newLogger builds the CLI logger: errors only by default, everything
// with --verbose. Logs go to stderr so stdout stays parseable.
func newLogger() *zap.Logger {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newPipeline wires the store, embedder, and analyzer from config. An
// embedding model path selects the ONNX projection; otherwise the
// deterministic fallback embedder runs alone.
func newPipeline(cfg *config.Config, log *zap.Logger) (*store.Store, *analyze.Analyzer, error) {
	st, err := store.New(cfg.Store.Capacity)
	if err != nil {
		return nil, nil, fmt.Errorf("creating graph store: %w", err)
	}

	var model hyper.Model
	if cfg.Embedding.ModelPath != "" {
		model = hyper.NewONNXModel(cfg.Embedding.ModelPath)
	}
	embedder := hyper.New(model, log)

	return st, analyze.New(st, embedder, log), nil
}

// render marshals v in the selected output format and writes it to stdout.
func render(v any) error {
	f, err := output.Parse(outputFormat)
	if err != nil {
		return err
	}
	data, err := output.Marshal(v, f)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// graphSummary is the analyze/watch output shape.
type graphSummary struct {
	GraphID  string         `json:"graphId" yaml:"graphId"`
	Nodes    int            `json:"nodes" yaml:"nodes"`
	Edges    int            `json:"edges" yaml:"edges"`
	Metadata graph.Metadata `json:"metadata" yaml:"metadata"`
}

func summarize(g *graph.KnowledgeGraph) graphSummary {
	return graphSummary{
		GraphID:  g.ID,
		Nodes:    len(g.Nodes),
		Edges:    len(g.Edges),
		Metadata: g.Metadata,
	}
}
