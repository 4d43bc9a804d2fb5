package config

import (
	"github.com/kgraph-dev/kgraph/internal/scanner"
)

// DefaultConfig returns the configuration used when no config file
// overrides it.
func DefaultConfig() *Config {
	scan := scanner.DefaultOptions()
	return &Config{
		Analyze: AnalyzeConfig{
			MaxDepth:        scan.MaxDepth,
			Include:         scan.Include,
			Exclude:         scan.Exclude,
			WatchDebounceMS: 500,
		},
		Query: QueryConfig{
			DefaultLimit: 20,
			MaxHops:      3,
		},
		Store: StoreConfig{
			Capacity: 16,
		},
		Layout: LayoutConfig{
			Default: "hierarchical",
		},
	}
}

// ScannerOptions converts the analyze section into scanner options.
func (c *Config) ScannerOptions(recursive, includeContent, precise bool) scanner.Options {
	return scanner.Options{
		Recursive:      recursive,
		MaxDepth:       c.Analyze.MaxDepth,
		Include:        c.Analyze.Include,
		Exclude:        c.Analyze.Exclude,
		IncludeContent: includeContent || c.Analyze.IncludeContent,
		Precise:        precise || c.Analyze.Precise,
	}
}
