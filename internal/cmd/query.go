package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kgraph-dev/kgraph/internal/query"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <text> [path]",
	Short: "Query a knowledge graph",
	Long: `Analyze a source tree and query the resulting knowledge graph.

Query Modes (--type):
  similarity   Rank nodes by textual similarity to the query (default).
               Scores below 0.1 are filtered out.
  dependency   Resolve the query to a node by name, then rank its
               neighborhood by hop distance (bidirectional, capped).
               Results include hyperbolic distance where both nodes
               carry embeddings.
  cluster      Return all members of the structural cluster containing
               the named node.

Examples:
  kg query "auth"                          # Similarity over the current directory
  kg query "auth" ./src                    # Similarity over a specific tree
  kg query "UserService" --type dependency # Neighborhood of a node
  kg query "parser" --type cluster         # Structural cluster members
  kg query "auth" --limit 5                # Top five results
  kg query "db" --type dependency --hops 2 # Tighter traversal cap`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runQuery,
}

var (
	queryMode  string
	queryLimit int
	queryHops  int
)

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryMode, "type", "", "Query mode (similarity|dependency|cluster)")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Maximum results (default from config)")
	queryCmd.Flags().IntVar(&queryHops, "hops", 0, "Maximum hops for dependency queries (default from config)")
}

func runQuery(cmd *cobra.Command, args []string) error {
	text := args[0]
	rootPath := "."
	if len(args) > 1 {
		rootPath = args[1]
	}

	cfg := loadConfig()
	log := newLogger()
	defer log.Sync()

	st, analyzer, err := newPipeline(cfg, log)
	if err != nil {
		return err
	}
	if _, err := analyzer.Run(cmd.Context(), rootPath, cfg.ScannerOptions(true, true, false)); err != nil {
		return err
	}

	opts := query.Options{
		Mode:    query.Mode(queryMode),
		Limit:   cfg.Query.DefaultLimit,
		MaxHops: cfg.Query.MaxHops,
	}
	if queryLimit > 0 {
		opts.Limit = queryLimit
	}
	if queryHops > 0 {
		opts.MaxHops = queryHops
	}

	results, err := query.New(st).Query(text, opts)
	if err != nil {
		return err
	}
	return render(queryResults(results))
}

// queryResultRow is the CLI shape of one query result: content elided,
// location and scores kept.
type queryResultRow struct {
	ID                 string  `json:"id" yaml:"id"`
	Type               string  `json:"type" yaml:"type"`
	Name               string  `json:"name" yaml:"name"`
	Score              float64 `json:"score" yaml:"score"`
	Hops               int     `json:"hops,omitempty" yaml:"hops,omitempty"`
	HyperbolicDistance float64 `json:"hyperbolicDistance,omitempty" yaml:"hyperbolicDistance,omitempty"`
	Explanation        string  `json:"explanation" yaml:"explanation"`
	FilePath           string  `json:"filePath,omitempty" yaml:"filePath,omitempty"`
}

func queryResults(results []query.Result) []queryResultRow {
	rows := make([]queryResultRow, len(results))
	for i, r := range results {
		rows[i] = queryResultRow{
			ID:                 r.Node.ID,
			Type:               string(r.Node.Type),
			Name:               r.Node.Name,
			Score:              r.Score,
			Hops:               r.Hops,
			HyperbolicDistance: r.HyperbolicDistance,
			Explanation:        r.Explanation,
			FilePath:           r.Node.Metadata.FilePath,
		}
	}
	return rows
}
