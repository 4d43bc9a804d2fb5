// Package cmd contains all CLI commands for kg.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the current version of kg
var Version = "0.1.0"

// Global flags
var (
	verbose      bool
	outputFormat string
	forAgents    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kg",
	Short: "Knowledge graph CLI for codebase analysis",
	Long: `kg turns a source tree into a knowledge graph of files, directories,
and code members, embeds every node in hyperbolic (Poincare ball) space,
and lets you query and visualize the result.

Each analysis run publishes a fresh immutable graph: nodes carry
complexity scores, doc-comment descriptions, and a 64-dimensional
embedding with norm strictly below 1; edges record containment, imports,
and references. Graph-level metrics (clustering coefficient, diameter)
are computed on every run.

Output Format:
  All commands print YAML by default. Use --format json for
  machine-parseable output.

Main capabilities:
  - Analyze a source tree into a knowledge graph
  - Query the graph by similarity, dependency, or cluster
  - Generate deterministic 2D layouts for visualization
  - Report graph statistics and export the graph as JSON
  - Serve the same operations to AI agents over MCP

Examples:
  kg analyze ./src                   # Build a graph from a source tree
  kg analyze ./src --watch           # Re-analyze on file changes
  kg query "auth" ./src              # Rank nodes by similarity
  kg query "server" --type dependency ./src
  kg layout ./src --layout force     # 2D positions for every node
  kg stats ./src --export graph.json # Metadata plus a JSON export
  kg mcp                             # MCP server on stdio

See 'kg <command> --help' for command-specific options.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "Output format (yaml|json)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	output := map[string]any{
		"version":  Version,
		"commands": buildCommandInfo(cmd.Root()).Subcommands,
	}
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build agent help: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	for _, sub := range cmd.Commands() {
		if sub.Hidden || sub.Name() == "help" || sub.Name() == "completion" {
			continue
		}
		info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
	}
	return info
}
