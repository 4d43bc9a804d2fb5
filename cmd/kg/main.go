// Package main is the entry point for the kg CLI tool.
package main

import (
	"github.com/kgraph-dev/kgraph/internal/cmd"
)

func main() {
	cmd.Execute()
}
