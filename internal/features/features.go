// Package features converts a graph node plus its graph context into a
// fixed-length numeric vector. The feature map is hand-engineered, not
// learned, and the field order is load-bearing: the embedding fallback
// projects these fields directly, so changing an index or a formula changes
// every fallback embedding.
package features

import (
	"math"
	"strings"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// Length is the fixed feature-vector length. Fields beyond the engineered
// ones are zero-padded.
const Length = 128

// Field indexes into the feature vector.
const (
	FieldTypeCode = iota
	FieldComplexity
	FieldLogSize
	FieldLineSpan
	FieldInDegree
	FieldOutDegree
	FieldDependencies
	FieldExports
	FieldImports
	FieldTokens
	FieldDistinctTokens
	FieldLexicalDiversity
)

// Extract computes the feature vector for a node given the adjacency view
// of its graph.
func Extract(n *graph.Node, adj *graph.Adjacency) []float64 {
	v := make([]float64, Length)

	v[FieldTypeCode] = n.Type.TypeCode()
	v[FieldComplexity] = n.Metadata.Complexity
	v[FieldLogSize] = math.Log10(float64(n.Metadata.Size) + 1)
	v[FieldLineSpan] = float64(n.Metadata.EndLine - n.Metadata.StartLine)
	v[FieldInDegree] = float64(adj.InDegree(n.ID))
	v[FieldOutDegree] = float64(adj.OutDegree(n.ID))
	v[FieldDependencies] = float64(len(n.Metadata.Dependencies))
	v[FieldExports] = float64(len(n.Metadata.Exports))
	v[FieldImports] = float64(len(n.Metadata.Imports))

	tokens := strings.Fields(n.Content)
	distinct := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		distinct[tok] = struct{}{}
	}
	v[FieldTokens] = float64(len(tokens))
	v[FieldDistinctTokens] = float64(len(distinct))
	if len(tokens) > 0 {
		v[FieldLexicalDiversity] = float64(len(distinct)) / float64(len(tokens))
	}

	return v
}
