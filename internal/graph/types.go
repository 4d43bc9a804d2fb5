// Package graph defines the knowledge-graph data model: typed nodes and
// edges, the immutable KnowledgeGraph aggregate, and the Builder that
// assembles a graph from extractor output.
//
// A graph is built privately by one analysis run and published wholesale;
// after publication it is read-only and safe for concurrent readers.
package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"time"
)

// NodeType classifies what a graph node represents.
type NodeType string

const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
	NodeClass     NodeType = "class"
	NodeFunction  NodeType = "function"
	NodeInterface NodeType = "interface"
	NodeModule    NodeType = "module"
	NodeConcept   NodeType = "concept"
)

// TypeCode returns the numeric code used as the first feature-vector field.
// Codes follow the NodeType enumeration order and must stay stable: the
// embedding fallback depends on them field-for-field.
func (t NodeType) TypeCode() float64 {
	switch t {
	case NodeFile:
		return 1
	case NodeDirectory:
		return 2
	case NodeClass:
		return 3
	case NodeFunction:
		return 4
	case NodeInterface:
		return 5
	case NodeModule:
		return 6
	case NodeConcept:
		return 7
	default:
		return 0
	}
}

// EdgeType classifies the relationship an edge represents.
type EdgeType string

const (
	EdgeImports    EdgeType = "imports"
	EdgeExtends    EdgeType = "extends"
	EdgeImplements EdgeType = "implements"
	EdgeCalls      EdgeType = "calls"
	EdgeContains   EdgeType = "contains"
	EdgeReferences EdgeType = "references"
	EdgeSimilarTo  EdgeType = "similar_to"
	EdgeDependsOn  EdgeType = "depends_on"
)

// StructuralEdgeTypes is the edge-type subset that defines code clusters.
// Two nodes are co-clustered only if connected through these types.
var StructuralEdgeTypes = map[EdgeType]bool{
	EdgeImports:    true,
	EdgeContains:   true,
	EdgeReferences: true,
}

// NodeMetadata carries everything extracted about a node beyond its name.
type NodeMetadata struct {
	FilePath     string    `json:"filePath,omitempty"`
	StartLine    int       `json:"startLine,omitempty"`
	EndLine      int       `json:"endLine,omitempty"`
	Complexity   float64   `json:"complexity,omitempty"`
	Size         int64     `json:"size,omitempty"`
	LastModified time.Time `json:"lastModified,omitzero"`
	ChildCount   int       `json:"childCount,omitempty"`
	Language     string    `json:"language,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty"`
	Exports      []string  `json:"exports,omitempty"`
	Imports      []string  `json:"imports,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// Node is a single element of the knowledge graph.
// Invariant: if Embedding is non-nil, its Euclidean norm is strictly < 1.
type Node struct {
	ID        string       `json:"id"`
	Type      NodeType     `json:"type"`
	Name      string       `json:"name"`
	Content   string       `json:"content,omitempty"`
	Metadata  NodeMetadata `json:"metadata"`
	Embedding []float64    `json:"embedding,omitempty"`
	Position  *Position    `json:"position,omitempty"`
}

// Position is a 2D layout coordinate with presentational attributes.
type Position struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}

// EdgeMetadata carries optional edge annotations.
type EdgeMetadata struct {
	Confidence  float64 `json:"confidence,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Edge is a directed, typed, weighted relationship between two nodes.
type Edge struct {
	ID       string       `json:"id"`
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Type     EdgeType     `json:"type"`
	Weight   float64      `json:"weight"`
	Metadata EdgeMetadata `json:"metadata,omitzero"`
}

// Metadata holds corpus-level aggregates for a graph.
type Metadata struct {
	RootPath              string         `json:"rootPath"`
	GeneratedAt           time.Time      `json:"generatedAt"`
	TotalFiles            int            `json:"totalFiles"`
	TotalLines            int            `json:"totalLines"`
	Languages             map[string]int `json:"languages"`
	AverageComplexity     float64        `json:"averageComplexity"`
	ClusteringCoefficient float64        `json:"clusteringCoefficient"`
	Diameter              int            `json:"diameter"`
}

// KnowledgeGraph is the published, read-only aggregate of one analysis run.
// Node order is insertion order, so identical inputs produce identical
// serialized output.
type KnowledgeGraph struct {
	ID       string   `json:"id"`
	Nodes    []*Node  `json:"nodes"`
	Edges    []*Edge  `json:"edges"`
	Metadata Metadata `json:"metadata"`

	byID map[string]*Node
}

// NodeByID returns the node with the given id, or nil.
func (g *KnowledgeGraph) NodeByID(id string) *Node {
	return g.byID[id]
}

// NodeID derives the stable id for a file or directory at absPath.
// Re-deriving the id for the same path always yields the same value.
func NodeID(t NodeType, absPath string) string {
	return memberID(t, absPath, "")
}

// MemberNodeID derives the stable id for a named member (class, function,
// interface) declared in the file at absPath.
func MemberNodeID(t NodeType, absPath, member string) string {
	return memberID(t, absPath, member)
}

func memberID(t NodeType, absPath, member string) string {
	h := sha256.New()
	h.Write([]byte(absPath))
	if member != "" {
		h.Write([]byte("#"))
		h.Write([]byte(member))
	}
	return string(t) + "-" + hex.EncodeToString(h.Sum(nil))[:12]
}

// EdgeID derives the deterministic edge identity.
func EdgeID(source string, t EdgeType, target string) string {
	return fmt.Sprintf("%s-%s-%s", source, t, target)
}

// GraphID derives a graph identity from the analyzed root path and the
// generation time. Two runs over the same root get distinct ids.
func GraphID(rootPath string, at time.Time) string {
	h := fnv.New32a()
	h.Write([]byte(rootPath))
	return fmt.Sprintf("g-%08x-%d", h.Sum32(), at.UnixMilli())
}
