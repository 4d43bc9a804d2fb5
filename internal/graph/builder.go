package graph

import (
	"path/filepath"
	"strings"
	"time"
)

// Builder accumulates nodes and edges emitted by the source extractor and
// assembles them into a published KnowledgeGraph. A Builder is owned by a
// single analysis run and is not safe for concurrent use.
type Builder struct {
	rootPath string
	nodes    map[string]*Node
	order    []string
	edges    map[string]*Edge
	edgeOrd  []string
}

// NewBuilder creates a Builder for an analysis of rootPath.
func NewBuilder(rootPath string) *Builder {
	return &Builder{
		rootPath: rootPath,
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
	}
}

// AddNode records a node. A later write for the same id overwrites the
// earlier one but keeps its original position in insertion order.
func (b *Builder) AddNode(n *Node) {
	if _, seen := b.nodes[n.ID]; !seen {
		b.order = append(b.order, n.ID)
	}
	b.nodes[n.ID] = n
}

// AddEdge records an edge, deduplicating by id.
func (b *Builder) AddEdge(e *Edge) {
	if e.ID == "" {
		e.ID = EdgeID(e.Source, e.Type, e.Target)
	}
	if _, seen := b.edges[e.ID]; !seen {
		b.edgeOrd = append(b.edgeOrd, e.ID)
	}
	b.edges[e.ID] = e
}

// HasNode reports whether a node with the given id has been recorded.
func (b *Builder) HasNode(id string) bool {
	_, ok := b.nodes[id]
	return ok
}

// NodeCount returns the number of distinct nodes recorded so far.
func (b *Builder) NodeCount() int { return len(b.nodes) }

// Build assembles the immutable graph. Edges whose source or target id does
// not resolve to a recorded node are dropped: dangling references are
// omitted, never stored broken. Corpus aggregates (file/line counts,
// language histogram, mean complexity) are computed here; the
// clustering coefficient and diameter are filled in by the metrics pass.
func (b *Builder) Build(at time.Time) *KnowledgeGraph {
	g := &KnowledgeGraph{
		ID:   GraphID(b.rootPath, at),
		byID: make(map[string]*Node, len(b.nodes)),
	}

	g.Nodes = make([]*Node, 0, len(b.nodes))
	for _, id := range b.order {
		n := b.nodes[id]
		g.Nodes = append(g.Nodes, n)
		g.byID[id] = n
	}

	g.Edges = make([]*Edge, 0, len(b.edges))
	for _, id := range b.edgeOrd {
		e := b.edges[id]
		if _, ok := b.nodes[e.Source]; !ok {
			continue
		}
		if _, ok := b.nodes[e.Target]; !ok {
			continue
		}
		g.Edges = append(g.Edges, e)
	}

	g.Metadata = b.aggregate(at)
	return g
}

func (b *Builder) aggregate(at time.Time) Metadata {
	md := Metadata{
		RootPath:    b.rootPath,
		GeneratedAt: at,
		Languages:   make(map[string]int),
	}

	var complexitySum float64
	var fileCount int
	for _, id := range b.order {
		n := b.nodes[id]
		if n.Type != NodeFile {
			continue
		}
		fileCount++
		md.TotalFiles++
		md.TotalLines += n.Metadata.EndLine
		complexitySum += n.Metadata.Complexity
		if lang := languageForPath(n.Metadata.FilePath); lang != "" {
			md.Languages[lang]++
		}
	}
	if fileCount > 0 {
		md.AverageComplexity = complexitySum / float64(fileCount)
	}
	return md
}

// languageForPath maps a file extension to a language name for the
// corpus histogram. Unknown extensions are reported as the bare extension.
func languageForPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ts", ".tsx":
		return "typescript"
	case ".js", ".jsx", ".mjs":
		return "javascript"
	case ".go":
		return "go"
	case ".py":
		return "python"
	case ".java":
		return "java"
	case ".rb":
		return "ruby"
	case ".rs":
		return "rust"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case "":
		return ""
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
