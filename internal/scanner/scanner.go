// Package scanner walks a source tree and extracts node and edge fragments
// for the knowledge graph: directory and file nodes, class/function/interface
// members, and import relationships.
//
// The default extractor is a best-effort lexical scanner (pattern match plus
// brace-depth delimiter matching), not a compiler front-end. Known failure
// modes: braces inside string literals or comments, and multi-line
// declaration signatures. A tree-sitter backed extractor can be swapped in
// behind the same interface when fidelity matters; the rest of the pipeline
// is agnostic to how declarations were found.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// RootNotFoundError is the fatal configuration error for a missing or
// unreadable root path. The whole run aborts; nothing is published.
type RootNotFoundError struct {
	Path string
	Err  error
}

func (e *RootNotFoundError) Error() string {
	return fmt.Sprintf("analysis root %s not found: %v", e.Path, e.Err)
}

func (e *RootNotFoundError) Unwrap() error { return e.Err }

// Options controls a scan.
type Options struct {
	// Recursive enables descent into subdirectories.
	Recursive bool
	// MaxDepth bounds descent below the root (root itself is depth 0).
	MaxDepth int
	// Include holds glob patterns a file must match to be analyzed.
	Include []string
	// Exclude holds glob patterns; matching paths are skipped entirely.
	Exclude []string
	// IncludeContent stores file and member content on the emitted nodes.
	IncludeContent bool
	// Precise selects the tree-sitter extractor where a grammar exists,
	// falling back to the lexical scanner elsewhere.
	Precise bool
}

// DefaultOptions returns the scan defaults.
func DefaultOptions() Options {
	return Options{
		Recursive: true,
		MaxDepth:  10,
		Include: []string{
			"*.ts", "*.tsx", "*.js", "*.jsx",
			"*.py", "*.go", "*.java", "*.rb",
			"*.rs", "*.c", "*.cpp", "*.cs", "*.php",
		},
		Exclude: []string{
			"node_modules", ".git", "dist", "build",
			"vendor", "target", "__pycache__",
		},
	}
}

// Result holds the fragments emitted by one scan.
type Result struct {
	Nodes []*graph.Node
	Edges []*graph.Edge
	// Skipped counts files that could not be read and were skipped.
	Skipped int

	pendingImports []pendingImport
}

// pendingImport defers import-edge emission until the whole tree has been
// walked, so relative specifiers can resolve against files seen later.
type pendingImport struct {
	fileID   string
	filePath string
	imports  []importStatement
}

// Scanner extracts graph fragments from a source tree.
type Scanner struct {
	opts     Options
	patterns *patternSet
	log      *zap.Logger
}

// New creates a Scanner. A nil logger is replaced with a no-op logger.
func New(opts Options, log *zap.Logger) (*Scanner, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ps, err := compilePatterns(opts.Include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("compiling scan patterns: %w", err)
	}
	return &Scanner{opts: opts, patterns: ps, log: log}, nil
}

// Scan walks rootPath and returns the extracted fragments. A missing root
// is fatal; individual unreadable files are skipped with a warning. The
// context deadline is checked between directory entries, so callers bound
// file-system time by passing a context with a timeout.
func (s *Scanner) Scan(ctx context.Context, rootPath string) (*Result, error) {
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, &RootNotFoundError{Path: rootPath, Err: err}
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &RootNotFoundError{Path: rootPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &RootNotFoundError{Path: rootPath, Err: fmt.Errorf("not a directory")}
	}

	res := &Result{}
	files := make(map[string]string) // abs file path -> node id

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			s.log.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(walkErr))
			res.Skipped++
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		depth := pathDepth(rel)

		if d.IsDir() {
			if path != root {
				if !s.opts.Recursive || depth > s.opts.MaxDepth || s.patterns.excluded(rel) {
					return filepath.SkipDir
				}
			}
			s.emitDirectory(res, root, path)
			return nil
		}

		if depth > s.opts.MaxDepth || s.patterns.excluded(rel) || !s.patterns.included(rel) {
			return nil
		}
		if err := s.emitFile(ctx, res, path, files); err != nil {
			s.log.Warn("skipping file", zap.String("path", path), zap.Error(err))
			res.Skipped++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", rootPath, err)
	}

	s.resolveImports(res, files)
	return res, nil
}

// emitDirectory adds a directory node plus contains edges to its direct
// children that survive the patterns. Children are matched by their
// root-relative path so path-shaped patterns select the same file set as
// the walk itself.
func (s *Scanner) emitDirectory(res *Result, root, path string) {
	id := graph.NodeID(graph.NodeDirectory, path)

	var childCount int
	var modTime = fileModTime(path)
	entries, err := os.ReadDir(path)
	if err == nil {
		for _, entry := range entries {
			childPath := filepath.Join(path, entry.Name())
			childRel, err := filepath.Rel(root, childPath)
			if err != nil {
				continue
			}
			if entry.IsDir() {
				if s.opts.Recursive && !s.patterns.excluded(childRel) {
					childCount++
					res.Edges = append(res.Edges, &graph.Edge{
						Source: id,
						Target: graph.NodeID(graph.NodeDirectory, childPath),
						Type:   graph.EdgeContains,
						Weight: 1,
					})
				}
				continue
			}
			if s.patterns.included(childRel) && !s.patterns.excluded(childRel) {
				childCount++
				res.Edges = append(res.Edges, &graph.Edge{
					Source: id,
					Target: graph.NodeID(graph.NodeFile, childPath),
					Type:   graph.EdgeContains,
					Weight: 1,
				})
			}
		}
	}

	res.Nodes = append(res.Nodes, &graph.Node{
		ID:   id,
		Type: graph.NodeDirectory,
		Name: filepath.Base(path),
		Metadata: graph.NodeMetadata{
			FilePath:     path,
			ChildCount:   childCount,
			LastModified: modTime,
		},
	})
}

// emitFile analyzes one source file: byte size, line count, complexity,
// members, imports and exports. Content is always read for analysis but
// only stored on nodes when content inclusion was requested.
func (s *Scanner) emitFile(ctx context.Context, res *Result, path string, files map[string]string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	content := string(data)
	lines := strings.Split(content, "\n")

	id := graph.NodeID(graph.NodeFile, path)
	files[path] = id

	imports := extractImports(lines)
	exports := extractExports(lines)

	node := &graph.Node{
		ID:   id,
		Type: graph.NodeFile,
		Name: filepath.Base(path),
		Metadata: graph.NodeMetadata{
			FilePath:     path,
			StartLine:    1,
			EndLine:      len(lines),
			Complexity:   complexityOf(content),
			Size:         int64(len(data)),
			LastModified: fileModTime(path),
			Language:     languageOf(path),
			Dependencies: specifiers(imports),
			Exports:      exports,
			Imports:      specifiers(imports),
		},
	}
	if s.opts.IncludeContent {
		node.Content = content
	}
	res.Nodes = append(res.Nodes, node)
	res.pendingImports = append(res.pendingImports, pendingImport{fileID: id, filePath: path, imports: imports})

	members := s.extractMembers(path, lines, content)
	for _, m := range members {
		mid := graph.MemberNodeID(m.Kind, path, m.Name)
		mn := &graph.Node{
			ID:   mid,
			Type: m.Kind,
			Name: m.Name,
			Metadata: graph.NodeMetadata{
				FilePath:    path,
				StartLine:   m.StartLine,
				EndLine:     m.EndLine,
				Complexity:  complexityOf(m.Content),
				Size:        int64(len(m.Content)),
				Description: m.Doc,
			},
		}
		if s.opts.IncludeContent {
			mn.Content = m.Content
		}
		res.Nodes = append(res.Nodes, mn)
		res.Edges = append(res.Edges, &graph.Edge{
			Source: id,
			Target: mid,
			Type:   graph.EdgeContains,
			Weight: 1,
		})
	}
	return nil
}

// extractMembers picks the extractor for the file.
func (s *Scanner) extractMembers(path string, lines []string, content string) []Member {
	if s.opts.Precise {
		if members, ok := extractPrecise(path, content); ok {
			return members
		}
	}
	return extractLexical(lines)
}

func pathDepth(rel string) int {
	if rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

func fileModTime(path string) time.Time {
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Time{}
}

func languageOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
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
	case ".cs":
		return "csharp"
	case ".php":
		return "php"
	case ".c", ".h":
		return "c"
	case ".cpp", ".cc", ".hpp":
		return "cpp"
	default:
		return ""
	}
}
