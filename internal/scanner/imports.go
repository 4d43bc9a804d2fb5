package scanner

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// importStatement is a single extracted import with its module specifier.
type importStatement struct {
	Specifier string
	Line      int // 1-based
}

// One import-statement shape and one export-statement shape; anything the
// patterns miss simply produces no metadata and no edge.
var (
	importRe = regexp.MustCompile(`^\s*import\s+(?:[\w${},*\s]+\s+from\s+)?['"]([^'"]+)['"]`)
	exportRe = regexp.MustCompile(`^\s*export\s+(?:default\s+)?(?:abstract\s+)?(?:async\s+)?(?:function\s*\*?|class|interface|enum|type|const|let|var)\s+([A-Za-z_$][\w$]*)`)
)

// resolveExtensions are tried, in order, when a relative specifier does not
// name an existing file directly.
var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs"}

func extractImports(lines []string) []importStatement {
	var out []importStatement
	for i, line := range lines {
		if m := importRe.FindStringSubmatch(line); m != nil {
			out = append(out, importStatement{Specifier: m[1], Line: i + 1})
		}
	}
	return out
}

func extractExports(lines []string) []string {
	var out []string
	for _, line := range lines {
		if m := exportRe.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
		}
	}
	return out
}

func specifiers(imports []importStatement) []string {
	if len(imports) == 0 {
		return nil
	}
	out := make([]string, len(imports))
	for i, imp := range imports {
		out[i] = imp.Specifier
	}
	return out
}

// resolveImports emits an imports edge for every relative specifier that
// resolves to a scanned file. Non-relative specifiers (package names) and
// unresolvable paths produce no edge.
func (s *Scanner) resolveImports(res *Result, files map[string]string) {
	for _, pi := range res.pendingImports {
		baseDir := filepath.Dir(pi.filePath)
		for _, imp := range pi.imports {
			if !strings.HasPrefix(imp.Specifier, "./") && !strings.HasPrefix(imp.Specifier, "../") {
				continue
			}
			targetID, ok := resolveRelative(baseDir, imp.Specifier, files)
			if !ok {
				continue
			}
			res.Edges = append(res.Edges, &graph.Edge{
				Source:   pi.fileID,
				Target:   targetID,
				Type:     graph.EdgeImports,
				Weight:   1,
				Metadata: graph.EdgeMetadata{Confidence: 0.9, Description: imp.Specifier},
			})
		}
	}
	res.pendingImports = nil
}

// resolveRelative resolves a relative specifier against the importing
// file's directory: the literal path first, then known extensions, then an
// index file inside the named directory.
func resolveRelative(baseDir, specifier string, files map[string]string) (string, bool) {
	candidate := filepath.Clean(filepath.Join(baseDir, specifier))

	if id, ok := files[candidate]; ok {
		return id, true
	}
	for _, ext := range resolveExtensions {
		if id, ok := files[candidate+ext]; ok {
			return id, true
		}
	}
	for _, ext := range resolveExtensions {
		if id, ok := files[filepath.Join(candidate, "index"+ext)]; ok {
			return id, true
		}
	}
	return "", false
}
