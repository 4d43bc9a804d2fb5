package scanner

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// preciseNodeKinds maps tree-sitter declaration node types to graph node
// types for the languages with a wired grammar.
var preciseNodeKinds = map[string]graph.NodeType{
	"function_declaration":           graph.NodeFunction,
	"generator_function_declaration": graph.NodeFunction,
	"class_declaration":              graph.NodeClass,
	"interface_declaration":          graph.NodeInterface,
}

// extractPrecise parses the file with tree-sitter and walks the AST for
// declarations. Returns ok=false when no grammar is wired for the file's
// language or parsing fails, so the caller can fall back to the lexical
// scanner. Parse failures are not errors: precise mode is an upgrade, not
// a contract.
func extractPrecise(path, content string) ([]Member, bool) {
	var lang *sitter.Language
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx":
		lang = typescript.GetLanguage()
	case ".js", ".jsx", ".mjs":
		lang = javascript.GetLanguage()
	default:
		return nil, false
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if err != nil || tree == nil {
		return nil, false
	}
	defer tree.Close()

	lines := strings.Split(content, "\n")
	var members []Member
	seen := make(map[string]bool)

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if kind, ok := preciseNodeKinds[n.Type()]; ok {
			if name := declarationName(n, content); name != "" {
				key := string(kind) + ":" + name
				if !seen[key] {
					seen[key] = true
					start := int(n.StartPoint().Row) // 0-indexed
					end := int(n.EndPoint().Row)
					members = append(members, Member{
						Name:      name,
						Kind:      kind,
						StartLine: start + 1,
						EndLine:   end + 1,
						Content:   content[n.StartByte():n.EndByte()],
						Doc:       docCommentAbove(lines, start),
					})
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return members, true
}

func declarationName(n *sitter.Node, content string) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return content[nameNode.StartByte():nameNode.EndByte()]
}
