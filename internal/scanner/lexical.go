package scanner

import (
	"regexp"
	"strings"

	"github.com/kgraph-dev/kgraph/internal/graph"
)

// Member is one extracted declaration: a class, function, or interface
// with its line extent, content slice, and any preceding doc comment.
type Member struct {
	Name      string
	Kind      graph.NodeType
	StartLine int // 1-based, inclusive
	EndLine   int // 1-based, inclusive
	Content   string
	Doc       string
}

// Declaration patterns. These are intentionally approximate: they match the
// common single-line declaration shapes of brace-delimited languages (and
// Python def/class headers) without understanding the grammar.
var (
	classRe     = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:public\s+|abstract\s+)*class\s+([A-Za-z_$][\w$]*)`)
	interfaceRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:public\s+)?interface\s+([A-Za-z_$][\w$]*)`)
	functionRe  = regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`)
	arrowRe     = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*=>`)
	goFuncRe    = regexp.MustCompile(`^func\s+(?:\([^)]*\)\s+)?([A-Za-z_]\w*)\s*\(`)
	pyDefRe     = regexp.MustCompile(`^\s*def\s+([A-Za-z_]\w*)\s*\(`)
)

// Complexity tokens: branching and logical constructs counted by the
// approximate cyclomatic proxy.
var (
	branchRe  = regexp.MustCompile(`\b(if|else|while|for|case|catch)\b`)
	ternaryRe = regexp.MustCompile(`\?[^:\n]*:`)
)

// complexityOf returns 1 plus the count of branching and logical tokens in
// the content. This is a pattern-scan proxy for cyclomatic complexity, not
// control-flow analysis.
func complexityOf(content string) float64 {
	c := 1
	c += len(branchRe.FindAllStringIndex(content, -1))
	c += strings.Count(content, "&&")
	c += strings.Count(content, "||")
	c += len(ternaryRe.FindAllStringIndex(content, -1))
	return float64(c)
}

// extractLexical scans line-by-line for declarations. For each match the
// extent is found by brace-depth counting from the declaration line; a
// declaration that never opens a brace spans just its own line.
func extractLexical(lines []string) []Member {
	var members []Member
	seen := make(map[string]bool)

	for i, line := range lines {
		var name string
		var kind graph.NodeType
		switch {
		case matchName(interfaceRe, line, &name):
			kind = graph.NodeInterface
		case matchName(classRe, line, &name):
			kind = graph.NodeClass
		case matchName(functionRe, line, &name),
			matchName(arrowRe, line, &name),
			matchName(goFuncRe, line, &name),
			matchName(pyDefRe, line, &name):
			kind = graph.NodeFunction
		default:
			continue
		}

		// One member per (kind, name) per file; the id scheme would
		// collapse duplicates anyway, keep the first.
		key := string(kind) + ":" + name
		if seen[key] {
			continue
		}
		seen[key] = true

		end := findClosingLine(lines, i)
		members = append(members, Member{
			Name:      name,
			Kind:      kind,
			StartLine: i + 1,
			EndLine:   end + 1,
			Content:   strings.Join(lines[i:end+1], "\n"),
			Doc:       docCommentAbove(lines, i),
		})
	}
	return members
}

func matchName(re *regexp.Regexp, line string, name *string) bool {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	*name = m[1]
	return true
}

// findClosingLine locates the line index of the brace that closes the
// declaration starting at line start. Braces inside strings or comments are
// counted too; that is the documented failure mode of the lexical scanner.
func findClosingLine(lines []string, start int) int {
	depth := 0
	opened := false
	for i := start; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			return i
		}
	}
	if !opened {
		return start
	}
	return len(lines) - 1
}

// docCommentAbove walks upward from the declaration to capture an
// immediately preceding block comment, skipping blank lines, scanning at
// most 20 lines. Leading comment markers are stripped.
func docCommentAbove(lines []string, decl int) string {
	i := decl - 1
	for i >= 0 && strings.TrimSpace(lines[i]) == "" {
		i--
	}
	if i < 0 || !strings.HasSuffix(strings.TrimSpace(lines[i]), "*/") {
		return ""
	}

	end := i
	start := -1
	for j := end; j >= 0 && end-j < 20; j-- {
		if strings.Contains(lines[j], "/*") {
			start = j
			break
		}
	}
	if start < 0 {
		return ""
	}

	var parts []string
	for j := start; j <= end; j++ {
		text := strings.TrimSpace(lines[j])
		text = strings.TrimPrefix(text, "/**")
		text = strings.TrimPrefix(text, "/*")
		text = strings.TrimSuffix(text, "*/")
		text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "*"))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
