package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// patternSet holds the compiled include and exclude globs for one scan.
// Include patterns are matched against a file's base name and its
// root-relative path; exclude patterns are additionally matched against
// every path segment, so "node_modules" prunes the directory at any depth.
type patternSet struct {
	include []glob.Glob
	exclude []glob.Glob
}

func compilePatterns(include, exclude []string) (*patternSet, error) {
	ps := &patternSet{}
	for _, p := range include {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("include pattern %q: %w", p, err)
		}
		ps.include = append(ps.include, g)
	}
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		ps.exclude = append(ps.exclude, g)
	}
	return ps, nil
}

// included reports whether a file path matches any include pattern.
// An empty include list admits everything.
func (ps *patternSet) included(rel string) bool {
	if len(ps.include) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	for _, g := range ps.include {
		if g.Match(base) || g.Match(rel) {
			return true
		}
	}
	return false
}

// excluded reports whether any segment of the path (or the whole path)
// matches an exclude pattern.
func (ps *patternSet) excluded(rel string) bool {
	if len(ps.exclude) == 0 {
		return false
	}
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")
	for _, g := range ps.exclude {
		if g.Match(rel) {
			return true
		}
		for _, seg := range segments {
			if g.Match(seg) {
				return true
			}
		}
	}
	return false
}
