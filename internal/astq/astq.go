// Package astq is the query adapter the planner and executor share: it
// resolves a file glob against the project, parses each matching file, and
// evaluates a path expression over the resulting trees. Parses are cached
// per project generation, so trees survive many queries between flushes and
// are dropped the moment a flush commits pending edits.
package astq

import (
	"fmt"

	"github.com/1homsi/tsparam/internal/pathexpr"
	"github.com/1homsi/tsparam/internal/project"
	"github.com/1homsi/tsparam/internal/tsast"
)

// Engine runs queries against one project.
type Engine struct {
	proj  *project.Project
	cache map[string]cacheEntry
}

type cacheEntry struct {
	gen  int
	tree *tsast.Tree
}

// New returns an engine bound to p.
func New(p *project.Project) *Engine {
	return &Engine{proj: p, cache: make(map[string]cacheEntry)}
}

// Project returns the underlying project.
func (e *Engine) Project() *project.Project { return e.proj }

// Find evaluates pathExpr over every project file matching glob and returns
// the matches, file by file in sorted path order, nodes in document order
// within each file.
func (e *Engine) Find(glob, expr string) ([]*tsast.Node, error) {
	compiled, err := pathexpr.Parse(expr)
	if err != nil {
		return nil, err
	}
	var out []*tsast.Node
	for _, path := range e.proj.Paths() {
		if !MatchGlob(glob, path) {
			continue
		}
		tree, err := e.treeFor(path)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled.Eval(tree.Root)...)
	}
	return out, nil
}

// FileRoot returns the SourceFile node for one file.
func (e *Engine) FileRoot(path string) (*tsast.Node, error) {
	tree, err := e.treeFor(path)
	if err != nil {
		return nil, err
	}
	return tree.Root, nil
}

// Flush commits pending node writes on the project. Every node handed out
// before the flush is invalid afterwards; callers re-query.
func (e *Engine) Flush() error {
	return e.proj.Flush()
}

func (e *Engine) treeFor(path string) (*tsast.Tree, error) {
	gen := e.proj.Generation()
	if entry, ok := e.cache[path]; ok && entry.gen == gen {
		return entry.tree, nil
	}
	f := e.proj.FindFile(path)
	if f == nil {
		return nil, fmt.Errorf("no such file in project: %s", path)
	}
	tree := tsast.ParseFile(f)
	e.cache[path] = cacheEntry{gen: gen, tree: tree}
	return tree, nil
}
