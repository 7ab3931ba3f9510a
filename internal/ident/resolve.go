package ident

import (
	"fmt"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/tsast"
)

// Resolve finds the declaration of a callable by name inside one file and
// returns its inferred identifier. className and namespaceName narrow the
// search when given; an empty className matches only functions (top-level
// or namespaced), never class methods.
// Multiple surviving candidates fail rather than guess.
func Resolve(eng *astq.Engine, filePath, namespaceName, className, name string) (*FunctionCallIdentifier, error) {
	root, err := eng.FileRoot(filePath)
	if err != nil {
		return nil, err
	}

	var matches []*FunctionCallIdentifier
	root.Walk(func(n *tsast.Node) bool {
		if n.Kind != tsast.KindFunctionDeclaration && n.Kind != tsast.KindMethodDeclaration {
			return true
		}
		id, err := Infer(n)
		if err != nil || id.Name != name {
			return true
		}
		if className == "" && id.Access.Method() {
			return true
		}
		if className != "" && !scopeHas(id.Scope, ClassScope, className) {
			return true
		}
		if namespaceName != "" && !scopeHas(id.Scope, NamespaceScope, namespaceName) {
			return true
		}
		matches = append(matches, id)
		return true
	})

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no declaration of %q in %s", name, filePath)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d declarations of %q in %s; narrow with a class or namespace", len(matches), name, filePath)
	}
}

func scopeHas(s *Scope, kind ScopeKind, name string) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == kind && cur.Name == name {
			return true
		}
	}
	return false
}
