package ident

import (
	"fmt"
	"strings"

	"github.com/1homsi/tsparam/internal/tsast"
)

// Infer builds the identifier for a FunctionDeclaration or MethodDeclaration
// node by reading its name, walking parents for class/namespace scopes and
// classifying access from the node's modifier keywords.
func Infer(decl *tsast.Node) (*FunctionCallIdentifier, error) {
	if decl.Kind != tsast.KindFunctionDeclaration && decl.Kind != tsast.KindMethodDeclaration {
		return nil, fmt.Errorf("cannot infer identifier from %s node", decl.Kind)
	}
	name := decl.Child(tsast.KindIdentifier)
	if name == nil {
		return nil, fmt.Errorf("%s node in %s has no name", decl.Kind, decl.FilePath())
	}

	id := &FunctionCallIdentifier{
		Name:     name.Value(),
		Scope:    scopeChain(decl),
		FilePath: decl.FilePath(),
	}

	if decl.Kind == tsast.KindMethodDeclaration {
		if decl.HasChild(tsast.KindPrivateKeyword) || decl.HasChild(tsast.KindProtectedKeyword) {
			id.Access = PrivateMethodAccess
		} else {
			id.Access = PublicMethodAccess
		}
	} else {
		if decl.HasChild(tsast.KindExportKeyword) {
			id.Access = PublicFunctionAccess
		} else {
			id.Access = PrivateFunctionAccess
		}
	}
	return id, nil
}

// scopeChain walks parents collecting class and namespace scopes; the
// returned head is the innermost scope.
func scopeChain(decl *tsast.Node) *Scope {
	var innermost, outermost *Scope
	appendScope := func(s *Scope) {
		if innermost == nil {
			innermost = s
		} else {
			outermost.Parent = s
		}
		outermost = s
	}
	for n := decl.Parent(); n != nil; n = n.Parent() {
		switch n.Kind {
		case tsast.KindClassDeclaration:
			appendScope(&Scope{
				Kind:     ClassScope,
				Name:     childName(n),
				Exported: n.HasChild(tsast.KindExportKeyword),
			})
		case tsast.KindModuleDeclaration:
			appendScope(&Scope{
				Kind:     NamespaceScope,
				Name:     childName(n),
				Exported: n.HasChild(tsast.KindExportKeyword),
			})
		}
	}
	return innermost
}

func childName(n *tsast.Node) string {
	if name := n.Child(tsast.KindIdentifier); name != nil {
		return name.Value()
	}
	return ""
}

// EnclosingDeclaration walks up from a call expression to the function or
// method declaration lexically wrapping it, or nil for top-level calls.
func EnclosingDeclaration(call *tsast.Node) *tsast.Node {
	for n := call.Parent(); n != nil; n = n.Parent() {
		if n.Kind == tsast.KindFunctionDeclaration || n.Kind == tsast.KindMethodDeclaration {
			return n
		}
	}
	return nil
}

// ParameterOfType searches a declaration's parameter list for a parameter
// whose type annotation textually equals typeName, returning the parameter
// name.
func ParameterOfType(decl *tsast.Node, typeName string) (string, bool) {
	for _, c := range decl.Children() {
		if c.Kind != tsast.KindParameter {
			continue
		}
		typ := c.Child(tsast.KindTypeReference)
		if typ == nil || strings.TrimSpace(typ.Value()) != typeName {
			continue
		}
		if name := c.Child(tsast.KindIdentifier); name != nil {
			return name.Value(), true
		}
	}
	return "", false
}
