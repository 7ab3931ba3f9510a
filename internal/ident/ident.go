// Package ident gives every callable in the project a canonical identity —
// name, enclosing class/namespace chain, declaring file and access — and
// derives from it the path expressions and search globs the planner and
// executor query with.
package ident

import "strings"

// Access classifies a callable's visibility. "Public" means either an
// export keyword on a top-level function or the absence of private/protected
// on a class member; protected collapses into private.
type Access int

const (
	PublicFunctionAccess Access = iota
	PrivateFunctionAccess
	PublicMethodAccess
	PrivateMethodAccess
)

func (a Access) String() string {
	switch a {
	case PublicFunctionAccess:
		return "public-function"
	case PrivateFunctionAccess:
		return "private-function"
	case PublicMethodAccess:
		return "public-method"
	case PrivateMethodAccess:
		return "private-method"
	}
	return "unknown"
}

// Public reports whether the access is one of the public classes.
func (a Access) Public() bool {
	return a == PublicFunctionAccess || a == PublicMethodAccess
}

// Method reports whether the callable is a class member.
func (a Access) Method() bool {
	return a == PublicMethodAccess || a == PrivateMethodAccess
}

// ScopeKind distinguishes the two enclosing-scope flavors.
type ScopeKind string

const (
	ClassScope     ScopeKind = "class"
	NamespaceScope ScopeKind = "namespace"
)

// Scope is one link of the enclosing-scope chain. Parent points outward;
// the innermost scope is the head of the chain.
type Scope struct {
	Kind     ScopeKind
	Name     string
	Exported bool
	Parent   *Scope
}

// Equal is recursive structural equality over the whole chain.
func (s *Scope) Equal(o *Scope) bool {
	if s == nil || o == nil {
		return s == nil && o == nil
	}
	if s.Kind != o.Kind || s.Name != o.Name || s.Exported != o.Exported {
		return false
	}
	return s.Parent.Equal(o.Parent)
}

// outermostFirst returns the chain ordered outermost scope first.
func (s *Scope) outermostFirst() []*Scope {
	var chain []*Scope
	for cur := s; cur != nil; cur = cur.Parent {
		chain = append([]*Scope{cur}, chain...)
	}
	return chain
}

// FunctionCallIdentifier is the canonical handle for a callable.
type FunctionCallIdentifier struct {
	Name     string
	Scope    *Scope // innermost enclosing scope, nil for top level
	FilePath string
	Access   Access
}

// Equal compares the kind-normalized identity tuple: name, scope chain,
// file path and access.
func (id *FunctionCallIdentifier) Equal(o *FunctionCallIdentifier) bool {
	if id == nil || o == nil {
		return id == nil && o == nil
	}
	return id.Name == o.Name &&
		id.FilePath == o.FilePath &&
		id.Access == o.Access &&
		id.Scope.Equal(o.Scope)
}

// DottedName is the scope chain plus the function name joined with dots,
// e.g. "Ns.Classy.thinger".
func (id *FunctionCallIdentifier) DottedName() string {
	var parts []string
	for _, s := range id.Scope.outermostFirst() {
		parts = append(parts, s.Name)
	}
	parts = append(parts, id.Name)
	return strings.Join(parts, ".")
}

// String renders "file#Dotted.name (access)" for logs and reports.
func (id *FunctionCallIdentifier) String() string {
	return id.FilePath + "#" + id.DottedName() + " (" + id.Access.String() + ")"
}

// DeclPathExpr builds the declaration path expression: scope components
// outermost first, then the terminal function or method component.
func (id *FunctionCallIdentifier) DeclPathExpr() string {
	var b strings.Builder
	axis := "//"
	for _, s := range id.Scope.outermostFirst() {
		b.WriteString(axis)
		switch s.Kind {
		case NamespaceScope:
			b.WriteString("ModuleDeclaration[/Identifier[@value='" + s.Name + "']]/ModuleBlock")
		default:
			b.WriteString("ClassDeclaration[/Identifier[@value='" + s.Name + "']]")
		}
		axis = "/"
	}
	b.WriteString(axis)
	if id.Access.Method() {
		b.WriteString("MethodDeclaration[/Identifier[@value='" + id.Name + "']]")
	} else {
		b.WriteString("FunctionDeclaration[/Identifier[@value='" + id.Name + "']]")
	}
	return b.String()
}

// CallPathExpr builds the call-site path expression for this callable.
func (id *FunctionCallIdentifier) CallPathExpr() string {
	switch {
	case id.Access == PrivateMethodAccess:
		// this.fn(...) and any qualified access ending in fn
		return "//CallExpression[/PropertyAccessExpression/Identifier[@value='" + id.Name + "']]"
	case id.Scope != nil:
		return "//CallExpression[/PropertyAccessExpression[@value='" + id.DottedName() + "']]"
	default:
		return "//CallExpression[/Identifier[@value='" + id.Name + "']]"
	}
}

// PlanningGlob is the scope the planner scans for call sites: everything
// for public access, only the declaring file for private access.
func (id *FunctionCallIdentifier) PlanningGlob() string {
	if id.Access.Public() {
		return TypeScript.AllGlob
	}
	return id.FilePath
}

// SourceGlob is the scope source call sites of this callable lie in: the
// source tree for public access, only the declaring file for private
// access. The executor does not query it; argument passing edits the
// enclosing function's file directly.
func (id *FunctionCallIdentifier) SourceGlob() string {
	if id.Access.Public() {
		return TypeScript.SourceGlob
	}
	return id.FilePath
}

// TestGlob is the scope the executor inserts test dummies in.
func (id *FunctionCallIdentifier) TestGlob() string {
	return TypeScript.TestGlob
}

// DeclGlob is the scope the executor resolves the declaration in.
func (id *FunctionCallIdentifier) DeclGlob() string {
	return id.FilePath
}
