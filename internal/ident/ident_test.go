package ident

import (
	"testing"

	"github.com/1homsi/tsparam/internal/tsast"
)

func declByName(t *testing.T, src, name string) *tsast.Node {
	t.Helper()
	root := tsast.ParseSource("src/a.ts", src).Root
	var found *tsast.Node
	root.Walk(func(n *tsast.Node) bool {
		if n.Kind == tsast.KindFunctionDeclaration || n.Kind == tsast.KindMethodDeclaration {
			if id := n.Child(tsast.KindIdentifier); id != nil && id.Value() == name {
				found = n
			}
		}
		return true
	})
	if found == nil {
		t.Fatalf("no declaration of %s", name)
	}
	return found
}

func TestInferAccess(t *testing.T) {
	tests := []struct {
		name string
		src  string
		fn   string
		want Access
	}{
		{"exported function", `export function f() {}`, "f", PublicFunctionAccess},
		{"top-level function", `function f() {}`, "f", PrivateFunctionAccess},
		{"plain method", `class C { m() {} }`, "m", PublicMethodAccess},
		{"public method", `class C { public m() {} }`, "m", PublicMethodAccess},
		{"private method", `class C { private m() {} }`, "m", PrivateMethodAccess},
		{"protected collapses to private", `class C { protected m() {} }`, "m", PrivateMethodAccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Infer(declByName(t, tt.src, tt.fn))
			if err != nil {
				t.Fatal(err)
			}
			if id.Access != tt.want {
				t.Errorf("access = %s, want %s", id.Access, tt.want)
			}
		})
	}
}

func TestInferScopeChain(t *testing.T) {
	src := `export namespace Outer {
  export class Classy {
    thinger() {}
  }
}
`
	id, err := Infer(declByName(t, src, "thinger"))
	if err != nil {
		t.Fatal(err)
	}
	if id.Scope == nil || id.Scope.Kind != ClassScope || id.Scope.Name != "Classy" {
		t.Fatalf("innermost scope = %+v, want class Classy", id.Scope)
	}
	if !id.Scope.Exported {
		t.Error("Classy should be exported")
	}
	outer := id.Scope.Parent
	if outer == nil || outer.Kind != NamespaceScope || outer.Name != "Outer" {
		t.Fatalf("outer scope = %+v, want namespace Outer", outer)
	}
	if got, want := id.DottedName(), "Outer.Classy.thinger"; got != want {
		t.Errorf("DottedName = %q, want %q", got, want)
	}
}

func TestDeclPathExpr(t *testing.T) {
	tests := []struct {
		name string
		id   *FunctionCallIdentifier
		want string
	}{
		{
			name: "top-level function",
			id:   &FunctionCallIdentifier{Name: "f", FilePath: "src/a.ts", Access: PrivateFunctionAccess},
			want: "//FunctionDeclaration[/Identifier[@value='f']]",
		},
		{
			name: "class method",
			id: &FunctionCallIdentifier{
				Name:     "thinger",
				Scope:    &Scope{Kind: ClassScope, Name: "Classy"},
				FilePath: "src/a.ts",
				Access:   PublicMethodAccess,
			},
			want: "//ClassDeclaration[/Identifier[@value='Classy']]/MethodDeclaration[/Identifier[@value='thinger']]",
		},
		{
			name: "namespaced function",
			id: &FunctionCallIdentifier{
				Name:     "giveMeYourContext",
				Scope:    &Scope{Kind: NamespaceScope, Name: "Spacey"},
				FilePath: "src/a.ts",
				Access:   PublicFunctionAccess,
			},
			want: "//ModuleDeclaration[/Identifier[@value='Spacey']]/ModuleBlock/FunctionDeclaration[/Identifier[@value='giveMeYourContext']]",
		},
		{
			name: "class inside namespace",
			id: &FunctionCallIdentifier{
				Name: "m",
				Scope: &Scope{
					Kind: ClassScope, Name: "C",
					Parent: &Scope{Kind: NamespaceScope, Name: "N"},
				},
				FilePath: "src/a.ts",
				Access:   PublicMethodAccess,
			},
			want: "//ModuleDeclaration[/Identifier[@value='N']]/ModuleBlock/ClassDeclaration[/Identifier[@value='C']]/MethodDeclaration[/Identifier[@value='m']]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.DeclPathExpr(); got != tt.want {
				t.Errorf("DeclPathExpr()\n got %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestCallPathExpr(t *testing.T) {
	private := &FunctionCallIdentifier{
		Name:   "thinger",
		Scope:  &Scope{Kind: ClassScope, Name: "Classy"},
		Access: PrivateMethodAccess,
	}
	if got, want := private.CallPathExpr(),
		"//CallExpression[/PropertyAccessExpression/Identifier[@value='thinger']]"; got != want {
		t.Errorf("private method call expr = %s", got)
	}

	public := &FunctionCallIdentifier{
		Name:   "thinger",
		Scope:  &Scope{Kind: ClassScope, Name: "Classy"},
		Access: PublicMethodAccess,
	}
	if got, want := public.CallPathExpr(),
		"//CallExpression[/PropertyAccessExpression[@value='Classy.thinger']]"; got != want {
		t.Errorf("public method call expr = %s", got)
	}

	bare := &FunctionCallIdentifier{Name: "f", Access: PrivateFunctionAccess}
	if got, want := bare.CallPathExpr(), "//CallExpression[/Identifier[@value='f']]"; got != want {
		t.Errorf("bare function call expr = %s", got)
	}
}

func TestSearchGlobs(t *testing.T) {
	public := &FunctionCallIdentifier{Name: "f", FilePath: "src/a.ts", Access: PublicFunctionAccess}
	private := &FunctionCallIdentifier{Name: "f", FilePath: "src/a.ts", Access: PrivateFunctionAccess}

	if public.PlanningGlob() != TypeScript.AllGlob {
		t.Error("public planning glob should cover source and tests")
	}
	if private.PlanningGlob() != "src/a.ts" {
		t.Error("private planning glob should be the declaring file")
	}
	if public.SourceGlob() != TypeScript.SourceGlob {
		t.Error("public source glob wrong")
	}
	if private.SourceGlob() != "src/a.ts" {
		t.Error("private source glob should be the declaring file")
	}
}

func TestIdentifierEquality(t *testing.T) {
	a := &FunctionCallIdentifier{
		Name:     "m",
		Scope:    &Scope{Kind: ClassScope, Name: "C", Exported: true},
		FilePath: "src/a.ts",
		Access:   PublicMethodAccess,
	}
	same := &FunctionCallIdentifier{
		Name:     "m",
		Scope:    &Scope{Kind: ClassScope, Name: "C", Exported: true},
		FilePath: "src/a.ts",
		Access:   PublicMethodAccess,
	}
	if !a.Equal(same) {
		t.Error("structurally equal identifiers compare unequal")
	}

	otherFile := *a
	otherFile.FilePath = "src/b.ts"
	if a.Equal(&otherFile) {
		t.Error("different file should differ")
	}

	otherScope := *a
	otherScope.Scope = &Scope{Kind: ClassScope, Name: "D", Exported: true}
	if a.Equal(&otherScope) {
		t.Error("different scope should differ")
	}

	noScope := *a
	noScope.Scope = nil
	if a.Equal(&noScope) {
		t.Error("missing scope should differ")
	}
}

func TestParameterOfType(t *testing.T) {
	src := `class Classy {
  otherThinger(params: P, ctx: HandlerContext) {}
}
`
	decl := declByName(t, src, "otherThinger")
	name, ok := ParameterOfType(decl, "HandlerContext")
	if !ok || name != "ctx" {
		t.Fatalf("ParameterOfType = %q, %v; want ctx, true", name, ok)
	}
	if _, ok := ParameterOfType(decl, "Missing"); ok {
		t.Error("found a parameter for an absent type")
	}
}

func TestIsTestPath(t *testing.T) {
	if !TypeScript.IsTestPath("test/f.ts") {
		t.Error("test/f.ts should be a test path")
	}
	if !TypeScript.IsTestPath("testdata/f.ts") {
		t.Error("testdata/f.ts should be a test path")
	}
	if TypeScript.IsTestPath("src/f.ts") {
		t.Error("src/f.ts should not be a test path")
	}
}

func TestLoadSurface(t *testing.T) {
	s, err := LoadSurface("typescript")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "typescript" {
		t.Errorf("name = %q", s.Name)
	}
	if s.SourceGlob == "" || s.TestGlob == "" || s.AllGlob == "" {
		t.Error("globs must be populated")
	}
	if _, err := LoadSurface("cobol"); err == nil {
		t.Error("unknown language should fail")
	}
}
