package ident

import (
	"testing"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/project"
)

func engineWith(t *testing.T, files map[string]string) *astq.Engine {
	t.Helper()
	p := project.New()
	for path, content := range files {
		p.AddFile(path, content)
	}
	return astq.New(p)
}

func TestResolve(t *testing.T) {
	eng := engineWith(t, map[string]string{
		"src/a.ts": `export function free() {}
class Classy {
  private thinger() {}
}
namespace Spacey {
  export function thinger() {}
}
`,
	})

	free, err := Resolve(eng, "src/a.ts", "", "", "free")
	if err != nil {
		t.Fatal(err)
	}
	if free.Access != PublicFunctionAccess || free.Scope != nil {
		t.Errorf("free resolved to %s", free)
	}

	method, err := Resolve(eng, "src/a.ts", "", "Classy", "thinger")
	if err != nil {
		t.Fatal(err)
	}
	if method.Access != PrivateMethodAccess {
		t.Errorf("Classy.thinger resolved to %s", method)
	}

	nsFn, err := Resolve(eng, "src/a.ts", "Spacey", "", "thinger")
	if err != nil {
		t.Fatal(err)
	}
	if nsFn.Scope == nil || nsFn.Scope.Kind != NamespaceScope {
		t.Errorf("Spacey.thinger resolved to %s", nsFn)
	}

	if _, err := Resolve(eng, "src/a.ts", "", "", "missing"); err == nil {
		t.Error("resolving a missing function should fail")
	}
}

func TestResolveAmbiguous(t *testing.T) {
	eng := engineWith(t, map[string]string{
		"src/a.ts": `class A { m() {} }
class B { m() {} }
`,
	})
	if _, err := Resolve(eng, "src/a.ts", "", "", "m"); err == nil {
		t.Error("a method name without its class should not resolve")
	}
	id, err := Resolve(eng, "src/a.ts", "", "A", "m")
	if err != nil {
		t.Fatal(err)
	}
	if id.Scope == nil || id.Scope.Name != "A" {
		t.Errorf("narrowed resolve = %s", id)
	}
}
