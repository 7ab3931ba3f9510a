package imports

import (
	"strings"
	"testing"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/project"
)

func engineWith(t *testing.T, files map[string]string) (*astq.Engine, *project.Project) {
	t.Helper()
	p := project.New()
	for path, content := range files {
		p.AddFile(path, content)
	}
	return astq.New(p), p
}

func content(t *testing.T, p *project.Project, path string) string {
	t.Helper()
	f := p.FindFile(path)
	if f == nil {
		t.Fatalf("no file %s", path)
	}
	return f.Content()
}

func TestAddImportToFileWithoutImports(t *testing.T) {
	eng, p := engineWith(t, map[string]string{
		"src/a.ts": "export function f() {}\n",
	})
	mutated, err := AddImport(eng, "src/a.ts", LibraryImport("HandlerContext", "@atomist/automation-client"))
	if err != nil {
		t.Fatal(err)
	}
	if !mutated {
		t.Fatal("expected mutation")
	}
	if err := eng.Flush(); err != nil {
		t.Fatal(err)
	}
	got := content(t, p, "src/a.ts")
	want := "import { HandlerContext } from \"@atomist/automation-client\";\nexport function f() {}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAddImportIdempotent(t *testing.T) {
	eng, p := engineWith(t, map[string]string{
		"src/a.ts": "export function f() {}\n",
	})
	imp := LibraryImport("HandlerContext", "@atomist/automation-client")
	for i := 0; i < 2; i++ {
		mutated, err := AddImport(eng, "src/a.ts", imp)
		if err != nil {
			t.Fatal(err)
		}
		if err := eng.Flush(); err != nil {
			t.Fatal(err)
		}
		if i == 1 && mutated {
			t.Error("second AddImport mutated the file")
		}
	}
	got := content(t, p, "src/a.ts")
	if strings.Count(got, "import") != 1 {
		t.Errorf("expected exactly one import statement:\n%s", got)
	}
}

func TestAddImportMergesSameModule(t *testing.T) {
	eng, p := engineWith(t, map[string]string{
		"src/a.ts": "import { Other } from \"lib\";\nexport function f() {}\n",
	})
	mutated, err := AddImport(eng, "src/a.ts", LibraryImport("Extra", "lib"))
	if err != nil {
		t.Fatal(err)
	}
	if !mutated {
		t.Fatal("expected merge mutation")
	}
	if err := eng.Flush(); err != nil {
		t.Fatal(err)
	}
	got := content(t, p, "src/a.ts")
	if strings.Count(got, "import") != 1 {
		t.Errorf("merge produced a second import:\n%s", got)
	}
	if !strings.Contains(got, "Extra,") || !strings.Contains(got, "Other") {
		t.Errorf("merged import missing a symbol:\n%s", got)
	}
}

func TestAddImportLeavesStarImportAlone(t *testing.T) {
	src := "import * as lib from \"lib\";\nexport function f() {}\n"
	eng, p := engineWith(t, map[string]string{"src/a.ts": src})
	mutated, err := AddImport(eng, "src/a.ts", LibraryImport("Extra", "lib"))
	if err != nil {
		t.Fatal(err)
	}
	if mutated {
		t.Error("star import should be left unchanged")
	}
	if err := eng.Flush(); err != nil {
		t.Fatal(err)
	}
	if content(t, p, "src/a.ts") != src {
		t.Error("file changed")
	}
}

func TestAddLocalImportUsesLocalPath(t *testing.T) {
	eng, p := engineWith(t, map[string]string{
		"src/a.ts": "export function f() {}\n",
	})
	imp := LocalImport("HandlerContext", "./HandlerContext", "@atomist/automation-client")
	if _, err := AddImport(eng, "src/a.ts", imp); err != nil {
		t.Fatal(err)
	}
	if err := eng.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content(t, p, "src/a.ts"), "from \"./HandlerContext\"") {
		t.Error("local import should use the local path, not the external package")
	}
}

func TestExternalRewrite(t *testing.T) {
	local := LocalImport("HandlerContext", "./HandlerContext", "@atomist/automation-client")
	ext := local.External()
	if !ext.Library || ext.Location != "@atomist/automation-client" || ext.Name != "HandlerContext" {
		t.Errorf("External() = %+v", ext)
	}

	lib := LibraryImport("A", "lib")
	if lib.External() != lib {
		t.Error("library identifiers pass through External unchanged")
	}

	plain := LocalImport("A", "./a", "")
	if plain.External() != plain {
		t.Error("local identifier without external path should be unchanged")
	}
}
