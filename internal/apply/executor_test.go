package apply

import (
	"context"
	"strings"
	"testing"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/ident"
	"github.com/1homsi/tsparam/internal/imports"
	"github.com/1homsi/tsparam/internal/plan"
	"github.com/1homsi/tsparam/internal/project"
)

var handlerContext = imports.LibraryImport("HandlerContext", "@atomist/automation-client")

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

func resolveTarget(t *testing.T, eng *astq.Engine, file, class, name string) *ident.FunctionCallIdentifier {
	t.Helper()
	id, err := ident.Resolve(eng, file, "", class, name)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// S4: planning and implementing the private-function scenario rewrites the
// declaration, the call site and adds exactly one import.
func TestImplementPrivateFunctionScenario(t *testing.T) {
	eng, proj := engineWith(t, map[string]string{
		"src/f.ts": `export function iShouldChange() { return priv("x"); }
function priv(s: string) {}
`,
	})
	root := &plan.AddParameter{
		Target:          resolveTarget(t, eng, "src/f.ts", "", "priv"),
		ParameterType:   handlerContext,
		ParameterName:   "context",
		PopulateInTests: plan.PopulateInTests{DummyValue: "{} as HandlerContext"},
	}
	cs, skipped, err := plan.ChangesetFor(eng, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 {
		t.Fatal("nothing should be skipped")
	}

	report, err := NewExecutor(eng, nil).Implement(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Clean() {
		t.Fatalf("unimplemented: %+v", report.Unimplemented)
	}
	if len(report.Implemented) != 3 {
		t.Errorf("implemented %d requirements, want 3", len(report.Implemented))
	}

	got := content(t, proj, "src/f.ts")
	for _, want := range []string{
		`priv(context: HandlerContext, s: string)`,
		`priv(context, "x")`,
		`iShouldChange(context: HandlerContext, )`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Count(got, "import") != 1 {
		t.Errorf("want exactly one import line:\n%s", got)
	}
}

// Applying the same parameter addition twice must not duplicate the import.
func TestImplementIsImportIdempotent(t *testing.T) {
	eng, proj := engineWith(t, map[string]string{
		"src/f.ts": "function priv(s: string) {}\n",
	})
	target := resolveTarget(t, eng, "src/f.ts", "", "priv")

	for i := 0; i < 2; i++ {
		root := &plan.AddParameter{
			Target:        target,
			ParameterType: handlerContext,
			ParameterName: "context",
		}
		cs, _, err := plan.ChangesetFor(eng, root)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := NewExecutor(eng, nil).Implement(context.Background(), cs); err != nil {
			t.Fatal(err)
		}
	}
	got := content(t, proj, "src/f.ts")
	if strings.Count(got, "import { HandlerContext }") != 1 {
		t.Errorf("import duplicated:\n%s", got)
	}
}

// S6: dummy insertion in test code prepends the dummy, leaves new
// expressions alone and imports the dummy's symbol.
func TestImplementPassDummyInTests(t *testing.T) {
	eng, proj := engineWith(t, map[string]string{
		"test/clone.ts": "GitCommandGitProject.cloned({token}, new Ref(\"a\"));\n",
	})
	target := &ident.FunctionCallIdentifier{
		Name:     "cloned",
		Scope:    &ident.Scope{Kind: ident.ClassScope, Name: "GitCommandGitProject", Exported: true},
		FilePath: "src/project.ts",
		Access:   ident.PublicMethodAccess,
	}
	cs := &plan.Changeset{Requirements: []plan.Requirement{
		&plan.PassDummyInTests{
			Target:           target,
			DummyValue:       "{} as HandlerContext",
			AdditionalImport: &handlerContext,
		},
	}}

	report, err := NewExecutor(eng, nil).Implement(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Clean() {
		t.Fatalf("unimplemented: %+v", report.Unimplemented)
	}

	got := content(t, proj, "test/clone.ts")
	if !strings.Contains(got, `GitCommandGitProject.cloned({} as HandlerContext, {token}, new Ref("a"));`) {
		t.Errorf("dummy not prepended:\n%s", got)
	}
	if !strings.Contains(got, `import { HandlerContext } from "@atomist/automation-client";`) {
		t.Errorf("dummy import missing:\n%s", got)
	}
	if !strings.Contains(got, `new Ref("a")`) {
		t.Errorf("new expression was rewritten:\n%s", got)
	}
}

// Zero dummy matches is success with no edits and no import.
func TestImplementPassDummyNoMatches(t *testing.T) {
	eng, proj := engineWith(t, map[string]string{
		"test/other.ts": "somethingElse();\n",
	})
	target := &ident.FunctionCallIdentifier{
		Name: "cloned", FilePath: "src/project.ts", Access: ident.PublicFunctionAccess,
	}
	cs := &plan.Changeset{Requirements: []plan.Requirement{
		&plan.PassDummyInTests{Target: target, DummyValue: "{}", AdditionalImport: &handlerContext},
	}}

	report, err := NewExecutor(eng, nil).Implement(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	if !report.Clean() {
		t.Fatalf("unimplemented: %+v", report.Unimplemented)
	}
	if strings.Contains(content(t, proj, "test/other.ts"), "import") {
		t.Error("no import should be added when nothing matched")
	}
}

func TestImplementRecordsMissingDeclaration(t *testing.T) {
	eng, _ := engineWith(t, map[string]string{
		"src/f.ts": "function other() {}\n",
	})
	missing := &ident.FunctionCallIdentifier{
		Name: "ghost", FilePath: "src/f.ts", Access: ident.PrivateFunctionAccess,
	}
	sink := &MemorySink{}
	cs := &plan.Changeset{Requirements: []plan.Requirement{
		&plan.AddParameter{Target: missing, ParameterType: handlerContext, ParameterName: "context"},
		&plan.AddMigration{Downstream: &plan.AddParameter{
			Target: missing, ParameterType: handlerContext, ParameterName: "context",
		}},
	}}

	report, err := NewExecutor(eng, sink).Implement(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Unimplemented) != 1 {
		t.Fatalf("unimplemented = %+v", report.Unimplemented)
	}
	if !strings.Contains(report.Unimplemented[0].Message, "declaration not found") {
		t.Errorf("message = %q", report.Unimplemented[0].Message)
	}
	// execution continued past the failure
	if len(report.Implemented) != 1 {
		t.Errorf("implemented = %d, want the migration to still run", len(report.Implemented))
	}
	if len(sink.Records) != 1 || len(report.Migrations) != 1 {
		t.Error("migration was not recorded")
	}
}

func TestImplementAmbiguousDeclaration(t *testing.T) {
	eng, _ := engineWith(t, map[string]string{
		"src/f.ts": `function f(a: string);
function f(a) {}
`,
	})
	target := &ident.FunctionCallIdentifier{
		Name: "f", FilePath: "src/f.ts", Access: ident.PrivateFunctionAccess,
	}
	cs := &plan.Changeset{Requirements: []plan.Requirement{
		&plan.AddParameter{Target: target, ParameterType: handlerContext, ParameterName: "context"},
	}}
	report, err := NewExecutor(eng, nil).Implement(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Unimplemented) != 1 ||
		!strings.Contains(report.Unimplemented[0].Message, "more than one") {
		t.Fatalf("unimplemented = %+v", report.Unimplemented)
	}
}

func TestImplementMissingCallIsRecorded(t *testing.T) {
	eng, _ := engineWith(t, map[string]string{
		"src/f.ts": `function caller() {}
function target() {}
`,
	})
	caller := &ident.FunctionCallIdentifier{Name: "caller", FilePath: "src/f.ts", Access: ident.PrivateFunctionAccess}
	target := &ident.FunctionCallIdentifier{Name: "target", FilePath: "src/f.ts", Access: ident.PrivateFunctionAccess}
	cs := &plan.Changeset{Requirements: []plan.Requirement{
		&plan.PassArgument{Enclosing: caller, Target: target, ArgumentValue: "context"},
	}}
	report, err := NewExecutor(eng, nil).Implement(context.Background(), cs)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Unimplemented) != 1 ||
		!strings.Contains(report.Unimplemented[0].Message, "function not found") {
		t.Fatalf("unimplemented = %+v", report.Unimplemented)
	}
}

func TestImplementCancellation(t *testing.T) {
	eng, _ := engineWith(t, map[string]string{
		"src/f.ts": "function priv(s: string) {}\n",
	})
	target := &ident.FunctionCallIdentifier{Name: "priv", FilePath: "src/f.ts", Access: ident.PrivateFunctionAccess}
	cs := &plan.Changeset{Requirements: []plan.Requirement{
		&plan.AddParameter{Target: target, ParameterType: handlerContext, ParameterName: "context"},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := NewExecutor(eng, nil).Implement(ctx, cs)
	if err == nil {
		t.Fatal("cancelled context should surface an error")
	}
	if len(report.Unimplemented) != 1 || report.Unimplemented[0].Message != "cancelled" {
		t.Fatalf("unimplemented = %+v", report.Unimplemented)
	}
	if len(report.Implemented) != 0 {
		t.Error("nothing should have run")
	}
}

func TestHookFiresPerChangeset(t *testing.T) {
	eng, _ := engineWith(t, map[string]string{
		"src/f.ts": `export function caller() { return priv("x"); }
function priv(s: string) {}
`,
	})
	root := &plan.AddParameter{
		Target:        resolveTarget(t, eng, "src/f.ts", "", "priv"),
		ParameterType: handlerContext,
		ParameterName: "context",
	}
	cs, _, err := plan.ChangesetFor(eng, root)
	if err != nil {
		t.Fatal(err)
	}

	ex := NewExecutor(eng, nil)
	var hooked int
	ex.Hook = func(cs *plan.Changeset, partial *Report) {
		hooked++
		if len(partial.Implemented) == 0 {
			t.Error("hook saw an empty partial report")
		}
	}
	if _, err := ex.Implement(context.Background(), cs); err != nil {
		t.Fatal(err)
	}
	if hooked != 2 {
		t.Errorf("hook fired %d times, want once per changeset", hooked)
	}
}

func TestWriteYAML(t *testing.T) {
	var b strings.Builder
	target := &ident.FunctionCallIdentifier{
		Name:     "cloned",
		Scope:    &ident.Scope{Kind: ident.ClassScope, Name: "GitCommandGitProject", Exported: true},
		FilePath: "src/project.ts",
		Access:   ident.PublicMethodAccess,
	}
	err := WriteYAML(&b, []Migration{{
		Requirement: &plan.AddParameter{
			Target:          target,
			ParameterType:   handlerContext,
			ParameterName:   "context",
			PopulateInTests: plan.PopulateInTests{DummyValue: "{} as HandlerContext"},
		},
		Why: "api change",
	}})
	if err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"function: GitCommandGitProject.cloned",
		"type: HandlerContext",
		"module: '@atomist/automation-client'",
		"name: context",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
