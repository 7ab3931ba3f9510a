package plan

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1homsi/tsparam"
	"github.com/1homsi/tsparam/internal/ident"
	planlib "github.com/1homsi/tsparam/internal/plan"
	"github.com/1homsi/tsparam/internal/project"
	"github.com/spf13/afero"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "JSON output")
	verbose := fs.Bool("verbose", false, "verbose logging")
	file := fs.String("file", "", "project-relative file declaring the target")
	function := fs.String("function", "", "target function or method name")
	class := fs.String("class", "", "enclosing class of the target")
	namespace := fs.String("namespace", "", "enclosing namespace of the target")
	param := fs.String("param", "", "name of the parameter to add")
	typeName := fs.String("type", "", "type of the parameter to add")
	from := fs.String("from", "", "library module the type is imported from")
	fromPath := fs.String("from-path", "", "project-relative path the type is declared in")
	external := fs.String("external", "", "package downstream consumers resolve the type from")
	dummy := fs.String("dummy", "", "dummy expression for test call sites")
	dummyImport := fs.String("dummy-import", "", "symbol to import alongside the dummy")
	dummyFrom := fs.String("dummy-from", "", "module the dummy symbol comes from")
	fs.Parse(args)

	if *verbose {
		planlib.SetVerbose(true)
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	proj, err := project.Load(afero.NewOsFs(), dir, ident.TypeScript.Extensions)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load project:", err)
		return 2
	}

	spec := tsparam.RootSpec{
		File:            *file,
		Function:        *function,
		Class:           *class,
		Namespace:       *namespace,
		ParameterName:   *param,
		TypeName:        *typeName,
		Module:          *from,
		LocalPath:       *fromPath,
		External:        *external,
		DummyValue:      *dummy,
		DummyImportName: *dummyImport,
		DummyImportFrom: *dummyFrom,
	}
	root, err := spec.NewAddParameter(proj)
	if err != nil {
		fmt.Fprintln(os.Stderr, "resolve target:", err)
		return 2
	}

	cs, skipped, err := tsparam.Plan(proj, root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "plan:", err)
		return 2
	}

	if *jsonOut {
		out := struct {
			Changeset jsonChangeset     `json:"changeset"`
			Skipped   []jsonRequirement `json:"skipped,omitempty"`
		}{Changeset: toJSON(cs)}
		for _, s := range skipped {
			out.Skipped = append(out.Skipped, jsonRequirement{
				Kind:        s.Requirement.Kind(),
				Description: s.Requirement.Describe() + ": " + s.Message,
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(out)
		return 0
	}

	printChangeset(cs, 0)
	for _, s := range skipped {
		fmt.Printf("skipped: %s (%s)\n", s.Requirement.Describe(), s.Message)
	}
	return 0
}

type jsonChangeset struct {
	Requirements  []jsonRequirement `json:"requirements"`
	Prerequisites []jsonChangeset   `json:"prerequisites,omitempty"`
}

type jsonRequirement struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

func toJSON(cs *planlib.Changeset) jsonChangeset {
	var out jsonChangeset
	for _, r := range cs.Requirements {
		out.Requirements = append(out.Requirements, jsonRequirement{Kind: r.Kind(), Description: r.Describe()})
	}
	for _, pre := range cs.Prerequisites {
		out.Prerequisites = append(out.Prerequisites, toJSON(pre))
	}
	return out
}

func printChangeset(cs *planlib.Changeset, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, pre := range cs.Prerequisites {
		fmt.Printf("%sprerequisite:\n", indent)
		printChangeset(pre, depth+1)
	}
	for _, r := range cs.Requirements {
		fmt.Printf("%s- [%s] %s\n", indent, r.Kind(), r.Describe())
	}
}
