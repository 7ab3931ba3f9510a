package apply

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/1homsi/tsparam"
	applylib "github.com/1homsi/tsparam/internal/apply"
	"github.com/1homsi/tsparam/internal/ident"
	planlib "github.com/1homsi/tsparam/internal/plan"
	"github.com/1homsi/tsparam/internal/project"
	"github.com/spf13/afero"
)

func Run(args []string) int {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "JSON output")
	verbose := fs.Bool("verbose", false, "verbose logging")
	dryRun := fs.Bool("dry-run", false, "apply in memory but do not write files back")
	migrationsOut := fs.String("migrations", "", "write migration records to this YAML file")
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

	osFs := afero.NewOsFs()
	proj, err := project.Load(osFs, dir, ident.TypeScript.Extensions)
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

	report, err := tsparam.ApplyRequirement(context.Background(), proj, root, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "apply:", err)
		return 2
	}

	if !*dryRun {
		if err := proj.WriteBack(osFs, dir); err != nil {
			fmt.Fprintln(os.Stderr, "write project:", err)
			return 2
		}
	}

	if *migrationsOut != "" && len(report.Migrations) > 0 {
		f, err := os.Create(*migrationsOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, "write migrations:", err)
			return 2
		}
		if err := applylib.WriteYAML(f, report.Migrations); err != nil {
			f.Close()
			fmt.Fprintln(os.Stderr, "write migrations:", err)
			return 2
		}
		f.Close()
	}

	if *jsonOut {
		printJSON(report)
	} else {
		printText(report)
	}
	if !report.Clean() {
		return 1
	}
	return 0
}

func printJSON(report *applylib.Report) {
	type jsonEntry struct {
		Kind        string `json:"kind"`
		Description string `json:"description"`
		Message     string `json:"message,omitempty"`
	}
	out := struct {
		Implemented   []jsonEntry `json:"implemented"`
		Unimplemented []jsonEntry `json:"unimplemented"`
		Migrations    int         `json:"migrations"`
	}{Implemented: []jsonEntry{}, Unimplemented: []jsonEntry{}}
	for _, r := range report.Implemented {
		out.Implemented = append(out.Implemented, jsonEntry{Kind: r.Kind(), Description: r.Describe()})
	}
	for _, u := range report.Unimplemented {
		out.Unimplemented = append(out.Unimplemented, jsonEntry{
			Kind:        u.Requirement.Kind(),
			Description: u.Requirement.Describe(),
			Message:     u.Message,
		})
	}
	out.Migrations = len(report.Migrations)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printText(report *applylib.Report) {
	for _, r := range report.Implemented {
		fmt.Printf("implemented: %s\n", r.Describe())
	}
	for _, u := range report.Unimplemented {
		fmt.Printf("UNIMPLEMENTED: %s (%s)\n", u.Requirement.Describe(), u.Message)
	}
	if len(report.Migrations) > 0 {
		fmt.Printf("%d migration record(s) for downstream consumers\n", len(report.Migrations))
	}
}
