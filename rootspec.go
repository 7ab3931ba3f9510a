package tsparam

import (
	"fmt"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/ident"
	"github.com/1homsi/tsparam/internal/imports"
	"github.com/1homsi/tsparam/internal/plan"
	"github.com/1homsi/tsparam/internal/project"
)

// RootSpec describes a root parameter addition in user terms: where the
// target is declared and what to insert. It is the bridge between the CLI
// surface and the requirement model.
type RootSpec struct {
	// Target declaration
	File      string
	Function  string
	Class     string
	Namespace string

	// Parameter to add
	ParameterName string
	TypeName      string
	Module        string // library module specifier; mutually exclusive with LocalPath
	LocalPath     string // project-relative path the type is declared in
	External      string // package downstream consumers resolve a local type from

	// Test population. An empty DummyValue defaults to "{} as <TypeName>"
	// with the parameter type as the import.
	DummyValue      string
	DummyImportName string
	DummyImportFrom string

	Why string
}

// NewAddParameter resolves the target declaration inside proj and builds
// the root requirement.
func (s RootSpec) NewAddParameter(proj *project.Project) (*plan.AddParameter, error) {
	if s.File == "" || s.Function == "" {
		return nil, fmt.Errorf("target file and function are required")
	}
	if s.ParameterName == "" || s.TypeName == "" {
		return nil, fmt.Errorf("parameter name and type are required")
	}
	if s.Module != "" && s.LocalPath != "" {
		return nil, fmt.Errorf("the parameter type is either a library or a local import, not both")
	}

	target, err := ident.Resolve(astq.New(proj), s.File, s.Namespace, s.Class, s.Function)
	if err != nil {
		return nil, err
	}

	var paramType imports.Identifier
	if s.Module != "" {
		paramType = imports.LibraryImport(s.TypeName, s.Module)
	} else {
		paramType = imports.LocalImport(s.TypeName, s.LocalPath, s.External)
	}

	populate := plan.PopulateInTests{DummyValue: s.DummyValue}
	switch {
	case s.DummyImportName != "":
		imp := imports.LibraryImport(s.DummyImportName, s.DummyImportFrom)
		populate.AdditionalImport = &imp
	case s.DummyValue == "":
		populate.DummyValue = "{} as " + s.TypeName
		imp := paramType
		populate.AdditionalImport = &imp
	}

	why := s.Why
	if why == "" {
		why = "requested parameter addition"
	}
	return &plan.AddParameter{
		Target:          target,
		ParameterType:   paramType,
		ParameterName:   s.ParameterName,
		PopulateInTests: populate,
		WhyText:         why,
	}, nil
}
