// Package plan models declarative refactoring intents — requirements — and
// expands one root requirement into the changeset tree of every consequent
// edit: argument passing in callers, recursive parameter additions in
// callers that lack a suitable value, test dummies and migration markers.
package plan

import (
	"fmt"

	"github.com/1homsi/tsparam/internal/ident"
	"github.com/1homsi/tsparam/internal/imports"
)

// Requirement kinds.
const (
	KindAddParameter     = "add-parameter"
	KindPassArgument     = "pass-argument"
	KindPassDummyInTests = "pass-dummy-in-tests"
	KindAddMigration     = "add-migration"
)

// Requirement is a single declarative refactoring intent. Equality ignores
// provenance (Why): two requirements are equal when their kind and target
// identities match, plus the enclosing-function identity for argument
// passing.
type Requirement interface {
	Kind() string
	Why() string
	Equal(Requirement) bool
	Describe() string
}

// PopulateInTests says what to insert at call sites in test code when a
// parameter is added: the dummy expression and, where the expression needs
// a symbol, the import to add alongside it.
type PopulateInTests struct {
	DummyValue       string
	AdditionalImport *imports.Identifier
}

// AddParameter inserts a new first parameter into the target's declaration,
// adding the type's import if absent.
type AddParameter struct {
	Target          *ident.FunctionCallIdentifier
	ParameterType   imports.Identifier
	ParameterName   string
	PopulateInTests PopulateInTests
	WhyText         string
}

func (r *AddParameter) Kind() string { return KindAddParameter }
func (r *AddParameter) Why() string  { return r.WhyText }

func (r *AddParameter) Equal(o Requirement) bool {
	other, ok := o.(*AddParameter)
	return ok && r.Target.Equal(other.Target)
}

func (r *AddParameter) Describe() string {
	return fmt.Sprintf("add parameter %s: %s to %s", r.ParameterName, r.ParameterType.Name, r.Target)
}

// downstream is the form of this requirement an external consumer applies
// to their own source: a local parameter type with an external path becomes
// a library import resolved from the published package.
func (r *AddParameter) downstream() *AddParameter {
	d := *r
	d.ParameterType = r.ParameterType.External()
	if r.PopulateInTests.AdditionalImport != nil {
		ext := r.PopulateInTests.AdditionalImport.External()
		d.PopulateInTests.AdditionalImport = &ext
	}
	return &d
}

// PassArgument prepends an argument value at every call of the target
// inside one enclosing function.
type PassArgument struct {
	Enclosing     *ident.FunctionCallIdentifier
	Target        *ident.FunctionCallIdentifier
	ArgumentValue string
	WhyText       string
}

func (r *PassArgument) Kind() string { return KindPassArgument }
func (r *PassArgument) Why() string  { return r.WhyText }

func (r *PassArgument) Equal(o Requirement) bool {
	other, ok := o.(*PassArgument)
	return ok && r.Target.Equal(other.Target) && r.Enclosing.Equal(other.Enclosing)
}

func (r *PassArgument) Describe() string {
	return fmt.Sprintf("pass %q to %s from %s", r.ArgumentValue, r.Target.DottedName(), r.Enclosing)
}

// PassDummyInTests prepends a dummy value at every call of the target under
// the test tree, adding the dummy's import to each file changed.
type PassDummyInTests struct {
	Target           *ident.FunctionCallIdentifier
	DummyValue       string
	AdditionalImport *imports.Identifier
	WhyText          string
}

func (r *PassDummyInTests) Kind() string { return KindPassDummyInTests }
func (r *PassDummyInTests) Why() string  { return r.WhyText }

func (r *PassDummyInTests) Equal(o Requirement) bool {
	other, ok := o.(*PassDummyInTests)
	return ok && r.Target.Equal(other.Target)
}

func (r *PassDummyInTests) Describe() string {
	return fmt.Sprintf("pass dummy %q to %s in tests", r.DummyValue, r.Target.DottedName())
}

// AddMigration records that downstream API consumers must apply the carried
// requirement against their own source. It has no direct project effect.
type AddMigration struct {
	Downstream *AddParameter
	WhyText    string
}

func (r *AddMigration) Kind() string { return KindAddMigration }
func (r *AddMigration) Why() string  { return r.WhyText }

func (r *AddMigration) Equal(o Requirement) bool {
	other, ok := o.(*AddMigration)
	return ok && r.Downstream.Target.Equal(other.Downstream.Target)
}

func (r *AddMigration) Describe() string {
	return fmt.Sprintf("record migration for %s", r.Downstream.Target)
}
