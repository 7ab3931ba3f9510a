// Package tsparam performs semantics-preserving parameter-addition
// refactorings across a TypeScript codebase: given one root requirement
// ("add parameter P of type T to function F"), it plans the full transitive
// set of consequent edits — argument passing in callers, recursive
// parameter additions in callers without a suitable value, test dummies,
// imports and migration markers — and applies each as a bounded, local edit
// against a virtual project.
package tsparam

import (
	"context"

	"github.com/1homsi/tsparam/internal/apply"
	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/plan"
	"github.com/1homsi/tsparam/internal/project"
)

// ApplyRequirement plans the consequence tree of root and implements it
// against proj, flushing after every requirement. The optional hook fires
// after each completed changeset with the partial report; callers use it to
// commit snapshots between changesets. Requirements the planner dropped are
// folded into the report's unimplemented list.
func ApplyRequirement(ctx context.Context, proj *project.Project, root plan.Requirement, hook apply.ChangesetHook) (*apply.Report, error) {
	return ApplyWithSink(ctx, proj, root, nil, hook)
}

// ApplyWithSink is ApplyRequirement with an explicit migration sink; a nil
// sink accumulates migrations in memory and exposes them on the report.
func ApplyWithSink(ctx context.Context, proj *project.Project, root plan.Requirement, sink apply.MigrationSink, hook apply.ChangesetHook) (*apply.Report, error) {
	eng := astq.New(proj)
	cs, skipped, err := plan.ChangesetFor(eng, root)
	if err != nil {
		return nil, err
	}
	plan.Infof("planned %d requirements for %s", cs.Count(), root.Describe())

	ex := apply.NewExecutor(eng, sink)
	ex.Hook = hook
	report, err := ex.Implement(ctx, cs)
	for _, s := range skipped {
		report.Unimplemented = append(report.Unimplemented, apply.Unimplemented{
			Requirement: s.Requirement,
			Message:     s.Message,
		})
	}
	return report, err
}

// Plan plans the consequence tree of root without touching the project.
func Plan(proj *project.Project, root plan.Requirement) (*plan.Changeset, []plan.Skipped, error) {
	return plan.ChangesetFor(astq.New(proj), root)
}
