package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/imports"
	"github.com/1homsi/tsparam/internal/plan"
)

// ChangesetHook is invoked after each changeset completes, with the partial
// report so far. Callers use it to commit version-control snapshots between
// changesets.
type ChangesetHook func(cs *plan.Changeset, partial *Report)

// Executor implements changesets against one project. The project is
// flushed after every individual requirement so subsequent path queries see
// the updated source.
type Executor struct {
	Engine *astq.Engine
	Sink   MigrationSink
	Hook   ChangesetHook
}

// NewExecutor returns an executor writing migrations to sink; a nil sink
// gets a fresh MemorySink.
func NewExecutor(eng *astq.Engine, sink MigrationSink) *Executor {
	if sink == nil {
		sink = &MemorySink{}
	}
	return &Executor{Engine: eng, Sink: sink}
}

// Implement walks the changeset prerequisite-first and implements each
// requirement in order. Recoverable failures are recorded as unimplemented
// and execution continues; parser and project errors abort. On context
// cancellation the remainder is marked unimplemented and the partial report
// is returned alongside the context error.
func (e *Executor) Implement(ctx context.Context, cs *plan.Changeset) (*Report, error) {
	report := &Report{}
	err := e.implement(ctx, cs, report)
	return report, err
}

func (e *Executor) implement(ctx context.Context, cs *plan.Changeset, report *Report) error {
	for i, pre := range cs.Prerequisites {
		if err := ctx.Err(); err != nil {
			markUnimplemented(report, remaining(cs, i, 0), "cancelled")
			return err
		}
		if err := e.implement(ctx, pre, report); err != nil {
			if isCancellation(err) {
				markUnimplemented(report, remaining(cs, i+1, 0), "cancelled")
			}
			return err
		}
	}

	for i, req := range cs.Requirements {
		if err := ctx.Err(); err != nil {
			markUnimplemented(report, cs.Requirements[i:], "cancelled")
			return err
		}
		plan.Debugf("[apply] %s", req.Describe())
		err := e.implementOne(req, report)
		switch {
		case err == nil:
			report.Implemented = append(report.Implemented, req)
		case plan.Recoverable(err):
			plan.Warnf("[apply] unimplemented: %s: %v", req.Describe(), err)
			report.Unimplemented = append(report.Unimplemented, Unimplemented{Requirement: req, Message: err.Error()})
		default:
			return err
		}
		if err := e.Engine.Flush(); err != nil {
			return fmt.Errorf("flush after %s: %w", req.Kind(), err)
		}
	}

	if e.Hook != nil {
		e.Hook(cs, report)
	}
	return nil
}

func (e *Executor) implementOne(req plan.Requirement, report *Report) error {
	switch r := req.(type) {
	case *plan.AddParameter:
		return e.addParameter(r)
	case *plan.PassArgument:
		return e.passArgument(r)
	case *plan.PassDummyInTests:
		return e.passDummyInTests(r)
	case *plan.AddMigration:
		return e.addMigration(r, report)
	}
	return fmt.Errorf("unknown requirement kind %q", req.Kind())
}

// addParameter inserts "name: Type, " after the declaration's opening
// paren, importing the type first. The import edit flushes on its own so
// the paren rewrite queries fresh offsets.
func (e *Executor) addParameter(r *plan.AddParameter) error {
	mutated, err := imports.AddImport(e.Engine, r.Target.FilePath, r.ParameterType)
	if err != nil {
		return err
	}
	if mutated {
		if err := e.Engine.Flush(); err != nil {
			return err
		}
	}

	expr := r.Target.DeclPathExpr() + "/OpenParenToken"
	parens, err := e.Engine.Find(r.Target.DeclGlob(), expr)
	if err != nil {
		return err
	}
	switch len(parens) {
	case 0:
		return fmt.Errorf("%s: %w", r.Target, plan.ErrDeclarationNotFound)
	case 1:
	default:
		return fmt.Errorf("%s: %w", r.Target, plan.ErrAmbiguousDeclaration)
	}
	return parens[0].SetValue("(" + r.ParameterName + ": " + r.ParameterType.Name + ", ")
}

// passArgument prepends the argument value at every call of the target
// nested inside the enclosing function's declaration.
func (e *Executor) passArgument(r *plan.PassArgument) error {
	expr := r.Enclosing.DeclPathExpr() + r.Target.CallPathExpr() + "/OpenParenToken"
	parens, err := e.Engine.Find(r.Enclosing.FilePath, expr)
	if err != nil {
		return err
	}
	if len(parens) == 0 {
		return fmt.Errorf("call of %s in %s: %w", r.Target.DottedName(), r.Enclosing, plan.ErrCallNotFound)
	}
	for _, paren := range parens {
		if err := paren.SetValue("(" + r.ArgumentValue + ", "); err != nil {
			return err
		}
	}
	return nil
}

// passDummyInTests rewrites every call of the target under the test tree,
// then adds the dummy's import to each file actually modified. Zero
// matches is success with no edits.
func (e *Executor) passDummyInTests(r *plan.PassDummyInTests) error {
	expr := r.Target.CallPathExpr() + "/OpenParenToken"
	parens, err := e.Engine.Find(r.Target.TestGlob(), expr)
	if err != nil {
		return err
	}
	if len(parens) == 0 {
		return nil
	}

	modified := make(map[string]bool)
	var order []string
	for _, paren := range parens {
		if err := paren.SetValue("(" + r.DummyValue + ", "); err != nil {
			return err
		}
		path := paren.FilePath()
		if !modified[path] {
			modified[path] = true
			order = append(order, path)
		}
	}
	if err := e.Engine.Flush(); err != nil {
		return err
	}

	if r.AdditionalImport == nil {
		return nil
	}
	for _, path := range order {
		if _, err := imports.AddImport(e.Engine, path, *r.AdditionalImport); err != nil {
			return err
		}
	}
	return nil
}

// addMigration persists the downstream requirement; the project is not
// touched.
func (e *Executor) addMigration(r *plan.AddMigration, report *Report) error {
	m := Migration{Requirement: r.Downstream, Why: r.Why()}
	if err := e.Sink.Record(m); err != nil {
		return fmt.Errorf("record migration for %s: %w", r.Downstream.Target.DottedName(), err)
	}
	report.Migrations = append(report.Migrations, m)
	return nil
}

func markUnimplemented(report *Report, reqs []plan.Requirement, message string) {
	for _, req := range reqs {
		report.Unimplemented = append(report.Unimplemented, Unimplemented{Requirement: req, Message: message})
	}
}

// remaining flattens the not-yet-run requirements of cs starting at
// prerequisite preIdx and requirement reqIdx.
func remaining(cs *plan.Changeset, preIdx, reqIdx int) []plan.Requirement {
	var out []plan.Requirement
	for _, pre := range cs.Prerequisites[preIdx:] {
		out = append(out, plan.AllRequirements(pre)...)
	}
	return append(out, cs.Requirements[reqIdx:]...)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
