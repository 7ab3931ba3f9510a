package plan

import (
	"fmt"

	"github.com/1homsi/tsparam/internal/astq"
	"github.com/1homsi/tsparam/internal/ident"
)

// DefaultBudget bounds the total number of requirements one planning run
// may traverse. Requirement equality already breaks caller cycles; the
// budget is a defense against pathological recursion only.
const DefaultBudget = 512

// Skipped is a requirement the planner dropped, with the reason. The
// executor folds these into the report's unimplemented list.
type Skipped struct {
	Requirement Requirement
	Message     string
}

// Planner expands a root requirement into its changeset tree.
type Planner struct {
	eng     *astq.Engine
	budget  int
	planned []Requirement
	skipped []Skipped
}

// NewPlanner returns a planner querying through eng.
func NewPlanner(eng *astq.Engine) *Planner {
	return &Planner{eng: eng, budget: DefaultBudget}
}

// ChangesetFor plans the full consequence tree of root. The returned
// skipped list carries requirements dropped by the traversal budget.
func ChangesetFor(eng *astq.Engine, root Requirement) (*Changeset, []Skipped, error) {
	p := NewPlanner(eng)
	cs, err := p.changesetFor(root, true)
	if err != nil {
		return nil, nil, err
	}
	return cs, p.skipped, nil
}

func (p *Planner) changesetFor(root Requirement, isRoot bool) (*Changeset, error) {
	p.markPlanned(root)
	cs := &Changeset{Requirements: []Requirement{root}}
	if ap, ok := root.(*AddParameter); ok {
		if err := p.expandAddParameter(cs, ap, isRoot); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// expandAddParameter finds the consequences of adding a parameter to
// r.Target: the test-dummy and migration requirements when the root target
// is public, and one argument-passing requirement per distinct enclosing
// caller — preceded by a prerequisite parameter addition when the caller
// has no value of the required type to pass. Dummies and migrations attach
// to the root only: a prerequisite caller's new parameter is populated
// through the argument chain, not surfaced to tests or consumers.
func (p *Planner) expandAddParameter(cs *Changeset, r *AddParameter, isRoot bool) error {
	if isRoot && r.Target.Access.Public() {
		dummy := &PassDummyInTests{
			Target:           r.Target,
			DummyValue:       r.PopulateInTests.DummyValue,
			AdditionalImport: r.PopulateInTests.AdditionalImport,
			WhyText:          r.Describe(),
		}
		if !p.seen(dummy) {
			p.markPlanned(dummy)
			cs.Requirements = append(cs.Requirements, dummy)
		}
		mig := &AddMigration{Downstream: r.downstream(), WhyText: r.Describe()}
		if !p.seen(mig) {
			p.markPlanned(mig)
			cs.Requirements = append(cs.Requirements, mig)
		}
	}

	glob := r.Target.PlanningGlob()
	expr := r.Target.CallPathExpr()
	Debugf("[plan] scanning %s for calls of %s", glob, r.Target.DottedName())
	calls, err := p.eng.Find(glob, expr)
	if err != nil {
		return fmt.Errorf("scan call sites of %s: %w", r.Target.DottedName(), err)
	}

	for _, call := range calls {
		path := call.FilePath()
		if ident.TypeScript.IsTestPath(path) {
			// test call sites are covered by the dummy pass
			continue
		}
		decl := ident.EnclosingDeclaration(call)
		if decl == nil {
			Debugf("[plan] %s: call of %s outside any declaration, skipping", path, r.Target.Name)
			continue
		}
		encl, err := ident.Infer(decl)
		if err != nil {
			Warnf("[plan] %s: %v", path, err)
			continue
		}

		if argName, ok := ident.ParameterOfType(decl, r.ParameterType.Name); ok {
			pa := &PassArgument{
				Enclosing:     encl,
				Target:        r.Target,
				ArgumentValue: argName,
				WhyText:       r.Describe(),
			}
			if !p.seen(pa) {
				p.markPlanned(pa)
				cs.Requirements = append(cs.Requirements, pa)
			}
			continue
		}

		prereq := &AddParameter{
			Target:          encl,
			ParameterType:   r.ParameterType,
			ParameterName:   r.ParameterName,
			PopulateInTests: r.PopulateInTests,
			WhyText:         r.Describe(),
		}
		if !p.seen(prereq) {
			if p.overBudget() {
				Warnf("[plan] dropping %s: %v", prereq.Describe(), ErrPlannerBudget)
				p.skipped = append(p.skipped, Skipped{Requirement: prereq, Message: ErrPlannerBudget.Error()})
			} else {
				child, err := p.changesetFor(prereq, false)
				if err != nil {
					return err
				}
				cs.Prerequisites = append(cs.Prerequisites, child)
			}
		}

		pa := &PassArgument{
			Enclosing:     encl,
			Target:        r.Target,
			ArgumentValue: r.ParameterName,
			WhyText:       r.Describe(),
		}
		if !p.seen(pa) {
			p.markPlanned(pa)
			cs.Requirements = append(cs.Requirements, pa)
		}
	}
	return nil
}

func (p *Planner) seen(req Requirement) bool {
	for _, existing := range p.planned {
		if existing.Equal(req) {
			return true
		}
	}
	return false
}

func (p *Planner) markPlanned(req Requirement) {
	p.planned = append(p.planned, req)
}

func (p *Planner) overBudget() bool {
	return len(p.planned) >= p.budget
}
