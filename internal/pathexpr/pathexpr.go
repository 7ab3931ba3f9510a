// Package pathexpr parses and evaluates the path-expression dialect the
// refactoring engine uses to address tree nodes: "/" child steps, "//"
// descendant steps, node-kind tests, [@value='...'] predicates and nested
// relative-path existence predicates, e.g.
//
//	//CallExpression[/PropertyAccessExpression/Identifier[@value='fn']]
//	//ImportDeclaration[//StringLiteral[@value='@scope/pkg']]
//	/ClassDeclaration[/Identifier[@value='C']]/MethodDeclaration[/Identifier[@value='m']]/OpenParenToken
package pathexpr

import (
	"fmt"
	"strings"

	"github.com/1homsi/tsparam/internal/tsast"
)

// Step is one location step of a parsed expression.
type Step struct {
	Descendant bool // "//" instead of "/"
	Kind       string
	Preds      []Predicate
}

// Predicate filters the nodes a step selects. Exactly one of Value / Path
// is set.
type Predicate struct {
	Value *string // [@value='...']
	Path  []Step  // [/Relative/Path...] — existence test
}

// Expr is a parsed path expression.
type Expr struct {
	Steps []Step
	text  string
}

// String returns the original expression text.
func (e *Expr) String() string { return e.text }

// Parse compiles an expression. Expressions are position-independent and
// may be concatenated textually before parsing.
func Parse(text string) (*Expr, error) {
	p := &exprParser{src: text}
	steps, err := p.parseSteps()
	if err != nil {
		return nil, fmt.Errorf("parse path expression %q: %w", text, err)
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parse path expression %q: trailing input at offset %d", text, p.pos)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("parse path expression %q: empty expression", text)
	}
	return &Expr{Steps: steps, text: text}, nil
}

// Evaluate runs the expression with root as the context node and returns
// matches in document order, deduplicated.
func Evaluate(root *tsast.Node, expr string) ([]*tsast.Node, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return e.Eval(root), nil
}

// Eval runs a parsed expression against a context node.
func (e *Expr) Eval(root *tsast.Node) []*tsast.Node {
	return evalSteps([]*tsast.Node{root}, e.Steps)
}

func evalSteps(context []*tsast.Node, steps []Step) []*tsast.Node {
	current := context
	for _, step := range steps {
		var next []*tsast.Node
		seen := make(map[*tsast.Node]bool)
		for _, n := range current {
			for _, cand := range step.candidates(n) {
				if seen[cand] {
					continue
				}
				if !step.matches(cand) {
					continue
				}
				seen[cand] = true
				next = append(next, cand)
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

func (s *Step) candidates(n *tsast.Node) []*tsast.Node {
	if !s.Descendant {
		return n.Children()
	}
	var out []*tsast.Node
	for _, c := range n.Children() {
		c.Walk(func(d *tsast.Node) bool {
			out = append(out, d)
			return true
		})
	}
	return out
}

func (s *Step) matches(n *tsast.Node) bool {
	if n.Kind != s.Kind {
		return false
	}
	for _, pred := range s.Preds {
		if pred.Value != nil {
			if n.Value() != *pred.Value {
				return false
			}
			continue
		}
		if len(evalSteps([]*tsast.Node{n}, pred.Path)) == 0 {
			return false
		}
	}
	return true
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) parseSteps() ([]Step, error) {
	var steps []Step
	for p.pos < len(p.src) && p.src[p.pos] == '/' {
		step := Step{}
		p.pos++
		if p.pos < len(p.src) && p.src[p.pos] == '/' {
			step.Descendant = true
			p.pos++
		}
		kind := p.readName()
		if kind == "" {
			return nil, fmt.Errorf("expected node kind at offset %d", p.pos)
		}
		step.Kind = kind
		for p.pos < len(p.src) && p.src[p.pos] == '[' {
			pred, err := p.parsePredicate()
			if err != nil {
				return nil, err
			}
			step.Preds = append(step.Preds, pred)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func (p *exprParser) parsePredicate() (Predicate, error) {
	p.pos++ // "["
	if strings.HasPrefix(p.src[p.pos:], "@value=") {
		p.pos += len("@value=")
		v, err := p.readQuoted()
		if err != nil {
			return Predicate{}, err
		}
		if err := p.expect(']'); err != nil {
			return Predicate{}, err
		}
		return Predicate{Value: &v}, nil
	}
	if p.pos < len(p.src) && p.src[p.pos] == '/' {
		steps, err := p.parseSteps()
		if err != nil {
			return Predicate{}, err
		}
		if err := p.expect(']'); err != nil {
			return Predicate{}, err
		}
		return Predicate{Path: steps}, nil
	}
	return Predicate{}, fmt.Errorf("unsupported predicate at offset %d", p.pos)
}

func (p *exprParser) readName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *exprParser) readQuoted() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '\'' {
		return "", fmt.Errorf("expected quoted value at offset %d", p.pos)
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '\'' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("unterminated quoted value at offset %d", start)
	}
	v := p.src[start:p.pos]
	p.pos++
	return v, nil
}

func (p *exprParser) expect(c byte) error {
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d", string(c), p.pos)
	}
	p.pos++
	return nil
}
