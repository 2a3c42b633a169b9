package unify

import "github.com/kr-engine/godel/internal/kernel/ast"

// Equation is one pending `Left =? Right` constraint in a higher-order
// unification problem.
type Equation struct {
	Left, Right ast.Node
}

// Problem is a set of equations still to be solved, plus the residual
// flex-flex pairs a Miller-pattern solve could not eliminate (spec.md
// §4.4: "non-pattern flex-flex equations may be deferred as residual
// constraints rather than solved").
type Problem struct {
	Equations []Equation
	Residual  []Equation
}

func (p *Problem) pushFront(eqs ...Equation) {
	p.Equations = append(append([]Equation{}, eqs...), p.Equations...)
}

func (p *Problem) defer_(eq Equation) {
	p.Residual = append(p.Residual, eq)
}
