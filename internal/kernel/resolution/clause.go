// Package resolution implements the Resolution Prover (C8): CNF
// conversion (NNF, standardize-apart, Skolemization, clause
// distribution) followed by set-of-support resolution with unit
// preference and forward/backward subsumption.
package resolution

import (
	"strings"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// Literal is one signed atomic formula in a clause.
type Literal struct {
	Negated bool
	Atom    ast.Node
}

func (l Literal) String() string {
	if l.Negated {
		return "¬" + l.Atom.String()
	}
	return l.Atom.String()
}

// complementaryPolarity is the polarity half of checking whether l and
// o are the same atom with
// opposite polarity under the substitution produced by unifying their
// atoms (the caller does the unification; this only checks polarity).
func (l Literal) complementaryPolarity(o Literal) bool {
	return l.Negated != o.Negated
}

// Clause is a disjunction of Literals. FromGoal marks a clause that
// descends from the negated goal (directly or through a resolution
// step with another FromGoal clause), which the search loop's
// set-of-support restriction requires for every new resolvent.
type Clause struct {
	ID       int
	Literals []Literal
	FromGoal bool
	// Parents names the ids of the clauses (by ID) this clause was
	// resolved from; empty for an input (axiom/negated-goal) clause.
	Parents []int
	// Depth is the resolution depth: 0 for an input clause, otherwise
	// one more than the deeper of its two parents, bounding the search
	// against ResourceLimits.Depth.
	Depth int
	// StepSub is the MGU this clause's own resolution step produced
	// (nil for an input clause). Composing every ancestor's StepSub in
	// clause-ID order recovers the answer substitution for a goal's
	// free variables once the empty clause is reached.
	StepSub ast.Substitution
}

func (c Clause) String() string {
	if len(c.Literals) == 0 {
		return "[]"
	}
	parts := make([]string, len(c.Literals))
	for i, l := range c.Literals {
		parts[i] = l.String()
	}
	return strings.Join(parts, " ∨ ")
}

// IsEmpty reports whether c is the empty clause (a derived
// contradiction, the success condition for resolution refutation).
func (c Clause) IsEmpty() bool { return len(c.Literals) == 0 }

// isTautology reports whether c contains a literal and its negation on
// the same atom (by hash, since atoms are hash-consed), discarded on
// creation per spec §4.8.
func (c Clause) isTautology() bool {
	for i := range c.Literals {
		for j := i + 1; j < len(c.Literals); j++ {
			a, b := c.Literals[i], c.Literals[j]
			if a.Negated != b.Negated && a.Atom.Hash() == b.Atom.Hash() {
				return true
			}
		}
	}
	return false
}

// literalNode renders one Literal back into an ast.Node for recording
// in a ProofStep's Conclusion.
func literalNode(f *ast.Factory, l Literal) ast.Node {
	if l.Negated {
		return f.NewConnective(ast.Not, []ast.Node{l.Atom}, types.Boolean, ast.Metadata{})
	}
	return l.Atom
}

// clauseToNode renders c back into an ast.Node: the empty clause
// becomes the nullary falsum constant, a unit clause is its one
// literal, otherwise an n-ary disjunction.
func clauseToNode(f *ast.Factory, c Clause) ast.Node {
	if len(c.Literals) == 0 {
		return f.Falsum()
	}
	if len(c.Literals) == 1 {
		return literalNode(f, c.Literals[0])
	}
	ops := make([]ast.Node, len(c.Literals))
	for i, l := range c.Literals {
		ops[i] = literalNode(f, l)
	}
	return f.NewConnective(ast.Or, ops, types.Boolean, ast.Metadata{})
}
