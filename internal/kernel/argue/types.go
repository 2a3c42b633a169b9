// Package argue implements Belief Revision & Argumentation (C10): an
// argumentation framework over strict and defeasible rules, grounded
// and preferred extension semantics, and AGM-style belief revision.
package argue

import "github.com/kr-engine/godel/internal/kernel/ast"

// Rule is a strict or defeasible inference rule: Body (a conjunction
// of antecedents, empty for a bare fact) implies Head. Source keeps
// the original formula the rule was read from (an Implies connective,
// or the fact itself when Body is empty) for display and for
// undercutting attacks, which must name a rule rather than an
// argument.
type Rule struct {
	Head     ast.Node
	Body     []ast.Node
	Strict   bool
	Source   ast.Node
	NameAtom ast.Node // nil for strict rules; see undercutting in attack.go
}

// ruleFromFormula splits a KB formula into a Rule: a (possibly
// universally quantified) Implies becomes Body (its antecedent,
// flattened over And) ⇒ Head (its consequent); anything else is a
// fact, a rule with an empty Body. The quantifier itself is stripped:
// its bound variables become ordinary *ast.Variable occurrences inside
// Body/Head, which unify.Unify already treats as unification
// variables regardless of binder scoping — the same "bare free
// variable after prefix removal" convention [[C8 Resolution Prover]]
// relies on for CNF clauses.
func ruleFromFormula(n ast.Node, strict bool) Rule {
	stripped := n
	for {
		q, ok := stripped.(*ast.Quantifier)
		if !ok || q.Kind != ast.Forall {
			break
		}
		stripped = q.Body
	}
	if c, ok := stripped.(*ast.Connective); ok && c.Kind == ast.Implies {
		return Rule{Head: c.Operands[1], Body: flattenAnd(c.Operands[0]), Strict: strict, Source: n}
	}
	return Rule{Head: stripped, Strict: strict, Source: n}
}

func flattenAnd(n ast.Node) []ast.Node {
	if c, ok := n.(*ast.Connective); ok && c.Kind == ast.And {
		var out []ast.Node
		for _, op := range c.Operands {
			out = append(out, flattenAnd(op)...)
		}
		return out
	}
	return []ast.Node{n}
}

// Argument is one node of the argumentation framework: a conclusion
// derived by Rule from zero or more sub-arguments supplying its body
// antecedents (spec §4.10: "an argument is a tree with a conclusion at
// the root and premises at leaves... premises may themselves be
// arguments").
type Argument struct {
	ID         int
	Conclusion ast.Node
	Rule       Rule
	Sub        []int
	Strict     bool // true only if Rule and every transitive sub-argument is strict
}

// Framework is a built argumentation framework (A, ⇇): the arguments
// and the attack edges computed over them.
type Framework struct {
	Arguments []*Argument
	Attacks   []Attack
}

// Attack is one edge of ⇇: From attacks To via Kind.
type Attack struct {
	From, To int
	Kind     AttackKind
}

// AttackKind names which of spec §4.10's three attack forms an Attack
// instance is.
type AttackKind int

const (
	Rebuttal AttackKind = iota
	Undermining
	Undercutting
)

func (k AttackKind) String() string {
	switch k {
	case Rebuttal:
		return "rebuttal"
	case Undermining:
		return "undermining"
	case Undercutting:
		return "undercutting"
	default:
		return "unknown"
	}
}

// Preference ranks arguments for rebuttal resolution: Preferred(a, b)
// reports whether a is at least as preferred as b. A nil Preference
// leaves every rebuttal symmetric (spec §4.10's entrenchment/priority
// order is optional input, not mandatory).
type Preference func(a, b *Argument) bool
