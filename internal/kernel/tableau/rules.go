package tableau

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// ruleKind names which tableau rule applies to a labelled formula.
type ruleKind int

const (
	literalRule ruleKind = iota
	alphaRule            // non-branching: add every formula in alpha at the same world
	betaRule             // branching: add one alternative (each its own formula set)
	universalRule        // box-like: assert prop at every current and future R-successor
	existentialRule       // diamond-like: assert prop at a fresh (or subsumed) successor world
)

type expansion struct {
	kind         ruleKind
	alpha        []ast.Node
	alternatives [][]ast.Node
	prop         ast.Node
}

// isUniversal reports whether op behaves like □ (true at every
// accessible world) as opposed to ◇ (true at some accessible world).
// Knows/Believes are epistemic/doxastic necessity operators — "agent a
// knows φ" holds when φ holds at every world a considers possible —
// so they classify with Box, not Diamond; the AST has no existential
// counterpart for K/B. This collapses agent-indexed accessibility onto
// the single graph R rather than one relation per agent; see
// DESIGN.md.
func isUniversal(op ast.ModalOp) bool {
	return op == ast.Box || op == ast.Knows || op == ast.Believes
}

// classify determines the tableau rule for formula n, building any
// rewritten sub-formulas (De Morgan pushes, double-negation
// elimination) through f.
func classify(f *ast.Factory, n ast.Node) expansion {
	switch v := n.(type) {
	case *ast.Modal:
		if isUniversal(v.Op) {
			return expansion{kind: universalRule, prop: v.Proposition}
		}
		return expansion{kind: existentialRule, prop: v.Proposition}

	case *ast.Connective:
		switch v.Kind {
		case ast.And:
			return expansion{kind: alphaRule, alpha: v.Operands}
		case ast.Or:
			return expansion{kind: betaRule, alternatives: singletons(v.Operands)}
		case ast.Implies:
			a, b := v.Operands[0], v.Operands[1]
			return expansion{kind: betaRule, alternatives: [][]ast.Node{{negate(f, a)}, {b}}}
		case ast.Equiv:
			a, b := v.Operands[0], v.Operands[1]
			return expansion{kind: betaRule, alternatives: [][]ast.Node{
				{a, b},
				{negate(f, a), negate(f, b)},
			}}
		case ast.Not:
			return classifyNegated(f, v.Operands[0])
		}
	}
	return expansion{kind: literalRule}
}

// classifyNegated handles ¬inner: double-negation elimination, De
// Morgan pushes through And/Or/Implies/Equiv, and the dual mapping of
// a negated modal operator onto the opposite quantifier shape.
func classifyNegated(f *ast.Factory, inner ast.Node) expansion {
	switch v := inner.(type) {
	case *ast.Connective:
		switch v.Kind {
		case ast.Not:
			return expansion{kind: alphaRule, alpha: []ast.Node{v.Operands[0]}}
		case ast.And:
			return expansion{kind: betaRule, alternatives: singletons(negateAll(f, v.Operands))}
		case ast.Or:
			return expansion{kind: alphaRule, alpha: negateAll(f, v.Operands)}
		case ast.Implies:
			a, b := v.Operands[0], v.Operands[1]
			return expansion{kind: alphaRule, alpha: []ast.Node{a, negate(f, b)}}
		case ast.Equiv:
			a, b := v.Operands[0], v.Operands[1]
			return expansion{kind: betaRule, alternatives: [][]ast.Node{
				{a, negate(f, b)},
				{negate(f, a), b},
			}}
		}
	case *ast.Modal:
		if isUniversal(v.Op) {
			return expansion{kind: existentialRule, prop: negate(f, v.Proposition)}
		}
		return expansion{kind: universalRule, prop: negate(f, v.Proposition)}
	}
	return expansion{kind: literalRule}
}

func negate(f *ast.Factory, n ast.Node) ast.Node {
	return f.NewConnective(ast.Not, []ast.Node{n}, types.Boolean, ast.Metadata{})
}

func negateAll(f *ast.Factory, ns []ast.Node) []ast.Node {
	out := make([]ast.Node, len(ns))
	for i, n := range ns {
		out[i] = negate(f, n)
	}
	return out
}

func singletons(ns []ast.Node) [][]ast.Node {
	out := make([][]ast.Node, len(ns))
	for i, n := range ns {
		out[i] = []ast.Node{n}
	}
	return out
}

// isNegationOf reports whether neg is ¬pos (by hash, since atoms and
// formulas are hash-consed).
func isNegationOf(neg, pos ast.Node) bool {
	c, ok := neg.(*ast.Connective)
	if !ok || c.Kind != ast.Not {
		return false
	}
	return c.Operands[0].Hash() == pos.Hash()
}
