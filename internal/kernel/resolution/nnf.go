package resolution

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// nnf computes the negation normal form of n (if neg is false) or of
// ¬n (if neg is true): negation is pushed down via De Morgan and
// double-negation elimination until it touches only atoms, and ⇒/≡ are
// eliminated along the way. Parser-built And/Or are already flat
// n-ary, so this distributes across every operand; Implies/Equiv are
// always binary.
func nnf(f *ast.Factory, n ast.Node, neg bool) ast.Node {
	switch v := n.(type) {
	case *ast.Connective:
		switch v.Kind {
		case ast.Not:
			return nnf(f, v.Operands[0], !neg)
		case ast.And, ast.Or:
			kind := v.Kind
			if neg {
				kind = flipConn(kind)
			}
			ops := make([]ast.Node, len(v.Operands))
			for i, o := range v.Operands {
				ops[i] = nnf(f, o, neg)
			}
			return f.NewConnective(kind, ops, types.Boolean, v.Meta())
		case ast.Implies:
			a, b := v.Operands[0], v.Operands[1]
			if !neg {
				return f.NewConnective(ast.Or, []ast.Node{nnf(f, a, true), nnf(f, b, false)}, types.Boolean, v.Meta())
			}
			return f.NewConnective(ast.And, []ast.Node{nnf(f, a, false), nnf(f, b, true)}, types.Boolean, v.Meta())
		case ast.Equiv:
			a, b := v.Operands[0], v.Operands[1]
			if !neg {
				left := f.NewConnective(ast.Or, []ast.Node{nnf(f, a, true), nnf(f, b, false)}, types.Boolean, v.Meta())
				right := f.NewConnective(ast.Or, []ast.Node{nnf(f, b, true), nnf(f, a, false)}, types.Boolean, v.Meta())
				return f.NewConnective(ast.And, []ast.Node{left, right}, types.Boolean, v.Meta())
			}
			left := f.NewConnective(ast.Or, []ast.Node{nnf(f, a, false), nnf(f, b, false)}, types.Boolean, v.Meta())
			right := f.NewConnective(ast.Or, []ast.Node{nnf(f, a, true), nnf(f, b, true)}, types.Boolean, v.Meta())
			return f.NewConnective(ast.And, []ast.Node{left, right}, types.Boolean, v.Meta())
		}
		return n
	case *ast.Quantifier:
		kind := v.Kind
		if neg {
			kind = flipQuant(kind)
		}
		return f.NewQuantifier(kind, v.Bound, nnf(f, v.Body, neg), v.Type(), v.Meta())
	default:
		if neg {
			return f.NewConnective(ast.Not, []ast.Node{n}, types.Boolean, n.Meta())
		}
		return n
	}
}

func flipConn(k ast.ConnKind) ast.ConnKind {
	if k == ast.And {
		return ast.Or
	}
	return ast.And
}

func flipQuant(k ast.QuantKind) ast.QuantKind {
	if k == ast.Forall {
		return ast.Exists
	}
	return ast.Forall
}
