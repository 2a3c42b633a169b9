package store

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// asRule recognizes a statement as an implication suitable for the
// store's shallow, depth-1 rule-head lookup: a bare "A implies B" or a
// universally-quantified one. Anything else is a fact (possibly
// opaque, if it isn't a flat predicate application).
func asRule(stmt ast.Node) (antecedent, consequent ast.Node, ok bool) {
	body := stmt
	if q, isQ := stmt.(*ast.Quantifier); isQ && q.Kind == ast.Forall {
		body = q.Body
	}
	conn, isConn := body.(*ast.Connective)
	if !isConn || conn.Kind != ast.Implies || len(conn.Operands) != 2 {
		return nil, nil, false
	}
	return conn.Operands[0], conn.Operands[1], true
}

// headSymbolArity extracts the (symbol, arity) a fact or a rule's
// consequent should be indexed under, if it is a flat predicate
// application; ok is false for any other node shape (the statement
// still gets stored, but degrades to the opaque table / linear scan).
func headSymbolArity(n ast.Node) (symbol string, arity int, ok bool) {
	switch v := n.(type) {
	case *ast.Application:
		c, isConst := v.Operator.(*ast.Constant)
		if !isConst {
			return "", 0, false
		}
		return c.Name, len(v.Arguments), true
	case *ast.Constant:
		return v.Name, 0, true
	default:
		return "", 0, false
	}
}

// argHashes computes the per-position content hash of n's arguments,
// leaving a position blank ("") when it is not ground, so it is never
// indexed: only arguments with a canonical hash are eligible keys.
func argHashes(n ast.Node) []string {
	app, ok := n.(*ast.Application)
	if !ok {
		return nil
	}
	out := make([]string, len(app.Arguments))
	for i, a := range app.Arguments {
		if len(ast.FreeVariables(a)) == 0 {
			out[i] = a.Hash()
		}
	}
	return out
}

// narrowestType returns the atomic type name ground term n should be
// recorded under in the type index, or "" if n's type is not atomic
// (function-typed terms are not indexed this way).
func narrowestType(n ast.Node) string {
	if _, ok := n.Type().(*types.Atomic); !ok {
		return ""
	}
	return n.Type().String()
}
