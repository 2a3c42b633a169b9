package store

import "github.com/kr-engine/godel/internal/kernel/ast"

// Binding is one query result: the assignment a pattern's free
// variables receive against a matched statement.
type Binding map[*ast.Variable]ast.Node

// match performs structural matching of pattern against candidate,
// treating every ast.Variable node appearing free in pattern as a
// wildcard that may bind to any subterm, with repeated occurrences of
// the same variable constrained to bind consistently (so P(?x,?x) only
// matches ground pairs with equal arguments). It does not unify two
// variables against each other; the knowledge store only matches
// concrete stored statements against a query pattern, never two
// patterns against each other.
func match(pattern, candidate ast.Node, bound map[uint64]ast.Node) (map[uint64]ast.Node, bool) {
	if v, ok := pattern.(*ast.Variable); ok {
		if existing, seen := bound[v.VarID]; seen {
			if ast.EqualModAlpha(existing, candidate) {
				return bound, true
			}
			return nil, false
		}
		next := make(map[uint64]ast.Node, len(bound)+1)
		for k, n := range bound {
			next[k] = n
		}
		next[v.VarID] = candidate
		return next, true
	}

	switch p := pattern.(type) {
	case *ast.Constant:
		c, ok := candidate.(*ast.Constant)
		if !ok || c.Name != p.Name {
			return nil, false
		}
		return bound, true

	case *ast.Application:
		c, ok := candidate.(*ast.Application)
		if !ok || len(c.Arguments) != len(p.Arguments) {
			return nil, false
		}
		next, ok := match(p.Operator, c.Operator, bound)
		if !ok {
			return nil, false
		}
		for i := range p.Arguments {
			next, ok = match(p.Arguments[i], c.Arguments[i], next)
			if !ok {
				return nil, false
			}
		}
		return next, true

	case *ast.Connective:
		c, ok := candidate.(*ast.Connective)
		if !ok || c.Kind != p.Kind || len(c.Operands) != len(p.Operands) {
			return nil, false
		}
		next := bound
		for i := range p.Operands {
			var ok bool
			next, ok = match(p.Operands[i], c.Operands[i], next)
			if !ok {
				return nil, false
			}
		}
		return next, true

	case *ast.Modal:
		c, ok := candidate.(*ast.Modal)
		if !ok || c.Op != p.Op {
			return nil, false
		}
		next := bound
		if p.WorldOrAgent != nil {
			if c.WorldOrAgent == nil {
				return nil, false
			}
			next, ok = match(p.WorldOrAgent, c.WorldOrAgent, next)
			if !ok {
				return nil, false
			}
		}
		return match(p.Proposition, c.Proposition, next)

	default:
		// Quantifier/Lambda/Definition patterns have no free-variable
		// binder semantics under a query (their bound variables are
		// not wildcards); fall back to exact structural identity.
		if ast.EqualModAlpha(pattern, candidate) {
			return bound, true
		}
		return nil, false
	}
}

// toBinding converts the internal VarID-keyed match result into the
// public Binding keyed by the *ast.Variable occurrences in vars (all of
// pattern's free variables when vars is nil).
func toBinding(pattern ast.Node, bound map[uint64]ast.Node, vars []*ast.Variable) Binding {
	if vars == nil {
		free := ast.FreeVariables(pattern)
		vars = make([]*ast.Variable, 0, len(free))
		for _, v := range free {
			vars = append(vars, v)
		}
	}
	out := make(Binding, len(vars))
	for _, v := range vars {
		if n, ok := bound[v.VarID]; ok {
			out[v] = n
		}
	}
	return out
}
