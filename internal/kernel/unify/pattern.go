package unify

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// IsPattern reports whether app is a Miller pattern: its operator is a
// free (unification) variable and its arguments are pairwise-distinct
// variable occurrences. This is the decidable, unitary subset of Huet's
// higher-order unification that spec.md §4.4 asks for ("solve Miller
// patterns directly; defer the rest as residual constraints").
func IsPattern(app *ast.Application) (*ast.Variable, []uint64, bool) {
	head, ok := app.Operator.(*ast.Variable)
	if !ok {
		return nil, nil, false
	}
	seen := make(map[uint64]bool, len(app.Arguments))
	ids := make([]uint64, 0, len(app.Arguments))
	for _, arg := range app.Arguments {
		v, ok := arg.(*ast.Variable)
		if !ok || seen[v.VarID] {
			return nil, nil, false
		}
		seen[v.VarID] = true
		ids = append(ids, v.VarID)
	}
	return head, ids, true
}

// isFlexible reports whether n's head is a free unification variable:
// either n itself, or an Application headed by one.
func isFlexible(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Variable:
		return true
	case *ast.Application:
		_, isVar := t.Operator.(*ast.Variable)
		return isVar
	default:
		return false
	}
}

// UnifyHigherOrder solves a higher-order equation between t1 and t2
// using Miller-pattern unification: pattern flex-rigid (and
// same-pattern flex-flex) equations are solved by direct substitution;
// every other flex-involving equation is deferred into Problem.Residual
// rather than attempted via a full (semi-decidable) Huet search.
func UnifyHigherOrder(f *ast.Factory, t1, t2 ast.Node) (Substitution, *Problem, error) {
	prob := &Problem{Equations: []Equation{{t1, t2}}}
	sub := Substitution{}

	for len(prob.Equations) > 0 {
		eq := prob.Equations[0]
		prob.Equations = prob.Equations[1:]

		left := applySub(f, sub, eq.Left)
		right := applySub(f, sub, eq.Right)

		if ast.EqualModAlpha(left, right) {
			continue
		}

		lFlex, rFlex := isFlexible(left), isFlexible(right)

		switch {
		case lFlex && rFlex:
			if s, ok, err := solveFlexFlex(f, left, right); err != nil {
				return nil, nil, err
			} else if ok {
				sub = composeInto(f, sub, s)
				continue
			}
			prob.defer_(eq)

		case lFlex:
			s, ok, err := solveFlexRigid(f, left, right)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				prob.defer_(eq)
				continue
			}
			sub = composeInto(f, sub, s)

		case rFlex:
			prob.pushFront(Equation{right, left})

		default:
			next, err := decomposeRigid(f, left, right)
			if err != nil {
				return nil, nil, err
			}
			prob.pushFront(next...)
		}
	}
	return sub, prob, nil
}

// solveFlexRigid solves `head(args) =? rigid` when head(args) is a
// pattern: head := λargs. rigid, provided rigid's free variables are
// all among args (spec.md §4.4's pattern-solving condition).
func solveFlexRigid(f *ast.Factory, flex, rigid ast.Node) (Substitution, bool, error) {
	var head *ast.Variable
	var argIDs []uint64
	var argVars []*ast.Variable

	switch t := flex.(type) {
	case *ast.Variable:
		head, argIDs = t, nil
	case *ast.Application:
		h, ids, ok := IsPattern(t)
		if !ok {
			return nil, false, nil
		}
		head, argIDs = h, ids
		for _, a := range t.Arguments {
			argVars = append(argVars, a.(*ast.Variable))
		}
	default:
		return nil, false, nil
	}

	if occursInRigid(head.VarID, rigid) {
		return nil, false, &Error{Kind: ErrOccursCheck, Message: head.Name + " occurs in " + rigid.String()}
	}

	allowed := make(map[uint64]bool, len(argIDs))
	for _, id := range argIDs {
		allowed[id] = true
	}
	for id := range ast.FreeVariables(rigid) {
		if !allowed[id] {
			return nil, false, nil
		}
	}

	term := rigid
	if len(argVars) > 0 {
		term = f.NewLambda(argVars, rigid, lambdaType(argVars, rigid.Type()), ast.Metadata{})
	}
	return Substitution{head.VarID: term}, true, nil
}

// solveFlexFlex handles F(args) =? G(args'): same-variable projection
// when F == G (intersect argument positions that agree), direct binding
// when one side is a bare variable, otherwise reports "not solved" so
// the caller defers the pair as a residual constraint.
func solveFlexFlex(f *ast.Factory, left, right ast.Node) (Substitution, bool, error) {
	if lv, ok := left.(*ast.Variable); ok {
		if occursInRigid(lv.VarID, right) {
			return nil, false, nil
		}
		return Substitution{lv.VarID: right}, true, nil
	}
	if rv, ok := right.(*ast.Variable); ok {
		if occursInRigid(rv.VarID, left) {
			return nil, false, nil
		}
		return Substitution{rv.VarID: left}, true, nil
	}

	la, lok := left.(*ast.Application)
	ra, rok := right.(*ast.Application)
	if !lok || !rok {
		return nil, false, nil
	}
	lh, lids, lok2 := IsPattern(la)
	rh, rids, rok2 := IsPattern(ra)
	if !lok2 || !rok2 {
		return nil, false, nil
	}

	if lh.VarID == rh.VarID {
		if len(lids) != len(rids) {
			return nil, false, nil
		}
		var kept []*ast.Variable
		for i, id := range lids {
			if id == rids[i] {
				kept = append(kept, la.Arguments[i].(*ast.Variable))
			}
		}
		if len(kept) == len(lids) {
			return Substitution{}, true, nil // already identical
		}
		fresh := f.NewVariable("_hou", lh.Type(), ast.Metadata{})
		var body ast.Node = f.NewVariableUse(fresh)
		if len(kept) > 0 {
			body = f.NewApplication(f.NewVariableUse(fresh), toNodes(kept), lh.Type(), ast.Metadata{})
		}
		boundVars := varsFromIDs(la.Arguments, lids)
		lam := f.NewLambda(boundVars, body, lambdaType(boundVars, body.Type()), ast.Metadata{})
		return Substitution{lh.VarID: lam}, true, nil
	}

	return nil, false, nil
}

// lambdaType builds the function type of a substitution lambda from its
// bound variables' types and its body's type.
func lambdaType(bound []*ast.Variable, ret types.Type) types.Type {
	args := make([]types.Type, len(bound))
	for i, v := range bound {
		args[i] = v.Type()
	}
	return &types.Function{Args: args, Ret: ret}
}

func toNodes(vs []*ast.Variable) []ast.Node {
	out := make([]ast.Node, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func varsFromIDs(args []ast.Node, ids []uint64) []*ast.Variable {
	out := make([]*ast.Variable, len(ids))
	for i, a := range args {
		out[i] = a.(*ast.Variable)
	}
	return out
}

// decomposeRigid splits two rigid (non-flexible) terms of matching
// shape into their sub-equations, or reports a clash.
func decomposeRigid(f *ast.Factory, left, right ast.Node) ([]Equation, error) {
	switch l := left.(type) {
	case *ast.Application:
		r, ok := right.(*ast.Application)
		if !ok || len(l.Arguments) != len(r.Arguments) {
			return nil, &Error{Kind: ErrSymbolClash, Message: "cannot unify " + left.String() + " with " + right.String()}
		}
		eqs := []Equation{{l.Operator, r.Operator}}
		for i := range l.Arguments {
			eqs = append(eqs, Equation{l.Arguments[i], r.Arguments[i]})
		}
		return eqs, nil
	case *ast.Connective:
		r, ok := right.(*ast.Connective)
		if !ok || l.Kind != r.Kind || len(l.Operands) != len(r.Operands) {
			return nil, &Error{Kind: ErrSymbolClash, Message: "connective mismatch"}
		}
		var eqs []Equation
		for i := range l.Operands {
			eqs = append(eqs, Equation{l.Operands[i], r.Operands[i]})
		}
		return eqs, nil
	case *ast.Modal:
		r, ok := right.(*ast.Modal)
		if !ok || l.Op != r.Op {
			return nil, &Error{Kind: ErrSymbolClash, Message: "modal operator mismatch"}
		}
		eqs := []Equation{{l.Proposition, r.Proposition}}
		if l.WorldOrAgent != nil && r.WorldOrAgent != nil {
			eqs = append(eqs, Equation{l.WorldOrAgent, r.WorldOrAgent})
		}
		return eqs, nil
	case *ast.Quantifier:
		r, ok := right.(*ast.Quantifier)
		if !ok || l.Kind != r.Kind || len(l.Bound) != len(r.Bound) {
			return nil, &Error{Kind: ErrSymbolClash, Message: "quantifier mismatch"}
		}
		return []Equation{{l.Body, alignBound(f, r.Bound, l.Bound, r.Body)}}, nil
	case *ast.Lambda:
		r, ok := right.(*ast.Lambda)
		if !ok || len(l.Bound) != len(r.Bound) {
			return nil, &Error{Kind: ErrSymbolClash, Message: "lambda mismatch"}
		}
		return []Equation{{l.Body, alignBound(f, r.Bound, l.Bound, r.Body)}}, nil
	default:
		if ast.EqualModAlpha(left, right) {
			return nil, nil
		}
		return nil, &Error{Kind: ErrSymbolClash, Message: "cannot unify " + left.String() + " with " + right.String()}
	}
}

// alignBound renames from's bound variables to to's VarIDs inside body,
// so two binders' bodies can be compared positionally without treating
// the binder's own (arbitrary) VarIDs as a mismatch.
func alignBound(f *ast.Factory, from, to []*ast.Variable, body ast.Node) ast.Node {
	ren := make(ast.Substitution, len(from))
	for i, v := range from {
		ren[v.VarID] = f.NewVariableUse(to[i])
	}
	return f.Substitute(body, ren)
}

func occursInRigid(id uint64, n ast.Node) bool {
	found := false
	ast.Visit(n, func(m ast.Node) {
		if v, ok := m.(*ast.Variable); ok && v.VarID == id {
			found = true
		}
	})
	return found
}

func composeInto(f *ast.Factory, sub, delta Substitution) Substitution {
	next := make(Substitution, len(sub)+len(delta))
	for id, t := range sub {
		next[id] = f.Substitute(t, delta)
	}
	for id, t := range delta {
		if _, exists := next[id]; !exists {
			next[id] = t
		}
	}
	return next
}
