package ast

// EqualModAlpha reports structural equality up to consistent renaming
// of bound variables. For hash-consed nodes this degenerates to a
// pointer/hash comparison; it is implemented independently of hashing
// so it also works for nodes built outside a Factory (e.g. in tests).
func EqualModAlpha(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Hash() != "" && b.Hash() != "" {
		return a.Hash() == b.Hash()
	}
	return equalModAlpha(a, b, map[uint64]uint64{}, map[uint64]uint64{})
}

func equalModAlpha(a, b Node, aToB, bToA map[uint64]uint64) bool {
	switch av := a.(type) {
	case *Constant:
		bv, ok := b.(*Constant)
		return ok && av.Name == bv.Name && av.typ.Equals(bv.typ)
	case *Variable:
		bv, ok := b.(*Variable)
		if !ok {
			return false
		}
		if mapped, bound := aToB[av.VarID]; bound {
			return mapped == bv.VarID
		}
		if _, bound := bToA[bv.VarID]; bound {
			return false
		}
		return av.VarID == bv.VarID // both free: must be the same variable
	case *Application:
		bv, ok := b.(*Application)
		if !ok || len(av.Arguments) != len(bv.Arguments) {
			return false
		}
		if !equalModAlpha(av.Operator, bv.Operator, aToB, bToA) {
			return false
		}
		for i := range av.Arguments {
			if !equalModAlpha(av.Arguments[i], bv.Arguments[i], aToB, bToA) {
				return false
			}
		}
		return true
	case *Quantifier:
		bv, ok := b.(*Quantifier)
		if !ok || av.Kind != bv.Kind || len(av.Bound) != len(bv.Bound) {
			return false
		}
		na, nb := extendMap(aToB, bToA, av.Bound, bv.Bound)
		return equalModAlpha(av.Body, bv.Body, na, nb)
	case *Connective:
		bv, ok := b.(*Connective)
		if !ok || av.Kind != bv.Kind || len(av.Operands) != len(bv.Operands) {
			return false
		}
		for i := range av.Operands {
			if !equalModAlpha(av.Operands[i], bv.Operands[i], aToB, bToA) {
				return false
			}
		}
		return true
	case *Modal:
		bv, ok := b.(*Modal)
		if !ok || av.Op != bv.Op {
			return false
		}
		if (av.WorldOrAgent == nil) != (bv.WorldOrAgent == nil) {
			return false
		}
		if av.WorldOrAgent != nil && !equalModAlpha(av.WorldOrAgent, bv.WorldOrAgent, aToB, bToA) {
			return false
		}
		return equalModAlpha(av.Proposition, bv.Proposition, aToB, bToA)
	case *Lambda:
		bv, ok := b.(*Lambda)
		if !ok || len(av.Bound) != len(bv.Bound) {
			return false
		}
		na, nb := extendMap(aToB, bToA, av.Bound, bv.Bound)
		return equalModAlpha(av.Body, bv.Body, na, nb)
	case *Definition:
		bv, ok := b.(*Definition)
		return ok && av.Symbol == bv.Symbol && equalModAlpha(av.Body, bv.Body, aToB, bToA)
	default:
		return false
	}
}

func extendMap(aToB, bToA map[uint64]uint64, aBound, bBound []*Variable) (map[uint64]uint64, map[uint64]uint64) {
	na := make(map[uint64]uint64, len(aToB)+len(aBound))
	nb := make(map[uint64]uint64, len(bToA)+len(bBound))
	for k, v := range aToB {
		na[k] = v
	}
	for k, v := range bToA {
		nb[k] = v
	}
	for i := range aBound {
		na[aBound[i].VarID] = bBound[i].VarID
		nb[bBound[i].VarID] = aBound[i].VarID
	}
	return na, nb
}

// FreeVariables returns the set of VarIDs occurring free in n, keyed
// by the *Variable node so callers can recover names/types.
func FreeVariables(n Node) map[uint64]*Variable {
	out := map[uint64]*Variable{}
	freeVars(n, map[uint64]bool{}, out)
	return out
}

func freeVars(n Node, bound map[uint64]bool, out map[uint64]*Variable) {
	switch v := n.(type) {
	case *Constant:
	case *Variable:
		if !bound[v.VarID] {
			out[v.VarID] = v
		}
	case *Application:
		freeVars(v.Operator, bound, out)
		for _, a := range v.Arguments {
			freeVars(a, bound, out)
		}
	case *Quantifier:
		child := withBound(bound, v.Bound)
		freeVars(v.Body, child, out)
	case *Connective:
		for _, o := range v.Operands {
			freeVars(o, bound, out)
		}
	case *Modal:
		if v.WorldOrAgent != nil {
			freeVars(v.WorldOrAgent, bound, out)
		}
		freeVars(v.Proposition, bound, out)
	case *Lambda:
		child := withBound(bound, v.Bound)
		freeVars(v.Body, child, out)
	case *Definition:
		freeVars(v.Body, bound, out)
	}
}

func withBound(bound map[uint64]bool, vars []*Variable) map[uint64]bool {
	child := make(map[uint64]bool, len(bound)+len(vars))
	for k := range bound {
		child[k] = true
	}
	for _, v := range vars {
		child[v.VarID] = true
	}
	return child
}
