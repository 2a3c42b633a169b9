package ast

// Substitution maps a variable's VarID to a replacement node for its
// free occurrences.
type Substitution map[uint64]Node

// Substitute applies sub to n, capture-avoiding: whenever a binder
// (Quantifier/Lambda) would capture a free variable introduced by the
// substitution, its bound variables are alpha-renamed to fresh VarIDs
// via f first. This is the only way Substitute is allowed to mint new
// variables, preserving spec.md §8's free-variable containment law.
func (f *Factory) Substitute(n Node, sub Substitution) Node {
	if len(sub) == 0 {
		return n
	}
	return f.substitute(n, sub)
}

func (f *Factory) substitute(n Node, sub Substitution) Node {
	switch v := n.(type) {
	case *Constant:
		return v
	case *Variable:
		if repl, ok := sub[v.VarID]; ok {
			return repl
		}
		return v
	case *Application:
		args := make([]Node, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = f.substitute(a, sub)
		}
		return f.NewApplication(f.substitute(v.Operator, sub), args, v.typ, v.meta)
	case *Quantifier:
		bound, body := f.substituteBinder(v.Bound, v.Body, sub)
		return f.NewQuantifier(v.Kind, bound, body, v.typ, v.meta)
	case *Connective:
		ops := make([]Node, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = f.substitute(o, sub)
		}
		return f.NewConnective(v.Kind, ops, v.typ, v.meta)
	case *Modal:
		var w Node
		if v.WorldOrAgent != nil {
			w = f.substitute(v.WorldOrAgent, sub)
		}
		return f.NewModal(v.Op, w, f.substitute(v.Proposition, sub), v.typ, v.meta)
	case *Lambda:
		bound, body := f.substituteBinder(v.Bound, v.Body, sub)
		return f.NewLambda(bound, body, v.typ, v.meta)
	case *Definition:
		return f.NewDefinition(v.Symbol, v.DeclaredType, f.substitute(v.Body, sub), v.typ, v.meta)
	default:
		return n
	}
}

// substituteBinder renames bound variables captured by the incoming
// substitution's free variables before descending into body.
func (f *Factory) substituteBinder(bound []*Variable, body Node, sub Substitution) ([]*Variable, Node) {
	capturing := map[uint64]bool{}
	for _, repl := range sub {
		for id := range FreeVariables(repl) {
			capturing[id] = true
		}
	}
	needsRename := false
	for _, b := range bound {
		if capturing[b.VarID] {
			needsRename = true
			break
		}
	}
	innerSub := sub
	newBound := bound
	if needsRename {
		rename := Substitution{}
		newBound = make([]*Variable, len(bound))
		for i, b := range bound {
			fresh := f.NewVariable(b.Name, b.typ, b.meta)
			rename[b.VarID] = fresh
			newBound[i] = fresh
		}
		innerSub = mergeExcluding(sub, rename, bound)
	} else {
		// Still must shadow: drop any substitution entries for names
		// rebound here so the binder's own variables are not touched.
		innerSub = excludeBound(sub, bound)
	}
	return newBound, f.substitute(body, innerSub)
}

func excludeBound(sub Substitution, bound []*Variable) Substitution {
	shadowed := map[uint64]bool{}
	for _, b := range bound {
		shadowed[b.VarID] = true
	}
	out := make(Substitution, len(sub))
	for id, n := range sub {
		if !shadowed[id] {
			out[id] = n
		}
	}
	return out
}

func mergeExcluding(sub, rename Substitution, bound []*Variable) Substitution {
	out := excludeBound(sub, bound)
	for id, n := range rename {
		out[id] = n
	}
	return out
}
