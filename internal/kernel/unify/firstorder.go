package unify

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
)

// Substitution is a most-general-unifier result: VarID -> replacement term.
type Substitution = ast.Substitution

// equation is one pending `left =? right` pair.
type equation struct {
	left, right ast.Node
}

// Unify computes the MGU of t1 and t2 over Constant/Variable/Application
// terms (the first-order fragment) via Martelli–Montanari: the working
// equation set is reduced by Delete, Decompose, Swap, and Eliminate
// until empty (success) or a Conflict/occurs-check failure is found.
// Rule priority is fixed (Delete, Decompose, Swap, Eliminate) so the
// result is canonical for a given input order (spec.md §4.4).
func Unify(f *ast.Factory, t1, t2 ast.Node) (Substitution, error) {
	work := []equation{{t1, t2}}
	sub := Substitution{}

	for len(work) > 0 {
		eq := work[0]
		work = work[1:]

		left := applySub(f, sub, eq.left)
		right := applySub(f, sub, eq.right)

		// Delete
		if ast.EqualModAlpha(left, right) {
			continue
		}

		lv, lIsVar := left.(*ast.Variable)
		rv, rIsVar := right.(*ast.Variable)

		switch {
		case lIsVar && rIsVar:
			// Eliminate (either direction; canonical: lower VarID wins)
			if lv.VarID == rv.VarID {
				continue
			}
			if lv.VarID < rv.VarID {
				sub = eliminate(f, sub, rv, left)
			} else {
				sub = eliminate(f, sub, lv, right)
			}

		case lIsVar:
			if occurs(lv.VarID, right) {
				return nil, &Error{Kind: ErrOccursCheck, Message: lv.Name + " occurs in " + right.String()}
			}
			sub = eliminate(f, sub, lv, right)

		case rIsVar:
			// Swap: re-enqueue with the variable on the left.
			work = append([]equation{{right, left}}, work...)

		default:
			la, lok := left.(*ast.Application)
			ra, rok := right.(*ast.Application)
			if lok && rok {
				if !ast.EqualModAlpha(la.Operator, ra.Operator) {
					return nil, &Error{Kind: ErrSymbolClash, Message: "operator clash: " + la.Operator.String() + " vs " + ra.Operator.String()}
				}
				if len(la.Arguments) != len(ra.Arguments) {
					return nil, &Error{Kind: ErrArityMismatch, Message: "argument count mismatch"}
				}
				// Decompose
				next := make([]equation, 0, len(la.Arguments))
				for i := range la.Arguments {
					next = append(next, equation{la.Arguments[i], ra.Arguments[i]})
				}
				work = append(next, work...)
				continue
			}
			return nil, &Error{Kind: ErrSymbolClash, Message: "cannot unify " + left.String() + " with " + right.String()}
		}
	}
	return sub, nil
}

// eliminate records v := term in sub, composing it over sub's existing range.
func eliminate(f *ast.Factory, sub Substitution, v *ast.Variable, term ast.Node) Substitution {
	next := make(Substitution, len(sub)+1)
	for id, t := range sub {
		next[id] = f.Substitute(t, Substitution{v.VarID: term})
	}
	next[v.VarID] = term
	return next
}

func applySub(f *ast.Factory, sub Substitution, n ast.Node) ast.Node {
	if len(sub) == 0 {
		return n
	}
	return f.Substitute(n, sub)
}

func occurs(id uint64, n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Variable:
		return v.VarID == id
	case *ast.Application:
		if occurs(id, v.Operator) {
			return true
		}
		for _, a := range v.Arguments {
			if occurs(id, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
