package resolution

import (
	"fmt"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// skolemize eliminates existential quantifiers from an NNF formula.
// Each existential's bound variable is replaced by a Skolem term built
// from the universal variables actually enclosing it on the path from
// the root, not every universal in the whole formula: a path-sensitive
// Skolemization rather than a prenex one, so two existentials under
// unrelated conjuncts don't spuriously drag each other's universals
// into their Skolem functions' arity. Universal quantifiers are left
// in place; dropUniversalPrefix strips them once skolemization is done.
func skolemize(f *ast.Factory, n ast.Node, universals []*ast.Variable, counter *int) ast.Node {
	switch v := n.(type) {
	case *ast.Quantifier:
		if v.Kind == ast.Forall {
			enclosed := append(append([]*ast.Variable{}, universals...), v.Bound...)
			return f.NewQuantifier(ast.Forall, v.Bound, skolemize(f, v.Body, enclosed, counter), v.Type(), v.Meta())
		}
		sub := make(ast.Substitution, len(v.Bound))
		for _, bv := range v.Bound {
			sub[bv.VarID] = skolemTerm(f, bv, universals, counter)
		}
		body := f.Substitute(v.Body, sub)
		return skolemize(f, body, universals, counter)
	case *ast.Connective:
		ops := make([]ast.Node, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = skolemize(f, o, universals, counter)
		}
		return f.NewConnective(v.Kind, ops, v.Type(), v.Meta())
	default:
		return n
	}
}

func skolemTerm(f *ast.Factory, bv *ast.Variable, universals []*ast.Variable, counter *int) ast.Node {
	*counter++
	if len(universals) == 0 {
		return f.NewConstant(fmt.Sprintf("sk%d", *counter), nil, bv.Type(), ast.Metadata{})
	}
	args := make([]ast.Node, len(universals))
	argTypes := make([]types.Type, len(universals))
	for i, u := range universals {
		args[i] = f.NewVariableUse(u)
		argTypes[i] = u.Type()
	}
	fnType := &types.Function{Args: argTypes, Ret: bv.Type()}
	fn := f.NewConstant(fmt.Sprintf("sk%d", *counter), nil, fnType, ast.Metadata{})
	return f.NewApplication(fn, args, bv.Type(), ast.Metadata{})
}

// dropUniversalPrefix strips every remaining Forall wrapper, wherever
// it occurs in the tree (not just a leading chain: two conjuncts can
// each carry their own Forall), leaving the quantifier-free matrix
// that cnf.go distributes into clauses. Every variable still free in
// the result is implicitly universally quantified, which is exactly
// how a resolution clause set is interpreted.
func dropUniversalPrefix(f *ast.Factory, n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.Quantifier:
		return dropUniversalPrefix(f, v.Body)
	case *ast.Connective:
		ops := make([]ast.Node, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = dropUniversalPrefix(f, o)
		}
		return f.NewConnective(v.Kind, ops, v.Type(), v.Meta())
	default:
		return n
	}
}
