package resolution

import "github.com/kr-engine/godel/internal/kernel/ast"

// standardizeApart mints a fresh VarID for every bound variable in n,
// top to bottom, rewriting all occurrences in its scope to match.
//
// Factory.Substitute cannot do this: substituteBinder strips a
// binder's own bound ids from the substitution map before recursing
// into its body (excludeBound), since ordinary capture-avoiding
// substitution must never rename a variable through its own binder.
// Standardizing apart needs exactly the rename Substitute refuses to
// do, so this walk reconstructs each Quantifier/Lambda directly with
// freshly minted Bound variables instead of going through Substitute.
func standardizeApart(f *ast.Factory, n ast.Node) ast.Node {
	return renameWalk(f, n, map[uint64]*ast.Variable{})
}

func renameWalk(f *ast.Factory, n ast.Node, env map[uint64]*ast.Variable) ast.Node {
	switch v := n.(type) {
	case *ast.Constant:
		return v
	case *ast.Variable:
		if fresh, ok := env[v.VarID]; ok {
			return f.NewVariableUse(fresh)
		}
		return v
	case *ast.Application:
		op := renameWalk(f, v.Operator, env)
		args := make([]ast.Node, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = renameWalk(f, a, env)
		}
		return f.NewApplication(op, args, v.Type(), v.Meta())
	case *ast.Quantifier:
		newBound, child := freshenBound(f, v.Bound, env)
		body := renameWalk(f, v.Body, child)
		return f.NewQuantifier(v.Kind, newBound, body, v.Type(), v.Meta())
	case *ast.Lambda:
		newBound, child := freshenBound(f, v.Bound, env)
		body := renameWalk(f, v.Body, child)
		return f.NewLambda(newBound, body, v.Type(), v.Meta())
	case *ast.Connective:
		ops := make([]ast.Node, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = renameWalk(f, o, env)
		}
		return f.NewConnective(v.Kind, ops, v.Type(), v.Meta())
	case *ast.Modal:
		var w ast.Node
		if v.WorldOrAgent != nil {
			w = renameWalk(f, v.WorldOrAgent, env)
		}
		p := renameWalk(f, v.Proposition, env)
		return f.NewModal(v.Op, w, p, v.Type(), v.Meta())
	case *ast.Definition:
		body := renameWalk(f, v.Body, env)
		return f.NewDefinition(v.Symbol, v.DeclaredType, body, v.Type(), v.Meta())
	default:
		return n
	}
}

func freshenBound(f *ast.Factory, bound []*ast.Variable, env map[uint64]*ast.Variable) ([]*ast.Variable, map[uint64]*ast.Variable) {
	child := make(map[uint64]*ast.Variable, len(env)+len(bound))
	for k, v := range env {
		child[k] = v
	}
	newBound := make([]*ast.Variable, len(bound))
	for i, b := range bound {
		fresh := f.NewVariable(b.Name, b.Type(), b.Meta())
		newBound[i] = fresh
		child[b.VarID] = fresh
	}
	return newBound, child
}
