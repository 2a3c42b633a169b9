package ast

// NormalizeMode selects which reduction rules Normalize applies.
type NormalizeMode int

const (
	BetaNF NormalizeMode = iota
	EtaNF
	BetaEtaNF
)

// Normalize reduces n to the requested normal form. Normalization is
// confluent on well-typed terms (spec.md §4.2); callers must ensure n
// is well-typed before calling (the type checker rejects ill-typed
// terms earlier in the pipeline, per spec.md §4.2's contract).
func (f *Factory) Normalize(n Node, mode NormalizeMode) Node {
	prev := n
	for {
		next := f.normalizeStep(prev, mode)
		if next.Hash() == prev.Hash() {
			return next
		}
		prev = next
	}
}

func (f *Factory) normalizeStep(n Node, mode NormalizeMode) Node {
	switch v := n.(type) {
	case *Application:
		op := f.normalizeStep(v.Operator, mode)
		args := make([]Node, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = f.normalizeStep(a, mode)
		}
		if lam, ok := op.(*Lambda); ok && (mode == BetaNF || mode == BetaEtaNF) && len(lam.Bound) <= len(args) {
			return f.betaReduce(lam, args)
		}
		return f.NewApplication(op, args, v.typ, v.meta)
	case *Lambda:
		body := f.normalizeStep(v.Body, mode)
		if (mode == EtaNF || mode == BetaEtaNF) && len(v.Bound) == 1 {
			if app, ok := body.(*Application); ok && len(app.Arguments) == 1 {
				if last, ok := app.Arguments[0].(*Variable); ok && last.VarID == v.Bound[0].VarID {
					if _, free := FreeVariables(app.Operator)[v.Bound[0].VarID]; !free {
						return app.Operator
					}
				}
			}
		}
		return f.NewLambda(v.Bound, body, v.typ, v.meta)
	case *Quantifier:
		return f.NewQuantifier(v.Kind, v.Bound, f.normalizeStep(v.Body, mode), v.typ, v.meta)
	case *Connective:
		ops := make([]Node, len(v.Operands))
		for i, o := range v.Operands {
			ops[i] = f.normalizeStep(o, mode)
		}
		return f.NewConnective(v.Kind, ops, v.typ, v.meta)
	case *Modal:
		var w Node
		if v.WorldOrAgent != nil {
			w = f.normalizeStep(v.WorldOrAgent, mode)
		}
		return f.NewModal(v.Op, w, f.normalizeStep(v.Proposition, mode), v.typ, v.meta)
	case *Definition:
		return f.NewDefinition(v.Symbol, v.DeclaredType, f.normalizeStep(v.Body, mode), v.typ, v.meta)
	default:
		return n
	}
}

// betaReduce applies lam to the leading len(lam.Bound) arguments of
// args, re-applying the result to any remaining arguments.
func (f *Factory) betaReduce(lam *Lambda, args []Node) Node {
	sub := Substitution{}
	for i, b := range lam.Bound {
		sub[b.VarID] = args[i]
	}
	result := f.substitute(lam.Body, sub)
	remaining := args[len(lam.Bound):]
	if len(remaining) == 0 {
		return result
	}
	return f.NewApplication(result, remaining, lam.typ, lam.meta)
}
