package ast

import (
	"fmt"
	"strings"

	"github.com/kr-engine/godel/internal/kernel/types"
)

// Print renders n as the canonical LISP-like S-expression form defined
// in spec.md §6: explicit type annotations on binders, bound variables
// renumbered v0, v1, … in introduction order so that alpha-equivalent
// terms print identically (var_ids themselves are omitted).
func Print(n Node) string {
	var b strings.Builder
	printNode(&b, n, map[uint64]string{}, 0)
	return b.String()
}

func printNode(b *strings.Builder, n Node, names map[uint64]string, next int) int {
	switch v := n.(type) {
	case *Constant:
		fmt.Fprintf(b, "%s", v.Name)
	case *Variable:
		if name, ok := names[v.VarID]; ok {
			b.WriteString(name)
		} else {
			fmt.Fprintf(b, "%%%s", v.Name) // free variable: print by surface name
		}
	case *Application:
		b.WriteString("(app ")
		next = printNode(b, v.Operator, names, next)
		for _, a := range v.Arguments {
			b.WriteString(" ")
			next = printNode(b, a, names, next)
		}
		b.WriteString(")")
	case *Quantifier:
		b.WriteString("(")
		b.WriteString(v.Kind.String())
		child := map[uint64]string{}
		for k, val := range names {
			child[k] = val
		}
		for _, bd := range v.Bound {
			name := fmt.Sprintf("v%d", next)
			next++
			child[bd.VarID] = name
			fmt.Fprintf(b, " (%s %s)", name, bd.typ.String())
		}
		b.WriteString(" ")
		next = printNode(b, v.Body, child, next)
		b.WriteString(")")
	case *Connective:
		b.WriteString("(")
		b.WriteString(connName(v.Kind))
		for _, o := range v.Operands {
			b.WriteString(" ")
			next = printNode(b, o, names, next)
		}
		b.WriteString(")")
	case *Modal:
		b.WriteString("(modal ")
		b.WriteString(modalName(v.Op))
		if v.WorldOrAgent != nil {
			b.WriteString(" ")
			next = printNode(b, v.WorldOrAgent, names, next)
		}
		b.WriteString(" ")
		next = printNode(b, v.Proposition, names, next)
		b.WriteString(")")
	case *Lambda:
		b.WriteString("(lambda")
		child := map[uint64]string{}
		for k, val := range names {
			child[k] = val
		}
		for _, bd := range v.Bound {
			name := fmt.Sprintf("v%d", next)
			next++
			child[bd.VarID] = name
			fmt.Fprintf(b, " (%s %s)", name, bd.typ.String())
		}
		b.WriteString(" ")
		next = printNode(b, v.Body, child, next)
		b.WriteString(")")
	case *Definition:
		fmt.Fprintf(b, "(def %s %s ", v.Symbol, v.DeclaredType.String())
		next = printNode(b, v.Body, names, next)
		b.WriteString(")")
	default:
		b.WriteString("(unknown)")
	}
	return next
}

func connName(k ConnKind) string {
	return [...]string{"not", "and", "or", "implies", "equiv"}[k]
}

func modalName(op ModalOp) string {
	return [...]string{"box", "diamond", "knows", "believes"}[op]
}

// --- parsing ----------------------------------------------------------

type sexprParser struct {
	toks []string
	pos  int
}

func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case '(', ')':
			flush()
			toks = append(toks, string(r))
		case ' ', '\t', '\n', '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

// ParseSExpr parses the canonical form produced by Print back into a
// hash-consed Node via f, resolving bound variables by their canonical
// v<N> name and free variables/constants through env by surface name.
// ParseSExpr(Print(n)) is alpha-equivalent to n for any well-typed n
// (spec.md §8's round-trip property).
func ParseSExpr(f *Factory, s string, env map[string]Node) (Node, error) {
	p := &sexprParser{toks: tokenize(s)}
	n, err := p.parseNode(f, map[string]*Variable{}, env)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("trailing tokens after expression")
	}
	return n, nil
}

func (p *sexprParser) next() (string, error) {
	if p.pos >= len(p.toks) {
		return "", fmt.Errorf("unexpected end of input")
	}
	t := p.toks[p.pos]
	p.pos++
	return t, nil
}

func (p *sexprParser) expect(tok string) error {
	t, err := p.next()
	if err != nil {
		return err
	}
	if t != tok {
		return fmt.Errorf("expected %q, got %q", tok, t)
	}
	return nil
}

func (p *sexprParser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *sexprParser) parseNode(f *Factory, bound map[string]*Variable, env map[string]Node) (Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok != "(" {
		// atom: bound var, free name, or constant
		if v, ok := bound[tok]; ok {
			return f.NewVariableUse(v), nil
		}
		if strings.HasPrefix(tok, "%") {
			name := tok[1:]
			if n, ok := env[name]; ok {
				return n, nil
			}
			return f.NewVariable(name, types.Unspecified, Metadata{}), nil
		}
		if n, ok := env[tok]; ok {
			return n, nil
		}
		return f.NewConstant(tok, nil, types.Unspecified, Metadata{}), nil
	}
	head, err := p.next()
	if err != nil {
		return nil, err
	}
	switch head {
	case "app":
		op, err := p.parseNode(f, bound, env)
		if err != nil {
			return nil, err
		}
		var args []Node
		for p.peek() != ")" {
			a, err := p.parseNode(f, bound, env)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		var appType types.Type = types.Unspecified
		if fn, ok := op.Type().(*types.Function); ok && len(fn.Args) == len(args) {
			appType = fn.Ret
		}
		return f.NewApplication(op, args, appType, Metadata{}), nil
	case "forall", "exists":
		kind := Forall
		if head == "exists" {
			kind = Exists
		}
		child := copyVarMap(bound)
		var vars []*Variable
		for p.peek() == "(" {
			if err := p.expect("("); err != nil {
				return nil, err
			}
			name, err := p.next()
			if err != nil {
				return nil, err
			}
			typName, err := p.next()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			v := f.NewVariable(strings.TrimPrefix(name, "v"), &types.Atomic{Name: typName}, Metadata{})
			child[name] = v
			vars = append(vars, v)
		}
		body, err := p.parseNode(f, child, env)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return f.NewQuantifier(kind, vars, body, types.Boolean, Metadata{}), nil
	case "lambda":
		child := copyVarMap(bound)
		var vars []*Variable
		for p.peek() == "(" {
			if err := p.expect("("); err != nil {
				return nil, err
			}
			name, err := p.next()
			if err != nil {
				return nil, err
			}
			typName, err := p.next()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			v := f.NewVariable(strings.TrimPrefix(name, "v"), &types.Atomic{Name: typName}, Metadata{})
			child[name] = v
			vars = append(vars, v)
		}
		body, err := p.parseNode(f, child, env)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return f.NewLambda(vars, body, types.Unspecified, Metadata{}), nil
	case "not", "and", "or", "implies", "equiv":
		kinds := map[string]ConnKind{"not": Not, "and": And, "or": Or, "implies": Implies, "equiv": Equiv}
		var ops []Node
		for p.peek() != ")" {
			o, err := p.parseNode(f, bound, env)
			if err != nil {
				return nil, err
			}
			ops = append(ops, o)
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return f.NewConnective(kinds[head], ops, types.Boolean, Metadata{}), nil
	case "modal":
		opName, err := p.next()
		if err != nil {
			return nil, err
		}
		ops := map[string]ModalOp{"box": Box, "diamond": Diamond, "knows": Knows, "believes": Believes}
		op, ok := ops[opName]
		if !ok {
			return nil, fmt.Errorf("unknown modal operator %q", opName)
		}
		var w Node
		if (op == Knows || op == Believes) && p.peek() != ")" {
			w, err = p.parseNode(f, bound, env)
			if err != nil {
				return nil, err
			}
		}
		prop, err := p.parseNode(f, bound, env)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return f.NewModal(op, w, prop, types.Proposition, Metadata{}), nil
	case "def":
		symbol, err := p.next()
		if err != nil {
			return nil, err
		}
		typName, err := p.next()
		if err != nil {
			return nil, err
		}
		body, err := p.parseNode(f, bound, env)
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return f.NewDefinition(symbol, &types.Atomic{Name: typName}, body, types.Unspecified, Metadata{}), nil
	default:
		return nil, fmt.Errorf("unknown form %q", head)
	}
}

func copyVarMap(m map[string]*Variable) map[string]*Variable {
	out := make(map[string]*Variable, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
