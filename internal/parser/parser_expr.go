package parser

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/lexer"
)

// parseFormula is the grammar's entry point for a full formula. The
// connective levels below are chained from loosest to tightest,
// matching spec's fixed ordering ¬ > ∧ > ∨ > ⇒ > ≡ (iff loosest,
// not tightest), each level parsing its operands from the next
// tighter level so mixed connectives associate correctly (e.g.
// "P or Q and R" groups as "P or (Q and R)").
//
// expectBool selects the default return type a freshly-seen,
// undeclared predicate symbol is given: true in formula position
// (and/or/not/quantifier/lambda bodies, definition bodies), false
// when parsing a term nested inside another application's arguments.
func (p *Parser) parseFormula(expectBool bool) ast.Node {
	return p.parseEquiv(expectBool)
}

func (p *Parser) parseEquiv(expectBool bool) ast.Node {
	left := p.parseImplies(expectBool)
	if left == nil {
		return nil
	}
	for p.curIs(lexer.EQUIV) {
		p.advance()
		right := p.parseImplies(expectBool)
		left = p.f.NewConnective(ast.Equiv, []ast.Node{left, right}, types.Boolean, p.meta())
	}
	return left
}

func (p *Parser) parseImplies(expectBool bool) ast.Node {
	left := p.parseOr(expectBool)
	if left == nil {
		return nil
	}
	for p.curIs(lexer.IMPLIES) {
		p.advance()
		right := p.parseOr(expectBool)
		left = p.f.NewConnective(ast.Implies, []ast.Node{left, right}, types.Boolean, p.meta())
	}
	return left
}

func (p *Parser) parseOr(expectBool bool) ast.Node {
	operands := []ast.Node{p.parseAnd(expectBool)}
	if operands[0] == nil {
		return nil
	}
	for p.curIs(lexer.OR) {
		p.advance()
		operands = append(operands, p.parseAnd(expectBool))
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return p.f.NewConnective(ast.Or, operands, types.Boolean, p.meta())
}

func (p *Parser) parseAnd(expectBool bool) ast.Node {
	operands := []ast.Node{p.parseUnary(expectBool)}
	if operands[0] == nil {
		return nil
	}
	for p.curIs(lexer.AND) {
		p.advance()
		operands = append(operands, p.parseUnary(expectBool))
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return p.f.NewConnective(ast.And, operands, types.Boolean, p.meta())
}

func (p *Parser) parseUnary(expectBool bool) ast.Node {
	switch p.cur.Type {
	case lexer.NOT:
		meta := p.meta()
		p.advance()
		operand := p.parseUnary(true)
		return p.f.NewConnective(ast.Not, []ast.Node{operand}, types.Boolean, meta)
	case lexer.BOX, lexer.DIAMOND:
		return p.parseSimpleModal()
	case lexer.KNOWS, lexer.BELIEVES:
		return p.parseAgentModal()
	case lexer.FORALL, lexer.EXISTS:
		return p.parseQuantifier()
	case lexer.LAMBDA:
		return p.parseLambda()
	default:
		return p.parseAtom(expectBool)
	}
}

func (p *Parser) parseSimpleModal() ast.Node {
	meta := p.meta()
	op := ast.Box
	if p.cur.Type == lexer.DIAMOND {
		op = ast.Diamond
	}
	p.advance()
	prop := p.parseUnary(true)
	return p.f.NewModal(op, nil, prop, types.Boolean, meta)
}

func (p *Parser) parseAgentModal() ast.Node {
	meta := p.meta()
	op := ast.Knows
	if p.cur.Type == lexer.BELIEVES {
		op = ast.Believes
	}
	p.advance()
	p.expect(lexer.UNDERSCORE, kerrors.PAR004, "expected '_' after K/B to introduce the agent")
	agent := p.parseAgentTerm()
	prop := p.parseUnary(true)
	return p.f.NewModal(op, agent, prop, types.Boolean, meta)
}

func (p *Parser) parseAgentTerm() ast.Node {
	meta := p.meta()
	switch p.cur.Type {
	case lexer.VARID:
		name := p.cur.Literal
		p.advance()
		if v, ok := p.lookupVar(name); ok {
			return p.f.NewVariableUse(v)
		}
		p.errorf(kerrors.TYP001, "undefined variable ?%s used as agent", name)
		return p.f.NewVariableUse(p.f.NewVariable(name, types.Agent, meta))
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		return p.f.NewConstant(name, nil, types.Agent, meta)
	default:
		p.errorf(kerrors.PAR004, "expected an agent term, got %s %q", p.cur.Type, p.cur.Literal)
		return p.f.NewConstant("_error", nil, types.Agent, meta)
	}
}

func (p *Parser) parseQuantifier() ast.Node {
	meta := p.meta()
	kind := ast.Forall
	if p.cur.Type == lexer.EXISTS {
		kind = ast.Exists
	}
	p.advance()

	p.pushScope()
	defer p.popScope()

	bound := []*ast.Variable{p.parseBinder(kerrors.PAR003)}
	for p.curIs(lexer.COMMA) {
		p.advance()
		bound = append(bound, p.parseBinder(kerrors.PAR003))
	}
	p.expect(lexer.DOT, kerrors.PAR003, "expected '.' after quantifier binders")
	body := p.parseFormula(true)
	return p.f.NewQuantifier(kind, bound, body, types.Boolean, meta)
}

func (p *Parser) parseLambda() ast.Node {
	meta := p.meta()
	p.advance()

	p.pushScope()
	defer p.popScope()

	bound := []*ast.Variable{p.parseBinder(kerrors.PAR005)}
	for p.curIs(lexer.COMMA) {
		p.advance()
		bound = append(bound, p.parseBinder(kerrors.PAR005))
	}
	p.expect(lexer.DOT, kerrors.PAR005, "expected '.' after lambda binders")
	body := p.parseFormula(true)

	argTypes := make([]types.Type, len(bound))
	for i, b := range bound {
		argTypes[i] = b.Type()
	}
	lamType := &types.Function{Args: argTypes, Ret: body.Type()}
	return p.f.NewLambda(bound, body, lamType, meta)
}

// parseBinder parses a single "?x" or "?x:Type" quantifier/lambda binder
// and introduces it into the current (innermost) scope.
func (p *Parser) parseBinder(errCode string) *ast.Variable {
	meta := p.meta()
	if !p.curIs(lexer.VARID) {
		p.errorf(errCode, "expected a '?'-variable binder, got %s %q", p.cur.Type, p.cur.Literal)
		return p.f.NewVariable("_error", types.Unspecified, meta)
	}
	name := p.cur.Literal
	p.advance()

	t := types.Type(types.Unspecified)
	if p.curIs(lexer.COLON) {
		p.advance()
		t = p.parseType()
	}
	v := p.f.NewVariable(name, t, meta)
	p.bind(name, v)
	return v
}

// parseAtom parses the leaves of the grammar: literals, variable uses,
// constant/predicate symbols (optionally applied), and parenthesized
// sub-formulas.
func (p *Parser) parseAtom(expectBool bool) ast.Node {
	meta := p.meta()
	switch p.cur.Type {
	case lexer.VARID:
		name := p.cur.Literal
		p.advance()
		if v, ok := p.lookupVar(name); ok {
			return p.f.NewVariableUse(v)
		}
		p.errorf(kerrors.TYP001, "undefined variable ?%s", name)
		return p.f.NewVariableUse(p.f.NewVariable(name, types.Unspecified, meta))

	case lexer.IDENT:
		return p.parseSymbol(expectBool)

	case lexer.INT, lexer.FLOAT:
		lit := p.cur.Literal
		p.advance()
		return p.f.NewConstant(lit, lit, types.Individual, meta)

	case lexer.STRING:
		lit := p.cur.Literal
		p.advance()
		return p.f.NewConstant(lit, lit, types.Individual, meta)

	case lexer.LPAREN:
		p.advance()
		inner := p.parseFormula(expectBool)
		p.expect(lexer.RPAREN, kerrors.PAR002, "expected ')' closing a parenthesized formula")
		return inner

	default:
		p.errorf(kerrors.PAR001, "unexpected token %s %q", p.cur.Type, p.cur.Literal)
		p.advance()
		return nil
	}
}

// parseSymbol parses a bare constant symbol or a predicate/function
// application, consulting the signature table (read-only) for a
// previously declared type and falling back to a sensible default
// (Boolean for an undeclared predicate in formula position, Individual
// otherwise) when none is on record.
func (p *Parser) parseSymbol(expectBool bool) ast.Node {
	meta := p.meta()
	name := p.cur.Literal
	p.advance()

	if !p.curIs(lexer.LPAREN) {
		t := p.lookupSymbolType(name, 0, expectBool)
		return p.f.NewConstant(name, nil, t, meta)
	}

	p.advance() // consume '('
	var args []ast.Node
	if !p.curIs(lexer.RPAREN) {
		args = append(args, p.parseFormula(false))
		for p.curIs(lexer.COMMA) {
			p.advance()
			args = append(args, p.parseFormula(false))
		}
	}
	p.expect(lexer.RPAREN, kerrors.PAR002, "expected ')' closing an argument list")

	retType := p.lookupSymbolType(name, len(args), expectBool)
	argTypes := make([]types.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type()
	}
	op := p.f.NewConstant(name, nil, &types.Function{Args: argTypes, Ret: retType}, meta)
	return p.f.NewApplication(op, args, retType, meta)
}

func (p *Parser) lookupSymbolType(name string, arity int, expectBool bool) types.Type {
	if p.sig != nil {
		if t, ok := p.sig.GetType(name); ok {
			if fn, isFn := t.(*types.Function); isFn {
				return fn.Ret
			}
			return t
		}
	}
	if expectBool {
		return types.Boolean
	}
	return types.Individual
}
