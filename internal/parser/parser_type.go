package parser

import (
	"github.com/kr-engine/godel/internal/kernel/types"
	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/lexer"
)

// parseType parses a binder's type annotation:
//
//	TypeExpr := IDENT ( "[" TypeExpr ("," TypeExpr)* "]" )?
//	          | "(" TypeExpr ("," TypeExpr)* ")" "->" TypeExpr
func (p *Parser) parseType() types.Type {
	if p.curIs(lexer.LPAREN) {
		return p.parseFunctionType()
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf(kerrors.PAR007, "expected a type name, got %s %q", p.cur.Type, p.cur.Literal)
		return types.Unspecified
	}
	name := p.cur.Literal
	p.advance()

	if p.curIs(lexer.LBRACKET) {
		p.advance()
		var args []types.Type
		args = append(args, p.parseType())
		for p.curIs(lexer.COMMA) {
			p.advance()
			args = append(args, p.parseType())
		}
		p.expect(lexer.RBRACKET, kerrors.PAR007, "expected ']' closing parametric type arguments")
		if p.sig != nil {
			if ctor, ok := p.sig.GetCtor(name); ok {
				return &types.Instantiated{Ctor: ctor, Args: args}
			}
		}
		return &types.Instantiated{Ctor: &types.ParametricCtor{Name: name, Arity: len(args)}, Args: args}
	}

	if p.sig != nil {
		if t, ok := p.sig.GetType(name); ok {
			return t
		}
	}
	return &types.Atomic{Name: name}
}

func (p *Parser) parseFunctionType() types.Type {
	p.advance() // consume '('
	var args []types.Type
	if !p.curIs(lexer.RPAREN) {
		args = append(args, p.parseType())
		for p.curIs(lexer.COMMA) {
			p.advance()
			args = append(args, p.parseType())
		}
	}
	p.expect(lexer.RPAREN, kerrors.PAR007, "expected ')' closing function type arguments")
	p.expect(lexer.IMPLIES, kerrors.PAR007, "expected '->' in function type")
	ret := p.parseType()
	return &types.Function{Args: args, Ret: ret}
}
