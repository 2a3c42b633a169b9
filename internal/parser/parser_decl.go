package parser

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/lexer"
)

// parseDefinition parses: "def" IDENT ":" TypeExpr "=" Formula
func (p *Parser) parseDefinition() *ast.Definition {
	meta := p.meta()
	p.advance() // consume 'def'

	if !p.curIs(lexer.IDENT) {
		p.errorf(kerrors.PAR006, "expected symbol name after 'def', got %s %q", p.cur.Type, p.cur.Literal)
		return nil
	}
	symbol := p.cur.Literal
	p.advance()

	p.expect(lexer.COLON, kerrors.PAR006, "expected ':' after symbol name in definition")
	declared := p.parseType()

	p.expect(lexer.ASSIGN, kerrors.PAR006, "expected '=' in definition")
	body := p.parseFormula(true)
	if body == nil {
		return nil
	}

	return p.f.NewDefinition(symbol, declared, body, declared, meta)
}
