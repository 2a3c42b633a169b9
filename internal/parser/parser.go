// Package parser turns the kernel's formula surface syntax into a typed
// AST (C3): atoms, `?x` variables, application, quantifiers,
// connectives, modal operators, lambda abstraction, and definitions.
// A Parser is re-entrant and pure: it never mutates the SignatureTable
// it is given, only reads from it.
package parser

import (
	"fmt"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/lexer"
)

// Parser holds the mutable cursor state for a single Parse call. It is
// not safe for concurrent use by multiple goroutines, but a fresh
// Parser is cheap to construct per call, which is what Parse does.
type Parser struct {
	l   *lexer.Lexer
	f   *ast.Factory
	sig *types.SignatureTable

	cur, peek lexer.Token
	scope     []map[string]*ast.Variable
	errs      kerrors.Collector
	file      string
}

// Parse parses a single definition or formula from src and returns the
// resulting AST node, or a nil node plus the accumulated error reports
// when parsing fails. sig may be nil, in which case every symbol is
// treated as undeclared.
func Parse(f *ast.Factory, sig *types.SignatureTable, src, filename string) (ast.Node, []*kerrors.Report) {
	p := &Parser{
		l:     lexer.New(string(lexer.Normalize([]byte(src))), filename),
		f:     f,
		sig:   sig,
		scope: []map[string]*ast.Variable{{}},
		file:  filename,
	}
	p.advance()
	p.advance()

	node := p.parseTop()
	if !p.errs.HasErrors() {
		p.expect(lexer.EOF, kerrors.PAR001, "unexpected trailing input")
	}
	if p.errs.HasErrors() {
		return nil, p.errs.Reports()
	}
	return node, nil
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) pos() ast.Pos {
	return ast.Pos{Line: p.cur.Line, Column: p.cur.Column, File: p.file}
}

func (p *Parser) meta() ast.Metadata {
	at := p.pos()
	return ast.Metadata{Span: ast.Span{Start: at, End: at}}
}

// expect consumes cur if it matches t, reporting code/msg otherwise.
func (p *Parser) expect(t lexer.TokenType, code, msg string) bool {
	if p.curIs(t) {
		p.advance()
		return true
	}
	p.errorf(code, "%s (got %s %q)", msg, p.cur.Type, p.cur.Literal)
	return false
}

func (p *Parser) errorf(code, format string, args ...interface{}) {
	span := &kerrors.Span{File: p.file, StartLine: p.cur.Line, StartCol: p.cur.Column, EndLine: p.cur.Line, EndCol: p.cur.Column}
	p.errs.Add(kerrors.New(code, fmt.Sprintf(format, args...), span))
}

func (p *Parser) pushScope() { p.scope = append(p.scope, map[string]*ast.Variable{}) }
func (p *Parser) popScope()  { p.scope = p.scope[:len(p.scope)-1] }

func (p *Parser) bind(name string, v *ast.Variable) {
	p.scope[len(p.scope)-1][name] = v
}

func (p *Parser) lookupVar(name string) (*ast.Variable, bool) {
	for i := len(p.scope) - 1; i >= 0; i-- {
		if v, ok := p.scope[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// parseTop dispatches to a definition or a bare formula.
func (p *Parser) parseTop() ast.Node {
	if p.curIs(lexer.DEF) {
		return p.parseDefinition()
	}
	return p.parseFormula(true)
}
