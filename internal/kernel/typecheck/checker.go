// Package typecheck implements the `check`/`infer` operations spec.md
// §6 lists alongside define_*/is_subtype as the Type System's public
// surface. It lives outside internal/kernel/types because it walks
// ast.Node trees and types cannot import ast (ast already imports
// types for every node's Type() field).
//
// Every node a Factory constructs already carries a concrete
// types.Type assigned at construction, so this is a consistency pass
// over an already-typed tree rather than Hindley-Milner synthesis from
// untyped terms: Check confirms a node's recorded type agrees with
// what its children's recorded types and the signature table say it
// should be, and Infer is Check followed by returning that recorded
// type.
package typecheck

import (
	"fmt"

	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

func mismatch(n ast.Node, message string) *kerrors.Report {
	return kerrors.New(kerrors.TYP003, message, spanOf(n))
}

func arityErr(n ast.Node, message string) *kerrors.Report {
	return kerrors.New(kerrors.TYP002, message, spanOf(n))
}

func spanOf(n ast.Node) *kerrors.Span {
	s := n.Meta().Span
	if s.Start.File == "" && s.End.File == "" {
		return nil
	}
	return &kerrors.Span{
		File:      s.Start.File,
		StartLine: s.Start.Line, StartCol: s.Start.Column,
		EndLine: s.End.Line, EndCol: s.End.Column,
	}
}

// Check walks n bottom-up, validating that every node's recorded type
// is consistent with its children's recorded types and the symbols
// declared in sig. It does not stop at the first problem: every
// Report it finds is collected via the same Collector the parser uses
// for syntax errors (internal/errors: "a batch `add` accumulates type
// errors"), and Err() returns nil only if the whole tree is clean.
func Check(sig *types.SignatureTable, n ast.Node) error {
	var c kerrors.Collector
	checkNode(sig, n, &c)
	return c.Err()
}

// Infer returns n's recorded type after confirming it via Check. It
// exists to satisfy spec §6's `infer` entry point; callers that only
// need validation should call Check directly.
func Infer(sig *types.SignatureTable, n ast.Node) (types.Type, error) {
	if err := Check(sig, n); err != nil {
		return nil, err
	}
	return n.Type(), nil
}

func checkNode(sig *types.SignatureTable, n ast.Node, c *kerrors.Collector) {
	switch v := n.(type) {
	case *ast.Constant:
		checkConstant(sig, v, c)
	case *ast.Variable:
		// Already typed at the binder; nothing further to verify here.
	case *ast.Application:
		checkApplication(sig, v, c)
	case *ast.Quantifier:
		checkQuantifier(sig, v, c)
	case *ast.Connective:
		checkConnective(sig, v, c)
	case *ast.Modal:
		checkModal(sig, v, c)
	case *ast.Lambda:
		checkLambda(sig, v, c)
	case *ast.Definition:
		checkDefinition(sig, v, c)
	default:
		c.Add(kerrors.New(kerrors.TYP001, fmt.Sprintf("unrecognized node kind %T", n), nil))
	}
}

func checkConstant(sig *types.SignatureTable, v *ast.Constant, c *kerrors.Collector) {
	declared, ok := sig.GetType(v.Name)
	if !ok {
		// No declaration on file: this symbol was given a default type
		// at first use (parser convention), not an error in itself.
		return
	}
	if !declared.Equals(v.Type()) && !sig.IsSubtype(v.Type(), declared) {
		c.Add(mismatch(v, fmt.Sprintf("constant %q declared %s but carries %s", v.Name, declared, v.Type())))
	}
}

func checkApplication(sig *types.SignatureTable, v *ast.Application, c *kerrors.Collector) {
	checkNode(sig, v.Operator, c)
	for _, arg := range v.Arguments {
		checkNode(sig, arg, c)
	}

	fn, ok := v.Operator.Type().(*types.Function)
	if !ok {
		c.Add(mismatch(v, fmt.Sprintf("operator %s has non-function type %s", v.Operator, v.Operator.Type())))
		return
	}
	if len(fn.Args) != len(v.Arguments) {
		c.Add(arityErr(v, fmt.Sprintf("%s expects %d argument(s), got %d", v.Operator, len(fn.Args), len(v.Arguments))))
		return
	}
	for i, arg := range v.Arguments {
		if !sig.IsSubtype(arg.Type(), fn.Args[i]) {
			c.Add(mismatch(v, fmt.Sprintf("argument %d of %s: expected %s, got %s", i, v.Operator, fn.Args[i], arg.Type())))
		}
	}
	if !fn.Ret.Equals(v.Type()) {
		c.Add(mismatch(v, fmt.Sprintf("application result declared %s, operator returns %s", v.Type(), fn.Ret)))
	}
}

func checkQuantifier(sig *types.SignatureTable, v *ast.Quantifier, c *kerrors.Collector) {
	checkNode(sig, v.Body, c)
	if !v.Body.Type().Equals(types.Boolean) {
		c.Add(mismatch(v, fmt.Sprintf("quantified body must be Boolean, got %s", v.Body.Type())))
	}
	if !v.Type().Equals(types.Boolean) {
		c.Add(mismatch(v, fmt.Sprintf("quantifier itself must be Boolean, got %s", v.Type())))
	}
}

func checkConnective(sig *types.SignatureTable, v *ast.Connective, c *kerrors.Collector) {
	for _, op := range v.Operands {
		checkNode(sig, op, c)
	}
	if v.Kind == ast.Not && len(v.Operands) != 1 {
		c.Add(arityErr(v, fmt.Sprintf("not takes exactly 1 operand, got %d", len(v.Operands))))
	}
	for i, op := range v.Operands {
		if !op.Type().Equals(types.Boolean) {
			c.Add(mismatch(v, fmt.Sprintf("operand %d of %s must be Boolean, got %s", i, v.Kind, op.Type())))
		}
	}
	if !v.Type().Equals(types.Boolean) {
		c.Add(mismatch(v, fmt.Sprintf("connective %s itself must be Boolean, got %s", v.Kind, v.Type())))
	}
}

func checkModal(sig *types.SignatureTable, v *ast.Modal, c *kerrors.Collector) {
	checkNode(sig, v.Proposition, c)
	if v.WorldOrAgent != nil {
		checkNode(sig, v.WorldOrAgent, c)
	}
	if !v.Proposition.Type().Equals(types.Boolean) {
		c.Add(mismatch(v, fmt.Sprintf("modal proposition must be Boolean, got %s", v.Proposition.Type())))
	}
	if !v.Type().Equals(types.Boolean) {
		c.Add(mismatch(v, fmt.Sprintf("modal formula itself must be Boolean, got %s", v.Type())))
	}
}

func checkLambda(sig *types.SignatureTable, v *ast.Lambda, c *kerrors.Collector) {
	checkNode(sig, v.Body, c)
	args := make([]types.Type, len(v.Bound))
	for i, b := range v.Bound {
		args[i] = b.Type()
	}
	expected := &types.Function{Args: args, Ret: v.Body.Type()}
	if !v.Type().Equals(expected) {
		c.Add(mismatch(v, fmt.Sprintf("lambda declared %s, body shape gives %s", v.Type(), expected)))
	}
}

func checkDefinition(sig *types.SignatureTable, v *ast.Definition, c *kerrors.Collector) {
	checkNode(sig, v.Body, c)
	if !sig.IsSubtype(v.Body.Type(), v.DeclaredType) {
		c.Add(mismatch(v, fmt.Sprintf("%s declared %s, body has %s", v.Symbol, v.DeclaredType, v.Body.Type())))
	}
	if !v.Type().Equals(v.DeclaredType) {
		c.Add(mismatch(v, fmt.Sprintf("%s node type %s does not match declared type %s", v.Symbol, v.Type(), v.DeclaredType)))
	}
}
