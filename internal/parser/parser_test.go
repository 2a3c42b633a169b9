package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

func TestParseSimpleApplication(t *testing.T) {
	f := ast.NewFactory(0)
	node, errs := Parse(f, nil, "Mortal(Socrates)", "test")
	require.Empty(t, errs)
	app, ok := node.(*ast.Application)
	require.True(t, ok)
	require.Len(t, app.Arguments, 1)
}

func TestParseQuantifiedImplication(t *testing.T) {
	f := ast.NewFactory(0)
	node, errs := Parse(f, nil, "forall ?x:Individual. Human(?x) implies Mortal(?x)", "test")
	require.Empty(t, errs)
	q, ok := node.(*ast.Quantifier)
	require.True(t, ok)
	require.Equal(t, ast.Forall, q.Kind)
	require.Len(t, q.Bound, 1)
	conn, ok := q.Body.(*ast.Connective)
	require.True(t, ok)
	require.Equal(t, ast.Implies, conn.Kind)
}

func TestParseUnicodeAndASCIIAgree(t *testing.T) {
	f1 := ast.NewFactory(0)
	f2 := ast.NewFactory(0)
	unicodeNode, errs1 := Parse(f1, nil, "¬P(?x) ∧ Q(?x)", "a")
	asciiNode, errs2 := Parse(f2, nil, "not P(?x) and Q(?x)", "b")
	require.Empty(t, errs1)
	require.Empty(t, errs2)
	require.True(t, ast.EqualModAlpha(unicodeNode, asciiNode))
}

func TestParseModalAgentFormula(t *testing.T) {
	f := ast.NewFactory(0)
	node, errs := Parse(f, nil, "K_alice Honest(alice)", "test")
	require.Empty(t, errs)
	modal, ok := node.(*ast.Modal)
	require.True(t, ok)
	require.Equal(t, ast.Knows, modal.Op)
	require.NotNil(t, modal.WorldOrAgent)
}

func TestParseBoxDiamond(t *testing.T) {
	f := ast.NewFactory(0)
	node, errs := Parse(f, nil, "box Safe(?x)", "test")
	require.Empty(t, errs)
	modal, ok := node.(*ast.Modal)
	require.True(t, ok)
	require.Equal(t, ast.Box, modal.Op)
	require.Nil(t, modal.WorldOrAgent)
}

func TestParseLambdaAndDefinition(t *testing.T) {
	f := ast.NewFactory(0)
	node, errs := Parse(f, nil, "def Greater : (Individual, Individual) -> Boolean = lambda ?x, ?y. GreaterThan(?x, ?y)", "test")
	require.Empty(t, errs)
	def, ok := node.(*ast.Definition)
	require.True(t, ok)
	require.Equal(t, "Greater", def.Symbol)
	lam, ok := def.Body.(*ast.Lambda)
	require.True(t, ok)
	require.Len(t, lam.Bound, 2)
}

func TestParseConnectivePrecedence(t *testing.T) {
	f := ast.NewFactory(0)
	// not > and > or > implies > iff
	node, errs := Parse(f, nil, "P() or Q() and not R()", "test")
	require.Empty(t, errs)
	or, ok := node.(*ast.Connective)
	require.True(t, ok)
	require.Equal(t, ast.Or, or.Kind)
	require.Len(t, or.Operands, 2)
	and, ok := or.Operands[1].(*ast.Connective)
	require.True(t, ok)
	require.Equal(t, ast.And, and.Kind)
}

func TestParseUndeclaredSymbolGetsDefaultType(t *testing.T) {
	f := ast.NewFactory(0)
	node, errs := Parse(f, nil, "IsRed(Apple)", "test")
	require.Empty(t, errs)
	app := node.(*ast.Application)
	require.Equal(t, types.Boolean, app.Type())
}

func TestParseSignatureTableOverridesDefault(t *testing.T) {
	sig := types.NewSignatureTable()
	require.NoError(t, sig.DefineFunction("Age", []types.Type{types.Individual}, types.Individual))

	f := ast.NewFactory(0)
	node, errs := Parse(f, sig, "Age(Socrates)", "test")
	require.Empty(t, errs)
	app := node.(*ast.Application)
	require.Equal(t, types.Individual, app.Type())
}

func TestParseSyntaxErrorReportsPosition(t *testing.T) {
	f := ast.NewFactory(0)
	_, errs := Parse(f, nil, "forall ?x Mortal(?x)", "test")
	require.NotEmpty(t, errs)
	require.Equal(t, "parser", errs[0].Phase)
}

func TestParseUndefinedVariableReported(t *testing.T) {
	f := ast.NewFactory(0)
	_, errs := Parse(f, nil, "Mortal(?x)", "test")
	require.NotEmpty(t, errs)
}
