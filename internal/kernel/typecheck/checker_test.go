package typecheck

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
	"github.com/kr-engine/godel/internal/parser"
)

func parseOne(t *testing.T, f *ast.Factory, src string) ast.Node {
	t.Helper()
	n, errs := parser.Parse(f, nil, src, "test")
	require.Empty(t, errs)
	return n
}

func TestCheckAcceptsParsedPropositionalFormula(t *testing.T) {
	f := ast.NewFactory(0)
	n := parseOne(t, f, "Raining and not Snowing")

	require.NoError(t, Check(types.NewSignatureTable(), n))
}

func TestCheckAcceptsParsedQuantifiedFormula(t *testing.T) {
	f := ast.NewFactory(0)
	n := parseOne(t, f, "forall ?x. Bird(?x) implies Flies(?x)")

	require.NoError(t, Check(types.NewSignatureTable(), n))
}

func TestCheckAcceptsParsedModalFormula(t *testing.T) {
	f := ast.NewFactory(0)
	n := parseOne(t, f, "box Raining")

	require.NoError(t, Check(types.NewSignatureTable(), n))
}

func TestCheckFlagsConstantAgainstItsDeclaredSignature(t *testing.T) {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()
	require.NoError(t, sig.DefineFunction("Age", []types.Type{}, types.Individual))

	// Carries Boolean where the signature says Age : () -> Individual.
	badConst := f.NewConstant("Age", nil, types.Boolean, ast.Metadata{})

	err := Check(sig, badConst)
	require.Error(t, err)
}

func TestCheckFlagsArityMismatchOnApplication(t *testing.T) {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()

	op := f.NewConstant("Older", &types.Function{Args: []types.Type{types.Individual, types.Individual}, Ret: types.Boolean}, &types.Function{Args: []types.Type{types.Individual, types.Individual}, Ret: types.Boolean}, ast.Metadata{})
	arg := f.NewConstant("Alice", nil, types.Individual, ast.Metadata{})

	app := f.NewApplication(op, []ast.Node{arg}, types.Boolean, ast.Metadata{})

	err := Check(sig, app)
	require.Error(t, err)
}

func TestCheckFlagsOperatorResultTypeMismatch(t *testing.T) {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()

	fn := &types.Function{Args: []types.Type{types.Individual}, Ret: types.Boolean}
	op := f.NewConstant("Flies", fn, fn, ast.Metadata{})
	arg := f.NewConstant("Tweety", nil, types.Individual, ast.Metadata{})

	// Application node declares Individual, but Flies returns Boolean.
	app := f.NewApplication(op, []ast.Node{arg}, types.Individual, ast.Metadata{})

	err := Check(sig, app)
	require.Error(t, err)
}

func TestCheckFlagsNonBooleanConnectiveOperand(t *testing.T) {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()

	notBoolean := f.NewConstant("Alice", nil, types.Individual, ast.Metadata{})
	conn := f.NewConnective(ast.Not, []ast.Node{notBoolean}, types.Boolean, ast.Metadata{})

	err := Check(sig, conn)
	require.Error(t, err)
}

func TestCheckAggregatesMultipleErrorsAcrossTheTree(t *testing.T) {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()

	leftBad := f.NewConstant("Alice", nil, types.Individual, ast.Metadata{})
	rightBad := f.NewConstant("Bob", nil, types.Individual, ast.Metadata{})
	conn := f.NewConnective(ast.And, []ast.Node{leftBad, rightBad}, types.Boolean, ast.Metadata{})

	err := Check(sig, conn)
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 errors occurred")
}

func TestInferReturnsRecordedTypeOnCleanTree(t *testing.T) {
	f := ast.NewFactory(0)
	n := parseOne(t, f, "Raining")

	got, err := Infer(types.NewSignatureTable(), n)
	require.NoError(t, err)
	require.True(t, got.Equals(n.Type()))
}

func TestInferPropagatesCheckErrors(t *testing.T) {
	f := ast.NewFactory(0)
	sig := types.NewSignatureTable()
	bad := f.NewConstant("Alice", nil, types.Individual, ast.Metadata{})
	conn := f.NewConnective(ast.Not, []ast.Node{bad}, types.Boolean, ast.Metadata{})

	_, err := Infer(sig, conn)
	require.Error(t, err)
}
