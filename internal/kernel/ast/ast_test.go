package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/types"
)

func TestHashConsSharesIdenticalConstants(t *testing.T) {
	f := NewFactory(0)
	a := f.NewConstant("Socrates", nil, types.Individual, Metadata{})
	b := f.NewConstant("Socrates", nil, types.Individual, Metadata{})
	require.Same(t, a, b)
	require.Equal(t, a.Hash(), b.Hash())
}

func TestAlphaEquivalentQuantifiersHashEqual(t *testing.T) {
	f := NewFactory(0)
	boolT := types.Boolean
	x := f.NewVariable("x", types.Individual, Metadata{})
	px := f.NewApplication(f.NewConstant("P", nil, &types.Function{Args: []types.Type{types.Individual}, Ret: boolT}, Metadata{}), []Node{f.NewVariableUse(x)}, boolT, Metadata{})
	t1 := f.NewQuantifier(Forall, []*Variable{x}, px, boolT, Metadata{})

	y := f.NewVariable("y", types.Individual, Metadata{})
	py := f.NewApplication(f.NewConstant("P", nil, &types.Function{Args: []types.Type{types.Individual}, Ret: boolT}, Metadata{}), []Node{f.NewVariableUse(y)}, boolT, Metadata{})
	t2 := f.NewQuantifier(Forall, []*Variable{y}, py, boolT, Metadata{})

	require.True(t, EqualModAlpha(t1, t2))
	require.Equal(t, t1.Hash(), t2.Hash())
	require.Same(t, t1, t2, "alpha-equivalent terms must hash-cons to the same node")
}

func TestDistinctFreeVariablesAreNotAlphaEquivalent(t *testing.T) {
	f := NewFactory(0)
	x := f.NewVariable("x", types.Individual, Metadata{})
	y := f.NewVariable("y", types.Individual, Metadata{})
	require.False(t, EqualModAlpha(x, y))
}

func TestSubstituteIsCaptureAvoiding(t *testing.T) {
	f := NewFactory(0)
	boolT := types.Boolean

	// forall x. Q(x, y) — y is free
	x := f.NewVariable("x", types.Individual, Metadata{})
	y := f.NewVariable("y", types.Individual, Metadata{})
	q := f.NewConstant("Q", nil, &types.Function{Args: []types.Type{types.Individual, types.Individual}, Ret: boolT}, Metadata{})
	body := f.NewApplication(q, []Node{f.NewVariableUse(x), f.NewVariableUse(y)}, boolT, Metadata{})
	formula := f.NewQuantifier(Forall, []*Variable{x}, body, boolT, Metadata{})

	// substitute y := x (the outer free x, not the bound one) — a
	// name-based substitution would capture x under the quantifier; the
	// outer x carries its own VarID, so the binder must not bind it.
	outerX := f.NewVariable("x", types.Individual, Metadata{})
	result := f.Substitute(formula, Substitution{y.VarID: outerX})

	quant, ok := result.(*Quantifier)
	require.True(t, ok)
	require.NotEqual(t, outerX.VarID, quant.Bound[0].VarID, "bound variable must not share the substituted term's VarID")

	free := FreeVariables(result)
	require.Contains(t, free, outerX.VarID)
	require.NotContains(t, free, y.VarID)
}

func TestNormalizeBetaReducesApplication(t *testing.T) {
	f := NewFactory(0)
	indiv := types.Individual
	x := f.NewVariable("x", indiv, Metadata{})
	lam := f.NewLambda([]*Variable{x}, f.NewVariableUse(x), &types.Function{Args: []types.Type{indiv}, Ret: indiv}, Metadata{})
	socrates := f.NewConstant("Socrates", nil, indiv, Metadata{})
	app := f.NewApplication(lam, []Node{socrates}, indiv, Metadata{})

	result := f.Normalize(app, BetaNF)
	require.Equal(t, socrates.Hash(), result.Hash())
}

func TestNormalizeIsIdempotent(t *testing.T) {
	f := NewFactory(0)
	indiv := types.Individual
	x := f.NewVariable("x", indiv, Metadata{})
	lam := f.NewLambda([]*Variable{x}, f.NewVariableUse(x), &types.Function{Args: []types.Type{indiv}, Ret: indiv}, Metadata{})
	socrates := f.NewConstant("Socrates", nil, indiv, Metadata{})
	app := f.NewApplication(lam, []Node{socrates}, indiv, Metadata{})

	once := f.Normalize(app, BetaNF)
	twice := f.Normalize(once, BetaNF)
	require.Equal(t, once.Hash(), twice.Hash())
}

func TestPrintParseRoundTrip(t *testing.T) {
	f := NewFactory(0)
	boolT := types.Boolean
	pred := &types.Function{Args: []types.Type{&types.Atomic{Name: "Individual"}}, Ret: boolT}
	x := f.NewVariable("x", &types.Atomic{Name: "Individual"}, Metadata{})
	mortal := f.NewConstant("Mortal", nil, pred, Metadata{})
	body := f.NewApplication(mortal, []Node{f.NewVariableUse(x)}, boolT, Metadata{})
	formula := f.NewQuantifier(Forall, []*Variable{x}, body, boolT, Metadata{})

	text := Print(formula)
	parsed, err := ParseSExpr(f, text, map[string]Node{"Mortal": mortal})
	require.NoError(t, err)
	require.True(t, EqualModAlpha(formula, parsed))
	require.Equal(t, text, Print(parsed))
}

func TestFalsumIsHashConsedAndRecognized(t *testing.T) {
	f := NewFactory(0)
	a := f.Falsum()
	b := f.Falsum()
	require.Same(t, a, b)
	require.True(t, IsFalsum(a))

	other := f.NewConstant("Socrates", nil, types.Individual, Metadata{})
	require.False(t, IsFalsum(other))
}
