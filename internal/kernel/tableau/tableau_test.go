package tableau

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/parser"
)

type fakeAxioms struct{ statements []ast.Node }

func (f fakeAxioms) AllStatements(contextIDs []string) ([]ast.Node, error) {
	return f.statements, nil
}

func parseOne(t *testing.T, f *ast.Factory, src string) ast.Node {
	t.Helper()
	n, errs := parser.Parse(f, nil, src, "test")
	require.Empty(t, errs)
	return n
}

func defaultLimits() coordinator.ResourceLimits {
	return coordinator.ResourceLimits{TimeMS: 5000, Depth: 64, Nodes: 20000}
}

func TestProveClosesOnPropositionalTautologyUnderK(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "Raining or not Raining")

	p := New(fakeAxioms{}, f, K)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
	require.NotEmpty(t, result.Steps)
}

func TestProveDisprovesNonTautologyUnderK(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "Raining")

	p := New(fakeAxioms{}, f, K)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Disproved, result.Status.Code)
}

func TestProveUsesAxiomsToCloseModusPonens(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Raining")
	axiom2 := parseOne(t, f, "Raining implies Wet")
	goal := parseOne(t, f, "Wet")

	p := New(fakeAxioms{statements: []ast.Node{axiom1, axiom2}}, f, K)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

// Under system T (reflexivity: w R w for every world), box phi at the
// initial world forces phi to hold there too, so "box Raining implies
// Raining" is valid.
func TestProveUsesReflexivityUnderT(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "(box Raining) implies Raining")

	p := New(fakeAxioms{}, f, T)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

// Under plain K (no reflexivity), the same formula is not valid: the
// initial world need not be its own successor, so box Raining can hold
// there vacuously while Raining itself is false.
func TestProveFindsCountermodelUnderKForTFormula(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "(box Raining) implies Raining")

	p := New(fakeAxioms{}, f, K)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Disproved, result.Status.Code)
}

func TestProveReportsResourceExhaustedOnTinyNodeBudget(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "Raining or not Raining")

	p := New(fakeAxioms{}, f, K)
	tight := coordinator.ResourceLimits{TimeMS: 5000, Depth: 64, Nodes: 0}
	tight.Nodes = 0 // unbounded nodes, but...
	tight.Depth = 0
	tight.TimeMS = 0
	// A deadline already in the past forces immediate exhaustion on the
	// first budget tick regardless of node/depth limits.
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	result, err := p.Prove(ctx, goal, []string{"root"}, tight)
	require.NoError(t, err)
	require.Equal(t, proof.ResourceExhausted, result.Status.Code)
}

func TestEngineReportsTableau(t *testing.T) {
	f := ast.NewFactory(0)
	p := New(fakeAxioms{}, f, K)
	require.Equal(t, proof.EngineTableau, p.Engine())
}

// A goal of the canonical falsum constant asks whether the visible
// axioms close on their own, independent of any goal.
func TestProveReportsContradictionForInconsistentAxioms(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Raining")
	axiom2 := parseOne(t, f, "not Raining")

	p := New(fakeAxioms{statements: []ast.Node{axiom1, axiom2}}, f, K)
	result, err := p.Prove(context.Background(), f.Falsum(), []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Contradiction, result.Status.Code)
}

func TestProveReportsUnknownForConsistentAxioms(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Raining")

	p := New(fakeAxioms{statements: []ast.Node{axiom1}}, f, K)
	result, err := p.Prove(context.Background(), f.Falsum(), []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Unknown, result.Status.Code)
}
