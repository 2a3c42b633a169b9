package bridge

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

type stubBridge struct {
	reply Reply
	err   error
}

func (s stubBridge) CheckSat(ctx context.Context, formula ast.Node, assumptions []ast.Node, tag string, opts Options) (Reply, error) {
	return s.reply, s.err
}

func parseOne(t *testing.T, f *ast.Factory, src string) ast.Node {
	t.Helper()
	n, errs := parser.Parse(f, nil, src, "test")
	require.Empty(t, errs)
	return n
}

func TestProveReportsProvedOnUnsat(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "Balance(Account1)")

	p := New(fakeAxioms{}, stubBridge{reply: Reply{Kind: Unsat}}, "QF_LIA", nil, f)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, coordinator.ResourceLimits{TimeMS: 1000})
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

func TestProveReportsDisprovedOnSat(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "Balance(Account1)")

	p := New(fakeAxioms{}, stubBridge{reply: Reply{Kind: Sat}}, "QF_LIA", nil, f)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, coordinator.ResourceLimits{})
	require.NoError(t, err)
	require.Equal(t, proof.Disproved, result.Status.Code)
}

func TestProveReportsUnknownOnBridgeUnknown(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseOne(t, f, "Balance(Account1)")

	p := New(fakeAxioms{}, NullBridge{}, "QF_LIA", nil, f)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, coordinator.ResourceLimits{})
	require.NoError(t, err)
	require.True(t, result.Inconclusive())
}

// A goal of the canonical falsum constant asks whether the visible
// axioms are unsatisfiable on their own: an Unsat reply here means the
// axioms themselves are inconsistent, not that they entail the goal.
func TestProveReportsContradictionOnUnsatForFalsumGoal(t *testing.T) {
	f := ast.NewFactory(0)

	p := New(fakeAxioms{}, stubBridge{reply: Reply{Kind: Unsat}}, "QF_LIA", nil, f)
	result, err := p.Prove(context.Background(), f.Falsum(), []string{"root"}, coordinator.ResourceLimits{TimeMS: 1000})
	require.NoError(t, err)
	require.Equal(t, proof.Contradiction, result.Status.Code)
}

func TestProveReportsUnknownOnSatForFalsumGoal(t *testing.T) {
	f := ast.NewFactory(0)

	p := New(fakeAxioms{}, stubBridge{reply: Reply{Kind: Sat}}, "QF_LIA", nil, f)
	result, err := p.Prove(context.Background(), f.Falsum(), []string{"root"}, coordinator.ResourceLimits{})
	require.NoError(t, err)
	require.Equal(t, proof.Unknown, result.Status.Code)
}

func TestEngineReportsBridge(t *testing.T) {
	f := ast.NewFactory(0)
	p := New(fakeAxioms{}, NullBridge{}, "QF_LIA", nil, f)
	require.Equal(t, proof.EngineBridge, p.Engine())
}
