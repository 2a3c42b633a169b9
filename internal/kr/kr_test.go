package kr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/argue"
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/store"
	"github.com/kr-engine/godel/internal/kernelconfig"
)

func newTestKR(t *testing.T) *KR {
	t.Helper()
	return New(kernelconfig.Default(), nil)
}

func mustParse(t *testing.T, k *KR, src string) ast.Node {
	t.Helper()
	n, errs := k.Parse(src, "test")
	require.Empty(t, errs)
	return n
}

func TestParseThenAddThenSubmitGoalProvesAddedFact(t *testing.T) {
	k := newTestKR(t)

	stmt := mustParse(t, k, "Raining")
	ok, err := k.Add(stmt, k.Store.RootID(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	goal := mustParse(t, k, "Raining")

	result, err := k.SubmitGoal(context.Background(), goal, []string{k.Store.RootID()}, nil)
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

func TestCreateAndDeleteContextRoundTrips(t *testing.T) {
	k := newTestKR(t)
	id, err := k.CreateContext("scratch", k.Store.RootID(), store.Hypothetical)
	require.NoError(t, err)
	require.NoError(t, k.DeleteContext(id))
}

func TestJustifiedBeliefsDelegatesToArgue(t *testing.T) {
	k := newTestKR(t)
	bird := mustParse(t, k, "Bird(Tweety)")
	rule := mustParse(t, k, "forall ?x. Bird(?x) implies Flies(?x)")

	out := k.JustifiedBeliefs([]ast.Node{bird}, []ast.Node{rule}, argue.Grounded, nil)
	require.NotEmpty(t, out)
}

func TestReviseRoundTripsThroughCoordinatorEntailmentChecker(t *testing.T) {
	k := newTestKR(t)
	fact := mustParse(t, k, "Raining")

	revised, err := k.Revise(context.Background(), []ast.Node{fact}, fact, func(ast.Node) int { return 0 }, coordinator.ResourceLimits{TimeMS: 1000})
	require.NoError(t, err)
	require.NotEmpty(t, revised)
}

func TestContractReportsOutcomeThroughCoordinatorEntailmentChecker(t *testing.T) {
	k := newTestKR(t)
	fact := mustParse(t, k, "Raining")
	other := mustParse(t, k, "Snowing")

	remaining, outcome, err := k.Contract(context.Background(), []ast.Node{fact, other}, fact, func(ast.Node) int { return 0 }, coordinator.ResourceLimits{TimeMS: 1000})
	require.NoError(t, err)
	require.Equal(t, argue.Contracted, outcome)
	require.NotContains(t, remaining, fact)
}
