package argue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/parser"
)

func parseOne(t *testing.T, f *ast.Factory, src string) ast.Node {
	t.Helper()
	n, errs := parser.Parse(f, nil, src, "test")
	require.Empty(t, errs)
	return n
}

func hasConclusion(t *testing.T, nodes []ast.Node, f *ast.Factory, src string) bool {
	t.Helper()
	target := parseOne(t, f, src)
	for _, n := range nodes {
		if n.Hash() == target.Hash() {
			return true
		}
	}
	return false
}

// Spec's own example #5: Tweety is a bird and a penguin; birds
// defeasibly fly, but penguins strictly don't. Grounded semantics must
// justify ¬Flies(Tweety) and must not justify Flies(Tweety).
func TestJustifiedBeliefsPenguinDefeatsDefaultFlight(t *testing.T) {
	f := ast.NewFactory(0)
	strict := []ast.Node{
		parseOne(t, f, "Penguin(Tweety)"),
		parseOne(t, f, "Bird(Tweety)"),
		parseOne(t, f, "forall ?x:Individual. Penguin(?x) ⇒ not Flies(?x)"),
	}
	defeasible := []ast.Node{
		parseOne(t, f, "forall ?x:Individual. Bird(?x) ⇒ Flies(?x)"),
	}

	result := JustifiedBeliefs(f, strict, defeasible, Grounded, nil)

	require.True(t, hasConclusion(t, result, f, "not Flies(Tweety)"))
	require.False(t, hasConclusion(t, result, f, "Flies(Tweety)"))
}

// With no penguin fact, the defeasible bird rule is unopposed and its
// conclusion is justified.
func TestJustifiedBeliefsUnopposedDefeasibleRuleIsAccepted(t *testing.T) {
	f := ast.NewFactory(0)
	strict := []ast.Node{parseOne(t, f, "Bird(Tweety)")}
	defeasible := []ast.Node{
		parseOne(t, f, "forall ?x:Individual. Bird(?x) ⇒ Flies(?x)"),
	}

	result := JustifiedBeliefs(f, strict, defeasible, Grounded, nil)
	require.True(t, hasConclusion(t, result, f, "Flies(Tweety)"))
}

// fakeChecker reports phi as entailed when its hash is marked true in
// entailed. With fromPremises set, phi is entailed only while phi itself
// is still among the premises, so the empty premise set entails nothing.
type fakeChecker struct {
	entailed     map[string]bool
	fromPremises bool
}

func (c fakeChecker) Entails(ctx context.Context, premises []ast.Node, phi ast.Node, limits coordinator.ResourceLimits) (bool, error) {
	if !c.entailed[phi.Hash()] {
		return false, nil
	}
	if !c.fromPremises {
		return true, nil
	}
	for _, p := range premises {
		if p.Hash() == phi.Hash() {
			return true, nil
		}
	}
	return false, nil
}

func TestContractRemovesLeastEntrenchedFormulaFirst(t *testing.T) {
	f := ast.NewFactory(0)
	a := parseOne(t, f, "Raining")
	b := parseOne(t, f, "Wet")
	goal := parseOne(t, f, "Wet")

	checker := fakeChecker{entailed: map[string]bool{goal.Hash(): true}, fromPremises: true}
	entrenchment := func(n ast.Node) int {
		if n.Hash() == b.Hash() {
			return 0 // least entrenched, removed first
		}
		return 1
	}

	result, outcome, err := Contract(context.Background(), checker, []ast.Node{a, b}, goal, entrenchment, coordinator.ResourceLimits{})
	require.NoError(t, err)
	require.Equal(t, Contracted, outcome)
	require.NotContains(t, hashes(result), b.Hash())
}

func TestContractReportsTautologicalContraction(t *testing.T) {
	f := ast.NewFactory(0)
	a := parseOne(t, f, "Raining")
	goal := parseOne(t, f, "Raining or not Raining")

	checker := fakeChecker{entailed: map[string]bool{goal.Hash(): true}}
	result, outcome, err := Contract(context.Background(), checker, []ast.Node{a}, goal, func(ast.Node) int { return 0 }, coordinator.ResourceLimits{})
	require.NoError(t, err)
	require.Equal(t, TautologicalContraction, outcome)
	require.Equal(t, []ast.Node{a}, result)
}

func TestReviseExpandsAfterContractingTheNegation(t *testing.T) {
	f := ast.NewFactory(0)
	a := parseOne(t, f, "Raining")
	phi := parseOne(t, f, "Sunny")
	negPhi := parseOne(t, f, "not Sunny")

	checker := fakeChecker{entailed: map[string]bool{negPhi.Hash(): false}}
	result, err := Revise(context.Background(), f, checker, []ast.Node{a}, phi, func(ast.Node) int { return 0 }, coordinator.ResourceLimits{})
	require.NoError(t, err)
	require.True(t, hasConclusion(t, result, f, "Raining"))
	require.True(t, hasConclusion(t, result, f, "Sunny"))
}

func hashes(nodes []ast.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Hash()
	}
	return out
}
