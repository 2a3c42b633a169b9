package proof

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/parser"
)

func parseNode(t *testing.T, f *ast.Factory, src string) ast.Node {
	t.Helper()
	n, errs := parser.Parse(f, nil, src, "test")
	require.Empty(t, errs)
	return n
}

func TestBuilderModusPonensProducesValidProof(t *testing.T) {
	f := ast.NewFactory(0)
	manSocrates := parseNode(t, f, "Man(Socrates)")
	rule := parseNode(t, f, "forall ?x:Individual. Man(?x) implies Mortal(?x)")
	goal := parseNode(t, f, "Mortal(Socrates)")

	b := NewBuilder(EngineResolution)
	fact := b.Axiom(manSocrates)
	ruleAxiom := b.Axiom(rule)
	instantiated := parseNode(t, f, "Man(Socrates) implies Mortal(Socrates)")
	inst, err := b.Step("rule-instantiation", []int{ruleAxiom}, instantiated)
	require.NoError(t, err)
	final, err := b.Step("modus-ponens", []int{fact, inst}, goal)
	require.NoError(t, err)
	require.Equal(t, 3, final)

	socrates := parseNode(t, f, "Socrates")
	var x *ast.Variable
	for _, v := range ast.FreeVariables(parseNode(t, f, "Mortal(?x)")) {
		x = v
	}
	p, err := b.Proved(goal, Bindings{x: socrates}, 4, map[string]int64{"nodes": 6})
	require.NoError(t, err)
	require.True(t, p.GoalAchieved)
	require.Equal(t, Proved, p.Status.Code)
	require.Len(t, p.Steps, 4)
	require.Equal(t, 2, p.UsedAxioms.Size())
	require.NoError(t, p.Validate())
}

func TestBuilderStepRejectsForwardPremise(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseNode(t, f, "Mortal(Socrates)")
	b := NewBuilder(EngineResolution)
	_, err := b.Step("modus-ponens", []int{0}, goal)
	require.Error(t, err)
}

func TestProvedRequiresMatchingFinalConclusion(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseNode(t, f, "Mortal(Socrates)")
	other := parseNode(t, f, "Mortal(Plato)")
	b := NewBuilder(EngineResolution)
	b.Axiom(other)
	_, err := b.Proved(goal, nil, 1, nil)
	require.Error(t, err)
}

func TestResourceExhaustedCarriesDimension(t *testing.T) {
	b := NewBuilder(EngineTableau)
	p := b.ResourceExhausted(DimensionDepth, 1000, map[string]int64{"nodes": 42})
	require.Equal(t, ResourceExhausted, p.Status.Code)
	require.Equal(t, DimensionDepth, p.Status.Dimension)
	require.Equal(t, "ResourceExhausted{Depth}", p.Status.String())
	require.True(t, p.Inconclusive())
}

func TestUnknownAndStrategyFailedAreInconclusive(t *testing.T) {
	require.True(t, NewBuilder(EngineResolution).Unknown(nil).Inconclusive())
	require.True(t, NewBuilder(EngineResolution).StrategyFailed(nil).Inconclusive())
}
