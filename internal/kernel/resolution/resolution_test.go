package resolution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/types"
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
	return coordinator.ResourceLimits{TimeMS: 5000, Depth: 32, Nodes: 10000}
}

func TestProveDerivesGroundFactByModusPonens(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Human(Socrates)")
	axiom2 := parseOne(t, f, "forall ?x:Individual. Human(?x) ⇒ Mortal(?x)")
	goal := parseOne(t, f, "Mortal(Socrates)")

	p := New(fakeAxioms{statements: []ast.Node{axiom1, axiom2}}, f)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
	require.NotEmpty(t, result.Steps)
}

func TestProveReportsUnknownWhenGoalDoesNotFollow(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Human(Socrates)")
	goal := parseOne(t, f, "Mortal(Socrates)")

	p := New(fakeAxioms{statements: []ast.Node{axiom1}}, f)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.True(t, result.Inconclusive())
}

func TestProveReportsResourceExhaustedOnTinyDepthBudget(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Human(Socrates)")
	axiom2 := parseOne(t, f, "forall ?x:Individual. Human(?x) ⇒ Mortal(?x)")
	goal := parseOne(t, f, "Mortal(Socrates)")

	p := New(fakeAxioms{statements: []ast.Node{axiom1, axiom2}}, f)
	tight := coordinator.ResourceLimits{TimeMS: 5000, Depth: 32, Nodes: 1}
	result, err := p.Prove(context.Background(), goal, []string{"root"}, tight)
	require.NoError(t, err)
	require.True(t, result.Status.Code == proof.Proved || result.Status.Code == proof.ResourceExhausted)
}

func TestEngineReportsResolution(t *testing.T) {
	f := ast.NewFactory(0)
	p := New(fakeAxioms{}, f)
	require.Equal(t, proof.EngineResolution, p.Engine())
}

// TestProveReportsContradictionForInconsistentAxioms exercises {P(a),
// ¬P(?x) ∨ Q(?x), ¬Q(a)}: the set is inconsistent on its own, with no
// goal clause involved, so only a consistency check (goal = Falsum)
// can surface it.
func TestProveReportsContradictionForInconsistentAxioms(t *testing.T) {
	f := ast.NewFactory(0)
	pa := parseOne(t, f, "P(a)")
	rule := parseOne(t, f, "forall ?x:Individual. P(?x) ⇒ Q(?x)")
	notQa := parseOne(t, f, "¬Q(a)")

	p := New(fakeAxioms{statements: []ast.Node{pa, rule, notQa}}, f)
	result, err := p.Prove(context.Background(), f.Falsum(), []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Contradiction, result.Status.Code)

	resolutionSteps := 0
	for _, step := range result.Steps {
		if step.Rule == "resolution" {
			resolutionSteps++
		}
	}
	require.Equal(t, 2, resolutionSteps)
}

func TestProveReportsUnknownForConsistentAxioms(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Human(Socrates)")

	p := New(fakeAxioms{statements: []ast.Node{axiom1}}, f)
	result, err := p.Prove(context.Background(), f.Falsum(), []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Unknown, result.Status.Code)
}

// TestProveReturnsAnswerBindingsForOpenGoal covers §4.6/§8 scenario 1's
// answer substitution: a goal with a free variable must come back
// Proved with bindings witnessing it, not nil. The free variable has
// no enclosing quantifier, so it cannot be spelled in the surface
// grammar (which rejects unbound ?-variables) and is built directly.
func TestProveReturnsAnswerBindingsForOpenGoal(t *testing.T) {
	f := ast.NewFactory(0)
	axiom1 := parseOne(t, f, "Man(Socrates)")
	axiom2 := parseOne(t, f, "forall ?x:Individual. Man(?x) ⇒ Mortal(?x)")

	x := f.NewVariable("x", types.Individual, ast.Metadata{})
	mortal := f.NewConstant("Mortal", nil, &types.Function{Args: []types.Type{types.Individual}, Ret: types.Boolean}, ast.Metadata{})
	goal := f.NewApplication(mortal, []ast.Node{f.NewVariableUse(x)}, types.Boolean, ast.Metadata{})

	p := New(fakeAxioms{statements: []ast.Node{axiom1, axiom2}}, f)
	result, err := p.Prove(context.Background(), goal, []string{"root"}, defaultLimits())
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
	require.NotNil(t, result.Bindings)

	socrates := parseOne(t, f, "Socrates")
	bound, ok := result.Bindings[x]
	require.True(t, ok)
	require.Equal(t, socrates.Hash(), bound.Hash())
}
