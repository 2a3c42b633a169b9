package coordinator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernelconfig"
	"github.com/kr-engine/godel/internal/parser"
)

type fakeContexts struct{ known map[string]bool }

func (f fakeContexts) HasContext(id string) bool { return f.known[id] }

type fakeStrategy struct {
	engine proof.Engine
	result *proof.Proof
	err    error
	calls  *int
}

func (f fakeStrategy) Engine() proof.Engine { return f.engine }

func (f fakeStrategy) Prove(ctx context.Context, goal ast.Node, contexts []string, limits ResourceLimits) (*proof.Proof, error) {
	if f.calls != nil {
		*f.calls++
	}
	return f.result, f.err
}

func parseGoal(t *testing.T, f *ast.Factory, src string) ast.Node {
	t.Helper()
	n, errs := parser.Parse(f, nil, src, "test")
	require.Empty(t, errs)
	return n
}

func TestSubmitGoalRejectsUnknownContext(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseGoal(t, f, "Mortal(Socrates)")
	c := New(fakeContexts{known: map[string]bool{}}, kernelconfig.Default(), nil)

	_, err := c.SubmitGoal(context.Background(), goal, []string{"missing"}, nil)
	require.Error(t, err)
}

func TestSubmitGoalFallsBackOnUnknown(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseGoal(t, f, "Mortal(Socrates)")
	c := New(fakeContexts{known: map[string]bool{"root": true}}, kernelconfig.Default(), nil)

	unknown := proof.NewBuilder(proof.EngineResolution).Unknown(nil)
	proved, err := proof.NewBuilder(proof.EngineTableau).Proved(goal, nil, 1, nil)
	require.NoError(t, err)

	c.Register(fakeStrategy{engine: proof.EngineResolution, result: unknown})
	c.Register(fakeStrategy{engine: proof.EngineTableau, result: proved})

	result, err := c.SubmitGoal(context.Background(), goal, []string{"root"}, &Hints{
		Order: []proof.Engine{proof.EngineResolution, proof.EngineTableau},
	})
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

func TestSubmitGoalHintOverridesEngineOrder(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseGoal(t, f, "Mortal(Socrates)")
	c := New(fakeContexts{known: map[string]bool{"root": true}}, kernelconfig.Default(), nil)

	proved, err := proof.NewBuilder(proof.EngineTableau).Proved(goal, nil, 1, nil)
	require.NoError(t, err)
	c.Register(fakeStrategy{engine: proof.EngineTableau, result: proved})

	preferred := proof.EngineTableau
	result, err := c.SubmitGoal(context.Background(), goal, []string{"root"}, &Hints{Engine: &preferred})
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

func TestSubmitGoalReportsStrategyFailedWhenNothingRegistered(t *testing.T) {
	f := ast.NewFactory(0)
	goal := parseGoal(t, f, "Mortal(Socrates)")
	c := New(fakeContexts{known: map[string]bool{"root": true}}, kernelconfig.Default(), nil)

	result, err := c.SubmitGoal(context.Background(), goal, []string{"root"}, nil)
	require.NoError(t, err)
	require.Equal(t, proof.StrategyFailed, result.Status.Code)
}
