package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
)

func TestUnifyFirstOrderSolvesVariable(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	x := f.NewVariable("x", indiv, ast.Metadata{})
	socrates := f.NewConstant("Socrates", nil, indiv, ast.Metadata{})

	sub, err := Unify(f, f.NewVariableUse(x), socrates)
	require.NoError(t, err)
	require.Equal(t, socrates.Hash(), sub[x.VarID].Hash())
}

func TestUnifyFirstOrderDecomposesApplication(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	boolT := types.Boolean
	pred := f.NewConstant("Loves", nil, &types.Function{Args: []types.Type{indiv, indiv}, Ret: boolT}, ast.Metadata{})

	x := f.NewVariable("x", indiv, ast.Metadata{})
	y := f.NewVariable("y", indiv, ast.Metadata{})
	romeo := f.NewConstant("Romeo", nil, indiv, ast.Metadata{})
	juliet := f.NewConstant("Juliet", nil, indiv, ast.Metadata{})

	lhs := f.NewApplication(pred, []ast.Node{f.NewVariableUse(x), f.NewVariableUse(y)}, boolT, ast.Metadata{})
	rhs := f.NewApplication(pred, []ast.Node{romeo, juliet}, boolT, ast.Metadata{})

	sub, err := Unify(f, lhs, rhs)
	require.NoError(t, err)
	require.Equal(t, romeo.Hash(), sub[x.VarID].Hash())
	require.Equal(t, juliet.Hash(), sub[y.VarID].Hash())
}

func TestUnifyFirstOrderOccursCheckFails(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	x := f.NewVariable("x", indiv, ast.Metadata{})
	succ := f.NewConstant("Succ", nil, &types.Function{Args: []types.Type{indiv}, Ret: indiv}, ast.Metadata{})
	sx := f.NewApplication(succ, []ast.Node{f.NewVariableUse(x)}, indiv, ast.Metadata{})

	_, err := Unify(f, f.NewVariableUse(x), sx)
	require.Error(t, err)
	var uerr *Error
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, ErrOccursCheck, uerr.Kind)
}

func TestUnifyFirstOrderSymbolClash(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	a := f.NewConstant("A", nil, indiv, ast.Metadata{})
	b := f.NewConstant("B", nil, indiv, ast.Metadata{})

	_, err := Unify(f, a, b)
	require.Error(t, err)
}

func TestIsPatternAcceptsDistinctBoundVariables(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	boolT := types.Boolean
	flex := f.NewVariable("F", &types.Function{Args: []types.Type{indiv, indiv}, Ret: boolT}, ast.Metadata{})
	x := f.NewVariable("x", indiv, ast.Metadata{})
	y := f.NewVariable("y", indiv, ast.Metadata{})

	app := f.NewApplication(f.NewVariableUse(flex), []ast.Node{f.NewVariableUse(x), f.NewVariableUse(y)}, boolT, ast.Metadata{})
	head, ids, ok := IsPattern(app)
	require.True(t, ok)
	require.Equal(t, flex.VarID, head.VarID)
	require.Equal(t, []uint64{x.VarID, y.VarID}, ids)
}

func TestIsPatternRejectsRepeatedArgument(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	boolT := types.Boolean
	flex := f.NewVariable("F", &types.Function{Args: []types.Type{indiv, indiv}, Ret: boolT}, ast.Metadata{})
	x := f.NewVariable("x", indiv, ast.Metadata{})

	app := f.NewApplication(f.NewVariableUse(flex), []ast.Node{f.NewVariableUse(x), f.NewVariableUse(x)}, boolT, ast.Metadata{})
	_, _, ok := IsPattern(app)
	require.False(t, ok)
}

func TestUnifyHigherOrderSolvesPatternFlexRigid(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	boolT := types.Boolean

	flex := f.NewVariable("F", &types.Function{Args: []types.Type{indiv}, Ret: boolT}, ast.Metadata{})
	x := f.NewVariable("x", indiv, ast.Metadata{})
	lhs := f.NewApplication(f.NewVariableUse(flex), []ast.Node{f.NewVariableUse(x)}, boolT, ast.Metadata{})

	mortal := f.NewConstant("Mortal", nil, &types.Function{Args: []types.Type{indiv}, Ret: boolT}, ast.Metadata{})
	rhs := f.NewApplication(mortal, []ast.Node{f.NewVariableUse(x)}, boolT, ast.Metadata{})

	sub, prob, err := UnifyHigherOrder(f, lhs, rhs)
	require.NoError(t, err)
	require.Empty(t, prob.Residual)

	solved, ok := sub[flex.VarID]
	require.True(t, ok)
	lam, ok := solved.(*ast.Lambda)
	require.True(t, ok)
	require.Equal(t, rhs.Hash(), lam.Body.Hash())
}

func TestUnifyHigherOrderDefersNonPatternFlexFlex(t *testing.T) {
	f := ast.NewFactory(0)
	indiv := types.Individual
	boolT := types.Boolean

	fn := &types.Function{Args: []types.Type{indiv, indiv}, Ret: boolT}
	flexF := f.NewVariable("F", fn, ast.Metadata{})
	flexG := f.NewVariable("G", fn, ast.Metadata{})
	x := f.NewVariable("x", indiv, ast.Metadata{})

	// F(x, x) is not a pattern (repeated argument), so F(x,x) =? G(x,x)
	// cannot be solved directly and must be deferred.
	lhs := f.NewApplication(f.NewVariableUse(flexF), []ast.Node{f.NewVariableUse(x), f.NewVariableUse(x)}, boolT, ast.Metadata{})
	rhs := f.NewApplication(f.NewVariableUse(flexG), []ast.Node{f.NewVariableUse(x), f.NewVariableUse(x)}, boolT, ast.Metadata{})

	_, prob, err := UnifyHigherOrder(f, lhs, rhs)
	require.NoError(t, err)
	require.Len(t, prob.Residual, 1)
}
