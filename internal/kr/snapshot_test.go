package kr

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/store"
	"github.com/kr-engine/godel/internal/kernel/types"
	"github.com/kr-engine/godel/internal/kernelconfig"
)

func TestWriteSnapshotThenRestoreRoundTripsProvability(t *testing.T) {
	k := newTestKR(t)
	root := k.Store.RootID()

	fact := mustParse(t, k, "Bird(Tweety)")
	rule := mustParse(t, k, "forall ?x. Bird(?x) implies Flies(?x)")
	_, err := k.Add(fact, root, nil)
	require.NoError(t, err)
	_, err = k.Add(rule, root, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, k.WriteSnapshot(&buf))

	restored, err := RestoreSnapshot(kernelconfig.Default(), nil, &buf)
	require.NoError(t, err)

	goal := mustParse(t, restored, "Flies(Tweety)")
	result, err := restored.SubmitGoal(context.Background(), goal, []string{restored.Store.RootID()}, nil)
	require.NoError(t, err)
	require.Equal(t, proof.Proved, result.Status.Code)
}

func TestWriteSnapshotPreservesNestedContexts(t *testing.T) {
	k := newTestKR(t)
	childID, err := k.CreateContext("scratch", k.Store.RootID(), store.Hypothetical)
	require.NoError(t, err)

	snowing := mustParse(t, k, "Snowing")
	_, err = k.Add(snowing, childID, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, k.WriteSnapshot(&buf))

	restored, err := RestoreSnapshot(kernelconfig.Default(), nil, &buf)
	require.NoError(t, err)

	contexts := restored.Store.Contexts()
	require.Len(t, contexts, 2)
	require.Equal(t, "scratch", contexts[1].Name)

	goal := mustParse(t, restored, "Snowing")
	ok, err := restored.Store.Exists(goal, []string{contexts[1].ID})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRestoreSnapshotRejectsBadMagic(t *testing.T) {
	_, err := RestoreSnapshot(kernelconfig.Default(), nil, bytes.NewReader([]byte("NOPE1")))
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestRestoreSnapshotRejectsBadVersion(t *testing.T) {
	bad := append([]byte{}, magic[:]...)
	bad = append(bad, 0xFF)
	_, err := RestoreSnapshot(kernelconfig.Default(), nil, bytes.NewReader(bad))
	require.ErrorIs(t, err, ErrBadVersion)
}

func TestEncodeDecodeTypePreservesFunctionShape(t *testing.T) {
	k := newTestKR(t)
	n := mustParse(t, k, "Bird(Tweety)")
	app, ok := n.(*ast.Application)
	require.True(t, ok)
	fnType := app.Operator.Type()

	d := encodeType(fnType)
	back := decodeType(d)
	require.True(t, fnType.Equals(back))
}

func TestEncodeTypeProducesExpectedStructuralShape(t *testing.T) {
	fn := &types.Function{
		Args: []types.Type{&types.Atomic{Name: "Individual"}},
		Ret:  types.Boolean,
	}
	want := typeDesc{
		Kind: "function",
		Args: []typeDesc{{Kind: "atomic", Name: "Individual"}},
		Ret:  &typeDesc{Kind: "atomic", Name: "Boolean"},
	}
	if diff := cmp.Diff(want, encodeType(fn)); diff != "" {
		t.Errorf("encodeType shape mismatch (-want +got):\n%s", diff)
	}
}
