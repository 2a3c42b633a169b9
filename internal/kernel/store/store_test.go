package store

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

func TestStoreAddAndQueryGroundFact(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()
	stmt := parseNode(t, f, "Mortal(Socrates)")

	ok, err := s.Add(f, stmt, s.RootID(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	pattern := parseNode(t, f, "Mortal(?x)")
	it, err := s.Query(f, pattern, []string{s.RootID()}, nil)
	require.NoError(t, err)

	b, ok := it.Next()
	require.True(t, ok)
	require.Len(t, b, 1)
	for _, v := range b {
		require.Equal(t, "Socrates", v.(*ast.Constant).Name)
	}

	_, ok = it.Next()
	require.False(t, ok)
}

func TestStoreExistsGroundFact(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()
	stmt := parseNode(t, f, "Mortal(Socrates)")
	_, err := s.Add(f, stmt, s.RootID(), nil)
	require.NoError(t, err)

	present, err := s.Exists(stmt, []string{s.RootID()})
	require.NoError(t, err)
	require.True(t, present)

	other := parseNode(t, f, "Mortal(Plato)")
	present, err = s.Exists(other, []string{s.RootID()})
	require.NoError(t, err)
	require.False(t, present)
}

func TestStoreContextForkIsolatesRetraction(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()
	stmt := parseNode(t, f, "Mortal(Socrates)")
	_, err := s.Add(f, stmt, s.RootID(), nil)
	require.NoError(t, err)

	childID, err := s.CreateContext("scratch", s.RootID(), Hypothetical)
	require.NoError(t, err)

	pattern := parseNode(t, f, "Mortal(?x)")
	n, err := s.Retract(pattern, childID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	stillInRoot, err := s.Exists(stmt, []string{s.RootID()})
	require.NoError(t, err)
	require.True(t, stillInRoot)

	goneInChild, err := s.Exists(stmt, []string{childID})
	require.NoError(t, err)
	require.False(t, goneInChild)
}

func TestStoreRuleShallowLookupDerivesFact(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()

	rule := parseNode(t, f, "forall ?x:Individual. Human(?x) implies Mortal(?x)")
	_, err := s.Add(f, rule, s.RootID(), nil)
	require.NoError(t, err)

	fact := parseNode(t, f, "Human(Socrates)")
	_, err = s.Add(f, fact, s.RootID(), nil)
	require.NoError(t, err)

	pattern := parseNode(t, f, "Mortal(?x)")
	it, err := s.Query(f, pattern, []string{s.RootID()}, nil)
	require.NoError(t, err)

	b, ok := it.Next()
	require.True(t, ok)
	require.Len(t, b, 1)
}

func TestStoreUnknownContextReportsError(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()
	stmt := parseNode(t, f, "Mortal(Socrates)")
	_, err := s.Add(f, stmt, "not-a-real-context", nil)
	require.Error(t, err)
}

func TestStoreDeleteContextCascades(t *testing.T) {
	s := New()
	mid, err := s.CreateContext("mid", s.RootID(), Custom)
	require.NoError(t, err)
	leaf, err := s.CreateContext("leaf", mid, Custom)
	require.NoError(t, err)

	require.NoError(t, s.DeleteContext(mid))

	_, err = s.lookup(leaf)
	require.Error(t, err)
	_, err = s.lookup(mid)
	require.Error(t, err)
}

func TestStoreFrozenContextRejectsAdd(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()
	require.NoError(t, s.Freeze(s.RootID()))

	stmt := parseNode(t, f, "Mortal(Socrates)")
	_, err := s.Add(f, stmt, s.RootID(), nil)
	require.Error(t, err)
}

func TestStoreConsistentOnlyRejectsShallowContradiction(t *testing.T) {
	f := ast.NewFactory(0)
	s := New()
	require.NoError(t, s.SetConsistentOnly(s.RootID(), true))

	stmt := parseNode(t, f, "Mortal(Socrates)")
	ok, err := s.Add(f, stmt, s.RootID(), nil)
	require.NoError(t, err)
	require.True(t, ok)

	negation := parseNode(t, f, "not Mortal(Socrates)")
	ok, err = s.Add(f, negation, s.RootID(), nil)
	require.NoError(t, err)
	require.False(t, ok)
}
