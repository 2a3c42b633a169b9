package tableau

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// Labelled is a tableau formula w:φ.
type Labelled struct {
	World   int
	Formula ast.Node
}

// Branch is one path of the tableau search: a partial model candidate
// made of per-world formula sets plus the accessibility graph R built
// so far. queue holds formulas not yet decomposed; pendingBeta and
// pendingExistential hold obligations whose resolution is deferred
// until the branch has been fully alpha/box-saturated, matching the
// standard rule-priority discipline (always prefer a non-branching
// rule over a branching or world-creating one).
type Branch struct {
	formulas           map[int]*set.Set[ast.Node]
	queue              []Labelled
	universals         []Labelled // recorded box-like obligations, reapplied as R grows
	pendingBeta        []Labelled
	pendingExistential []Labelled
	r                  *Relation
}

func newBranch(system System) *Branch {
	return &Branch{formulas: make(map[int]*set.Set[ast.Node]), r: NewRelation(system)}
}

// assert adds l to its world's formula set, returning false if it was
// already present (the standard idempotent-insert that keeps
// saturation from looping on formulas already handled).
func (br *Branch) assert(l Labelled) bool {
	s := br.formulas[l.World]
	if s == nil {
		s = set.New[ast.Node](8)
		br.formulas[l.World] = s
	}
	if s.Contains(l.Formula) {
		return false
	}
	s.Insert(l.Formula)
	return true
}

// closedAt reports whether world's formula set contains both some φ
// and ¬φ, the tableau closure condition (spec §4.9).
func (br *Branch) closedAt(world int) (ast.Node, ast.Node, bool) {
	s := br.formulas[world]
	if s == nil {
		return nil, nil, false
	}
	items := s.Slice()
	for _, a := range items {
		for _, b := range items {
			if isNegationOf(b, a) {
				return a, b, true
			}
		}
	}
	return nil, nil, false
}

// hasWitness reports whether some existing world's current formula
// set already contains prop, the world-subsumption test this package
// uses for S4/S5 loop blocking (see DESIGN.md: a documented
// strengthening of spec §4.9's literal "identical label-set" wording
// into a subset check, which is still sound and simpler to maintain
// incrementally).
func (br *Branch) hasWitness(prop ast.Node) (int, bool) {
	for w, s := range br.formulas {
		if s.Contains(prop) {
			return w, true
		}
	}
	return 0, false
}

// clone deep-copies br for a beta-split child branch; sibling branches
// must never observe each other's mutations.
func (br *Branch) clone() *Branch {
	c := &Branch{
		formulas: make(map[int]*set.Set[ast.Node], len(br.formulas)),
		r:        br.r.Clone(),
	}
	for w, s := range br.formulas {
		c.formulas[w] = set.New[ast.Node](s.Size())
		for _, n := range s.Slice() {
			c.formulas[w].Insert(n)
		}
	}
	c.queue = append([]Labelled{}, br.queue...)
	c.universals = append([]Labelled{}, br.universals...)
	c.pendingBeta = append([]Labelled{}, br.pendingBeta...)
	c.pendingExistential = append([]Labelled{}, br.pendingExistential...)
	return c
}
