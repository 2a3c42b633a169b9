// Package tableau implements the Modal Tableau Prover (C9): labelled
// formulas w:φ over an accessibility graph R, expanded by alpha/beta/
// modal rules until every branch closes (valid) or one branch
// saturates open (invalid, with a countermodel).
package tableau

import "github.com/hashicorp/go-set/v3"

// System names one of the six frame conditions spec §4.9 supports.
type System int

const (
	K System = iota
	T
	D
	B
	S4
	S5
)

func (s System) String() string {
	return [...]string{"K", "T", "D", "B", "S4", "S5"}[s]
}

// Edge is one accessibility pair added to a Relation, reported so
// callers can re-trigger any box-like obligation recorded at its
// source world against its (possibly newly reachable) target.
type Edge struct{ From, To int }

// Relation is the accessibility graph R, closed under the frame
// conditions System imposes as edges are added: T/B/S4/S5 reflexivity
// is applied when a world is introduced; B/S5 symmetry and S4/S5
// transitivity are applied as a fixpoint whenever an edge is added, so
// the graph is always fully closed at any point the search inspects it.
type Relation struct {
	system System
	edges  map[int]*set.Set[int]
}

// NewRelation starts an empty accessibility graph under system.
func NewRelation(system System) *Relation {
	return &Relation{system: system, edges: make(map[int]*set.Set[int])}
}

func (r *Relation) insert(w, wp int) bool {
	if r.edges[w] == nil {
		r.edges[w] = set.New[int](4)
	}
	if r.edges[w].Contains(wp) {
		return false
	}
	r.edges[w].Insert(wp)
	return true
}

// Introduce registers a freshly created world, adding the self-loop
// reflexivity requires for T/B/S4/S5 (spec §4.9: "For T: add w R w
// when w is introduced"; B/S4/S5 are reflexive too).
func (r *Relation) Introduce(w int) []Edge {
	if r.system == T || r.system == B || r.system == S4 || r.system == S5 {
		return r.AddEdge(w, w)
	}
	if r.edges[w] == nil {
		r.edges[w] = set.New[int](4)
	}
	return nil
}

// AddEdge asserts w R wp and closes the graph under System's frame
// conditions, returning every edge newly added (including closure
// consequences) so the caller can re-trigger box obligations against
// each.
func (r *Relation) AddEdge(w, wp int) []Edge {
	var added []Edge
	if r.insert(w, wp) {
		added = append(added, Edge{w, wp})
	}
	if r.system == B || r.system == S5 {
		if r.insert(wp, w) {
			added = append(added, Edge{wp, w})
		}
	}
	if r.system == S4 || r.system == S5 {
		changed := true
		for changed {
			changed = false
			for u, succs := range r.edges {
				for _, x := range succs.Slice() {
					if r.edges[x] == nil {
						continue
					}
					for _, y := range r.edges[x].Slice() {
						if r.insert(u, y) {
							added = append(added, Edge{u, y})
							changed = true
						}
					}
				}
			}
		}
	}
	return added
}

// Successors lists every world directly (post-closure) accessible
// from w.
func (r *Relation) Successors(w int) []int {
	if r.edges[w] == nil {
		return nil
	}
	return r.edges[w].Slice()
}

// EnsureSerial guarantees w has at least one successor, as system D
// requires, adding a self-loop if none exists yet. Which successor
// witnesses seriality is unconstrained by the axiom; a self-loop is
// the simplest sound witness.
func (r *Relation) EnsureSerial(w int) []Edge {
	if r.system != D {
		return nil
	}
	if r.edges[w] != nil && r.edges[w].Size() > 0 {
		return nil
	}
	return r.AddEdge(w, w)
}

// Clone deep-copies the relation for a beta-split branch.
func (r *Relation) Clone() *Relation {
	c := &Relation{system: r.system, edges: make(map[int]*set.Set[int], len(r.edges))}
	for w, succs := range r.edges {
		c.edges[w] = set.New[int](succs.Size())
		for _, s := range succs.Slice() {
			c.edges[w].Insert(s)
		}
	}
	return c
}
