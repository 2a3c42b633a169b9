package types

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"
)

// SubtypeDAG is an acyclic directed graph of atomic/instantiated type
// keys, child -> parent (subtype -> supertype). Reflexive/transitive
// closure is computed on demand by IsSubtype via graph reachability.
type SubtypeDAG struct {
	edges map[string]*set.Set[string] // subtype key -> immediate supertype keys
}

// NewSubtypeDAG creates an empty subtyping DAG.
func NewSubtypeDAG() *SubtypeDAG {
	return &SubtypeDAG{edges: make(map[string]*set.Set[string])}
}

func key(t Type) string { return t.String() }

// AddEdge records that `sub` is an immediate subtype of `super`.
// It performs an incremental cycle check: if `super` can already reach
// `sub`, adding this edge would close a cycle and is rejected.
func (d *SubtypeDAG) AddEdge(sub, super Type) error {
	subK, superK := key(sub), key(super)
	if subK == superK {
		return fmt.Errorf("cyclic subtype: %s cannot be its own supertype", subK)
	}
	if d.reaches(superK, subK) {
		return fmt.Errorf("cyclic subtype: adding %s <: %s would close a cycle", subK, superK)
	}
	if d.edges[subK] == nil {
		d.edges[subK] = set.New[string](2)
	}
	d.edges[subK].Insert(superK)
	if _, ok := d.edges[superK]; !ok {
		d.edges[superK] = set.New[string](2) // ensure node exists even with no outgoing edges
	}
	return nil
}

// reaches reports whether `from` can reach `to` via zero or more edges.
func (d *SubtypeDAG) reaches(from, to string) bool {
	if from == to {
		return true
	}
	visited := set.New[string](8)
	var dfs func(n string) bool
	dfs = func(n string) bool {
		if n == to {
			return true
		}
		if visited.Contains(n) {
			return false
		}
		visited.Insert(n)
		supers, ok := d.edges[n]
		if !ok {
			return false
		}
		for _, s := range supers.Slice() {
			if dfs(s) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}

// Edges returns every immediate subtype -> supertype key pair, for
// callers (snapshot/restore) that need to rebuild the DAG rather than
// only query it.
func (d *SubtypeDAG) Edges() map[string][]string {
	out := make(map[string][]string, len(d.edges))
	for sub, supers := range d.edges {
		out[sub] = supers.Slice()
	}
	return out
}

// IsSubtype reports whether a <: b, reflexively and transitively.
func (d *SubtypeDAG) IsSubtype(a, b Type) bool {
	if a.Equals(b) {
		return true
	}
	return d.reaches(key(a), key(b))
}
