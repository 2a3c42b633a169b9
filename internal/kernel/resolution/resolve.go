package resolution

import (
	"sort"
	"time"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/unify"
)

// search holds the growing clause set of one refutation attempt.
// Clauses are never physically removed (their ID is their slot in
// clauses, and a backward-subsumed clause's Parents chain may still be
// needed to explain an earlier derivation), only marked dead so the
// search loop and subsumption checks skip them.
type search struct {
	f       *ast.Factory
	clauses []Clause
	dead    []bool
}

func (s *search) add(c Clause) int {
	c.ID = len(s.clauses)
	s.clauses = append(s.clauses, c)
	s.dead = append(s.dead, false)
	return c.ID
}

// refute runs set-of-support resolution: every resolution step must
// use at least one clause descended from the negated goal (FromGoal),
// with unit preference breaking ties among queued clauses by picking
// the shortest one first. It returns the empty clause's id on success,
// -1 with exhausted=true if budget ran out first, or -1 with
// exhausted=false if the search saturated (closure reached, no empty
// clause, no new clauses left to try) per spec §4.8's termination
// conditions.
func refute(f *ast.Factory, goalClauses, axiomClauses []Clause, budget *coordinator.Budget) (*search, int, proof.Dimension, bool) {
	s := &search{f: f}
	for _, c := range goalClauses {
		s.add(c)
	}
	for _, c := range axiomClauses {
		s.add(c)
	}

	var sos []int
	for _, c := range s.clauses {
		if c.FromGoal {
			sos = append(sos, c.ID)
		}
	}
	processed := make(map[int]bool)

	for len(sos) > 0 {
		dim, exhausted := budget.Tick(time.Now().UnixMilli(), 1, 0)
		if exhausted {
			return s, -1, dim, true
		}

		giveIdx := popShortest(s, sos)
		sos = removeID(sos, giveIdx)
		if processed[giveIdx] || s.dead[giveIdx] {
			continue
		}
		processed[giveIdx] = true
		given := s.clauses[giveIdx]

		if forwardSubsumed(s, giveIdx) {
			s.dead[giveIdx] = true
			continue
		}

		for otherIdx := range s.clauses {
			if otherIdx == giveIdx || s.dead[otherIdx] {
				continue
			}
			other := s.clauses[otherIdx]
			for li, lit := range given.Literals {
				for lj, olit := range other.Literals {
					if lit.Negated == olit.Negated {
						continue
					}
					sub, err := unify.Unify(f, lit.Atom, olit.Atom)
					if err != nil {
						continue
					}

					depth := given.Depth
					if other.Depth > depth {
						depth = other.Depth
					}
					depth++
					if budget.Limits.Depth > 0 && depth > budget.Limits.Depth {
						continue
					}

					rlits := dedupeLiterals(buildResolvent(f, given, li, other, lj, sub))
					rc := Clause{Literals: rlits, FromGoal: true, Parents: []int{given.ID, other.ID}, Depth: depth, StepSub: sub}
					if rc.isTautology() {
						continue
					}
					if rc.IsEmpty() {
						id := s.add(rc)
						return s, id, proof.DimensionNone, false
					}
					if isForwardSubsumedBy(s, rc) {
						continue
					}
					id := s.add(rc)
					killBackwardSubsumed(s, id)
					sos = append(sos, id)
				}
			}
		}
	}
	return s, -1, proof.DimensionNone, false
}

// buildResolvent applies sub to every literal of given and other except
// the pair resolved away, per binary resolution.
func buildResolvent(f *ast.Factory, given Clause, gi int, other Clause, oi int, sub unify.Substitution) []Literal {
	lits := make([]Literal, 0, len(given.Literals)+len(other.Literals)-2)
	for i, l := range given.Literals {
		if i == gi {
			continue
		}
		lits = append(lits, Literal{Negated: l.Negated, Atom: f.Substitute(l.Atom, sub)})
	}
	for i, l := range other.Literals {
		if i == oi {
			continue
		}
		lits = append(lits, Literal{Negated: l.Negated, Atom: f.Substitute(l.Atom, sub)})
	}
	return lits
}

func popShortest(s *search, sos []int) int {
	best := sos[0]
	for _, id := range sos[1:] {
		if s.dead[id] {
			continue
		}
		if s.dead[best] || len(s.clauses[id].Literals) < len(s.clauses[best].Literals) {
			best = id
		}
	}
	return best
}

func removeID(sos []int, id int) []int {
	out := sos[:0]
	for _, v := range sos {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func forwardSubsumed(s *search, idx int) bool {
	given := s.clauses[idx]
	for i, c := range s.clauses {
		if i == idx || s.dead[i] {
			continue
		}
		if subsumes(s.f, c, given) {
			return true
		}
	}
	return false
}

func isForwardSubsumedBy(s *search, rc Clause) bool {
	for i, c := range s.clauses {
		if s.dead[i] {
			continue
		}
		if subsumes(s.f, c, rc) {
			return true
		}
	}
	return false
}

func killBackwardSubsumed(s *search, newID int) {
	nc := s.clauses[newID]
	for i, c := range s.clauses {
		if i == newID || s.dead[i] {
			continue
		}
		if subsumes(s.f, nc, c) {
			s.dead[i] = true
		}
	}
}

// composeSubst folds applied on top of prior: every value already
// bound by prior is pushed through applied (so a later step's binding
// reaches an earlier one's range), then applied's own bindings are
// added for any variable prior left untouched.
func composeSubst(f *ast.Factory, prior, applied ast.Substitution) ast.Substitution {
	if len(prior) == 0 {
		return applied
	}
	if len(applied) == 0 {
		return prior
	}
	out := make(ast.Substitution, len(prior)+len(applied))
	for id, t := range prior {
		out[id] = f.Substitute(t, applied)
	}
	for id, t := range applied {
		if _, ok := out[id]; !ok {
			out[id] = t
		}
	}
	return out
}

// ancestorSubst recovers the answer substitution for clauseID's
// derivation: every ancestor clause's own StepSub, folded in clause-ID
// order. IDs are assigned in strictly increasing creation order and a
// resolvent's ID always exceeds both its parents', so sorting
// ancestors by ID is sorting them chronologically, which is enough to
// compose correctly across however many branches the derivation has —
// no explicit per-branch merge order is needed.
func ancestorSubst(f *ast.Factory, s *search, clauseID int) ast.Substitution {
	seen := make(map[int]bool)
	var ids []int
	var visit func(int)
	visit = func(id int) {
		if seen[id] {
			return
		}
		seen[id] = true
		for _, p := range s.clauses[id].Parents {
			visit(p)
		}
		ids = append(ids, id)
	}
	visit(clauseID)
	sort.Ints(ids)

	final := ast.Substitution{}
	for _, id := range ids {
		step := s.clauses[id].StepSub
		if len(step) == 0 {
			continue
		}
		final = composeSubst(f, final, step)
	}
	return final
}

// buildProof records the derivation of clauseID (and, recursively,
// every ancestor it depends on) onto b, memoizing so a clause used by
// two different later resolvents is only recorded once.
func buildProof(b *proof.Builder, s *search, clauseID int, f *ast.Factory, memo map[int]int) int {
	if id, ok := memo[clauseID]; ok {
		return id
	}
	c := s.clauses[clauseID]
	var stepID int
	if len(c.Parents) == 0 {
		stepID = b.Axiom(clauseToNode(f, c))
	} else {
		premises := make([]int, len(c.Parents))
		for i, p := range c.Parents {
			premises[i] = buildProof(b, s, p, f, memo)
		}
		id, err := b.Step("resolution", premises, clauseToNode(f, c))
		if err != nil {
			// Parents are always built first, so premises are always
			// earlier steps; this cannot fail.
			panic(err)
		}
		stepID = id
	}
	memo[clauseID] = stepID
	return stepID
}
