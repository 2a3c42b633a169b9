package resolution

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/unify"
)

// subsumes reports whether a subsumes b: some substitution over a's
// variables maps every literal of a onto a literal already present in
// b. Each literal pair goes through full unification, and a pairing is
// kept only when the result leaves b's literal unchanged, so only a's
// variables are ever bound. A variable shared by a and b, or a
// variable-variable pair the unifier happens to orient towards b,
// makes the pairing fail, so this accepts a subset of true
// subsumptions and never mistakes an unrelated clause for a subsuming
// one; see DESIGN.md.
func subsumes(f *ast.Factory, a, b Clause) bool {
	if len(a.Literals) > len(b.Literals) {
		return false
	}
	return trySubsume(f, a.Literals, b.Literals, unify.Substitution{})
}

func trySubsume(f *ast.Factory, remaining, target []Literal, sub unify.Substitution) bool {
	if len(remaining) == 0 {
		return true
	}
	lit := remaining[0]
	rest := remaining[1:]
	for _, t := range target {
		if t.Negated != lit.Negated {
			continue
		}
		merged, ok := unifyWithBase(f, sub, lit.Atom, t.Atom)
		if !ok {
			continue
		}
		if f.Substitute(t.Atom, merged).Hash() != t.Atom.Hash() {
			continue
		}
		if trySubsume(f, rest, target, merged) {
			return true
		}
	}
	return false
}

func unifyWithBase(f *ast.Factory, sub unify.Substitution, a, b ast.Node) (unify.Substitution, bool) {
	a2 := f.Substitute(a, sub)
	b2 := f.Substitute(b, sub)
	result, err := unify.Unify(f, a2, b2)
	if err != nil {
		return nil, false
	}
	merged := make(unify.Substitution, len(sub)+len(result))
	for k, v := range sub {
		merged[k] = v
	}
	for k, v := range result {
		merged[k] = v
	}
	return merged, true
}
