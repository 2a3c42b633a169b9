package argue

import (
	"fmt"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/types"
	"github.com/kr-engine/godel/internal/kernel/unify"
)

// maxRounds bounds the forward-chaining fixpoint so a cyclic or
// runaway rule set (e.g. a rule whose body can always re-match its own
// conclusion under a fresh substitution) cannot loop forever; a real
// session-level resource limit belongs to the coordinator, but
// argument construction has no coordinator.Budget of its own to check
// against, so a fixed round cap is the simplest backstop.
const maxRounds = 64

// Build constructs every argument derivable from strict and defeasible
// KB formulas, closing the rule set to a fixpoint via unification-based
// forward chaining (spec §4.10: "premises may themselves be
// arguments").
func Build(f *ast.Factory, strict, defeasible []ast.Node) *Framework {
	var rules []Rule
	for _, n := range strict {
		rules = append(rules, ruleFromFormula(n, true))
	}
	for i, n := range defeasible {
		r := ruleFromFormula(n, false)
		r.NameAtom = f.NewConstant(fmt.Sprintf("rule#%d", i), i, types.Boolean, ast.Metadata{})
		rules = append(rules, r)
	}

	b := &builder{f: f, seen: map[string]int{}}
	for _, r := range rules {
		if len(r.Body) == 0 {
			b.add(r, r.Head, r.Strict, nil)
		}
	}

	for round := 0; round < maxRounds; round++ {
		added := false
		for _, r := range rules {
			if len(r.Body) == 0 {
				continue
			}
			for _, derived := range b.instantiate(r) {
				if b.add(r, derived.head, derived.strict, derived.subs) {
					added = true
				}
			}
		}
		if !added {
			break
		}
	}

	return computeAttacks(f, b.args)
}

type builder struct {
	f    *ast.Factory
	args []*Argument
	seen map[string]int // conclusion hash + rule source hash -> argument ID, dedupes re-derivation
}

type candidate struct {
	sub    unify.Substitution
	head   ast.Node
	strict bool
	subs   []int
}

// instantiate finds every way to satisfy r's body from arguments
// already built, returning the substituted head, the combined
// strictness, and the chosen sub-arguments for each.
func (b *builder) instantiate(r Rule) []candidate {
	var out []candidate
	var search func(idx int, sub unify.Substitution, strict bool, subs []int)
	search = func(idx int, sub unify.Substitution, strict bool, subs []int) {
		if idx == len(r.Body) {
			head := b.f.Substitute(r.Head, sub)
			out = append(out, candidate{sub: sub, head: head, strict: strict, subs: append([]int{}, subs...)})
			return
		}
		want := b.f.Substitute(r.Body[idx], sub)
		for _, arg := range b.args {
			merged, ok := unifyWithBase(b.f, sub, want, arg.Conclusion)
			if !ok {
				continue
			}
			search(idx+1, merged, strict && arg.Strict, append(subs, arg.ID))
		}
	}
	search(0, unify.Substitution{}, r.Strict, nil)
	return out
}

// add records a new argument unless an argument with the same
// conclusion drawn from the same rule already exists.
func (b *builder) add(r Rule, head ast.Node, strict bool, subs []int) bool {
	key := head.Hash() + "|" + r.Source.Hash()
	if _, ok := b.seen[key]; ok {
		return false
	}
	id := len(b.args)
	arg := &Argument{ID: id, Conclusion: head, Rule: r, Strict: strict, Sub: subs}
	b.args = append(b.args, arg)
	b.seen[key] = id
	return true
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
