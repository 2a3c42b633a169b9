package store

import (
	"github.com/hashicorp/go-memdb"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/unify"
)

// ResultIterator yields query bindings lazily: each context's facts
// are scanned on demand and rule heads are checked against the facts
// already visible in that same context (shallow depth-1 lookup), never
// recursing into the rule's own antecedent beyond one level.
type ResultIterator struct {
	f       *ast.Factory
	pattern ast.Node
	vars    []*ast.Variable
	queue   []func() (Binding, bool)
	pos     int
}

// Next returns the next binding, or (nil, false) once exhausted.
func (r *ResultIterator) Next() (Binding, bool) {
	for r.pos < len(r.queue) {
		gen := r.queue[r.pos]
		r.pos++
		if b, ok := gen(); ok {
			return b, true
		}
	}
	return nil, false
}

// Query returns a lazy iterator over every binding of pattern's free
// variables (or just those in bindVars, when non-nil) entailed by the
// union of contextIDs under structural matching plus depth-1 rule-head
// lookup.
func (s *Store) Query(f *ast.Factory, pattern ast.Node, contextIDs []string, bindVars []*ast.Variable) (*ResultIterator, error) {
	contexts, err := s.lookupAll(contextIDs)
	if err != nil {
		return nil, err
	}

	it := &ResultIterator{f: f, pattern: pattern, vars: bindVars}
	for _, c := range contexts {
		c := c
		facts, factErr := rawQuery(c, pattern)
		if factErr == nil {
			it.queue = append(it.queue, factGenerator(it, facts))
		}
		it.queue = append(it.queue, ruleGenerator(it, c, pattern))
	}
	return it, nil
}

// factGenerator drains one memdb.ResultIterator of facts, returning one
// match-as-binding closure per call, in the style of a coroutine built
// from a closure queue rather than a goroutine (no results are ever
// produced ahead of demand).
func factGenerator(it *ResultIterator, facts memdb.ResultIterator) func() (Binding, bool) {
	var pending []func() (Binding, bool)
	return func() (Binding, bool) {
		for {
			if len(pending) > 0 {
				gen := pending[0]
				pending = pending[1:]
				if b, ok := gen(); ok {
					return b, true
				}
				continue
			}
			raw := facts.Next()
			if raw == nil {
				return nil, false
			}
			e, ok := raw.(*entry)
			if !ok {
				continue
			}
			bound, matched := match(it.pattern, e.Node, map[uint64]ast.Node{})
			if !matched {
				continue
			}
			b := toBinding(it.pattern, bound, it.vars)
			pending = append(pending, func() (Binding, bool) { return b, true })
		}
	}
}

// ruleGenerator checks every rule in context c whose head unifies with
// pattern and whose (instantiated) antecedent itself unifies with a
// fact already present in c, yielding one binding per satisfied rule —
// the store's only entailment beyond direct structural matching. Head
// and antecedent are resolved with the same first-order unifier C4
// uses, rather than one-directional wildcard matching, so a query
// variable that only appears inside the rule's antecedent (never in
// its head) still resolves to the fact that witnessed it.
func ruleGenerator(it *ResultIterator, c *Context, pattern ast.Node) func() (Binding, bool) {
	done := false
	var results []Binding
	idx := 0
	return func() (Binding, bool) {
		if !done {
			done = true
			txn := c.partition.db.Txn(false)
			rit, err := txn.Get(ruleTable, "id")
			if err == nil {
				for raw := rit.Next(); raw != nil; raw = rit.Next() {
					re := raw.(*ruleEntry)
					headSub, uerr := unify.Unify(it.f, pattern, re.Consequent)
					if uerr != nil {
						continue
					}
					antecedent := it.f.Substitute(re.Antecedent, headSub)

					factIt, ferr := rawQuery(c, antecedent)
					if ferr != nil {
						continue
					}
					for fraw := factIt.Next(); fraw != nil; fraw = factIt.Next() {
						fe, ok := fraw.(*entry)
						if !ok {
							continue
						}
						factSub, uerr2 := unify.Unify(it.f, antecedent, fe.Node)
						if uerr2 != nil {
							continue
						}
						results = append(results, bindingFromSub(it.f, pattern, headSub, factSub, it.vars))
					}
				}
			}
		}
		if idx >= len(results) {
			return nil, false
		}
		b := results[idx]
		idx++
		return b, true
	}
}

// bindingFromSub resolves each of pattern's free variables (or those
// in vars) through headSub then factSub in turn, since headSub may map
// a query variable to a term built from the rule's own bound
// variables, which factSub then grounds out against the witnessing
// fact.
func bindingFromSub(f *ast.Factory, pattern ast.Node, headSub, factSub ast.Substitution, vars []*ast.Variable) Binding {
	if vars == nil {
		free := ast.FreeVariables(pattern)
		vars = make([]*ast.Variable, 0, len(free))
		for _, v := range free {
			vars = append(vars, v)
		}
	}
	out := make(Binding, len(vars))
	for _, v := range vars {
		val, ok := headSub[v.VarID]
		if !ok {
			continue
		}
		out[v] = f.Substitute(val, factSub)
	}
	return out
}
