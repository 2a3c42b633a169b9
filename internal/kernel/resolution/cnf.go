package resolution

import "github.com/kr-engine/godel/internal/kernel/ast"

// literalSets distributes Or over And on a quantifier-free NNF matrix,
// returning one []Literal per disjunctive clause. And at the top
// concatenates clause sets; Or takes the cross product of its
// operands' clause sets, merging one clause from each into a single
// disjunction; Not wraps a literal; anything else is a positive atom.
func literalSets(n ast.Node) [][]Literal {
	switch v := n.(type) {
	case *ast.Connective:
		switch v.Kind {
		case ast.And:
			var out [][]Literal
			for _, o := range v.Operands {
				out = append(out, literalSets(o)...)
			}
			return out
		case ast.Or:
			sets := make([][][]Literal, len(v.Operands))
			for i, o := range v.Operands {
				sets[i] = literalSets(o)
			}
			return crossProduct(sets)
		case ast.Not:
			return [][]Literal{{{Negated: true, Atom: v.Operands[0]}}}
		}
	}
	return [][]Literal{{{Negated: false, Atom: n}}}
}

func crossProduct(sets [][][]Literal) [][]Literal {
	result := [][]Literal{{}}
	for _, set := range sets {
		var next [][]Literal
		for _, acc := range result {
			for _, c := range set {
				merged := make([]Literal, 0, len(acc)+len(c))
				merged = append(merged, acc...)
				merged = append(merged, c...)
				next = append(next, merged)
			}
		}
		result = next
	}
	return result
}

// dedupeLiterals drops a clause's duplicate literals (same atom, same
// polarity) by hash, keeping the first occurrence.
func dedupeLiterals(lits []Literal) []Literal {
	seen := make(map[string]bool, len(lits))
	out := make([]Literal, 0, len(lits))
	for _, l := range lits {
		key := l.Atom.Hash()
		if l.Negated {
			key = "¬" + key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

// toClauses standardizes n apart and then runs the rest of the
// pipeline (NNF, Skolemize, drop the universal prefix, distribute to
// CNF), discarding tautologies, and tags every produced clause with
// fromGoal.
func toClauses(f *ast.Factory, n ast.Node, counter *int, fromGoal bool) []Clause {
	n = standardizeApart(f, n)
	n = nnf(f, n, false)
	n = skolemize(f, n, nil, counter)
	matrix := dropUniversalPrefix(f, n)

	var clauses []Clause
	for _, lits := range literalSets(matrix) {
		lits = dedupeLiterals(lits)
		c := Clause{Literals: lits, FromGoal: fromGoal}
		if c.isTautology() {
			continue
		}
		clauses = append(clauses, c)
	}
	return clauses
}
