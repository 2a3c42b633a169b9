package argue

import "github.com/kr-engine/godel/internal/kernel/ast"

// computeAttacks builds the attack relation ⇇ over args per spec
// §4.10's three forms. Preference is applied later, in extension.go,
// so a caller can recompute extensions under a different entrenchment
// order without rebuilding the framework.
func computeAttacks(f *ast.Factory, args []*Argument) *Framework {
	fw := &Framework{Arguments: args}
	leaves := make(map[int][]int, len(args))
	for _, a := range args {
		leaves[a.ID] = defeasibleLeaves(args, a)
	}
	for _, a1 := range args {
		for _, a2 := range args {
			if a1.ID == a2.ID {
				continue
			}
			// "Strict parts of an argument cannot be attacked": a fully
			// strict a2 is immune regardless of a1's own strictness, so
			// the only condition checked is whether the target is
			// defeasible at its conclusion.
			if isNegationOf(a1.Conclusion, a2.Conclusion) && !a2.Strict {
				fw.Attacks = append(fw.Attacks, Attack{From: a1.ID, To: a2.ID, Kind: Rebuttal})
			}
			for _, leafID := range leaves[a2.ID] {
				if isNegationOf(a1.Conclusion, args[leafID].Conclusion) {
					fw.Attacks = append(fw.Attacks, Attack{From: a1.ID, To: a2.ID, Kind: Undermining})
				}
			}
			if a2.Rule.NameAtom != nil && isNegationOf(a1.Conclusion, a2.Rule.NameAtom) {
				fw.Attacks = append(fw.Attacks, Attack{From: a1.ID, To: a2.ID, Kind: Undercutting})
			}
		}
	}
	return fw
}

func isNegationOf(a, b ast.Node) bool {
	if c, ok := a.(*ast.Connective); ok && c.Kind == ast.Not {
		return c.Operands[0].Hash() == b.Hash()
	}
	if c, ok := b.(*ast.Connective); ok && c.Kind == ast.Not {
		return c.Operands[0].Hash() == a.Hash()
	}
	return false
}

// defeasibleLeaves collects the IDs of arg's transitive sub-arguments
// (including arg itself) that are defeasible facts (empty Body, not
// Strict) — the "defeasible premise used in A2" undermining targets.
func defeasibleLeaves(args []*Argument, arg *Argument) []int {
	var out []int
	seen := map[int]bool{}
	var walk func(a *Argument)
	walk = func(a *Argument) {
		if seen[a.ID] {
			return
		}
		seen[a.ID] = true
		if len(a.Rule.Body) == 0 && !a.Rule.Strict {
			out = append(out, a.ID)
		}
		for _, id := range a.Sub {
			walk(args[id])
		}
	}
	walk(arg)
	return out
}
