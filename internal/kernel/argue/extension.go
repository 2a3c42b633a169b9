package argue

import (
	"github.com/hashicorp/go-set/v3"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// Semantics selects which extension JustifiedBeliefs computes.
type Semantics int

const (
	Grounded Semantics = iota
	Preferred
)

// JustifiedBeliefs builds the argumentation framework from strict and
// defeasible KB formulas and returns the conclusions of every argument
// accepted under semantics, per spec §4.10's public `justified_beliefs`
// operation.
func JustifiedBeliefs(f *ast.Factory, strict, defeasible []ast.Node, semantics Semantics, pref Preference) []ast.Node {
	fw := Build(f, strict, defeasible)
	var in map[int]bool
	switch semantics {
	case Preferred:
		in = preferredExtension(fw, pref)
	default:
		in = groundedExtension(fw, pref)
	}

	seen := set.New[string](len(in))
	var out []ast.Node
	for id, accepted := range in {
		if !accepted {
			continue
		}
		c := fw.Arguments[id].Conclusion
		if seen.Contains(c.Hash()) {
			continue
		}
		seen.Insert(c.Hash())
		out = append(out, c)
	}
	return out
}

// successful reports whether att actually defeats its target once
// preference is taken into account. Only Rebuttal is preference-
// sensitive (spec §4.10: "a preference order decides which side of a
// rebuttal actually attacks the other"); undermining and undercutting
// always succeed since they attack a defeasible premise or rule
// directly rather than contesting a symmetric conclusion clash.
func successful(att Attack, args []*Argument, pref Preference) bool {
	if att.Kind != Rebuttal || pref == nil {
		return true
	}
	from, to := args[att.From], args[att.To]
	if pref(to, from) && !pref(from, to) {
		return false // to is strictly preferred: from's rebuttal fails
	}
	return true
}

func incomingAttacks(fw *Framework, pref Preference) map[int][]Attack {
	in := make(map[int][]Attack)
	for _, att := range fw.Attacks {
		if successful(att, fw.Arguments, pref) {
			in[att.To] = append(in[att.To], att)
		}
	}
	return in
}

// groundedExtension computes the skeptical grounded extension: an
// argument is accepted once every one of its attackers is rejected,
// and rejected once any accepted argument attacks it, iterated to a
// fixpoint (spec §4.10).
func groundedExtension(fw *Framework, pref Preference) map[int]bool {
	attackers := incomingAttacks(fw, pref)
	in := make(map[int]bool)
	out := make(map[int]bool)

	changed := true
	for changed {
		changed = false
		for _, a := range fw.Arguments {
			if in[a.ID] || out[a.ID] {
				continue
			}
			anyIn, allOut := false, true
			for _, att := range attackers[a.ID] {
				if in[att.From] {
					anyIn = true
					break
				}
				if !out[att.From] {
					allOut = false
				}
			}
			switch {
			case anyIn:
				out[a.ID] = true
				changed = true
			case allOut:
				in[a.ID] = true
				changed = true
			}
		}
	}
	return in
}

// preferredExtension computes one maximal admissible set containing
// the grounded extension, by greedily adding any argument that keeps
// the set admissible. This is a documented simplification: there may
// be several distinct preferred (maximal admissible) extensions, and
// enumerating all of them is combinatorial in the number of arguments;
// returning one superset of the skeptical grounded extension is the
// credulous answer spec §4.10 asks for without that blowup.
func preferredExtension(fw *Framework, pref Preference) map[int]bool {
	attackers := incomingAttacks(fw, pref)
	base := groundedExtension(fw, pref)

	for _, a := range fw.Arguments {
		if base[a.ID] {
			continue
		}
		trial := make(map[int]bool, len(base)+1)
		for k, v := range base {
			trial[k] = v
		}
		trial[a.ID] = true
		if admissible(fw, attackers, trial) {
			base = trial
		}
	}
	return base
}

func admissible(fw *Framework, attackers map[int][]Attack, set map[int]bool) bool {
	for id := range set {
		for _, att := range attackers[id] {
			if set[att.From] {
				return false // conflict: a member attacks another member
			}
			if !defendedAgainst(attackers, set, att.From) {
				return false // undefended attacker
			}
		}
	}
	return true
}

func defendedAgainst(attackers map[int][]Attack, set map[int]bool, attackerID int) bool {
	for _, att := range attackers[attackerID] {
		if set[att.From] {
			return true
		}
	}
	return false
}
