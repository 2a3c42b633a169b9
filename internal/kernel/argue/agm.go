package argue

import (
	"context"
	"sort"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// EntailmentChecker decides whether premises entail phi, the one
// question AGM revision needs answered by an actual prover. Keeping
// this as an interface (rather than importing resolution or tableau
// directly) avoids coupling belief revision to one particular proof
// strategy; a kr facade wires in whichever coordinator.Strategy (or
// the full coordinator.Coordinator) it is assembling.
type EntailmentChecker interface {
	Entails(ctx context.Context, premises []ast.Node, phi ast.Node, limits coordinator.ResourceLimits) (bool, error)
}

// ContractOutcome reports how Contract settled.
type ContractOutcome int

const (
	Contracted ContractOutcome = iota
	TautologicalContraction
)

// Expand is AGM expansion: K ∪ {φ}, spec §4.10.
func Expand(k []ast.Node, phi ast.Node) []ast.Node {
	return append(append([]ast.Node{}, k...), phi)
}

// Contract is AGM contraction: a maximal subset of k not entailing
// phi, selected by removing the least-entrenched formulas first
// (ties broken by insertion order, since sort.SliceStable preserves
// the original relative order of equally-entrenched elements). If phi
// is already a tautology of the core theory (entailed by no
// premises), contraction cannot succeed by removing members of k, so
// k is returned unchanged with TautologicalContraction (spec §4.10).
func Contract(ctx context.Context, checker EntailmentChecker, k []ast.Node, phi ast.Node, entrenchment func(ast.Node) int, limits coordinator.ResourceLimits) ([]ast.Node, ContractOutcome, error) {
	isTautology, err := checker.Entails(ctx, nil, phi, limits)
	if err != nil {
		return nil, Contracted, err
	}
	if isTautology {
		return append([]ast.Node{}, k...), TautologicalContraction, nil
	}

	order := make([]int, len(k))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return entrenchment(k[order[i]]) < entrenchment(k[order[j]])
	})

	removed := make(map[int]bool, len(k))
	remaining := func() []ast.Node {
		var out []ast.Node
		for i, n := range k {
			if !removed[i] {
				out = append(out, n)
			}
		}
		return out
	}

	for _, idx := range order {
		still, err := checker.Entails(ctx, remaining(), phi, limits)
		if err != nil {
			return nil, Contracted, err
		}
		if !still {
			break
		}
		removed[idx] = true
	}
	return remaining(), Contracted, nil
}

// Revise is AGM revision via the Levi identity: expand(contract(K,
// ¬φ), φ), spec §4.10.
func Revise(ctx context.Context, f *ast.Factory, checker EntailmentChecker, k []ast.Node, phi ast.Node, entrenchment func(ast.Node) int, limits coordinator.ResourceLimits) ([]ast.Node, error) {
	negPhi := f.NewConnective(ast.Not, []ast.Node{phi}, types.Boolean, ast.Metadata{})
	contracted, _, err := Contract(ctx, checker, k, negPhi, entrenchment, limits)
	if err != nil {
		return nil, err
	}
	return Expand(contracted, phi), nil
}
