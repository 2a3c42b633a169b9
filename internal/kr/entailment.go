package kr

import (
	"context"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/store"
)

// coordinatorChecker implements argue.EntailmentChecker by asking the
// KR's own Coordinator: premises |- phi iff submitting phi as a goal
// in a scratch Hypothetical context seeded with premises comes back
// Proved. This is the same question AGM contraction/revision need
// answered, and the kernel already has exactly one component that
// answers "is this goal provable" — the Coordinator — so belief
// revision is wired to reuse it rather than embed a second prover
// dispatch loop.
type coordinatorChecker struct {
	k *KR
}

func (k *KR) entailmentChecker() coordinatorChecker { return coordinatorChecker{k: k} }

func (c coordinatorChecker) Entails(ctx context.Context, premises []ast.Node, phi ast.Node, limits coordinator.ResourceLimits) (bool, error) {
	k := c.k
	k.mu.Lock()
	scratchID, err := k.Store.CreateContext("entailment-scratch", k.Store.RootID(), store.Hypothetical)
	if err != nil {
		k.mu.Unlock()
		return false, err
	}
	for _, p := range premises {
		if _, err := k.Store.Add(k.Factory, p, scratchID, nil); err != nil {
			k.Store.DeleteContext(scratchID)
			k.mu.Unlock()
			return false, err
		}
	}
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		_ = k.Store.DeleteContext(scratchID)
		k.mu.Unlock()
	}()

	var hints *coordinator.Hints
	if limits != (coordinator.ResourceLimits{}) {
		hints = &coordinator.Hints{Limits: &limits}
	}
	result, err := k.Coord.SubmitGoal(ctx, phi, []string{scratchID}, hints)
	if err != nil {
		return false, err
	}
	return result.Status.Code == proof.Proved, nil
}
