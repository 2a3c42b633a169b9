package tableau

import (
	"context"
	"time"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// AxiomSource is the subset of the Knowledge Store the tableau prover
// needs: every statement visible in a set of contexts.
type AxiomSource interface {
	AllStatements(contextIDs []string) ([]ast.Node, error)
}

// Prover implements coordinator.Strategy for the modal tableau method
// (C9). System is fixed at construction since coordinator.Strategy's
// Prove signature carries no room for a per-call frame condition. The
// Inference Coordinator holds one strategy per Engine, so registering
// a second tableau Prover replaces the first.
type Prover struct {
	axioms AxiomSource
	f      *ast.Factory
	system System
}

// New builds a tableau Prover under the given frame condition, reading
// axioms from axioms and constructing terms through f.
func New(axioms AxiomSource, f *ast.Factory, system System) *Prover {
	return &Prover{axioms: axioms, f: f, system: system}
}

func (p *Prover) Engine() proof.Engine { return proof.EngineTableau }

// Prove asserts every statement visible in contexts and the negated
// goal at world 0, then expands the tableau: if every branch closes,
// the axioms entail the goal (Proved); if some branch saturates open,
// that branch's formula sets describe a countermodel and the goal is
// not entailed (Disproved).
func (p *Prover) Prove(ctx context.Context, goal ast.Node, contexts []string, limits coordinator.ResourceLimits) (*proof.Proof, error) {
	start := time.Now()
	statements, err := p.axioms.AllStatements(contexts)
	if err != nil {
		return nil, err
	}

	// A goal of the canonical falsum constant asks whether the visible
	// axioms alone close a tableau; negating it would only add the
	// tautology ⊤ to the branch, so it is left out of the queue
	// entirely rather than asserted.
	checkingConsistency := ast.IsFalsum(goal)
	negGoal := p.f.NewConnective(ast.Not, []ast.Node{goal}, types.Boolean, ast.Metadata{})

	br := newBranch(p.system)
	if !checkingConsistency {
		br.queue = append(br.queue, Labelled{0, negGoal})
	}
	for _, stmt := range statements {
		br.queue = append(br.queue, Labelled{0, stmt})
	}
	br.reapply(br.r.Introduce(0))

	deadline := int64(0)
	if limits.TimeMS > 0 {
		deadline = start.UnixMilli() + limits.TimeMS
	}
	if ctxDeadline, ok := ctx.Deadline(); ok {
		ms := ctxDeadline.UnixMilli()
		if deadline == 0 || ms < deadline {
			deadline = ms
		}
	}
	budget := coordinator.NewBudget(limits, deadline)

	st := &state{b: proof.NewBuilder(proof.EngineTableau), budget: budget}
	res, dim := st.expand(p.f, br)
	elapsed := time.Since(start).Milliseconds()

	switch res {
	case resultExhausted:
		return st.b.ResourceExhausted(dim, elapsed, budget.Consumed()), nil
	case resultClosed:
		if checkingConsistency {
			bottom := p.f.Falsum()
			if _, err := st.b.Step("tableau-contradiction", st.closureSteps, bottom); err != nil {
				return nil, err
			}
			return st.b.Contradiction(bottom, elapsed, budget.Consumed())
		}
		if _, err := st.b.Step("tableau-refutation", st.closureSteps, goal); err != nil {
			return nil, err
		}
		return st.b.Proved(goal, nil, elapsed, budget.Consumed())
	default: // resultOpen: the asserted formulas are satisfiable
		if checkingConsistency {
			return st.b.Unknown(budget.Consumed()), nil
		}
		if _, err := st.b.Step("open-branch", nil, negGoal); err != nil {
			return nil, err
		}
		return st.b.Disproved(negGoal, elapsed, budget.Consumed())
	}
}
