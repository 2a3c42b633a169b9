package bridge

import (
	"context"
	"strconv"
	"time"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// AxiomSource is the subset of the Knowledge Store the bridge prover
// needs: every statement visible in a set of contexts.
type AxiomSource interface {
	AllStatements(contextIDs []string) ([]ast.Node, error)
}

// Prover implements coordinator.Strategy by delegating to an external
// TheoryBridge: it checks ¬goal for satisfiability against every
// visible axiom under Tag, and converts the reply into a Proof Object
// step, per spec §4.11 ("the coordinator... invokes it, and converts
// the reply back into a Proof Object step").
type Prover struct {
	axioms AxiomSource
	bridge TheoryBridge
	tag    string
	opts   Options
	f      *ast.Factory
}

// New builds a bridge Prover dispatching to bridge under theory tag,
// with opts merged into every check_sat call.
func New(axioms AxiomSource, theoryBridge TheoryBridge, tag string, opts Options, f *ast.Factory) *Prover {
	return &Prover{axioms: axioms, bridge: theoryBridge, tag: tag, opts: opts, f: f}
}

func (p *Prover) Engine() proof.Engine { return proof.EngineBridge }

func (p *Prover) Prove(ctx context.Context, goal ast.Node, contexts []string, limits coordinator.ResourceLimits) (*proof.Proof, error) {
	start := time.Now()
	statements, err := p.axioms.AllStatements(contexts)
	if err != nil {
		return nil, err
	}

	opts := mergeTimeout(p.opts, limits)
	// A goal of the canonical falsum constant asks whether the visible
	// axioms are unsatisfiable on their own; negating it only adds the
	// tautology ⊤ to the check, so an Unsat reply here means the axioms
	// themselves are inconsistent rather than that they entail goal.
	checkingConsistency := ast.IsFalsum(goal)
	negGoal := p.f.NewConnective(ast.Not, []ast.Node{goal}, types.Boolean, ast.Metadata{})
	reply, err := p.bridge.CheckSat(ctx, negGoal, statements, p.tag, opts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start).Milliseconds()
	resources := map[string]int64{"bridge_calls": 1}

	switch reply.Kind {
	case Unsat:
		b := proof.NewBuilder(proof.EngineBridge)
		var premises []int
		core := reply.Core
		if len(core) == 0 {
			core = statements
		}
		for _, c := range core {
			premises = append(premises, b.Axiom(c))
		}
		if checkingConsistency {
			bottom := p.f.Falsum()
			if _, err := b.Step("bridge-unsat", premises, bottom); err != nil {
				return nil, err
			}
			return b.Contradiction(bottom, elapsed, resources)
		}
		if _, err := b.Step("bridge-unsat", premises, goal); err != nil {
			return nil, err
		}
		return b.Proved(goal, nil, elapsed, resources)

	case Sat:
		if checkingConsistency {
			return proof.NewBuilder(proof.EngineBridge).Unknown(resources), nil
		}
		b := proof.NewBuilder(proof.EngineBridge)
		if _, err := b.Step("bridge-sat", nil, negGoal); err != nil {
			return nil, err
		}
		return b.Disproved(negGoal, elapsed, resources)

	default: // Unknown
		return proof.NewBuilder(proof.EngineBridge).Unknown(resources), nil
	}
}

func mergeTimeout(opts Options, limits coordinator.ResourceLimits) Options {
	merged := make(Options, len(opts)+1)
	for k, v := range opts {
		merged[k] = v
	}
	if limits.TimeMS > 0 {
		if _, ok := merged["timeout_ms"]; !ok {
			merged["timeout_ms"] = strconv.FormatInt(limits.TimeMS, 10)
		}
	}
	return merged
}
