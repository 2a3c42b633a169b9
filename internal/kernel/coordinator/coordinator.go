// Package coordinator implements the Inference Coordinator (C7): it
// accepts a goal, selects a prover strategy, runs it under a resource
// budget, and always returns a Proof Object — falling back to a
// second strategy when the first is Unknown or StrategyFailed with
// budget still remaining.
package coordinator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	kerrors "github.com/kr-engine/godel/internal/errors"
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/types"
	"github.com/kr-engine/godel/internal/kernelconfig"
)

// ContextSource is the subset of the Knowledge Store the coordinator
// needs to validate a goal's candidate contexts before dispatch.
type ContextSource interface {
	HasContext(id string) bool
}

// Strategy is one prover the coordinator can dispatch a goal to.
// Resolution (C8), Tableau (C9), Argumentation (C10), and the theory
// Bridge (C11) each implement it; the coordinator holds no knowledge
// of a strategy's internals beyond its Engine tag.
type Strategy interface {
	Engine() proof.Engine
	Prove(ctx context.Context, goal ast.Node, contexts []string, limits ResourceLimits) (*proof.Proof, error)
}

// Hints let a caller override automatic strategy selection, per
// spec §4.7: "Hints from the caller override automatic selection."
type Hints struct {
	Engine *proof.Engine
	Order  []proof.Engine
	Limits *ResourceLimits
}

// Coordinator wires registered Strategy implementations together.
type Coordinator struct {
	strategies map[proof.Engine]Strategy
	contexts   ContextSource
	cfg        kernelconfig.Config
	log        *zap.SugaredLogger
}

// New builds a Coordinator that validates candidate contexts against
// contexts and applies cfg's defaults when a call supplies no explicit
// ResourceLimits. log may be nil, in which case a no-op logger is used.
func New(contexts ContextSource, cfg kernelconfig.Config, log *zap.SugaredLogger) *Coordinator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Coordinator{strategies: make(map[proof.Engine]Strategy), contexts: contexts, cfg: cfg, log: log}
}

// Register installs s as the coordinator's handler for its Engine.
func (c *Coordinator) Register(s Strategy) {
	c.strategies[s.Engine()] = s
}

// SubmitGoal runs goal against candidateContexts, selecting a prover
// automatically (or per hints) and falling back along the rest of the
// engine order, each engine tried at most once, while a strategy
// returns anything other than Proved, Disproved, Contradiction or
// ResourceExhausted. The automatic order names two engines; a
// Hints.Order may name more. It raises only on precondition violation: an
// ill-typed goal (RES001) or a context in candidateContexts that does
// not exist (RES002). Every other outcome, including a prover that
// itself isn't registered, is reported through the returned Proof
// Object's status rather than as an error.
func (c *Coordinator) SubmitGoal(ctx context.Context, goal ast.Node, candidateContexts []string, hints *Hints) (*proof.Proof, error) {
	if goal.Type() != types.Boolean {
		return nil, kerrors.New(kerrors.RES001, fmt.Sprintf("goal has non-Boolean type %s", goal.Type()), nil)
	}
	for _, id := range candidateContexts {
		if !c.contexts.HasContext(id) {
			return nil, kerrors.New(kerrors.RES002, fmt.Sprintf("unknown context %q", id), nil)
		}
	}

	limits := c.defaultLimits()
	order := classify(goal)
	if hints != nil {
		if hints.Limits != nil {
			limits = *hints.Limits
		}
		if hints.Engine != nil {
			order = append([]proof.Engine{*hints.Engine}, without(order, *hints.Engine)...)
		}
		if len(hints.Order) > 0 {
			order = hints.Order
		}
	}

	var last *proof.Proof
	tried := make(map[proof.Engine]bool, len(order))
	for _, engine := range order {
		if tried[engine] {
			continue
		}
		tried[engine] = true

		strategy, ok := c.strategies[engine]
		if !ok {
			c.log.Debugw("coordinator: no strategy registered", "engine", engine)
			continue
		}

		c.log.Debugw("coordinator: dispatching goal", "engine", engine, "contexts", candidateContexts)
		result, err := strategy.Prove(ctx, goal, candidateContexts, limits)
		if err != nil {
			return nil, err
		}
		last = result

		if result.Status.Code == proof.Proved || result.Status.Code == proof.Disproved ||
			result.Status.Code == proof.Contradiction || result.Status.Code == proof.ResourceExhausted {
			return result, nil
		}
		c.log.Debugw("coordinator: falling back", "from", engine, "status", result.Status.String())
	}

	if last == nil {
		b := proof.NewBuilder(proof.EngineResolution)
		return b.StrategyFailed(nil), nil
	}
	return last, nil
}

func (c *Coordinator) defaultLimits() ResourceLimits {
	return ResourceLimits{
		TimeMS: c.cfg.DefaultTimeoutMS,
		Depth:  c.cfg.MaxDepth,
		Nodes:  c.cfg.MaxNodes,
	}
}

func without(engines []proof.Engine, skip proof.Engine) []proof.Engine {
	out := make([]proof.Engine, 0, len(engines))
	for _, e := range engines {
		if e != skip {
			out = append(out, e)
		}
	}
	return out
}
