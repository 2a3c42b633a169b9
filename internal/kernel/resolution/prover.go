package resolution

import (
	"context"
	"time"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/types"
)

// AxiomSource is the subset of the Knowledge Store the resolution
// prover needs: every statement visible in a set of contexts. *
// store.Store satisfies this directly.
type AxiomSource interface {
	AllStatements(contextIDs []string) ([]ast.Node, error)
}

// Prover implements coordinator.Strategy for first-order resolution
// (C8): negate the goal, convert the negated goal and every axiom to
// CNF, and search for the empty clause under set-of-support.
type Prover struct {
	axioms AxiomSource
	f      *ast.Factory
}

// New builds a resolution Prover reading axioms from axioms and
// constructing terms through f.
func New(axioms AxiomSource, f *ast.Factory) *Prover {
	return &Prover{axioms: axioms, f: f}
}

func (p *Prover) Engine() proof.Engine { return proof.EngineResolution }

// Prove runs the six-stage CNF pipeline on goal's negation and on
// every statement visible in contexts, then resolves under
// set-of-support until the empty clause is derived (Proved), the
// search saturates without one (Unknown), or limits run out
// (ResourceExhausted).
func (p *Prover) Prove(ctx context.Context, goal ast.Node, contexts []string, limits coordinator.ResourceLimits) (*proof.Proof, error) {
	start := time.Now()
	statements, err := p.axioms.AllStatements(contexts)
	if err != nil {
		return nil, err
	}

	counter := 0
	var axiomClauses []Clause
	for _, stmt := range statements {
		axiomClauses = append(axiomClauses, toClauses(p.f, stmt, &counter, false)...)
	}

	deadline := int64(0)
	if limits.TimeMS > 0 {
		deadline = start.UnixMilli() + limits.TimeMS
	}
	budget := coordinator.NewBudget(limits, deadline)

	if ctxDeadline, ok := ctx.Deadline(); ok {
		ms := ctxDeadline.UnixMilli()
		if deadline == 0 || ms < deadline {
			deadline = ms
			budget = coordinator.NewBudget(limits, deadline)
		}
	}

	// A goal of the canonical falsum constant asks whether the visible
	// axioms are themselves inconsistent, not whether they entail some
	// sentence: resolve them against each other directly, with no
	// negated goal to seed set-of-support from.
	if ast.IsFalsum(goal) {
		return p.proveContradiction(axiomClauses, budget, start)
	}

	negGoal := p.f.NewConnective(ast.Not, []ast.Node{goal}, types.Boolean, ast.Metadata{})
	goalClauses := toClauses(p.f, negGoal, &counter, true)

	s, emptyID, dim, exhausted := refute(p.f, goalClauses, axiomClauses, budget)
	elapsed := time.Since(start).Milliseconds()

	if exhausted {
		return proof.NewBuilder(proof.EngineResolution).ResourceExhausted(dim, elapsed, budget.Consumed()), nil
	}
	if emptyID < 0 {
		return proof.NewBuilder(proof.EngineResolution).Unknown(budget.Consumed()), nil
	}

	b := proof.NewBuilder(proof.EngineResolution)
	memo := make(map[int]int)
	emptyStepID := buildProof(b, s, emptyID, p.f, memo)
	// The empty clause is falsum derived from the negated goal plus the
	// axioms; closing the refutation step back onto the goal itself
	// keeps the Proof Object's final step matching its Conclusion, per
	// proof.Validate.
	if _, err := b.Step("refutation", []int{emptyStepID}, goal); err != nil {
		return nil, err
	}
	bindings := answerBindings(goal, ancestorSubst(p.f, s, emptyID))
	return b.Proved(goal, bindings, elapsed, budget.Consumed())
}

// proveContradiction resolves the axiom clauses against each other with
// every axiom clause in the set of support, reporting Contradiction on
// the empty clause and falling back to the ordinary saturated/exhausted
// outcomes of refute otherwise.
func (p *Prover) proveContradiction(axiomClauses []Clause, budget *coordinator.Budget, start time.Time) (*proof.Proof, error) {
	seeded := make([]Clause, len(axiomClauses))
	for i, c := range axiomClauses {
		c.FromGoal = true
		seeded[i] = c
	}

	s, emptyID, dim, exhausted := refute(p.f, seeded, nil, budget)
	elapsed := time.Since(start).Milliseconds()

	if exhausted {
		return proof.NewBuilder(proof.EngineResolution).ResourceExhausted(dim, elapsed, budget.Consumed()), nil
	}
	if emptyID < 0 {
		return proof.NewBuilder(proof.EngineResolution).Unknown(budget.Consumed()), nil
	}

	bottom := p.f.Falsum()
	b := proof.NewBuilder(proof.EngineResolution)
	memo := make(map[int]int)
	emptyStepID := buildProof(b, s, emptyID, p.f, memo)
	if _, err := b.Step("contradiction", []int{emptyStepID}, bottom); err != nil {
		return nil, err
	}
	return b.Contradiction(bottom, elapsed, budget.Consumed())
}

// answerBindings restricts subst to goal's own free variables, per
// §4.6's "bindings carries the answer substitution." It returns nil
// (not an empty map) when goal is a closed sentence or none of its
// free variables were constrained by the refutation, matching the
// nil bindings a sentence goal has always reported.
func answerBindings(goal ast.Node, subst ast.Substitution) proof.Bindings {
	free := ast.FreeVariables(goal)
	if len(free) == 0 || len(subst) == 0 {
		return nil
	}
	var bindings proof.Bindings
	for id, v := range free {
		val, ok := subst[id]
		if !ok {
			continue
		}
		if bindings == nil {
			bindings = proof.Bindings{}
		}
		bindings[v] = val
	}
	return bindings
}
