package proof

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// Builder accumulates proof steps in derivation order so that a prover
// can construct a Proof Object incrementally without re-validating the
// DAG invariant after every step: since Step only ever appends and
// only accepts premise IDs already returned by an earlier call, a
// cycle is structurally impossible.
type Builder struct {
	steps  []ProofStep
	axioms *set.Set[ast.Node]
	engine Engine
}

// NewBuilder starts a derivation for the named engine.
func NewBuilder(engine Engine) *Builder {
	return &Builder{axioms: set.New[ast.Node](8), engine: engine}
}

// Axiom records stmt as a premise drawn directly from the knowledge
// store (a leaf of the proof DAG) and returns its step ID.
func (b *Builder) Axiom(stmt ast.Node) int {
	b.axioms.Insert(stmt)
	id := len(b.steps)
	b.steps = append(b.steps, ProofStep{ID: id, Rule: "axiom", Conclusion: stmt})
	return id
}

// Step records a rule application deriving conclusion from the steps
// identified by premises, returning the new step's ID. It is an error
// to cite a premise ID that has not yet been produced.
func (b *Builder) Step(rule string, premises []int, conclusion ast.Node) (int, error) {
	id := len(b.steps)
	for _, p := range premises {
		if p < 0 || p >= id {
			return 0, fmt.Errorf("proof builder: premise %d not yet derived (deriving step %d)", p, id)
		}
	}
	b.steps = append(b.steps, ProofStep{ID: id, Rule: rule, Premises: premises, Conclusion: conclusion})
	return id, nil
}

// Len reports how many steps have been recorded so far.
func (b *Builder) Len() int { return len(b.steps) }

// Proved finishes the derivation with a Proved outcome: conclusion
// must equal the (instantiated) goal, and bindings carries the answer
// substitution for the goal's free variables.
func (b *Builder) Proved(conclusion ast.Node, bindings Bindings, timeMS int64, resources map[string]int64) (*Proof, error) {
	return b.finish(true, conclusion, bindings, Status{Code: Proved}, timeMS, resources)
}

// Disproved finishes the derivation with a Disproved outcome: the
// recorded steps refute the goal, concluding its negation.
func (b *Builder) Disproved(conclusion ast.Node, timeMS int64, resources map[string]int64) (*Proof, error) {
	return b.finish(false, conclusion, nil, Status{Code: Disproved}, timeMS, resources)
}

// Contradiction finishes the derivation with a Contradiction outcome:
// the recorded steps derive falsum from the candidate premises alone,
// independent of the goal.
func (b *Builder) Contradiction(bottom ast.Node, timeMS int64, resources map[string]int64) (*Proof, error) {
	return b.finish(false, bottom, nil, Status{Code: Contradiction}, timeMS, resources)
}

// Unknown finishes the derivation (possibly empty) reporting that the
// strategy neither proved nor refuted the goal within the steps tried.
func (b *Builder) Unknown(resources map[string]int64) *Proof {
	p, _ := b.finish(false, nil, nil, Status{Code: Unknown}, 0, resources)
	return p
}

// ResourceExhausted finishes the derivation reporting that dimension
// ran out before the strategy could settle the goal.
func (b *Builder) ResourceExhausted(dimension Dimension, timeMS int64, resources map[string]int64) *Proof {
	p, _ := b.finish(false, nil, nil, Status{Code: ResourceExhausted, Dimension: dimension}, timeMS, resources)
	return p
}

// StrategyFailed finishes the derivation reporting that the chosen
// prover is not applicable to the goal (as opposed to having tried and
// run out of resources or search space).
func (b *Builder) StrategyFailed(resources map[string]int64) *Proof {
	p, _ := b.finish(false, nil, nil, Status{Code: StrategyFailed}, 0, resources)
	return p
}

func (b *Builder) finish(achieved bool, conclusion ast.Node, bindings Bindings, status Status, timeMS int64, resources map[string]int64) (*Proof, error) {
	p := &Proof{
		GoalAchieved:      achieved,
		Conclusion:        conclusion,
		Bindings:          bindings,
		Status:            status,
		Steps:             b.steps,
		UsedAxioms:        b.axioms,
		Engine:            b.engine,
		TimeMS:            timeMS,
		ResourcesConsumed: resources,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
