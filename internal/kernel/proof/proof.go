// Package proof defines the single canonical reply type returned by
// every prover in the kernel: the Proof Object.
package proof

import (
	"fmt"

	"github.com/hashicorp/go-set/v3"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// StatusCode is one of the six outcomes a prover may report. Logical
// outcomes (Disproved, Unknown, Contradiction) are ordinary values, not
// errors: only a precondition violation raised before a prover even
// starts (ill-typed goal, unknown context) propagates as an error.
type StatusCode int

const (
	Proved StatusCode = iota
	Disproved
	Unknown
	ResourceExhausted
	Contradiction
	StrategyFailed
)

func (s StatusCode) String() string {
	switch s {
	case Proved:
		return "Proved"
	case Disproved:
		return "Disproved"
	case Unknown:
		return "Unknown"
	case ResourceExhausted:
		return "ResourceExhausted"
	case Contradiction:
		return "Contradiction"
	case StrategyFailed:
		return "StrategyFailed"
	default:
		return "Unknown"
	}
}

// Dimension names the resource axis that exhausted, meaningful only
// when a Status's Code is ResourceExhausted.
type Dimension int

const (
	DimensionNone Dimension = iota
	DimensionTime
	DimensionDepth
	DimensionNodes
	DimensionMemory
)

func (d Dimension) String() string {
	switch d {
	case DimensionTime:
		return "Time"
	case DimensionDepth:
		return "Depth"
	case DimensionNodes:
		return "Nodes"
	case DimensionMemory:
		return "Memory"
	default:
		return "None"
	}
}

// Status is the Proof Object's outcome field: a stable code plus, for
// ResourceExhausted, the dimension that ran out.
type Status struct {
	Code      StatusCode
	Dimension Dimension
}

func (s Status) String() string {
	if s.Code == ResourceExhausted {
		return fmt.Sprintf("ResourceExhausted{%s}", s.Dimension)
	}
	return s.Code.String()
}

// Engine names which prover produced a Proof Object.
type Engine int

const (
	EngineResolution Engine = iota
	EngineTableau
	EngineArgumentation
	EngineBridge
)

func (e Engine) String() string {
	switch e {
	case EngineResolution:
		return "resolution"
	case EngineTableau:
		return "tableau"
	case EngineArgumentation:
		return "argumentation"
	case EngineBridge:
		return "bridge"
	default:
		return "unknown"
	}
}

// Bindings is the answer substitution carried by a Proved result,
// keyed by the goal's free variables.
type Bindings map[*ast.Variable]ast.Node

// ProofStep is one node of the proof_steps DAG: a rule application
// deriving Conclusion from zero or more earlier steps (identified by
// index into the owning Proof's Steps slice). A step with no Premises
// is a leaf: either an axiom recorded in UsedAxioms (Rule "axiom") or
// a rule application that cites no earlier step, such as a tableau
// closure.
type ProofStep struct {
	ID         int
	Rule       string
	Premises   []int
	Conclusion ast.Node
}

// Proof is the kernel's single canonical reply type, returned by every
// prover and by the coordinator that orchestrates them.
type Proof struct {
	GoalAchieved      bool
	Conclusion        ast.Node
	Bindings          Bindings
	Status            Status
	Steps             []ProofStep
	UsedAxioms        *set.Set[ast.Node]
	Engine            Engine
	TimeMS            int64
	ResourcesConsumed map[string]int64
}

// Validate checks the structural invariants of the proof_steps DAG:
// every step's premises must reference strictly earlier steps (which,
// since Builder only ever appends, already rules out cycles by
// construction) and, for an outcome that names a conclusion (Proved,
// Disproved, Contradiction), the final step's conclusion must match
// the Proof's own Conclusion field so the DAG is traversable from
// conclusion down to its axioms.
func (p *Proof) Validate() error {
	for _, step := range p.Steps {
		for _, premise := range step.Premises {
			if premise < 0 || premise >= step.ID {
				return fmt.Errorf("proof step %d cites non-earlier premise %d", step.ID, premise)
			}
		}
	}
	switch p.Status.Code {
	case Proved, Disproved, Contradiction:
		if len(p.Steps) == 0 {
			return fmt.Errorf("status %s requires at least one proof step", p.Status)
		}
		last := p.Steps[len(p.Steps)-1]
		if p.Conclusion != nil && !nodeEqual(last.Conclusion, p.Conclusion) {
			return fmt.Errorf("final proof step concludes %s, want %s", last.Conclusion, p.Conclusion)
		}
	}
	return nil
}

func nodeEqual(a, b ast.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Hash() == b.Hash()
}

// Inconclusive reports whether a Proof Object's status is one that is
// not the final word on the goal (as opposed to Proved/Disproved/
// Contradiction, which settle it).
func (p *Proof) Inconclusive() bool {
	return p.Status.Code == Unknown || p.Status.Code == ResourceExhausted || p.Status.Code == StrategyFailed
}
