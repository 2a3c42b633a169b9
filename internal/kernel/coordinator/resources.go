package coordinator

import "github.com/kr-engine/godel/internal/kernel/proof"

// ResourceLimits bounds a single submit_goal call along the four axes
// spec.md §5 names. Memory is tracked as a node-count proxy (the
// number of hash-consed AST nodes allocated during the call), not RSS,
// since exact memory accounting is not portable across platforms.
type ResourceLimits struct {
	TimeMS int64
	Depth  int
	Nodes  int
	Memory int64
}

// Budget tracks ResourceLimits consumption during one prover
// invocation. The resolution and tableau provers call Tick on every
// inference step; the BudgetCheckEveryN setting in internal/kernelconfig
// is not read here or by those provers.
type Budget struct {
	Limits   ResourceLimits
	stepped  int
	nodes    int
	depth    int
	memory   int64
	deadline int64 // unix millis; 0 means unbounded
}

// NewBudget starts a Budget against limits, with deadline the unix
// millisecond time at which the call must stop (0 for no deadline).
func NewBudget(limits ResourceLimits, deadline int64) *Budget {
	return &Budget{Limits: limits, deadline: deadline}
}

// Tick records one inference step having consumed the given amount of
// node allocation, and reports the exhausted dimension, if any.
func (b *Budget) Tick(nowMS int64, nodesAllocated int, depth int) (proof.Dimension, bool) {
	b.stepped++
	b.nodes += nodesAllocated
	if depth > b.depth {
		b.depth = depth
	}
	if b.deadline != 0 && nowMS >= b.deadline {
		return proof.DimensionTime, true
	}
	if b.Limits.Depth > 0 && b.depth > b.Limits.Depth {
		return proof.DimensionDepth, true
	}
	if b.Limits.Nodes > 0 && b.nodes > b.Limits.Nodes {
		return proof.DimensionNodes, true
	}
	if b.Limits.Memory > 0 && int64(b.nodes) > b.Limits.Memory {
		return proof.DimensionMemory, true
	}
	return proof.DimensionNone, false
}

// Consumed reports the resources_consumed map for the finished Proof
// Object.
func (b *Budget) Consumed() map[string]int64 {
	return map[string]int64{
		"nodes": int64(b.nodes),
		"depth": int64(b.depth),
		"steps": int64(b.stepped),
	}
}
