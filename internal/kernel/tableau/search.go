package tableau

import (
	"time"

	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/coordinator"
	"github.com/kr-engine/godel/internal/kernel/proof"
	"github.com/kr-engine/godel/internal/kernel/types"
)

type outcome int

const (
	resultOpen outcome = iota
	resultClosed
	resultExhausted
)

// state is shared across every branch of one tableau search: the
// world counter must stay globally unique even across sibling
// branches spawned by a beta split, and every branch's closing
// contradiction contributes one leaf to the same proof derivation.
type state struct {
	b            *proof.Builder
	budget       *coordinator.Budget
	nextWorld    int
	closureSteps []int
	splitDepth   int
}

func (st *state) recordClosure(f *ast.Factory, a, bNode ast.Node) {
	conclusion := f.NewConnective(ast.And, []ast.Node{a, bNode}, types.Boolean, ast.Metadata{})
	id, _ := st.b.Step("tableau-close", nil, conclusion)
	st.closureSteps = append(st.closureSteps, id)
}

// reapply pushes every recorded box-like obligation at an edge's
// source world across that (possibly newly created) edge, matching
// spec §4.9's "re-triggered whenever a new accessibility edge touches
// w" rule for □.
func (br *Branch) reapply(edges []Edge) {
	for _, e := range edges {
		for _, uni := range br.universals {
			if uni.World == e.From {
				br.queue = append(br.queue, Labelled{e.To, uni.Formula})
			}
		}
	}
}

// expand saturates br under the alpha and box rules, then resolves at
// most one pending branching or world-creating obligation and
// recurses, until the branch closes, saturates open, or a resource
// dimension runs out.
func (st *state) expand(f *ast.Factory, br *Branch) (outcome, proof.Dimension) {
	for len(br.queue) > 0 {
		dim, exhausted := st.budget.Tick(time.Now().UnixMilli(), 1, st.splitDepth)
		if exhausted {
			return resultExhausted, dim
		}
		l := br.queue[0]
		br.queue = br.queue[1:]
		if !br.assert(l) {
			continue
		}
		if a, bNode, closed := br.closedAt(l.World); closed {
			st.recordClosure(f, a, bNode)
			return resultClosed, proof.DimensionNone
		}

		exp := classify(f, l.Formula)
		switch exp.kind {
		case literalRule:
			// nothing further to decompose
		case alphaRule:
			for _, n := range exp.alpha {
				br.queue = append(br.queue, Labelled{l.World, n})
			}
		case betaRule:
			br.pendingBeta = append(br.pendingBeta, Labelled{l.World, l.Formula})
		case universalRule:
			br.universals = append(br.universals, Labelled{l.World, exp.prop})
			for _, succ := range br.r.Successors(l.World) {
				br.queue = append(br.queue, Labelled{succ, exp.prop})
			}
		case existentialRule:
			br.pendingExistential = append(br.pendingExistential, Labelled{l.World, exp.prop})
		}
	}

	if len(br.pendingBeta) > 0 {
		return st.expandBeta(f, br)
	}
	if len(br.pendingExistential) > 0 {
		return st.expandExistential(f, br)
	}
	if br.r.system == D {
		for w := range br.formulas {
			if edges := br.r.EnsureSerial(w); len(edges) > 0 {
				br.reapply(edges)
				return st.expand(f, br)
			}
		}
	}
	return resultOpen, proof.DimensionNone
}

// expandBeta pops one branching obligation and tries every
// alternative on its own child branch. The original branch set is
// unsatisfiable (closes) only if every alternative's child closes; one
// open child already witnesses a model for the whole branch.
func (st *state) expandBeta(f *ast.Factory, br *Branch) (outcome, proof.Dimension) {
	l := br.pendingBeta[0]
	br.pendingBeta = br.pendingBeta[1:]
	exp := classify(f, l.Formula)

	for _, alt := range exp.alternatives {
		child := br.clone()
		for _, n := range alt {
			child.queue = append(child.queue, Labelled{l.World, n})
		}
		st.splitDepth++
		res, dim := st.expand(f, child)
		st.splitDepth--
		if res == resultExhausted {
			return resultExhausted, dim
		}
		if res == resultOpen {
			return resultOpen, proof.DimensionNone
		}
	}
	return resultClosed, proof.DimensionNone
}

// expandExistential witnesses a diamond-like obligation: under S4/S5,
// a world already satisfying the witnessed proposition is reused
// (loop blocking per spec §4.9); otherwise a fresh world is created
// and linked by R.
func (st *state) expandExistential(f *ast.Factory, br *Branch) (outcome, proof.Dimension) {
	l := br.pendingExistential[0]
	br.pendingExistential = br.pendingExistential[1:]

	var target int
	var edges []Edge
	if br.r.system == S4 || br.r.system == S5 {
		if w, ok := br.hasWitness(l.Formula); ok {
			target = w
			edges = append(edges, br.r.AddEdge(l.World, target)...)
			br.reapply(edges)
			br.queue = append(br.queue, Labelled{target, l.Formula})
			return st.expand(f, br)
		}
	}

	target = st.nextWorld
	st.nextWorld++
	edges = append(edges, br.r.Introduce(target)...)
	edges = append(edges, br.r.AddEdge(l.World, target)...)
	br.reapply(edges)
	br.queue = append(br.queue, Labelled{target, l.Formula})
	return st.expand(f, br)
}
