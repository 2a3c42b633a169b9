package coordinator

import (
	"github.com/kr-engine/godel/internal/kernel/ast"
	"github.com/kr-engine/godel/internal/kernel/proof"
)

// theorySymbols names the constant symbols recognized as belonging to
// a bridge-supported theory (arithmetic, arrays, bitvectors) rather
// than to the uninterpreted HOL signature. This is necessarily a fixed
// list rather than a syntactic property of the AST, since HOL itself
// has no built-in notion of "theory symbol".
var theorySymbols = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"select": true, "store": true,
}

// classify orders the prover engines worth trying for goal, primary
// candidate first, following spec §4.7's "goal analysis": a modal
// operator anywhere in the goal routes to the tableau prover, an
// occurrence of a recognized theory symbol routes to the bridge,
// otherwise the goal is treated as purely first-order and routed to
// resolution. Argumentation is never chosen by syntactic inspection
// alone — only an explicit Hints.Engine or Hints.Order naming it
// selects it, since "asks for analogy/defeasible closure" is a
// property of the caller's intent, not of the goal formula's shape.
func classify(goal ast.Node) []proof.Engine {
	hasModal := false
	hasTheory := false
	ast.Visit(goal, func(n ast.Node) {
		switch v := n.(type) {
		case *ast.Modal:
			hasModal = true
		case *ast.Constant:
			if theorySymbols[v.Name] {
				hasTheory = true
			}
		}
	})

	switch {
	case hasModal:
		return []proof.Engine{proof.EngineTableau, proof.EngineResolution}
	case hasTheory:
		return []proof.Engine{proof.EngineBridge, proof.EngineResolution}
	default:
		return []proof.Engine{proof.EngineResolution, proof.EngineTableau}
	}
}
