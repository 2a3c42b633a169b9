// Package bridge defines the External Theory Bridge contract (C11):
// an interface-only adapter to an external decision procedure for the
// sorts HOL itself does not reason about natively. Spec §4.11 names no
// concrete tool, so this package has no implementation beyond the
// interface and the coordinator-facing wrapper that translates a Proof
// Object step around whatever a caller plugs in.
package bridge

import (
	"context"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// Sort names one of the theories a bridge may be asked about.
type Sort int

const (
	Integer Sort = iota
	Real
	Bitvector
	ArraySort
	Uninterpreted
)

func (s Sort) String() string {
	switch s {
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Bitvector:
		return "bitvector"
	case ArraySort:
		return "array"
	case Uninterpreted:
		return "uninterpreted"
	default:
		return "unknown"
	}
}

// Options carries solver-specific tuning (e.g. a timeout string, a
// logic name) as opaque key-value pairs; no option is interpreted by
// this package.
type Options map[string]string

// ReplyKind is one of check_sat's three possible outcomes (spec §4.11).
type ReplyKind int

const (
	Sat ReplyKind = iota
	Unsat
	Unknown
)

func (k ReplyKind) String() string {
	switch k {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	case Unknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// Reply is a theory bridge's answer to one check_sat call: Model
// populated only for Sat, Core only for Unsat, Reason only for
// Unknown.
type Reply struct {
	Kind   ReplyKind
	Model  map[string]ast.Node
	Core   []ast.Node
	Reason string
}

// TheoryBridge is the external decision procedure contract spec §4.11
// names: check_sat(formula, assumptions, theory_tag, options). Tag
// identifies which underlying theory/solver configuration to invoke
// (e.g. "QF_LIA", "QF_BV"); this package does not constrain its value.
type TheoryBridge interface {
	CheckSat(ctx context.Context, formula ast.Node, assumptions []ast.Node, tag string, opts Options) (Reply, error)
}
