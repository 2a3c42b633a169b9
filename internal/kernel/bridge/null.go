package bridge

import (
	"context"

	"github.com/kr-engine/godel/internal/kernel/ast"
)

// NullBridge answers every check_sat call with Unknown. Spec §4.11
// mandates no specific external tool, so a kr facade with no theory
// bridge configured wires this in as the default C11 strategy: goals
// containing theory symbols simply fail to resolve via the bridge
// route rather than panicking on a nil interface.
type NullBridge struct{ Reason string }

func (n NullBridge) CheckSat(ctx context.Context, formula ast.Node, assumptions []ast.Node, tag string, opts Options) (Reply, error) {
	reason := n.Reason
	if reason == "" {
		reason = "no theory bridge configured"
	}
	return Reply{Kind: Unknown, Reason: reason}, nil
}
