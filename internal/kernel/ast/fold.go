package ast

// Visit calls fn on n and every descendant, pre-order.
func Visit(n Node, fn func(Node)) {
	fn(n)
	for _, c := range Children(n) {
		Visit(c, fn)
	}
}

// Children returns the immediate child nodes of n (not bound variables
// themselves, which are not independently meaningful outside a binder).
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Application:
		return append([]Node{v.Operator}, v.Arguments...)
	case *Quantifier:
		return []Node{v.Body}
	case *Connective:
		return v.Operands
	case *Modal:
		if v.WorldOrAgent != nil {
			return []Node{v.WorldOrAgent, v.Proposition}
		}
		return []Node{v.Proposition}
	case *Lambda:
		return []Node{v.Body}
	case *Definition:
		return []Node{v.Body}
	default:
		return nil
	}
}

// Fold accumulates a value over n and its descendants, pre-order.
func Fold[T any](n Node, acc T, fn func(T, Node) T) T {
	acc = fn(acc, n)
	for _, c := range Children(n) {
		acc = Fold(c, acc, fn)
	}
	return acc
}
