// Package ast implements the kernel's typed, hash-consed abstract
// syntax tree (C2): immutable nodes with structural identity, built
// exclusively through a Factory so that equal structures always share
// the same Go value.
package ast

import (
	"fmt"

	"github.com/kr-engine/godel/internal/kernel/types"
)

// Pos is a position in source text.
type Pos struct {
	Line, Column, Offset int
	File                 string
}

func (p Pos) String() string { return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column) }

// Span is a source range, kept on every node for error reporting.
type Span struct {
	Start, End Pos
}

// Metadata carries the optional, non-structural annotations a node may
// carry: source location, confidence, and probability. Metadata never
// participates in hash-consing or equal_mod_alpha.
type Metadata struct {
	Span        Span
	Confidence  *float64
	Probability *float64
}

// Node is the common interface of every AST variant. Hash is the
// content hash assigned by the owning Factory at construction time;
// Hash(a) == Hash(b) implies a and b are structurally equal (modulo
// alpha-renaming of bound variables), and the converse holds for
// hash-consed nodes (invariant #2 in spec.md §3).
type Node interface {
	fmt.Stringer
	Type() types.Type
	Meta() Metadata
	Hash() string
	exprNode()
}

// QuantKind distinguishes universal and existential quantification.
type QuantKind int

const (
	Forall QuantKind = iota
	Exists
)

func (k QuantKind) String() string {
	if k == Forall {
		return "forall"
	}
	return "exists"
}

// ConnKind enumerates the logical connectives.
type ConnKind int

const (
	Not ConnKind = iota
	And
	Or
	Implies
	Equiv
)

func (k ConnKind) String() string {
	return [...]string{"not", "and", "or", "implies", "equiv"}[k]
}

// ModalOp enumerates the modal operators: necessity, possibility,
// epistemic knowledge (K_a) and doxastic belief (B_a).
type ModalOp int

const (
	Box ModalOp = iota
	Diamond
	Knows
	Believes
)

func (k ModalOp) String() string {
	return [...]string{"box", "diamond", "knows", "believes"}[k]
}

// --- node variants --------------------------------------------------

// Constant is a nullary symbol, optionally carrying an interpreted value.
type Constant struct {
	Name  string
	Value interface{}
	typ   types.Type
	meta  Metadata
	hash  string
}

// Variable is a binding occurrence or use-occurrence of a variable.
// VarID is assigned once, globally unique, at construction; it is what
// distinguishes a free occurrence from any bound occurrence of the
// same surface name (invariant #3 in spec.md §3).
type Variable struct {
	Name  string
	VarID uint64
	typ   types.Type
	meta  Metadata
	hash  string
}

// Application is function/predicate application: operator(arguments...).
type Application struct {
	Operator  Node
	Arguments []Node
	typ       types.Type
	meta      Metadata
	hash      string
}

// Quantifier binds zero or more variables over a body formula.
type Quantifier struct {
	Kind  QuantKind
	Bound []*Variable
	Body  Node
	typ   types.Type
	meta  Metadata
	hash  string
}

// Connective combines one or more operands with a logical connective.
type Connective struct {
	Kind     ConnKind
	Operands []Node
	typ      types.Type
	meta     Metadata
	hash     string
}

// Modal wraps a proposition with a modal operator, optionally labelled
// by a world or agent term (used by K_a/B_a; nil for box/diamond).
type Modal struct {
	Op           ModalOp
	WorldOrAgent Node
	Proposition  Node
	typ          types.Type
	meta         Metadata
	hash         string
}

// Lambda is a typed abstraction over one or more bound variables.
type Lambda struct {
	Bound []*Variable
	Body  Node
	typ   types.Type
	meta  Metadata
	hash  string
}

// Definition binds a symbol to a declared type and a defining body.
type Definition struct {
	Symbol        string
	DeclaredType  types.Type
	Body          Node
	typ           types.Type
	meta          Metadata
	hash          string
}

func (n *Constant) exprNode()    {}
func (n *Variable) exprNode()    {}
func (n *Application) exprNode() {}
func (n *Quantifier) exprNode()  {}
func (n *Connective) exprNode()  {}
func (n *Modal) exprNode()       {}
func (n *Lambda) exprNode()      {}
func (n *Definition) exprNode()  {}

func (n *Constant) Type() types.Type    { return n.typ }
func (n *Variable) Type() types.Type    { return n.typ }
func (n *Application) Type() types.Type { return n.typ }
func (n *Quantifier) Type() types.Type  { return n.typ }
func (n *Connective) Type() types.Type  { return n.typ }
func (n *Modal) Type() types.Type       { return n.typ }
func (n *Lambda) Type() types.Type      { return n.typ }
func (n *Definition) Type() types.Type  { return n.typ }

func (n *Constant) Meta() Metadata    { return n.meta }
func (n *Variable) Meta() Metadata    { return n.meta }
func (n *Application) Meta() Metadata { return n.meta }
func (n *Quantifier) Meta() Metadata  { return n.meta }
func (n *Connective) Meta() Metadata  { return n.meta }
func (n *Modal) Meta() Metadata       { return n.meta }
func (n *Lambda) Meta() Metadata      { return n.meta }
func (n *Definition) Meta() Metadata  { return n.meta }

func (n *Constant) Hash() string    { return n.hash }
func (n *Variable) Hash() string    { return n.hash }
func (n *Application) Hash() string { return n.hash }
func (n *Quantifier) Hash() string  { return n.hash }
func (n *Connective) Hash() string  { return n.hash }
func (n *Modal) Hash() string       { return n.hash }
func (n *Lambda) Hash() string      { return n.hash }
func (n *Definition) Hash() string  { return n.hash }

func (n *Constant) String() string {
	if n.Value != nil {
		return fmt.Sprintf("%s", n.Name)
	}
	return n.Name
}

func (n *Variable) String() string { return "?" + n.Name }

func (n *Application) String() string {
	s := n.Operator.String() + "("
	for i, a := range n.Arguments {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	return s + ")"
}

func (n *Quantifier) String() string {
	s := n.Kind.String() + " "
	for i, v := range n.Bound {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + ". " + n.Body.String()
}

func (n *Connective) String() string {
	if n.Kind == Not {
		return "¬" + n.Operands[0].String()
	}
	sym := map[ConnKind]string{And: " ∧ ", Or: " ∨ ", Implies: " ⇒ ", Equiv: " ≡ "}[n.Kind]
	s := "("
	for i, o := range n.Operands {
		if i > 0 {
			s += sym
		}
		s += o.String()
	}
	return s + ")"
}

func (n *Modal) String() string {
	prefix := map[ModalOp]string{Box: "□", Diamond: "◇", Knows: "K", Believes: "B"}[n.Op]
	if n.WorldOrAgent != nil {
		prefix += "_" + n.WorldOrAgent.String()
	}
	return prefix + n.Proposition.String()
}

func (n *Lambda) String() string {
	s := "λ"
	for i, v := range n.Bound {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + ". " + n.Body.String()
}

func (n *Definition) String() string {
	return fmt.Sprintf("def %s : %s = %s", n.Symbol, n.DeclaredType, n.Body)
}

// falsumName is the nullary symbol a goal uses to ask a prover "derive
// a contradiction from the visible axioms" rather than "prove this
// goal". It parses like any other bare Boolean constant; no grammar
// change is needed to submit it.
const falsumName = "⊥"

// Falsum returns the canonical bottom constant. Since f hash-conses by
// content, every call with the same Factory returns the identical node
// used elsewhere to render an empty resolution clause.
func (f *Factory) Falsum() *Constant {
	return f.NewConstant(falsumName, nil, types.Boolean, Metadata{})
}

// IsFalsum reports whether n is the canonical bottom constant, i.e.
// whether a goal asks to derive a contradiction rather than prove a
// sentence.
func IsFalsum(n Node) bool {
	c, ok := n.(*Constant)
	return ok && c.Name == falsumName && c.Value == nil
}
