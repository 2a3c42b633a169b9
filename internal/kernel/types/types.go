// Package types implements the kernel's type system (C1): atomic,
// function, and parametric types, a subtyping DAG, a signature table,
// and Robinson-style unification over type variables.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface implemented by every type-system node.
type Type interface {
	fmt.Stringer
	Equals(Type) bool
	typeNode()
}

// Atomic is a nullary named type, e.g. "Boolean", "Agent", "Proposition".
type Atomic struct {
	Name string
}

func (a *Atomic) String() string { return a.Name }
func (a *Atomic) typeNode()      {}
func (a *Atomic) Equals(o Type) bool {
	b, ok := o.(*Atomic)
	return ok && a.Name == b.Name
}

// Function is the type of an n-ary operator: args -> ret.
type Function struct {
	Args []Type
	Ret  Type
}

func (f *Function) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s -> %s)", strings.Join(parts, ", "), f.Ret)
}
func (f *Function) typeNode() {}
func (f *Function) Equals(o Type) bool {
	g, ok := o.(*Function)
	if !ok || len(f.Args) != len(g.Args) {
		return false
	}
	for i := range f.Args {
		if !f.Args[i].Equals(g.Args[i]) {
			return false
		}
	}
	return f.Ret.Equals(g.Ret)
}

// ParametricCtor is a type constructor of fixed arity, e.g. List/1, Pair/2.
// It is not itself a type; it must be Instantiated with arguments.
type ParametricCtor struct {
	Name  string
	Arity int
}

func (p *ParametricCtor) String() string { return fmt.Sprintf("%s/%d", p.Name, p.Arity) }
func (p *ParametricCtor) typeNode()      {}
func (p *ParametricCtor) Equals(o Type) bool {
	q, ok := o.(*ParametricCtor)
	return ok && p.Name == q.Name && p.Arity == q.Arity
}

// Instantiated applies a ParametricCtor to concrete type arguments.
type Instantiated struct {
	Ctor *ParametricCtor
	Args []Type
}

func (i *Instantiated) String() string {
	parts := make([]string, len(i.Args))
	for idx, a := range i.Args {
		parts[idx] = a.String()
	}
	return fmt.Sprintf("%s[%s]", i.Ctor.Name, strings.Join(parts, ", "))
}
func (i *Instantiated) typeNode() {}
func (i *Instantiated) Equals(o Type) bool {
	j, ok := o.(*Instantiated)
	if !ok || !i.Ctor.Equals(j.Ctor) || len(i.Args) != len(j.Args) {
		return false
	}
	for k := range i.Args {
		if !i.Args[k].Equals(j.Args[k]) {
			return false
		}
	}
	return true
}

// TypeVar is a unification variable; ID disambiguates shadowed names
// the same way ast.Variable.VarID disambiguates term variables.
type TypeVar struct {
	Name string
	ID   uint64
}

func (t *TypeVar) String() string { return fmt.Sprintf("%s#%d", t.Name, t.ID) }
func (t *TypeVar) typeNode()      {}
func (t *TypeVar) Equals(o Type) bool {
	u, ok := o.(*TypeVar)
	return ok && t.ID == u.ID
}

// Well-known atomic types referenced directly by the AST type rules.
var (
	Boolean      = &Atomic{Name: "Boolean"}
	Proposition  = &Atomic{Name: "Proposition"}
	Individual   = &Atomic{Name: "Individual"}
	Agent        = &Atomic{Name: "Agent"}
	Unspecified  = &Atomic{Name: "Unspecified"}
)
