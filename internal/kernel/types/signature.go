package types

import "fmt"

// SignatureTable maps symbol names to their declared types, and tracks
// parametric type constructors declared via define_parametric.
type SignatureTable struct {
	symbols    map[string]Type
	parametric map[string]*ParametricCtor
	dag        *SubtypeDAG
}

// NewSignatureTable creates an empty table with a fresh subtype DAG.
func NewSignatureTable() *SignatureTable {
	return &SignatureTable{
		symbols:    make(map[string]Type),
		parametric: make(map[string]*ParametricCtor),
		dag:        NewSubtypeDAG(),
	}
}

// DAG exposes the underlying subtyping DAG (for is_subtype/AddEdge).
func (s *SignatureTable) DAG() *SubtypeDAG { return s.dag }

// DefineAtomic declares a new atomic type and its immediate supertypes.
func (s *SignatureTable) DefineAtomic(name string, supertypes ...Type) (*Atomic, error) {
	t := &Atomic{Name: name}
	for _, super := range supertypes {
		if err := s.dag.AddEdge(t, super); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// DefineFunction declares a symbol's functional type signature.
func (s *SignatureTable) DefineFunction(name string, args []Type, ret Type) error {
	if _, exists := s.symbols[name]; exists {
		return fmt.Errorf("symbol %q already declared", name)
	}
	s.symbols[name] = &Function{Args: args, Ret: ret}
	return nil
}

// DefineParametric declares a parametric type constructor of fixed arity.
func (s *SignatureTable) DefineParametric(name string, arity int) *ParametricCtor {
	ctor := &ParametricCtor{Name: name, Arity: arity}
	s.parametric[name] = ctor
	return ctor
}

// GetType looks up a symbol's declared type.
func (s *SignatureTable) GetType(name string) (Type, bool) {
	t, ok := s.symbols[name]
	return t, ok
}

// GetCtor looks up a parametric type constructor by name.
func (s *SignatureTable) GetCtor(name string) (*ParametricCtor, bool) {
	c, ok := s.parametric[name]
	return c, ok
}

// IsSubtype delegates to the subtype DAG.
func (s *SignatureTable) IsSubtype(a, b Type) bool { return s.dag.IsSubtype(a, b) }

// Symbols returns every declared symbol's type, for callers (snapshot/
// restore) that need to enumerate the whole table rather than look up
// one name at a time.
func (s *SignatureTable) Symbols() map[string]Type {
	out := make(map[string]Type, len(s.symbols))
	for k, v := range s.symbols {
		out[k] = v
	}
	return out
}

// Parametrics returns every declared parametric constructor by name.
func (s *SignatureTable) Parametrics() map[string]*ParametricCtor {
	out := make(map[string]*ParametricCtor, len(s.parametric))
	for k, v := range s.parametric {
		out[k] = v
	}
	return out
}
