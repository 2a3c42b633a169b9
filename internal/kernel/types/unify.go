package types

// Substitution maps type-variable IDs to the types that replace them.
type Substitution map[uint64]Type

// Apply recursively replaces every TypeVar bound in sub with its
// mapped type, re-applying to the range as substitutions compose.
func Apply(sub Substitution, t Type) Type {
	if len(sub) == 0 {
		return t
	}
	switch v := t.(type) {
	case *TypeVar:
		if repl, ok := sub[v.ID]; ok {
			return Apply(sub, repl)
		}
		return v
	case *Function:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = Apply(sub, a)
		}
		return &Function{Args: args, Ret: Apply(sub, v.Ret)}
	case *Instantiated:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = Apply(sub, a)
		}
		return &Instantiated{Ctor: v.Ctor, Args: args}
	default:
		return t
	}
}

// Compose merges s2 into s1: apply s2 to every value in s1, then add
// s2's own bindings for variables not already present.
func Compose(s1, s2 Substitution) Substitution {
	out := make(Substitution, len(s1)+len(s2))
	for id, t := range s1 {
		out[id] = Apply(s2, t)
	}
	for id, t := range s2 {
		if _, exists := out[id]; !exists {
			out[id] = t
		}
	}
	return out
}

// occurs reports whether the variable with the given id appears in t.
func occurs(id uint64, t Type) bool {
	switch v := t.(type) {
	case *TypeVar:
		return v.ID == id
	case *Function:
		for _, a := range v.Args {
			if occurs(id, a) {
				return true
			}
		}
		return occurs(id, v.Ret)
	case *Instantiated:
		for _, a := range v.Args {
			if occurs(id, a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// UnifyTypes computes the most general unifier of t1 and t2 under sub,
// Robinson-style with a mandatory occurs-check. A nil Substitution and
// non-nil error means "no such substitution exists" (spec: Option<Substitution> = None).
func UnifyTypes(t1, t2 Type, sub Substitution) (Substitution, error) {
	if sub == nil {
		sub = Substitution{}
	}
	t1 = Apply(sub, t1)
	t2 = Apply(sub, t2)

	if t1.Equals(t2) {
		return sub, nil
	}

	if v, ok := t1.(*TypeVar); ok {
		return bindVar(v, t2, sub)
	}
	if v, ok := t2.(*TypeVar); ok {
		return bindVar(v, t1, sub)
	}

	switch a := t1.(type) {
	case *Atomic:
		return nil, &UnifyError{Kind: ErrTypeMismatch, Message: "cannot unify atomic " + a.Name + " with " + t2.String()}

	case *Function:
		b, ok := t2.(*Function)
		if !ok || len(a.Args) != len(b.Args) {
			return nil, &UnifyError{Kind: ErrArity, Message: "function arity mismatch between " + a.String() + " and " + t2.String()}
		}
		var err error
		for i := range a.Args {
			sub, err = UnifyTypes(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return UnifyTypes(a.Ret, b.Ret, sub)

	case *Instantiated:
		b, ok := t2.(*Instantiated)
		if !ok || !a.Ctor.Equals(b.Ctor) {
			return nil, &UnifyError{Kind: ErrTypeMismatch, Message: "cannot unify " + a.String() + " with " + t2.String()}
		}
		var err error
		for i := range a.Args {
			sub, err = UnifyTypes(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil

	case *ParametricCtor:
		return nil, &UnifyError{Kind: ErrTypeMismatch, Message: "bare parametric constructor " + a.Name + " cannot be unified, it must be instantiated"}

	default:
		return nil, &UnifyError{Kind: ErrTypeMismatch, Message: "unhandled type in unification"}
	}
}

func bindVar(v *TypeVar, t Type, sub Substitution) (Substitution, error) {
	if other, ok := t.(*TypeVar); ok && other.ID == v.ID {
		return sub, nil
	}
	if occurs(v.ID, t) {
		return nil, &UnifyError{Kind: ErrOccursCheck, Message: v.String() + " occurs in " + t.String()}
	}
	out := make(Substitution, len(sub)+1)
	for k, val := range sub {
		out[k] = val
	}
	out[v.ID] = t
	return out, nil
}
