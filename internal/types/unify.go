package types

import "fmt"

// UnifyError is returned by Unify on failure; SignatureInterpreter and
// TypeInference translate it into a *diag.Report with source position
// attached (the kernel here stays position-agnostic).
type UnifyError struct {
	Kind string // "TypeMismatch", "InfiniteType", "DimensionMismatch", "ArityMismatch"
	T1   Type
	T2   Type
	Msg  string
}

func (e *UnifyError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s vs %s", e.Kind, e.T1, e.T2)
}

// Unifier performs structural unification with occurs check over the
// kernel Type sum, including recursive unification of Data argument
// lists. It is used uniformly by SignatureInterpreter; no
// specialised path exists for built-in types.
type Unifier struct{}

// NewUnifier constructs a Unifier. It is stateless today; the constructor
// leaves room for future configuration (e.g. toggling string-parameter
// binding).
func NewUnifier() *Unifier { return &Unifier{} }

// Unify attempts to unify t1 and t2 under sub, returning an extended
// substitution or a *UnifyError.
func (u *Unifier) Unify(t1, t2 Type, sub Substitution) (Substitution, error) {
	t1 = Apply(sub, t1)
	t2 = Apply(sub, t2)

	if t1.Equals(t2) {
		return sub, nil
	}

	switch a := t1.(type) {
	case Var:
		return u.bindVar(a, t2, sub)
	case ForAll:
		return u.Unify(Instantiate(a), t2, sub)
	}

	switch b := t2.(type) {
	case Var:
		return u.bindVar(b, t1, sub)
	case ForAll:
		return u.Unify(t1, Instantiate(b), sub)
	}

	switch a := t1.(type) {
	case Nat:
		if _, ok := t2.(Nat); ok {
			return sub, nil
		}
		if _, ok := t2.(NatValue); ok {
			// Nat = NatValue(_) refines.
			return sub, nil
		}
		return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2}

	case NatValue:
		if b, ok := t2.(NatValue); ok {
			if a.K == b.K {
				return sub, nil
			}
			return nil, &UnifyError{Kind: "DimensionMismatch", T1: t1, T2: t2,
				Msg: fmt.Sprintf("dimension mismatch: %d vs %d", a.K, b.K)}
		}
		if _, ok := t2.(Nat); ok {
			return sub, nil
		}
		return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2}

	case StringValue:
		if b, ok := t2.(StringValue); ok && a.S == b.S {
			return sub, nil
		}
		return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2}

	case Bool:
		if _, ok := t2.(Bool); ok {
			return sub, nil
		}
		return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2}

	case List:
		b, ok := t2.(List)
		if !ok {
			return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2}
		}
		return u.Unify(a.Elem, b.Elem, sub)

	case Data:
		b, ok := t2.(Data)
		if !ok {
			return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2}
		}
		if a.TypeName != b.TypeName {
			return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2,
				Msg: fmt.Sprintf("cannot unify %s with %s", a.TypeName, b.TypeName)}
		}
		if len(a.Args) != len(b.Args) {
			return nil, &UnifyError{Kind: "ArityMismatch", T1: t1, T2: t2,
				Msg: fmt.Sprintf("%s arity mismatch: %d vs %d", a.TypeName, len(a.Args), len(b.Args))}
		}
		// Recursive nominal unification: constructor identity (a.Constructor
		// vs b.Constructor) is deliberately NOT checked. At the type level a
		// value of any variant has the type of its data type, which is what
		// lets match branches returning different constructors share a
		// result type.
		var err error
		for i := range a.Args {
			sub, err = u.Unify(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, fmt.Errorf("arg %d of %s: %w", i, a.TypeName, err)
			}
		}
		return sub, nil

	default:
		return nil, &UnifyError{Kind: "TypeMismatch", T1: t1, T2: t2,
			Msg: fmt.Sprintf("unhandled type in unification: %T", t1)}
	}
}

func (u *Unifier) bindVar(v Var, t Type, sub Substitution) (Substitution, error) {
	if other, ok := t.(Var); ok && other.Name == v.Name {
		return sub, nil
	}
	if occurs(v.Name, t) {
		return nil, &UnifyError{Kind: "InfiniteType", T1: v, T2: t,
			Msg: fmt.Sprintf("occurs check failed: %s occurs in %s", v.Name, t.String())}
	}
	next := make(Substitution, len(sub)+1)
	for k, val := range sub {
		next[k] = val
	}
	next[v.Name] = t
	return next, nil
}

func occurs(name string, t Type) bool {
	switch v := t.(type) {
	case Var:
		return v.Name == name
	case Data:
		for _, a := range v.Args {
			if occurs(name, a) {
				return true
			}
		}
		return false
	case List:
		return occurs(name, v.Elem)
	case ForAll:
		for _, b := range v.Vars {
			if b == name {
				return false
			}
		}
		return occurs(name, v.Body)
	default:
		return false
	}
}
