// Package types is the inferred-type kernel: a closed sum
// of Nat, NatValue, StringValue, Bool, Data, List, Var and ForAll, plus
// the Substitution and Unifier that operate on them. No variant is
// privileged: built-in "kinds" like Matrix or Vector are ordinary Data
// values.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every kernel variant implements.
type Type interface {
	String() string
	Equals(Type) bool
	Substitute(Substitution) Type
}

// Nat is the kind of natural-number type parameters used as dimensions.
type Nat struct{}

func (Nat) String() string                  { return "Nat" }
func (Nat) Equals(o Type) bool              { _, ok := o.(Nat); return ok }
func (n Nat) Substitute(Substitution) Type  { return n }

// NatValue is a fully known natural-number value at the type level.
type NatValue struct {
	K uint64
}

func (n NatValue) String() string { return fmt.Sprintf("%d", n.K) }
func (n NatValue) Equals(o Type) bool {
	other, ok := o.(NatValue)
	return ok && other.K == n.K
}
func (n NatValue) Substitute(Substitution) Type { return n }

// StringValue is a type-level string literal, reserved for label/unit
// parameters.
type StringValue struct {
	S string
}

func (s StringValue) String() string { return fmt.Sprintf("%q", s.S) }
func (s StringValue) Equals(o Type) bool {
	other, ok := o.(StringValue)
	return ok && other.S == s.S
}
func (s StringValue) Substitute(Substitution) Type { return s }

// Bool is the primitive boolean type. Kept distinct from the user-visible
// `data Bool = True | False` that the stdlib declares: the stdlib's Data
// value and this kernel Bool both describe booleans, but only the stdlib
// one participates in pattern-match exhaustiveness. Expression-level boolean literals infer to
// the stdlib Data form so exhaustiveness checking applies uniformly (see
// internal/infer); this kernel Bool exists for signatures that want a
// primitive rather than going through the registry.
type Bool struct{}

func (Bool) String() string                 { return "Bool" }
func (Bool) Equals(o Type) bool             { _, ok := o.(Bool); return ok }
func (b Bool) Substitute(Substitution) Type { return b }

// Data is an application of a data-type constructor: TypeName names the
// declared algebraic data type, Constructor the specific variant, Args
// the ordered child types (one per declared parameter of the data type;
// a shaped literal such as Matrix(2, 2, [...]) on the parameterless Type
// instead carries its dimensions and element type, see internal/infer).
type Data struct {
	TypeName    string
	Constructor string
	Args        []Type
}

func (d Data) String() string {
	if len(d.Args) == 0 {
		return d.TypeName
	}
	parts := make([]string, len(d.Args))
	for i, a := range d.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", d.TypeName, strings.Join(parts, ", "))
}

func (d Data) Equals(o Type) bool {
	other, ok := o.(Data)
	if !ok || other.TypeName != d.TypeName || len(other.Args) != len(d.Args) {
		return false
	}
	// Constructor identity intentionally not compared here: two Data
	// values of the same type but different constructors are still the
	// *same type*. Equals
	// mirrors that rule so List/record membership checks agree with Unify.
	for i := range d.Args {
		if !d.Args[i].Equals(other.Args[i]) {
			return false
		}
	}
	return true
}

func (d Data) Substitute(sub Substitution) Type {
	args := make([]Type, len(d.Args))
	for i, a := range d.Args {
		args[i] = a.Substitute(sub)
	}
	return Data{TypeName: d.TypeName, Constructor: d.Constructor, Args: args}
}

// List is the built-in covariant list type; it carries no length.
type List struct {
	Elem Type
}

func (l List) String() string     { return fmt.Sprintf("[%s]", l.Elem.String()) }
func (l List) Equals(o Type) bool {
	other, ok := o.(List)
	return ok && l.Elem.Equals(other.Elem)
}
func (l List) Substitute(sub Substitution) Type {
	return List{Elem: l.Elem.Substitute(sub)}
}

// Var is a type variable introduced by inference.
type Var struct {
	Name string
}

func (v Var) String() string { return v.Name }
func (v Var) Equals(o Type) bool {
	other, ok := o.(Var)
	return ok && other.Name == v.Name
}
func (v Var) Substitute(sub Substitution) Type {
	if t, ok := sub[v.Name]; ok {
		return t
	}
	return v
}

// ForAll is a type scheme: it universally quantifies Var over Body. Prenex
// only; a ForAll never appears nested under another ForAll binding the
// same variable.
type ForAll struct {
	Vars []string
	Body Type
}

func (f ForAll) String() string {
	return fmt.Sprintf("forall(%s). %s", strings.Join(f.Vars, ", "), f.Body.String())
}
func (f ForAll) Equals(o Type) bool {
	other, ok := o.(ForAll)
	if !ok || len(f.Vars) != len(other.Vars) {
		return false
	}
	return f.Body.Equals(other.Body)
}
func (f ForAll) Substitute(sub Substitution) Type {
	// Bound variables are opaque to an outer substitution: shadow them.
	inner := make(Substitution, len(sub))
	for k, v := range sub {
		inner[k] = v
	}
	for _, v := range f.Vars {
		delete(inner, v)
	}
	return ForAll{Vars: f.Vars, Body: f.Body.Substitute(inner)}
}

// Convenience constructors for the canonical `Type::scalar()` /
// `Type::matrix(m,n)` / `Type::vector(n)` wrappers: thin sugar over Data
// with type_name="Type", nothing more.

func Scalar() Type { return Data{TypeName: "Type", Constructor: "Scalar"} }

func Matrix(m, n Type, elem Type) Type {
	return Data{TypeName: "Type", Constructor: "Matrix", Args: []Type{m, n, elem}}
}

func Vector(n Type, elem Type) Type {
	return Data{TypeName: "Type", Constructor: "Vector", Args: []Type{n, elem}}
}
