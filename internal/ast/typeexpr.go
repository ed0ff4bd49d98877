package ast

import (
	"fmt"
	"strings"
)

// TypeExpr is the closed sum of type expressions appearing in source:
// operation signatures, data-variant field types, `extends`/`over` clauses.
// It is the un-inferred, syntactic counterpart of internal/types.Type.
type TypeExpr interface {
	typeExprNode()
	Position() Pos
	String() string
}

// TypeRef applies a named type (built-in List and Nat aside, always a registered
// data type or a bare type parameter) to zero or more argument
// TypeExprs, e.g. `Matrix(m, n, T)` or a bare `T`.
type TypeRef struct {
	Name string
	Args []TypeExpr
	Pos  Pos
}

func (*TypeRef) typeExprNode()   {}
func (t *TypeRef) Position() Pos { return t.Pos }
func (t *TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(args, ", "))
}

// NatLit is a literal natural-number dimension, e.g. the `3` in
// `Vector(3, ℝ)`.
type NatLit struct {
	Value uint64
	Pos   Pos
}

func (*NatLit) typeExprNode()    {}
func (n *NatLit) Position() Pos  { return n.Pos }
func (n *NatLit) String() string { return fmt.Sprintf("%d", n.Value) }

// StringLit is a literal type-level string, reserved for label/unit
// parameters.
type StringLit struct {
	Value string
	Pos   Pos
}

func (*StringLit) typeExprNode()   {}
func (s *StringLit) Position() Pos { return s.Pos }
func (s *StringLit) String() string {
	return fmt.Sprintf("%q", s.Value)
}

// ListTypeExpr is the built-in covariant list type.
type ListTypeExpr struct {
	Element TypeExpr
	Pos     Pos
}

func (*ListTypeExpr) typeExprNode()   {}
func (l *ListTypeExpr) Position() Pos { return l.Pos }
func (l *ListTypeExpr) String() string {
	return fmt.Sprintf("[%s]", l.Element.String())
}

// FuncTypeExpr is a (possibly multi-argument) function signature,
// `τ1 → τ2 → … → ρ`, as used for operation declarations.
type FuncTypeExpr struct {
	Params []TypeExpr
	Result TypeExpr
	Pos    Pos
}

func (*FuncTypeExpr) typeExprNode()   {}
func (f *FuncTypeExpr) Position() Pos { return f.Pos }
func (f *FuncTypeExpr) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s -> %s", strings.Join(params, ", "), f.Result.String())
}

// SchemeExpr is a quantified operation signature, `∀(p1, p2…). body`.
// Quantified parameters carry their kind (Type/Nat/String) so the
// signature interpreter knows which binding table to populate.
type SchemeExpr struct {
	Params []ParamDecl
	Body   TypeExpr
	Pos    Pos
}

func (*SchemeExpr) typeExprNode()   {}
func (s *SchemeExpr) Position() Pos { return s.Pos }
func (s *SchemeExpr) String() string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return fmt.Sprintf("forall(%s). %s", strings.Join(names, ", "), s.Body.String())
}
