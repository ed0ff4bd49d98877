// Package ast defines the language-agnostic representation of Kleis
// declarations, type expressions, patterns, and value expressions consumed
// by the type layer. It is deliberately silent on concrete syntax: nothing
// here tokenizes or parses source text (that belongs to a front-end
// collaborator); a Program is built by hand or by a parser collaborator and
// handed to internal/context.
package ast

import "fmt"

// Pos is a source position, carried through for diagnostics. The core never
// interprets it beyond carrying it along to internal/diag.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// ParamKind is the kind of a structure or data-type parameter.
type ParamKind int

const (
	// KindType is the default: the parameter ranges over types.
	KindType ParamKind = iota
	// KindNat: the parameter ranges over natural-number dimensions.
	KindNat
	// KindString: the parameter ranges over type-level string literals.
	KindString
)

func (k ParamKind) String() string {
	switch k {
	case KindNat:
		return "Nat"
	case KindString:
		return "String"
	default:
		return "Type"
	}
}

// ParamDecl declares one parameter of a data type or structure.
type ParamDecl struct {
	Name string
	Kind ParamKind
	Pos  Pos
}

// Program is a whole parsed input: an ordered list of top-level
// declarations, processed top-down.
type Program struct {
	Decls []Decl
}

// Decl is the closed sum of top-level declarations.
type Decl interface {
	declNode()
	Position() Pos
}

// Field is one carrier of a data variant: either named or purely
// positional (Name == "").
type Field struct {
	Name string
	Type TypeExpr
}

// DataVariant is one constructor of an algebraic data type.
type DataVariant struct {
	Name   string
	Fields []Field
	Pos    Pos
}

// DataDef declares an algebraic data type.
type DataDef struct {
	Name       string
	TypeParams []ParamDecl
	Variants   []DataVariant
	Pos        Pos
}

func (*DataDef) declNode()        {}
func (d *DataDef) Position() Pos  { return d.Pos }

// StructureRef names a structure together with concrete or variable
// arguments, as used in `extends`/`over` clauses.
type StructureRef struct {
	Name string
	Args []TypeExpr
	Pos  Pos
}

// Constraint is one entry of a structure's `where` clause: "type param P
// must satisfy structure S".
type Constraint struct {
	Param     string
	Structure StructureRef
	Pos       Pos
}

// OperationDecl declares one operation signature inside a structure.
type OperationDecl struct {
	Name      string
	Signature TypeExpr // may be a Scheme (quantified)
	Pos       Pos
}

// Axiom is a named proposition over a structure's parameters, stored
// verbatim; the core never evaluates or simplifies it.
type Axiom struct {
	Name        string
	Proposition Expression
	Pos         Pos
}

// StructureDef declares a structure (interface): its parameters,
// operations, and axioms, plus optional inheritance/refinement clauses.
type StructureDef struct {
	Name             string
	TypeParams       []ParamDecl
	Extends          []StructureRef
	Over             *StructureRef
	Where            []Constraint
	Operations       []OperationDecl
	Axioms           []Axiom
	NestedStructures []*StructureDef
	Pos              Pos
}

func (*StructureDef) declNode()       {}
func (s *StructureDef) Position() Pos { return s.Pos }

// Binding is one `operation NAME = IMPL` or `element NAME = EXPR` entry of
// an implements block.
type Binding struct {
	OpName string
	Impl   Expression
	Pos    Pos
}

// ImplementsDef binds a structure, instantiated at concrete type
// arguments, to concrete operation implementations.
type ImplementsDef struct {
	StructureName string
	TypeArgs      []TypeExpr
	Over          TypeExpr // optional; nil if absent
	Bindings      []Binding
	Pos           Pos
}

func (*ImplementsDef) declNode()       {}
func (i *ImplementsDef) Position() Pos { return i.Pos }

// FunctionDef is an optional, first-order, monomorphic top-level
// definition.
type FunctionDef struct {
	Name   string
	Params []string
	Body   Expression
	Pos    Pos
}

func (*FunctionDef) declNode()       {}
func (f *FunctionDef) Position() Pos { return f.Pos }
