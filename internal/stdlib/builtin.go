// Package stdlib implements StdlibLoader: it builds the
// built-in declarations the core ships with directly as ast.Program
// values through a small builder API, rather than a text parser: the
// core deliberately owns no concrete syntax, so there
// is nothing for a lexer/parser here to consume.
package stdlib

import "github.com/eatikrh/kleis/internal/ast"

// Module is one named built-in source unit; sources are loaded in the
// order Loader.Sources returns them.
type Module struct {
	Name    string
	Program *ast.Program
}

// Loader assembles the built-in modules this core ships, honoring a
// Config's SourceOrder.
type Loader struct {
	cfg     *Config
	modules map[string]*Module
	order   []string
}

// NewLoader constructs the default built-in module set: Bool, Option, the
// Type field kinds (Scalar/Matrix/Vector), arithmetic, Semigroup, and a
// minimal Eq structure over them. cfg may be nil, in which case
// DefaultConfig is used. Order matters: later modules may reference data
// types declared by earlier ones (eq's `equals` signature names Bool).
func NewLoader(cfg *Config) *Loader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l := &Loader{cfg: cfg, modules: map[string]*Module{}}
	l.register(boolModule())
	l.register(optionModule())
	l.register(typeModule())
	l.register(arithmeticModule())
	l.register(semigroupModule())
	l.register(eqModule())
	return l
}

func (l *Loader) register(m *Module) {
	l.modules[m.Name] = m
	l.order = append(l.order, m.Name)
}

// Sources returns the built-in modules in load order. A nil
// cfg.SourceOrder means "everything, in declaration order"; a non-nil
// list selects exactly the named modules, so an explicitly empty list is
// an empty stdlib.
func (l *Loader) Sources() []*Module {
	names := l.order
	if l.cfg.SourceOrder != nil {
		names = l.cfg.SourceOrder
	}
	out := make([]*Module, 0, len(names))
	for _, n := range names {
		if m, ok := l.modules[n]; ok {
			out = append(out, m)
		}
	}
	return out
}

// pos is the zero Pos used for every built-in declaration: built-ins have
// no surface-syntax location to point diagnostics at.
var pos ast.Pos

func typeRef(name string, args ...ast.TypeExpr) *ast.TypeRef {
	return &ast.TypeRef{Name: name, Args: args, Pos: pos}
}

func funcType(result ast.TypeExpr, params ...ast.TypeExpr) *ast.FuncTypeExpr {
	return &ast.FuncTypeExpr{Params: params, Result: result, Pos: pos}
}

// boolModule declares `data Bool = True | False`, so boolean literals and
// match exhaustiveness over True/False both go through the ordinary
// DataTypeRegistry path (internal/infer's inferConst prefers this over
// the kernel Bool primitive whenever it is registered).
func boolModule() *Module {
	dd := &ast.DataDef{
		Name: "Bool",
		Variants: []ast.DataVariant{
			{Name: "True", Pos: pos},
			{Name: "False", Pos: pos},
		},
		Pos: pos,
	}
	return &Module{Name: "bool", Program: &ast.Program{Decls: []ast.Decl{dd}}}
}

// optionModule declares `data Option(T) = None | Some(T)`, the canonical
// parameterised sum type: its nullary None exercises the fresh-variable
// rule for constructors whose type parameters stay unbound.
func optionModule() *Module {
	dd := &ast.DataDef{
		Name:       "Option",
		TypeParams: []ast.ParamDecl{{Name: "T", Kind: ast.KindType}},
		Variants: []ast.DataVariant{
			{Name: "None", Pos: pos},
			{Name: "Some", Fields: []ast.Field{{Name: "value", Type: typeRef("T")}}, Pos: pos},
		},
		Pos: pos,
	}
	return &Module{Name: "option", Program: &ast.Program{Decls: []ast.Decl{dd}}}
}

// typeModule declares the canonical field-kind data type whose variants
// back Type::scalar()/Type::matrix(m,n)/Type::vector(n):
//
//	data Type = Scalar
//	          | Matrix(m: Nat, n: Nat, entries: List(Type))
//	          | Vector(n: Nat, entries: List(Type))
//
// Matrix and Vector carry Nat dimensions followed by a List carrier, the
// shape internal/infer's dimension-literal rule keys on: the entries list
// of `Matrix(2, 2, [1,2,3,4])` is length-checked against m*n.
func typeModule() *Module {
	dd := &ast.DataDef{
		Name: "Type",
		Variants: []ast.DataVariant{
			{Name: "Scalar", Pos: pos},
			{Name: "Matrix", Fields: []ast.Field{
				{Name: "m", Type: typeRef("Nat")},
				{Name: "n", Type: typeRef("Nat")},
				{Name: "entries", Type: &ast.ListTypeExpr{Element: typeRef("Type"), Pos: pos}},
			}, Pos: pos},
			{Name: "Vector", Fields: []ast.Field{
				{Name: "n", Type: typeRef("Nat")},
				{Name: "entries", Type: &ast.ListTypeExpr{Element: typeRef("Type"), Pos: pos}},
			}, Pos: pos},
		},
		Pos: pos,
	}
	return &Module{Name: "type", Program: &ast.Program{Decls: []ast.Decl{dd}}}
}

// arithmeticModule declares the `Numeric(A)` structure carrying the basic
// arithmetic operation signatures. Nothing in the engine hard-codes
// `plus`: with this module excluded, `plus(1, 2)` is UnknownOperation.
func arithmeticModule() *Module {
	a := typeRef("A")
	sd := &ast.StructureDef{
		Name:       "Numeric",
		TypeParams: []ast.ParamDecl{{Name: "A", Kind: ast.KindType}},
		Operations: []ast.OperationDecl{
			{Name: "plus", Signature: funcType(a, a, a), Pos: pos},
			{Name: "times", Signature: funcType(a, a, a), Pos: pos},
			{Name: "negate", Signature: funcType(a, a), Pos: pos},
		},
		Axioms: []ast.Axiom{
			{
				Name: "plus_commutative",
				Proposition: &ast.Quantifier{
					Kind:   ast.ForAllQuantifier,
					Vars:   []string{"x", "y"},
					OfSort: "A",
					Body: &ast.Eq{
						Left:  &ast.Operation{Name: "plus", Args: []ast.Expression{&ast.Object{Name: "x", Pos: pos}, &ast.Object{Name: "y", Pos: pos}}, Pos: pos},
						Right: &ast.Operation{Name: "plus", Args: []ast.Expression{&ast.Object{Name: "y", Pos: pos}, &ast.Object{Name: "x", Pos: pos}}, Pos: pos},
						Pos:   pos,
					},
					Pos: pos,
				},
				Pos: pos,
			},
		},
		Pos: pos,
	}
	return &Module{Name: "arithmetic", Program: &ast.Program{Decls: []ast.Decl{sd}}}
}

// semigroupModule declares `Semigroup(S)` with a binary `compose` and its
// associativity axiom. The axiom is stored verbatim on the structure and
// read back via GetAxioms, with each quantified variable typed as S.
func semigroupModule() *Module {
	s := typeRef("S")
	obj := func(name string) ast.Expression { return &ast.Object{Name: name, Pos: pos} }
	comp := func(args ...ast.Expression) ast.Expression {
		return &ast.Operation{Name: "compose", Args: args, Pos: pos}
	}
	sd := &ast.StructureDef{
		Name:       "Semigroup",
		TypeParams: []ast.ParamDecl{{Name: "S", Kind: ast.KindType}},
		Operations: []ast.OperationDecl{
			{Name: "compose", Signature: funcType(s, s, s), Pos: pos},
		},
		Axioms: []ast.Axiom{
			{
				Name: "associativity",
				Proposition: &ast.Quantifier{
					Kind:   ast.ForAllQuantifier,
					Vars:   []string{"x", "y", "z"},
					OfSort: "S",
					Body: &ast.Eq{
						Left:  comp(comp(obj("x"), obj("y")), obj("z")),
						Right: comp(obj("x"), comp(obj("y"), obj("z"))),
						Pos:   pos,
					},
					Pos: pos,
				},
				Pos: pos,
			},
		},
		Pos: pos,
	}
	return &Module{Name: "semigroup", Program: &ast.Program{Decls: []ast.Decl{sd}}}
}

// eqModule declares a minimal `Eq(A)` structure with a single `equals`
// operation and its reflexivity axiom, grounding the primitive-equality
// axiom form in a concrete built-in rather than only in tests.
func eqModule() *Module {
	sd := &ast.StructureDef{
		Name:       "Eq",
		TypeParams: []ast.ParamDecl{{Name: "A", Kind: ast.KindType}},
		Operations: []ast.OperationDecl{
			{Name: "equals", Signature: funcType(typeRef("Bool"), typeRef("A"), typeRef("A")), Pos: pos},
		},
		Axioms: []ast.Axiom{
			{
				Name: "reflexivity",
				Proposition: &ast.Quantifier{
					Kind:   ast.ForAllQuantifier,
					Vars:   []string{"x"},
					OfSort: "A",
					Body: &ast.Eq{
						Left:  &ast.Operation{Name: "equals", Args: []ast.Expression{&ast.Object{Name: "x", Pos: pos}, &ast.Object{Name: "x", Pos: pos}}, Pos: pos},
						Right: &ast.Const{Value: ast.Literal{Kind: ast.LitBool, Bool: true}, Pos: pos},
						Pos:   pos,
					},
					Pos: pos,
				},
				Pos: pos,
			},
		},
		Pos: pos,
	}
	return &Module{Name: "eq", Program: &ast.Program{Decls: []ast.Decl{sd}}}
}
