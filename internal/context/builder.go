// Package context implements TypeContextBuilder: it
// consumes a parsed ast.Program, populates the four registries of
// internal/registry, resolves cross-references (extends, implements type
// arguments), and reports duplicates/conflicts as *diag.Report values.
package context

import (
	"fmt"
	"sort"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/diag"
	"github.com/eatikrh/kleis/internal/registry"
	"github.com/eatikrh/kleis/internal/types"
)

// Signature bundles a structure operation's resolved type scheme together
// with the kind of each of its bound parameters, so internal/interp can
// classify a unification result into type/dim/string binding tables
// without re-deriving kinds from the AST.
type Signature struct {
	Scheme     types.ForAll
	ParamKinds map[string]ast.ParamKind
}

// Builder is TypeContextBuilder. It is mutable only during FromProgram's
// phases; once returned to the caller it is treated as read-only:
// registries are populated bottom-up by the loader and never mutated
// during inference.
type Builder struct {
	dataTypes  *registry.DataTypeRegistry
	structures *registry.StructureRegistry
	operations *registry.OperationRegistry
	implements *registry.ImplementsRegistry
	functions  map[string]*ast.FunctionDef
	constants  map[string]*ast.FunctionDef // zero-param FunctionDefs; not read back (TypeOfVariable finds constants through Function)

	// sigs[structureName][opName] is the resolved signature for dispatch.
	sigs map[string]map[string]*Signature

	// ctorSigs[typeName][ctorName] is the resolved signature for a data
	// constructor, in the same shape as sigs so internal/interp's
	// ResolveCallable can dispatch constructor application exactly like a structure operation.
	ctorSigs map[string]map[string]*Signature
}

func newEmptyBuilder() *Builder {
	return &Builder{
		dataTypes:  registry.NewDataTypeRegistry(),
		structures: registry.NewStructureRegistry(),
		operations: registry.NewOperationRegistry(),
		implements: registry.NewImplementsRegistry(),
		functions:  make(map[string]*ast.FunctionDef),
		constants:  make(map[string]*ast.FunctionDef),
		sigs:       make(map[string]map[string]*Signature),
		ctorSigs:   make(map[string]map[string]*Signature),
	}
}

// DataTypes, Structures, Operations, Implements expose read-only access to
// the underlying registries for internal/interp and internal/infer.
func (b *Builder) DataTypes() *registry.DataTypeRegistry   { return b.dataTypes }
func (b *Builder) Structures() *registry.StructureRegistry { return b.structures }
func (b *Builder) Operations() *registry.OperationRegistry { return b.operations }
func (b *Builder) Implements() *registry.ImplementsRegistry { return b.implements }

// Signature returns the resolved signature for one structure's operation.
func (b *Builder) Signature(structureName, opName string) (*Signature, bool) {
	m, ok := b.sigs[structureName]
	if !ok {
		return nil, false
	}
	s, ok := m[opName]
	return s, ok
}

// Function looks up a top-level FunctionDef by name.
func (b *Builder) Function(name string) (*ast.FunctionDef, bool) {
	f, ok := b.functions[name]
	return f, ok
}

// ConstructorSignature returns the resolved signature for a data
// constructor, keyed by the data type's declared name and the
// constructor's own name.
func (b *Builder) ConstructorSignature(typeName, ctorName string) (*Signature, bool) {
	m, ok := b.ctorSigs[typeName]
	if !ok {
		return nil, false
	}
	s, ok := m[ctorName]
	return s, ok
}

// FromProgram builds a Builder from a fully parsed program, in five
// phases: data types, structures (extends flattened), operation
// indexing, implements blocks, functions. Transactional: since it always starts from
// a fresh, empty builder, any failure simply discards that builder; it
// can never leave a previously-returned Builder mutated.
func FromProgram(prog *ast.Program) (*Builder, []*diag.Report) {
	return newEmptyBuilder().extend(prog)
}

// Extend builds a new Builder containing everything in b plus prog's
// declarations, with prog's cross-references resolved against b's
// registries: this is how a later source unit sees the data types and
// structures of earlier ones. Transactional like FromProgram: the
// work happens in a clone, so on any reported conflict b itself is
// untouched and nil is returned.
func (b *Builder) Extend(prog *ast.Program) (*Builder, []*diag.Report) {
	return b.clone().extend(prog)
}

// clone makes a shallow, structure-sharing copy. Registry entries and
// resolved signatures are immutable after construction, so sharing them
// is safe; only the maps themselves are fresh.
func (b *Builder) clone() *Builder {
	out := &Builder{
		dataTypes:  b.dataTypes.Clone(),
		structures: b.structures.Clone(),
		operations: b.operations.Clone(),
		implements: b.implements.Clone(),
		functions:  make(map[string]*ast.FunctionDef, len(b.functions)),
		constants:  make(map[string]*ast.FunctionDef, len(b.constants)),
		sigs:       make(map[string]map[string]*Signature, len(b.sigs)),
		ctorSigs:   make(map[string]map[string]*Signature, len(b.ctorSigs)),
	}
	for k, v := range b.functions {
		out.functions[k] = v
	}
	for k, v := range b.constants {
		out.constants[k] = v
	}
	for k, v := range b.sigs {
		out.sigs[k] = v
	}
	for k, v := range b.ctorSigs {
		out.ctorSigs[k] = v
	}
	return out
}

func (b *Builder) extend(prog *ast.Program) (*Builder, []*diag.Report) {
	var reports []*diag.Report

	// Phase 1: data types. Registration and indexing are two separate
	// passes so that a variant's field types may reference data types
	// declared later in the same batch.
	var dataDefs []*ast.DataDef
	for _, d := range prog.Decls {
		if dd, ok := d.(*ast.DataDef); ok {
			dataDefs = append(dataDefs, dd)
		}
	}
	registered := make([]*ast.DataDef, 0, len(dataDefs))
	for _, dd := range dataDefs {
		if err := b.dataTypes.Register(dd); err != nil {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, dd.Pos, "%s", err.Error()))
			continue
		}
		registered = append(registered, dd)
	}
	for _, dd := range registered {
		if err := b.indexDataType(dd); err != nil {
			reports = append(reports, diag.New(diag.TypeMismatch, dd.Pos, "%s", err.Error()))
		}
	}
	for ctor, owners := range b.dataTypes.AmbiguousConstructors() {
		reports = append(reports, diag.New(diag.DuplicateDeclaration, ast.Pos{},
			"constructor %q is declared by more than one data type: %v", ctor, owners))
	}

	// Phase 2: structures, with extends flattened. An `extends` reference
	// may name a structure from this batch or one already present in the
	// builder (a previously loaded source unit).
	var structDefs []*ast.StructureDef
	for _, d := range prog.Decls {
		if sd, ok := d.(*ast.StructureDef); ok {
			structDefs = append(structDefs, sd)
		}
	}
	byName := map[string]*ast.StructureDef{}
	for _, name := range b.structures.Names() {
		sd, _ := b.structures.Get(name)
		byName[name] = sd
	}
	for _, sd := range structDefs {
		byName[sd.Name] = sd
	}
	for _, sd := range structDefs {
		flat, err := flattenExtends(sd, byName, map[string]bool{})
		if err != nil {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, sd.Pos, "%s", err.Error()))
			continue
		}
		if err := b.structures.Register(flat); err != nil {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, sd.Pos, "%s", err.Error()))
			continue
		}
		if err := b.indexStructure(flat); err != nil {
			reports = append(reports, diag.New(diag.TypeMismatch, sd.Pos, "%s", err.Error()))
		}
	}

	// Phase 3 (operation indexing) happened inline with phase 2 via
	// indexStructure, so every structure's operations are visible by the
	// time phase 4 resolves implements blocks.

	// Phase 4: implements blocks.
	for _, d := range prog.Decls {
		id, ok := d.(*ast.ImplementsDef)
		if !ok {
			continue
		}
		if err := b.registerImplements(id); err != nil {
			reports = append(reports, diag.New(diag.MissingImplementationBinding, id.Pos, "%s", err.Error()))
		}
	}

	// Phase 5: top-level functions/constants.
	for _, d := range prog.Decls {
		fd, ok := d.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if _, exists := b.functions[fd.Name]; exists {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, fd.Pos, "function %q already declared", fd.Name))
			continue
		}
		b.functions[fd.Name] = fd
		if len(fd.Params) == 0 {
			b.constants[fd.Name] = fd
		}
	}

	if len(reports) > 0 {
		return nil, reports
	}
	return b, nil
}

func flattenExtends(sd *ast.StructureDef, byName map[string]*ast.StructureDef, visiting map[string]bool) (*ast.StructureDef, error) {
	if visiting[sd.Name] {
		return nil, fmt.Errorf("structure %q has a cyclic extends chain", sd.Name)
	}
	if len(sd.Extends) == 0 {
		return sd, nil
	}
	visiting[sd.Name] = true
	defer delete(visiting, sd.Name)

	flat := &ast.StructureDef{
		Name:             sd.Name,
		TypeParams:       sd.TypeParams,
		Over:             sd.Over,
		Where:            sd.Where,
		Operations:       append([]ast.OperationDecl(nil), sd.Operations...),
		Axioms:           append([]ast.Axiom(nil), sd.Axioms...),
		NestedStructures: sd.NestedStructures,
		Pos:              sd.Pos,
	}
	for _, ref := range sd.Extends {
		parent, ok := byName[ref.Name]
		if !ok {
			return nil, fmt.Errorf("structure %q extends unknown structure %q", sd.Name, ref.Name)
		}
		flatParent, err := flattenExtends(parent, byName, visiting)
		if err != nil {
			return nil, err
		}
		flat.Operations = append(append([]ast.OperationDecl(nil), flatParent.Operations...), flat.Operations...)
		flat.Axioms = append(append([]ast.Axiom(nil), flatParent.Axioms...), flat.Axioms...)
	}
	return flat, nil
}

// indexDataType resolves each variant of a data type into a Signature, so
// that a constructor application like Some(x) or None is dispatched by
// internal/interp.ResolveCallable exactly as a structure operation would
// be: the constructor's
// fields become the declared parameters, and the data type itself
// (applied to the type's own parameters) is the declared result.
func (b *Builder) indexDataType(dd *ast.DataDef) error {
	sc := newScope(dd.TypeParams)
	resultArgs := make([]types.Type, len(dd.TypeParams))
	names := make([]string, len(dd.TypeParams))
	kinds := make(map[string]ast.ParamKind, len(dd.TypeParams))
	for i, p := range dd.TypeParams {
		resultArgs[i] = types.Var{Name: p.Name}
		names[i] = p.Name
		kinds[p.Name] = p.Kind
	}
	sigs := make(map[string]*Signature, len(dd.Variants))
	for _, v := range dd.Variants {
		// The constructed value's type records which variant built it, so
		// Some(x) is Data{"Option","Some",[σ]}; unification stays
		// constructor-agnostic regardless.
		result := types.Type(types.Data{TypeName: dd.Name, Constructor: v.Name, Args: resultArgs})
		var body types.Type
		if len(v.Fields) == 0 {
			body = result
		} else {
			args := make([]types.Type, 0, len(v.Fields)+1)
			for _, f := range v.Fields {
				t, err := b.ResolveTypeExpr(sc, f.Type)
				if err != nil {
					return fmt.Errorf("variant %q of data type %q: %w", v.Name, dd.Name, err)
				}
				args = append(args, t)
			}
			args = append(args, result)
			body = types.Data{TypeName: "->", Args: args}
		}
		sigs[v.Name] = &Signature{Scheme: types.ForAll{Vars: names, Body: body}, ParamKinds: kinds}
	}
	b.ctorSigs[dd.Name] = sigs
	return nil
}

func (b *Builder) indexStructure(sd *ast.StructureDef) error {
	sigs := make(map[string]*Signature, len(sd.Operations))
	for _, op := range sd.Operations {
		schemeParams := []ast.ParamDecl(nil)
		body := op.Signature
		if se, ok := op.Signature.(*ast.SchemeExpr); ok {
			schemeParams = se.Params
			body = se.Body
		}
		allParams := append(append([]ast.ParamDecl(nil), sd.TypeParams...), schemeParams...)
		sc := newScope(allParams)
		resolved, err := b.ResolveTypeExpr(sc, body)
		if err != nil {
			return fmt.Errorf("operation %q of structure %q: %w", op.Name, sd.Name, err)
		}
		names := make([]string, len(allParams))
		kinds := make(map[string]ast.ParamKind, len(allParams))
		for i, p := range allParams {
			names[i] = p.Name
			kinds[p.Name] = p.Kind
		}
		sigs[op.Name] = &Signature{
			Scheme:     types.ForAll{Vars: names, Body: resolved},
			ParamKinds: kinds,
		}
		b.operations.Index(op.Name, sd.Name)
	}
	b.sigs[sd.Name] = sigs
	return nil
}

func (b *Builder) registerImplements(id *ast.ImplementsDef) error {
	sd, ok := b.structures.Get(id.StructureName)
	if !ok {
		return fmt.Errorf("implements unknown structure %q", id.StructureName)
	}

	args := make([]types.Type, len(id.TypeArgs))
	for i, a := range id.TypeArgs {
		t, err := b.ResolveClosed(a)
		if err != nil {
			return fmt.Errorf("implements %s: %w", id.StructureName, err)
		}
		args[i] = t
	}
	var over types.Type
	if id.Over != nil {
		t, err := b.ResolveClosed(id.Over)
		if err != nil {
			return fmt.Errorf("implements %s over: %w", id.StructureName, err)
		}
		over = t
	}

	bindings := make(map[string]ast.Expression, len(id.Bindings))
	for _, bd := range id.Bindings {
		if _, exists := bindings[bd.OpName]; exists {
			return fmt.Errorf("implements %s: duplicate binding for %q", id.StructureName, bd.OpName)
		}
		bindings[bd.OpName] = bd.Impl
	}

	// Structural implementation check: every operation declared on the
	// structure must be bound.
	var missing []string
	for _, op := range sd.Operations {
		if _, ok := bindings[op.Name]; !ok {
			missing = append(missing, op.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("implements %s(%v) is missing bindings for: %v", id.StructureName, args, missing)
	}

	return b.implements.Register(&registry.Instance{
		StructureName: id.StructureName,
		TypeArgs:      args,
		Over:          over,
		Bindings:      bindings,
	})
}
