// Package registry holds the type context's four read-mostly tables:
// DataTypeRegistry, StructureRegistry, OperationRegistry and
// ImplementsRegistry. Each owns its table; references between registries
// are by name, never by pointer, so a registry set can be
// cloned cheaply by shallow-copying its maps.
package registry

import (
	"fmt"
	"sort"

	"github.com/eatikrh/kleis/internal/ast"
)

// RegistryError is returned by Register methods. Kind distinguishes a
// plain duplicate from a HardConflict raised during merge.
type RegistryError struct {
	Kind string // "Duplicate" or "HardConflict"
	Msg  string
}

func (e *RegistryError) Error() string { return e.Msg }

func dup(format string, args ...any) *RegistryError {
	return &RegistryError{Kind: "Duplicate", Msg: fmt.Sprintf(format, args...)}
}

// HardConflict builds a HardConflict-kind RegistryError (exported so
// internal/context's merge logic can raise the same error shape).
func HardConflict(format string, args ...any) *RegistryError {
	return &RegistryError{Kind: "HardConflict", Msg: fmt.Sprintf(format, args...)}
}

// DataTypeRegistry indexes algebraic data type definitions by type name
// and (reverse) by constructor name.
type DataTypeRegistry struct {
	byName    map[string]*ast.DataDef
	byCtor    map[string]string // ctor name -> owning type name
	ctorOwner map[string][]string
}

// NewDataTypeRegistry constructs an empty registry.
func NewDataTypeRegistry() *DataTypeRegistry {
	return &DataTypeRegistry{
		byName:    make(map[string]*ast.DataDef),
		byCtor:    make(map[string]string),
		ctorOwner: make(map[string][]string),
	}
}

// Register adds a data type definition, failing on duplicate name.
// Constructor names must be globally unique across all data types
//; a colliding constructor name is recorded as
// an ambiguous candidate rather than silently overwritten, so merge can
// later raise HardConflict.
func (r *DataTypeRegistry) Register(def *ast.DataDef) error {
	if _, exists := r.byName[def.Name]; exists {
		return dup("data type %q already registered", def.Name)
	}
	r.byName[def.Name] = def
	for _, v := range def.Variants {
		r.ctorOwner[v.Name] = append(r.ctorOwner[v.Name], def.Name)
		if _, exists := r.byCtor[v.Name]; !exists {
			r.byCtor[v.Name] = def.Name
		}
	}
	return nil
}

// GetType looks up a data type definition by name.
func (r *DataTypeRegistry) GetType(name string) (*ast.DataDef, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// GetVariant reverse-looks-up the owning data type from a constructor
// name. If the constructor is ambiguous (registered on two data types,
// only possible across unmerged registries during a transactional
// build), it fails silently and the candidates are available via
// AmbiguousConstructors.
func (r *DataTypeRegistry) GetVariant(ctorName string) (*ast.DataDef, bool) {
	owners := r.ctorOwner[ctorName]
	if len(owners) != 1 {
		return nil, false
	}
	d, ok := r.byName[owners[0]]
	return d, ok
}

// AmbiguousConstructors returns constructor names registered on more than
// one data type, each with its candidate owners.
func (r *DataTypeRegistry) AmbiguousConstructors() map[string][]string {
	out := map[string][]string{}
	for ctor, owners := range r.ctorOwner {
		if len(owners) > 1 {
			cp := append([]string(nil), owners...)
			sort.Strings(cp)
			out[ctor] = cp
		}
	}
	return out
}

// VariantInfo is one (type, constructor, arity) triple.
type VariantInfo struct {
	TypeName string
	CtorName string
	Arity    int
}

// IterVariants returns every (type_name, ctor_name, arity) triple across
// all registered data types, in a deterministic (type-then-declaration)
// order.
func (r *DataTypeRegistry) IterVariants() []VariantInfo {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	var out []VariantInfo
	for _, n := range names {
		d := r.byName[n]
		for _, v := range d.Variants {
			out = append(out, VariantInfo{TypeName: d.Name, CtorName: v.Name, Arity: len(v.Fields)})
		}
	}
	return out
}

// TypeNames returns all registered data type names, sorted.
func (r *DataTypeRegistry) TypeNames() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone makes a shallow, structure-sharing copy suitable for the
// cheap per-session cloning of a stdlib-seeded builder.
func (r *DataTypeRegistry) Clone() *DataTypeRegistry {
	out := NewDataTypeRegistry()
	for k, v := range r.byName {
		out.byName[k] = v
	}
	for k, v := range r.byCtor {
		out.byCtor[k] = v
	}
	for k, v := range r.ctorOwner {
		out.ctorOwner[k] = append([]string(nil), v...)
	}
	return out
}
