package registry

import (
	"sort"

	"github.com/eatikrh/kleis/internal/ast"
)

// StructureRegistry indexes structure definitions by name.
type StructureRegistry struct {
	byName map[string]*ast.StructureDef
}

// NewStructureRegistry constructs an empty registry.
func NewStructureRegistry() *StructureRegistry {
	return &StructureRegistry{byName: make(map[string]*ast.StructureDef)}
}

// Register adds a structure definition, failing on duplicate name. Flattening
// of `extends` is performed by internal/context.Builder, which calls
// Register only after resolving inherited operations/axioms, so the
// registry itself never needs to see unflattened structures.
func (r *StructureRegistry) Register(def *ast.StructureDef) error {
	if _, exists := r.byName[def.Name]; exists {
		return dup("structure %q already registered", def.Name)
	}
	r.byName[def.Name] = def
	return nil
}

// Get looks up a structure by name.
func (r *StructureRegistry) Get(name string) (*ast.StructureDef, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// GetAxioms returns (name, proposition) pairs for a structure, used by the
// theorem-prover collaborator.
func (r *StructureRegistry) GetAxioms(name string) []AxiomEntry {
	d, ok := r.byName[name]
	if !ok {
		return nil
	}
	out := make([]AxiomEntry, len(d.Axioms))
	for i, a := range d.Axioms {
		out[i] = AxiomEntry{Name: a.Name, Proposition: a.Proposition}
	}
	return out
}

// AxiomEntry is one named proposition retrievable via GetAxioms.
type AxiomEntry struct {
	Name        string
	Proposition ast.Expression
}

// Names returns all registered structure names, sorted.
func (r *StructureRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone makes a shallow, structure-sharing copy.
func (r *StructureRegistry) Clone() *StructureRegistry {
	out := NewStructureRegistry()
	for k, v := range r.byName {
		out.byName[k] = v
	}
	return out
}

// SameParams reports whether two structure definitions declare identical
// parameter lists (name + kind, in order), used by merge's "duplicate
// structure names: allow extension iff parameter lists match exactly"
// rule.
func SameParams(a, b *ast.StructureDef) bool {
	if len(a.TypeParams) != len(b.TypeParams) {
		return false
	}
	for i := range a.TypeParams {
		if a.TypeParams[i].Name != b.TypeParams[i].Name || a.TypeParams[i].Kind != b.TypeParams[i].Kind {
			return false
		}
	}
	return true
}
