package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/types"
)

// Instance is one resolved `implements` block: a structure instantiated
// at concrete type arguments, with its operation bindings.
type Instance struct {
	StructureName string
	TypeArgs      []types.Type
	Over          types.Type // nil if the implements block had no `over` clause
	Bindings      map[string]ast.Expression
	// Order preserves declaration order for deterministic iteration and
	// for "ties are resolved by declaration order".
	Order int
}

// ImplementsRegistry maps (structure name, canonical type arguments) to
// concrete operation bindings.
type ImplementsRegistry struct {
	byKey map[string][]*Instance // key -> instances (Register stores exactly one per key)
	order int
}

// NewImplementsRegistry constructs an empty registry.
func NewImplementsRegistry() *ImplementsRegistry {
	return &ImplementsRegistry{byKey: make(map[string][]*Instance)}
}

// Canonical normalises a list of type arguments into a stable string key
// for instance lookup:
//   - Data{T, C, []} collapses to its canonical zero-arg form (T alone,
//     constructor identity dropped, matching the unifier's rule).
//   - NatValue folds to its literal.
//   - A free Var anywhere in the arguments is rejected: implementation
//     keys must be closed.
func Canonical(args []types.Type) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		s, err := canonicalOne(a)
		if err != nil {
			return "", fmt.Errorf("type argument %d: %w", i, err)
		}
		parts[i] = s
	}
	return strings.Join(parts, ","), nil
}

func canonicalOne(t types.Type) (string, error) {
	switch v := t.(type) {
	case types.Var:
		return "", fmt.Errorf("implementation key contains free variable %s", v.Name)
	case types.Data:
		if len(v.Args) == 0 {
			return v.TypeName, nil
		}
		parts := make([]string, len(v.Args))
		for i, a := range v.Args {
			s, err := canonicalOne(a)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return fmt.Sprintf("%s(%s)", v.TypeName, strings.Join(parts, ",")), nil
	case types.NatValue:
		return fmt.Sprintf("%d", v.K), nil
	case types.List:
		s, err := canonicalOne(v.Elem)
		if err != nil {
			return "", err
		}
		return "[" + s + "]", nil
	case types.StringValue:
		return fmt.Sprintf("%q", v.S), nil
	default:
		return t.String(), nil
	}
}

// Key builds the registry key for a (structure, type args) pair.
func Key(structureName string, args []types.Type) (string, error) {
	c, err := Canonical(args)
	if err != nil {
		return "", err
	}
	return structureName + "::" + c, nil
}

// Register adds an instance under its canonical key. Overlap (same key
// already present) is reported as a Duplicate error. internal/context's
// Merge checks for the same overlap itself before registering and reports
// it as a HardConflict unless the merge was explicitly flagged to override.
func (r *ImplementsRegistry) Register(inst *Instance) error {
	key, err := Key(inst.StructureName, inst.TypeArgs)
	if err != nil {
		return err
	}
	if existing, ok := r.byKey[key]; ok && len(existing) > 0 {
		return dup("implements %s already registered for %v", inst.StructureName, inst.TypeArgs)
	}
	inst.Order = r.order
	r.order++
	r.byKey[key] = []*Instance{inst}
	return nil
}

// Lookup finds the instance for an exact (structure, args) key.
func (r *ImplementsRegistry) Lookup(structureName string, args []types.Type) (*Instance, bool) {
	key, err := Key(structureName, args)
	if err != nil {
		return nil, false
	}
	insts, ok := r.byKey[key]
	if !ok || len(insts) == 0 {
		return nil, false
	}
	return insts[0], true
}

// AllForStructure returns every registered instance of a structure, in
// declaration order, for "most specific wins, ties broken by declaration
// order" resolution.
func (r *ImplementsRegistry) AllForStructure(structureName string) []*Instance {
	var out []*Instance
	for _, insts := range r.byKey {
		for _, inst := range insts {
			if inst.StructureName == structureName {
				out = append(out, inst)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Clone makes a shallow, structure-sharing copy.
func (r *ImplementsRegistry) Clone() *ImplementsRegistry {
	out := NewImplementsRegistry()
	out.order = r.order
	for k, v := range r.byKey {
		out.byKey[k] = append([]*Instance(nil), v...)
	}
	return out
}
