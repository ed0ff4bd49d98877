package context

import (
	"sort"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/diag"
	"github.com/eatikrh/kleis/internal/registry"
)

// MergeOptions controls the one escape hatch merge allows: a later
// implements instance overrides an earlier one only if explicitly
// flagged.
type MergeOptions struct {
	OverrideImplements bool
}

// Merge combines two finished builders into a new one under the
// HardConflict rules. Neither input is mutated; merge is
// transactional: on any HardConflict both inputs stay unchanged, the new
// builder is discarded, and nil is returned with the reports.
func Merge(a, b *Builder, opts MergeOptions) (*Builder, []*diag.Report) {
	out := newEmptyBuilder()
	var reports []*diag.Report

	// Data types: duplicate names are a HardConflict. Register every type
	// from both inputs before indexing any, so a variant's field types may
	// reference a type contributed by the other input.
	for _, name := range a.dataTypes.TypeNames() {
		def, _ := a.dataTypes.GetType(name)
		_ = out.dataTypes.Register(def)
	}
	for _, name := range b.dataTypes.TypeNames() {
		def, _ := b.dataTypes.GetType(name)
		if _, exists := out.dataTypes.GetType(name); exists {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, def.Pos,
				"%s", registry.HardConflict("data type %q declared in both merge inputs", name).Error()))
			continue
		}
		_ = out.dataTypes.Register(def)
	}
	for _, name := range out.dataTypes.TypeNames() {
		def, _ := out.dataTypes.GetType(name)
		if err := out.indexDataType(def); err != nil {
			reports = append(reports, diag.New(diag.TypeMismatch, def.Pos, "%s", err.Error()))
		}
	}
	// Duplicate variant names across different data types is a
	// HardConflict, whichever side they came from.
	for ctor, owners := range out.dataTypes.AmbiguousConstructors() {
		reports = append(reports, diag.New(diag.DuplicateDeclaration, ast.Pos{},
			"%s", registry.HardConflict("constructor %q is declared by more than one data type: %v", ctor, owners).Error()))
	}

	// Structures: duplicate names are allowed as an extension iff the
	// parameter lists match exactly (operations/axioms are unioned);
	// otherwise HardConflict.
	merged := map[string]*ast.StructureDef{}
	for _, name := range a.structures.Names() {
		def, _ := a.structures.Get(name)
		merged[name] = def
	}
	for _, name := range b.structures.Names() {
		def, _ := b.structures.Get(name)
		if existing, exists := merged[name]; exists {
			if !registry.SameParams(existing, def) {
				reports = append(reports, diag.New(diag.DuplicateDeclaration, def.Pos,
					"%s", registry.HardConflict("structure %q redeclared with incompatible parameters", name).Error()))
				continue
			}
			merged[name] = unionOperations(existing, def)
			continue
		}
		merged[name] = def
	}
	for _, name := range sortedKeys(merged) {
		def := merged[name]
		if err := out.structures.Register(def); err != nil {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, def.Pos, "%s", err.Error()))
			continue
		}
		if err := out.indexStructure(def); err != nil {
			reports = append(reports, diag.New(diag.TypeMismatch, def.Pos, "%s", err.Error()))
		}
	}

	// Implements: duplicate canonical keys are a HardConflict unless
	// opts.OverrideImplements is set, in which case the later (b) input
	// wins.
	instances := map[string]*registry.Instance{}
	order := 0
	for _, name := range a.structures.Names() {
		for _, inst := range a.implements.AllForStructure(name) {
			key, err := registry.Key(inst.StructureName, inst.TypeArgs)
			if err != nil {
				continue
			}
			cp := *inst
			cp.Order = order
			order++
			instances[key] = &cp
		}
	}
	for _, name := range b.structures.Names() {
		for _, inst := range b.implements.AllForStructure(name) {
			key, err := registry.Key(inst.StructureName, inst.TypeArgs)
			if err != nil {
				continue
			}
			if _, exists := instances[key]; exists && !opts.OverrideImplements {
				reports = append(reports, diag.New(diag.DuplicateDeclaration, ast.Pos{},
					"%s", registry.HardConflict("implements %s already declared for these type arguments", inst.StructureName).Error()))
				continue
			}
			cp := *inst
			cp.Order = order
			order++
			instances[key] = &cp
		}
	}
	ordered := make([]*registry.Instance, 0, len(instances))
	for _, inst := range instances {
		ordered = append(ordered, inst)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	for _, inst := range ordered {
		if err := out.implements.Register(inst); err != nil {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, ast.Pos{}, "%s", err.Error()))
		}
	}

	// Functions/constants union; duplicate names are a HardConflict.
	for name, fd := range a.functions {
		out.functions[name] = fd
		if len(fd.Params) == 0 {
			out.constants[name] = fd
		}
	}
	for name, fd := range b.functions {
		if _, exists := out.functions[name]; exists {
			reports = append(reports, diag.New(diag.DuplicateDeclaration, fd.Pos,
				"%s", registry.HardConflict("function %q declared in both merge inputs", name).Error()))
			continue
		}
		out.functions[name] = fd
		if len(fd.Params) == 0 {
			out.constants[name] = fd
		}
	}

	if len(reports) > 0 {
		return nil, reports
	}
	return out, nil
}

func unionOperations(a, b *ast.StructureDef) *ast.StructureDef {
	seen := map[string]bool{}
	merged := &ast.StructureDef{
		Name:       a.Name,
		TypeParams: a.TypeParams,
		Pos:        a.Pos,
	}
	for _, op := range a.Operations {
		if !seen[op.Name] {
			seen[op.Name] = true
			merged.Operations = append(merged.Operations, op)
		}
	}
	for _, op := range b.Operations {
		if !seen[op.Name] {
			seen[op.Name] = true
			merged.Operations = append(merged.Operations, op)
		}
	}
	merged.Axioms = append(append([]ast.Axiom(nil), a.Axioms...), b.Axioms...)
	return merged
}

func sortedKeys(m map[string]*ast.StructureDef) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
