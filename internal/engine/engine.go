// Package engine implements Engine, the core's public API
// surface: WithStdlib/Load build up a read-only type context; Infer,
// TypeOfVariable, StructureForOperation and GetAxioms read it back.
package engine

import (
	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/context"
	"github.com/eatikrh/kleis/internal/diag"
	"github.com/eatikrh/kleis/internal/infer"
	"github.com/eatikrh/kleis/internal/stdlib"
	"github.com/eatikrh/kleis/internal/types"
)

// Engine is the core's public entry point. It owns a single
// type context, built once by WithStdlib and grown by successive Load
// calls.
type Engine struct {
	ctx *context.Builder
}

// WithStdlib builds a fresh Engine whose context is seeded by cfg's
// built-in modules, loaded in order. A nil
// cfg uses stdlib.DefaultConfig; a config whose SourceOrder is an empty
// (non-nil) list yields an engine with no stdlib at all.
func WithStdlib(cfg *stdlib.Config) (*Engine, []*diag.Report) {
	loader := stdlib.NewLoader(cfg)
	ctx, reports := context.FromProgram(&ast.Program{})
	if reports != nil {
		return nil, reports
	}
	for _, m := range loader.Sources() {
		next, merrs := ctx.Extend(m.Program)
		if merrs != nil {
			return nil, merrs
		}
		ctx = next
	}
	return &Engine{ctx: ctx}, nil
}

// Load extends the engine's context with an additional parsed program
// On any
// conflict the engine's existing context is left untouched.
func (e *Engine) Load(prog *ast.Program) []*diag.Report {
	next, errs := e.ctx.Extend(prog)
	if errs != nil {
		return errs
	}
	e.ctx = next
	return nil
}

// Infer types expr in the engine's current context. A non-nil type
// may still be accompanied by diagnostics: warnings, or recoverable
// errors gathered from sub-expressions.
func (e *Engine) Infer(expr ast.Expression) (types.Type, []*diag.Report) {
	return infer.New(e.ctx).Infer(expr)
}

// TypeOfVariable reads back the type of a top-level constant or nullary
// operation.
func (e *Engine) TypeOfVariable(name string) (types.Type, bool) {
	t, reports := infer.New(e.ctx).Infer(&ast.Object{Name: name})
	if t == nil || diag.HasErrors(reports) {
		return nil, false
	}
	return t, true
}

// TypeOfFunction infers the arrow type of a loaded top-level function
// definition, with match patterns in the body refining the parameter
// types (so `define not(b) = match b { True => ... }` reads back as
// Bool -> Bool).
func (e *Engine) TypeOfFunction(name string) (types.Type, []*diag.Report) {
	fd, ok := e.ctx.Function(name)
	if !ok {
		return nil, []*diag.Report{diag.New(diag.UnboundIdentifier, ast.Pos{}, "unknown function %q", name)}
	}
	return infer.New(e.ctx).InferFunction(fd)
}

// StructureForOperation lists every structure declaring an operation of
// this name; front-ends use it for introspection.
func (e *Engine) StructureForOperation(op string) []string {
	return e.ctx.Operations().StructuresFor(op)
}

// AxiomEntry is one (name, proposition) pair of a structure's axioms.
type AxiomEntry struct {
	Name        string
	Proposition ast.Expression
}

// GetAxioms returns every axiom declared on a structure, used by a
// verifier collaborator.
func (e *Engine) GetAxioms(structure string) []AxiomEntry {
	entries := e.ctx.Structures().GetAxioms(structure)
	out := make([]AxiomEntry, 0, len(entries))
	for _, a := range entries {
		out = append(out, AxiomEntry{Name: a.Name, Proposition: a.Proposition})
	}
	return out
}
