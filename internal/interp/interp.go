// Package interp implements SignatureInterpreter, the
// heart of the core: given an operation call and its actual argument
// types, it locates the governing structure, binds parameters from the
// arguments, and computes the result type.
package interp

import (
	"fmt"
	"sort"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/context"
	"github.com/eatikrh/kleis/internal/diag"
	"github.com/eatikrh/kleis/internal/types"
)

// Interpreter resolves operation calls against a Builder's registries.
type Interpreter struct {
	ctx     *context.Builder
	unifier *types.Unifier
}

// New constructs a SignatureInterpreter over a (read-only) type context.
func New(ctx *context.Builder) *Interpreter {
	return &Interpreter{ctx: ctx, unifier: types.NewUnifier()}
}

// Bindings is the result of matching a call's actual argument types
// against a structure's declared parameters: three
// distinct tables, one per parameter kind.
type Bindings struct {
	TypeBindings   map[string]types.Type
	DimBindings    map[string]types.Type // NatValue or unresolved Var
	StringBindings map[string]types.Type // StringValue or unresolved Var
}

// Resolution is everything SignatureInterpreter computes for one call.
type Resolution struct {
	Structure string
	Result    types.Type
	Bindings  Bindings
	Sub       types.Substitution
}

// Resolve dispatches opName against actual argument types argTypes:
// locate the declaring structures, try each in source order, bind
// parameters, compute the result type. pos is used only to annotate
// diagnostics.
func (in *Interpreter) Resolve(opName string, argTypes []types.Type, pos ast.Pos) (*Resolution, []*diag.Report) {
	candidates := in.ctx.Operations().StructuresFor(opName)
	if len(candidates) == 0 {
		return nil, []*diag.Report{
			diag.New(diag.UnknownOperation, pos, "unknown operation %q", opName),
		}
	}

	// Step 1: attempt each candidate structure in source order, collecting
	// every one that binds without conflict. Track the failure with the
	// fewest reports (the earliest on ties); it is what a single candidate
	// reports when it fails. When several candidates all fail, the call is
	// reported as AmbiguousOperation listing them.
	var bestErr []*diag.Report
	var matches []*Resolution
	for _, structName := range candidates {
		res, errs := in.tryStructure(structName, opName, argTypes, pos)
		if errs != nil {
			if bestErr == nil || len(errs) < len(bestErr) {
				bestErr = errs
			}
			continue
		}
		matches = append(matches, res)
	}

	if len(matches) == 0 {
		if len(candidates) > 1 {
			return nil, []*diag.Report{
				diag.New(diag.AmbiguousOperation, pos,
					"no structure declaring %q accepts these argument types", opName).
					WithSuggestion("candidates: %v", candidates),
			}
		}
		return nil, bestErr
	}

	if len(matches) > 1 && len(candidates) > 1 {
		// Multiple structures both dispatch op with the same name and both
		// accept the call: resolve by "best match", here approximated by the
		// count of type-parameter bindings that are concrete (non-Var),
		// falling back to declaration order.
		sort.SliceStable(matches, func(i, j int) bool {
			return concreteness(matches[i]) > concreteness(matches[j])
		})
	}
	return matches[0], nil
}

func concreteness(r *Resolution) int {
	n := 0
	for _, t := range r.Bindings.TypeBindings {
		if _, ok := t.(types.Var); !ok {
			n++
		}
	}
	return n
}

// ResolveConstructor dispatches a data-constructor application, e.g. Some(x) or None, reusing the same uniform binding algorithm
// as structure operation calls: arguments unify against the constructor's
// declared field types, and the type's own parameters are classified and
// substituted into the declared result just like a structure's.
func (in *Interpreter) ResolveConstructor(typeName, ctorName string, argTypes []types.Type, pos ast.Pos) (*Resolution, []*diag.Report) {
	sig, ok := in.ctx.ConstructorSignature(typeName, ctorName)
	if !ok {
		return nil, []*diag.Report{diag.New(diag.UnknownOperation, pos, "unknown constructor %q of data type %q", ctorName, typeName)}
	}
	res, errs := ResolveCallable(in.unifier, fmt.Sprintf("%s.%s", typeName, ctorName), sig.Scheme, sig.ParamKinds, argTypes, pos)
	if res != nil {
		res.Structure = typeName
	}
	return res, errs
}

func (in *Interpreter) tryStructure(structName, opName string, argTypes []types.Type, pos ast.Pos) (*Resolution, []*diag.Report) {
	sig, ok := in.ctx.Signature(structName, opName)
	if !ok {
		return nil, []*diag.Report{diag.New(diag.UnknownOperation, pos, "structure %q has no operation %q", structName, opName)}
	}
	res, errs := ResolveCallable(in.unifier, fmt.Sprintf("%s.%s", structName, opName), sig.Scheme, sig.ParamKinds, argTypes, pos)
	if res != nil {
		res.Structure = structName
	}
	return res, errs
}

// ResolveCallable applies the uniform binding algorithm to
// any (ForAll scheme, paramKinds) pair. It is used both for structure
// operations (via tryStructure) and for data-constructor application
//, since both are, at their
// core, "a signature applied to actual argument types" with no other
// distinction. label is used only to annotate diagnostics.
func ResolveCallable(u *types.Unifier, label string, scheme types.ForAll, paramKinds map[string]ast.ParamKind, argTypes []types.Type, pos ast.Pos) (*Resolution, []*diag.Report) {
	// Fresh-rename the scheme's bound parameters so each call gets its own
	// binding table.
	rename := make(types.Substitution, len(scheme.Vars))
	freshOf := make(map[string]string, len(scheme.Vars))
	for _, v := range scheme.Vars {
		fv := types.FreshVar()
		rename[v] = fv
		freshOf[v] = fv.Name
	}
	body := scheme.Body.Substitute(rename)

	declParams, declResult, err := splitFunc(body)
	if err != nil {
		return nil, []*diag.Report{diag.New(diag.TypeMismatch, pos, "%s", err.Error())}
	}
	if len(declParams) != len(argTypes) {
		return nil, []*diag.Report{
			diag.New(diag.ArityMismatch, pos, "%s expects %d argument(s), got %d", label, len(declParams), len(argTypes)),
		}
	}

	sub := types.Substitution{}
	for i := range declParams {
		var uerr error
		sub, uerr = u.Unify(declParams[i], argTypes[i], sub)
		if uerr != nil {
			return nil, []*diag.Report{translateUnifyErr(uerr, pos, i, label)}
		}
	}

	// Step 3/6: classify each bound parameter by declared kind, and
	// validate string/dim slots bind to a compatible kind.
	bindings := Bindings{
		TypeBindings:   map[string]types.Type{},
		DimBindings:    map[string]types.Type{},
		StringBindings: map[string]types.Type{},
	}
	for origName, kind := range paramKinds {
		freshName := freshOf[origName]
		bound := types.Apply(sub, types.Var{Name: freshName})
		switch kind {
		case ast.KindNat:
			if !isNatCompatible(bound) {
				return nil, []*diag.Report{
					diag.New(diag.TypeMismatch, pos, "dimension parameter %q of %s bound to non-dimension type %s", origName, label, bound),
				}
			}
			bindings.DimBindings[origName] = bound
		case ast.KindString:
			if !isStringCompatible(bound) {
				return nil, []*diag.Report{
					diag.New(diag.TypeMismatch, pos, "string parameter %q of %s bound to non-string type %s", origName, label, bound),
				}
			}
			bindings.StringBindings[origName] = bound
		default:
			bindings.TypeBindings[origName] = bound
		}
	}

	result := types.Apply(sub, declResult)
	return &Resolution{Result: result, Bindings: bindings, Sub: sub}, nil
}

func isNatCompatible(t types.Type) bool {
	switch t.(type) {
	case types.NatValue, types.Nat, types.Var:
		return true
	default:
		return false
	}
}

func isStringCompatible(t types.Type) bool {
	switch t.(type) {
	case types.StringValue, types.Var:
		return true
	default:
		return false
	}
}

// splitFunc decomposes a resolved function-signature Data("->", params...,
// result) into its parameter types and result type. A signature that is
// not an arrow (a nullary operation) yields zero parameters and the whole
// type as its result.
func splitFunc(t types.Type) ([]types.Type, types.Type, error) {
	d, ok := t.(types.Data)
	if !ok || d.TypeName != "->" || len(d.Args) == 0 {
		// A signature with no arrow at all is a nullary operation whose
		// declared type IS the result.
		return nil, t, nil
	}
	return d.Args[:len(d.Args)-1], d.Args[len(d.Args)-1], nil
}

func translateUnifyErr(err error, pos ast.Pos, argIndex int, label string) *diag.Report {
	if ue, ok := asUnifyError(err); ok {
		switch ue.Kind {
		case "DimensionMismatch":
			return diag.New(diag.DimensionMismatch, pos, "argument %d of %s: %s", argIndex, label, ue.Error())
		case "InfiniteType":
			return diag.New(diag.InfiniteType, pos, "argument %d of %s: %s", argIndex, label, ue.Error())
		case "ArityMismatch":
			return diag.New(diag.ArityMismatch, pos, "argument %d of %s: %s", argIndex, label, ue.Error())
		default:
			return diag.New(diag.TypeMismatch, pos, "argument %d of %s: %s", argIndex, label, ue.Error())
		}
	}
	return diag.New(diag.TypeMismatch, pos, "argument %d of %s: %s", argIndex, label, err.Error())
}

func asUnifyError(err error) (*types.UnifyError, bool) {
	ue, ok := err.(*types.UnifyError)
	if ok {
		return ue, true
	}
	// unwrap "arg N of TYPE: %w"-wrapped errors from nested Data unification
	type wrapper interface{ Unwrap() error }
	if w, ok := err.(wrapper); ok {
		return asUnifyError(w.Unwrap())
	}
	return nil, false
}
