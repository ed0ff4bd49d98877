// Package infer implements TypeInference: it walks an
// Expression and produces an inferred types.Type, delegating operation
// dispatch to internal/interp and threading a single accumulated
// Substitution through each rule exactly as the interpreter does.
//
// Recovery: a type error inside a sub-expression
// is recorded and the offending sub-term is replaced by a fresh Var, so a
// single call can surface several independent diagnostics. Warnings
// (UnreachableArm) never abort inference. A nil returned type means the
// expression could not be typed at all; otherwise the caller gets a type
// together with whatever diagnostics accumulated along the way.
package infer

import (
	"sort"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/context"
	"github.com/eatikrh/kleis/internal/diag"
	"github.com/eatikrh/kleis/internal/interp"
	"github.com/eatikrh/kleis/internal/types"
)

// Env is the local environment of let/lambda/match-arm/quantifier
// bindings consulted before falling back to nullary operations and
// constants when resolving a bare identifier.
type Env map[string]types.Type

// extend returns a copy of e with one additional binding, leaving e itself
// untouched (environments are never mutated in place, since a single Env
// value may be shared across sibling match arms).
func (e Env) extend(name string, t types.Type) Env {
	out := make(Env, len(e)+1)
	for k, v := range e {
		out[k] = v
	}
	out[name] = t
	return out
}

// Inferencer is TypeInference: a thin façade over a Builder's registries
// and an internal/interp.Interpreter.
type Inferencer struct {
	ctx    *context.Builder
	interp *interp.Interpreter
}

// New constructs an Inferencer over a finished, read-only type context.
func New(ctx *context.Builder) *Inferencer {
	return &Inferencer{ctx: ctx, interp: interp.New(ctx)}
}

// Infer types expr in ordinary (non-axiom) position: an unbound Object
// fails with UnboundIdentifier rather than becoming a free variable.
func (in *Inferencer) Infer(expr ast.Expression) (types.Type, []*diag.Report) {
	t, _, reports := in.infer(expr, Env{}, false)
	return t, reports
}

// InferAxiom types expr as an axiom proposition: an unbound Object becomes
// a fresh universally-free Var instead of failing. Lambda/Let/Quantifier/Eq, which only ever occur inside
// axioms, are only reachable through this entry point.
func (in *Inferencer) InferAxiom(expr ast.Expression) (types.Type, []*diag.Report) {
	t, _, reports := in.infer(expr, Env{}, true)
	return t, reports
}

// InferFunction types a top-level FunctionDef: each parameter gets a fresh
// Var, the body is inferred under that environment, and the function's
// type is the arrow over the finally-substituted parameter and body types.
// Match patterns in the body refine the parameter Vars, which is how
// `define not(b) = match b { True => False | False => True }` comes out as
// Bool -> Bool.
func (in *Inferencer) InferFunction(fd *ast.FunctionDef) (types.Type, []*diag.Report) {
	env := Env{}
	params := make([]types.Type, len(fd.Params))
	for i, p := range fd.Params {
		fv := types.FreshVar()
		params[i] = fv
		env = env.extend(p, fv)
	}
	bodyType, sub, reports := in.infer(fd.Body, env, false)
	if bodyType == nil {
		return nil, reports
	}
	if len(fd.Params) == 0 {
		return types.Apply(sub, bodyType), reports
	}
	args := make([]types.Type, 0, len(params)+1)
	for _, p := range params {
		args = append(args, types.Apply(sub, p))
	}
	args = append(args, types.Apply(sub, bodyType))
	return types.Data{TypeName: "->", Args: args}, reports
}

func (in *Inferencer) infer(expr ast.Expression, env Env, inAxiom bool) (types.Type, types.Substitution, []*diag.Report) {
	switch e := expr.(type) {
	case *ast.Const:
		return in.inferConst(e), types.Substitution{}, nil

	case *ast.Object:
		return in.inferObject(e, env, inAxiom)

	case *ast.Placeholder:
		// A Placeholder stands in for an elided sub-expression; it carries
		// no type information of its own, so it infers to a fresh Var
		// regardless of inAxiom.
		return types.FreshVar(), types.Substitution{}, nil

	case *ast.List:
		return in.inferList(e, env, inAxiom)

	case *ast.Operation:
		return in.inferOperation(e, env, inAxiom)

	case *ast.Match:
		return in.inferMatch(e, env, inAxiom)

	case *ast.Eq:
		if !inAxiom {
			return nil, nil, []*diag.Report{diag.New(diag.TypeMismatch, e.Pos, "equality is only valid inside an axiom proposition")}
		}
		return in.inferEq(e, env)

	case *ast.Let:
		if !inAxiom {
			return nil, nil, []*diag.Report{diag.New(diag.TypeMismatch, e.Pos, "let is only valid inside an axiom proposition")}
		}
		return in.inferLet(e, env)

	case *ast.Lambda:
		if !inAxiom {
			return nil, nil, []*diag.Report{diag.New(diag.TypeMismatch, e.Pos, "lambda is only valid inside an axiom proposition")}
		}
		return in.inferLambda(e, env)

	case *ast.Quantifier:
		if !inAxiom {
			return nil, nil, []*diag.Report{diag.New(diag.TypeMismatch, e.Pos, "quantifiers are only valid inside an axiom proposition")}
		}
		return in.inferQuantifier(e, env)

	default:
		return nil, nil, []*diag.Report{diag.New(diag.TypeMismatch, expr.Position(), "unsupported expression %T", expr)}
	}
}

// inferConst types a literal. Boolean literals
// consistently choose the stdlib's registered Bool data type (if present)
// so exhaustiveness checking over True/False uniformly applies; absent a
// registered Bool, the kernel Bool primitive is used instead.
func (in *Inferencer) inferConst(c *ast.Const) types.Type {
	return constType(in.ctx, c.Value)
}

func constType(ctx *context.Builder, lit ast.Literal) types.Type {
	switch lit.Kind {
	case ast.LitString:
		return types.StringValue{S: lit.Str}
	case ast.LitBool:
		if _, ok := ctx.DataTypes().GetType("Bool"); ok {
			ctor := "False"
			if lit.Bool {
				ctor = "True"
			}
			return types.Data{TypeName: "Bool", Constructor: ctor}
		}
		return types.Bool{}
	default:
		// Numeric literals default to the scalar field type; a grammar distinguishing
		// ℕ/ℤ/ℚ/ℝ is out of scope (no concrete syntax exists at this layer), so
		// every numeric Const takes this one path.
		return types.Scalar()
	}
}

func (in *Inferencer) inferObject(o *ast.Object, env Env, inAxiom bool) (types.Type, types.Substitution, []*diag.Report) {
	if t, ok := env[o.Name]; ok {
		return t, types.Substitution{}, nil
	}
	if res, errs := in.interp.Resolve(o.Name, nil, o.Pos); errs == nil {
		return in.resolveNullaryResult(res), res.Sub, nil
	}
	if fd, ok := in.ctx.Function(o.Name); ok && len(fd.Params) == 0 {
		t, reports := in.Infer(fd.Body)
		return t, types.Substitution{}, reports
	}
	if inAxiom {
		return types.FreshVar(), types.Substitution{}, nil
	}
	return nil, nil, []*diag.Report{diag.New(diag.UnboundIdentifier, o.Pos, "unbound identifier %q", o.Name)}
}

// resolveNullaryResult pins down a nullary operation's result through its
// sole implementation: a nullary operation's declared result type is
// generally just the structure's own (free) type parameter, but if
// exactly one `implements` instance of its governing structure is
// registered, that instance's concrete type argument is the only value
// the parameter could ever take, so the nullary identifier binds to it
// directly, rather than to a fresh/free variable.
func (in *Inferencer) resolveNullaryResult(res *interp.Resolution) types.Type {
	sd, ok := in.ctx.Structures().Get(res.Structure)
	if !ok || len(sd.TypeParams) == 0 {
		return res.Result
	}
	instances := in.ctx.Implements().AllForStructure(res.Structure)
	if len(instances) != 1 {
		return res.Result
	}
	inst := instances[0]
	// The result type carries the call's fresh-renamed Vars, not the
	// declared parameter names; the binding tables (keyed by declared
	// name) are the bridge back to them.
	sub := make(types.Substitution, len(sd.TypeParams))
	for i, p := range sd.TypeParams {
		if i >= len(inst.TypeArgs) {
			continue
		}
		for _, table := range []map[string]types.Type{
			res.Bindings.TypeBindings, res.Bindings.DimBindings, res.Bindings.StringBindings,
		} {
			if bound, ok := table[p.Name]; ok {
				if v, isVar := bound.(types.Var); isVar {
					sub[v.Name] = inst.TypeArgs[i]
				}
			}
		}
	}
	return types.Apply(sub, res.Result)
}

func (in *Inferencer) inferList(l *ast.List, env Env, inAxiom bool) (types.Type, types.Substitution, []*diag.Report) {
	var reports []*diag.Report
	unifier := types.NewUnifier()
	sub := types.Substitution{}
	var elemType types.Type
	for _, el := range l.Elements {
		t, s, reps := in.infer(el, env, inAxiom)
		reports = append(reports, reps...)
		if t == nil || diag.HasErrors(reps) {
			continue
		}
		sub = types.Compose(sub, s)
		if elemType == nil {
			elemType = types.Apply(sub, t)
			continue
		}
		next, uerr := unifier.Unify(elemType, t, sub)
		if uerr != nil {
			// Recoverable: keep the established element type and
			// report this element's mismatch.
			reports = append(reports, diag.New(diag.TypeMismatch, el.Position(), "list element: %s", uerr.Error()))
			continue
		}
		sub = next
		elemType = types.Apply(sub, elemType)
	}
	if elemType == nil {
		elemType = types.FreshVar()
	}
	return types.List{Elem: elemType}, sub, reports
}

// inferOperation implements both ordinary structure-operation calls and
// data constructor application: if name names a known constructor, dispatch through
// internal/interp.ResolveConstructor instead of Resolve. Constructors
// whose declared fields are Nat dimensions followed by a single List
// carrier take the shaped-literal rule first (see inferShapedLiteral).
func (in *Inferencer) inferOperation(o *ast.Operation, env Env, inAxiom bool) (types.Type, types.Substitution, []*diag.Report) {
	ctorDef, isCtor := in.ctx.DataTypes().GetVariant(o.Name)
	if isCtor {
		if t, sub, reps, handled := in.inferShapedLiteral(ctorDef, o, env, inAxiom); handled {
			return t, sub, reps
		}
	}

	var reports []*diag.Report
	argTypes := make([]types.Type, len(o.Args))
	sub := types.Substitution{}
	for i, a := range o.Args {
		t, s, reps := in.infer(a, env, inAxiom)
		reports = append(reports, reps...)
		if t == nil || diag.HasErrors(reps) {
			// Recoverable: a fresh Var stands in so the
			// remaining arguments still produce their own diagnostics.
			argTypes[i] = types.FreshVar()
			continue
		}
		sub = types.Compose(sub, s)
		argTypes[i] = t
	}
	if diag.HasErrors(reports) {
		return types.FreshVar(), sub, reports
	}
	for i, t := range argTypes {
		argTypes[i] = types.Apply(sub, t)
	}

	if isCtor {
		res, errs := in.interp.ResolveConstructor(ctorDef.Name, o.Name, argTypes, o.Pos)
		if errs != nil {
			return types.FreshVar(), sub, append(reports, errs...)
		}
		return res.Result, types.Compose(sub, res.Sub), reports
	}

	res, errs := in.interp.Resolve(o.Name, argTypes, o.Pos)
	if errs != nil {
		return types.FreshVar(), sub, append(reports, errs...)
	}
	return res.Result, types.Compose(sub, res.Sub), reports
}

// inferShapedLiteral types dimension-carrying constructor literals such as
// Matrix(2, 2, [1,2,3,4]) or Vector(3, [1,2,3]): any variant of a
// parameterless data type whose declared fields are one or more Nat
// dimensions followed by exactly one List carrier. Dimension arguments
// must be natural-number literals and become NatValue type arguments; the
// carrier list's length is checked against the product of the
// dimensions. The rule is
// driven entirely by the variant's declared field shapes: nothing here
// matches on the names "Matrix" or "Vector", so a user-defined
// dimensioned literal participates identically. handled=false defers to
// the generic constructor path.
func (in *Inferencer) inferShapedLiteral(dd *ast.DataDef, o *ast.Operation, env Env, inAxiom bool) (types.Type, types.Substitution, []*diag.Report, bool) {
	if len(dd.TypeParams) != 0 {
		return nil, nil, nil, false
	}
	var variant *ast.DataVariant
	for i := range dd.Variants {
		if dd.Variants[i].Name == o.Name {
			variant = &dd.Variants[i]
			break
		}
	}
	if variant == nil || len(variant.Fields) < 2 {
		return nil, nil, nil, false
	}
	fieldTypes := make([]types.Type, len(variant.Fields))
	for i, f := range variant.Fields {
		t, err := resolveFieldType(in.ctx, dd, f.Type, types.Substitution{})
		if err != nil {
			return nil, nil, nil, false
		}
		fieldTypes[i] = t
	}
	dims := len(fieldTypes) - 1
	carrier, ok := fieldTypes[dims].(types.List)
	if !ok {
		return nil, nil, nil, false
	}
	for i := 0; i < dims; i++ {
		if _, ok := fieldTypes[i].(types.Nat); !ok {
			return nil, nil, nil, false
		}
	}

	if len(o.Args) != len(variant.Fields) {
		return types.FreshVar(), types.Substitution{}, []*diag.Report{
			diag.New(diag.ArityMismatch, o.Pos, "%s expects %d argument(s), got %d", o.Name, len(variant.Fields), len(o.Args)),
		}, true
	}
	dimVals := make([]types.Type, dims)
	expected := uint64(1)
	for i := 0; i < dims; i++ {
		c, isConst := o.Args[i].(*ast.Const)
		if !isConst || c.Value.Kind != ast.LitNat {
			return types.FreshVar(), types.Substitution{}, []*diag.Report{
				diag.New(diag.TypeMismatch, o.Args[i].Position(), "dimension argument %d of %s must be a natural-number literal", i, o.Name),
			}, true
		}
		dimVals[i] = types.NatValue{K: c.Value.Nat}
		expected *= c.Value.Nat
	}

	entriesType, sub, reports := in.infer(o.Args[dims], env, inAxiom)
	if entriesType == nil || diag.HasErrors(reports) {
		return types.FreshVar(), types.Substitution{}, reports, true
	}
	next, uerr := types.NewUnifier().Unify(carrier, entriesType, sub)
	if uerr != nil {
		return types.FreshVar(), sub, append(reports,
			diag.New(diag.TypeMismatch, o.Args[dims].Position(), "entries of %s: %s", o.Name, uerr.Error())), true
	}
	sub = next

	if list, isLit := o.Args[dims].(*ast.List); isLit {
		if uint64(len(list.Elements)) != expected {
			return types.FreshVar(), sub, append(reports,
				diag.New(diag.DimensionMismatch, o.Pos, "%s declares %s = %d entr%s, list has %d",
					o.Name, dimProduct(dimVals), expected, plural(expected), len(list.Elements))), true
		}
	}

	elem := carrier.Elem
	if il, ok := types.Apply(sub, entriesType).(types.List); ok {
		elem = il.Elem
	}
	args := append(append([]types.Type(nil), dimVals...), types.Apply(sub, elem))
	return types.Data{TypeName: dd.Name, Constructor: o.Name, Args: args}, sub, reports, true
}

func dimProduct(dims []types.Type) string {
	s := ""
	for i, d := range dims {
		if i > 0 {
			s += "*"
		}
		s += d.String()
	}
	return s
}

func plural(n uint64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func (in *Inferencer) inferMatch(m *ast.Match, env Env, inAxiom bool) (types.Type, types.Substitution, []*diag.Report) {
	scrutType, sub, reports := in.infer(m.Scrutinee, env, inAxiom)
	if scrutType == nil {
		scrutType = types.FreshVar()
	}
	if sub == nil {
		sub = types.Substitution{}
	}
	scrutType = types.Apply(sub, scrutType)

	unifier := types.NewUnifier()

	// A Var scrutinee (typically a function parameter) is refined by the
	// first informative pattern: a constructor pattern
	// pins it to the variant's owning data type, a literal pattern to the
	// literal's type.
	if _, free := scrutType.(types.Var); free {
		refined, next, rep := in.refineScrutinee(unifier, scrutType, m.Arms, sub)
		if rep != nil {
			reports = append(reports, rep)
		} else {
			sub = next
			scrutType = refined
		}
	}

	var resultType types.Type
	covered := map[string]bool{}
	catchAllSeen := false

	for idx, arm := range m.Arms {
		if catchAllSeen {
			// An earlier wildcard/variable arm subsumes everything after it
			//: warn, don't abort.
			reports = append(reports, diag.NewWarning(diag.UnreachableArm, arm.Body.Position(),
				"match arm %d is unreachable: a previous arm already matches every value", idx))
			continue
		}
		armEnv, armCtors, isCatchAll, perr := bindPattern(in.ctx, arm.Pattern, scrutType, env)
		if perr != nil {
			reports = append(reports, perr)
			continue
		}
		if isCatchAll {
			catchAllSeen = true
		}
		for _, c := range armCtors {
			covered[c] = true
		}

		armType, armSub, reps := in.infer(arm.Body, armEnv, inAxiom)
		reports = append(reports, reps...)
		if armType == nil || diag.HasErrors(reps) {
			continue
		}
		sub = types.Compose(sub, armSub)
		if resultType == nil {
			resultType = types.Apply(sub, armType)
			continue
		}
		next, uerr := unifier.Unify(resultType, armType, sub)
		if uerr != nil {
			reports = append(reports, diag.New(diag.TypeMismatch, arm.Body.Position(), "match arm %d: %s", idx, uerr.Error()))
			continue
		}
		sub = next
		resultType = types.Apply(sub, resultType)
	}

	if !catchAllSeen {
		if dd, ok := dataDefOf(in.ctx, scrutType); ok {
			var missing []string
			for _, v := range dd.Variants {
				if !covered[v.Name] {
					missing = append(missing, v.Name)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				reports = append(reports,
					diag.New(diag.NonExhaustiveMatch, m.Pos, "match over %s is missing variants: %v", dd.Name, missing).
						WithData(map[string]any{"missing_variants": missing}).
						WithSuggestion("add arms for %v or a wildcard arm", missing))
			}
		}
	}

	if resultType == nil {
		resultType = types.FreshVar()
	}
	return resultType, sub, reports
}

// refineScrutinee pins a still-free scrutinee type down from the match's
// own patterns, so the enclosing function parameter's Var picks up the
// matched data type.
func (in *Inferencer) refineScrutinee(u *types.Unifier, scrut types.Type, arms []ast.MatchArm, sub types.Substitution) (types.Type, types.Substitution, *diag.Report) {
	for _, arm := range arms {
		switch pat := arm.Pattern.(type) {
		case *ast.ConstructorPattern:
			dd, ok := in.ctx.DataTypes().GetVariant(pat.Constructor)
			if !ok {
				return nil, nil, diag.New(diag.TypeMismatch, pat.Pos, "unknown constructor %q in pattern", pat.Constructor)
			}
			args := make([]types.Type, len(dd.TypeParams))
			for i := range args {
				args[i] = types.FreshVar()
			}
			next, err := u.Unify(scrut, types.Data{TypeName: dd.Name, Args: args}, sub)
			if err != nil {
				return nil, nil, diag.New(diag.TypeMismatch, pat.Pos, "%s", err.Error())
			}
			return types.Apply(next, scrut), next, nil

		case *ast.LiteralPattern:
			next, err := u.Unify(scrut, constType(in.ctx, pat.Value), sub)
			if err != nil {
				return nil, nil, diag.New(diag.TypeMismatch, pat.Pos, "%s", err.Error())
			}
			return types.Apply(next, scrut), next, nil
		}
	}
	return scrut, sub, nil
}

func dataDefOf(ctx *context.Builder, t types.Type) (*ast.DataDef, bool) {
	d, ok := t.(types.Data)
	if !ok {
		return nil, false
	}
	return ctx.DataTypes().GetType(d.TypeName)
}

// bindPattern type-checks one pattern against the scrutinee, returning
// the arm's extended environment, the set of constructor names it covers
// (for exhaustiveness), and whether the pattern is a catch-all (wildcard
// or bare variable).
func bindPattern(ctx *context.Builder, p ast.Pattern, scrutType types.Type, env Env) (Env, []string, bool, *diag.Report) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		return env, nil, true, nil

	case *ast.VarPattern:
		return env.extend(pat.Name, scrutType), nil, true, nil

	case *ast.LiteralPattern:
		litType := constType(ctx, pat.Value)
		if !litType.Equals(scrutType) {
			u := types.NewUnifier()
			if _, err := u.Unify(litType, scrutType, types.Substitution{}); err != nil {
				return nil, nil, false, diag.New(diag.TypeMismatch, pat.Pos, "literal pattern %s does not match scrutinee type %s", pat.Value, scrutType)
			}
		}
		return env, nil, false, nil

	case *ast.ConstructorPattern:
		dd, ok := dataDefOf(ctx, scrutType)
		if !ok {
			return nil, nil, false, diag.New(diag.TypeMismatch, pat.Pos, "constructor pattern %q used against non-data scrutinee type %s", pat.Constructor, scrutType)
		}
		var variant *ast.DataVariant
		for i := range dd.Variants {
			if dd.Variants[i].Name == pat.Constructor {
				variant = &dd.Variants[i]
				break
			}
		}
		if variant == nil {
			return nil, nil, false, diag.New(diag.TypeMismatch, pat.Pos, "%q is not a variant of data type %q", pat.Constructor, dd.Name)
		}
		if len(variant.Fields) != len(pat.SubPatterns) {
			return nil, nil, false, diag.New(diag.ArityMismatch, pat.Pos, "constructor %q expects %d sub-pattern(s), got %d", pat.Constructor, len(variant.Fields), len(pat.SubPatterns))
		}

		// Substitute the data type's own parameters by the scrutinee's
		// actual type arguments before unifying each field.
		scrutData := scrutType.(types.Data)
		sub := types.Substitution{}
		for i, tp := range dd.TypeParams {
			if i < len(scrutData.Args) {
				sub[tp.Name] = scrutData.Args[i]
			}
		}

		out := env
		for i, sp := range pat.SubPatterns {
			fieldType, err := resolveFieldType(ctx, dd, variant.Fields[i].Type, sub)
			if err != nil {
				return nil, nil, false, diag.New(diag.TypeMismatch, pat.Pos, "%s", err.Error())
			}
			var perr *diag.Report
			out, _, _, perr = bindPattern(ctx, sp, fieldType, out)
			if perr != nil {
				return nil, nil, false, perr
			}
		}
		return out, []string{pat.Constructor}, false, nil

	default:
		return nil, nil, false, diag.New(diag.TypeMismatch, p.Position(), "unsupported pattern %T", p)
	}
}

func resolveFieldType(ctx *context.Builder, dd *ast.DataDef, fieldExpr ast.TypeExpr, sub types.Substitution) (types.Type, error) {
	sc := make(map[string]ast.ParamKind, len(dd.TypeParams))
	for _, p := range dd.TypeParams {
		sc[p.Name] = p.Kind
	}
	t, err := ctx.ResolveTypeExpr(sc, fieldExpr)
	if err != nil {
		return nil, err
	}
	return types.Apply(sub, t), nil
}

func (in *Inferencer) inferEq(e *ast.Eq, env Env) (types.Type, types.Substitution, []*diag.Report) {
	lt, ls, errs := in.infer(e.Left, env, true)
	if lt == nil {
		return nil, nil, errs
	}
	rt, rs, rerrs := in.infer(e.Right, env, true)
	if rt == nil {
		return nil, nil, append(errs, rerrs...)
	}
	reports := append(errs, rerrs...)
	sub := types.Compose(ls, rs)
	unifier := types.NewUnifier()
	next, uerr := unifier.Unify(types.Apply(sub, lt), types.Apply(sub, rt), sub)
	if uerr != nil {
		return nil, nil, append(reports, diag.New(diag.TypeMismatch, e.Pos, "equality sides disagree: %s", uerr.Error()))
	}
	return types.Bool{}, next, reports
}

func (in *Inferencer) inferLet(l *ast.Let, env Env) (types.Type, types.Substitution, []*diag.Report) {
	vt, vs, errs := in.infer(l.Value, env, true)
	if vt == nil {
		return nil, nil, errs
	}
	bodyType, bs, berrs := in.infer(l.Body, env.extend(l.Name, types.Apply(vs, vt)), true)
	if bodyType == nil {
		return nil, nil, append(errs, berrs...)
	}
	return bodyType, types.Compose(vs, bs), append(errs, berrs...)
}

func (in *Inferencer) inferLambda(l *ast.Lambda, env Env) (types.Type, types.Substitution, []*diag.Report) {
	inner := env
	paramTypes := make([]types.Type, len(l.Params))
	for i, p := range l.Params {
		fv := types.FreshVar()
		paramTypes[i] = fv
		inner = inner.extend(p, fv)
	}
	bodyType, sub, errs := in.infer(l.Body, inner, true)
	if bodyType == nil {
		return nil, nil, errs
	}
	args := make([]types.Type, 0, len(paramTypes)+1)
	for _, pt := range paramTypes {
		args = append(args, types.Apply(sub, pt))
	}
	args = append(args, bodyType)
	return types.Data{TypeName: "->", Args: args}, sub, errs
}

func (in *Inferencer) inferQuantifier(q *ast.Quantifier, env Env) (types.Type, types.Substitution, []*diag.Report) {
	inner := env
	sortType := types.Var{Name: q.OfSort}
	for _, v := range q.Vars {
		inner = inner.extend(v, sortType)
	}
	_, sub, errs := in.infer(q.Body, inner, true)
	if diag.HasErrors(errs) {
		return nil, nil, errs
	}
	return types.Bool{}, sub, errs
}
