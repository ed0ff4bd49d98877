package context

import (
	"fmt"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/types"
)

// scope tracks which names in the current declaration are parameters (and
// of what kind), so a TypeRef to a bare name can resolve to a type
// variable rather than to a (non-existent) zero-arg data type.
type scope map[string]ast.ParamKind

func newScope(params []ast.ParamDecl) scope {
	s := make(scope, len(params))
	for _, p := range params {
		s[p.Name] = p.Kind
	}
	return s
}

// ResolveTypeExpr converts a syntactic TypeExpr into a kernel types.Type.
// Names present in sc resolve to Var (their kind is recorded by the
// caller via sc and consulted later by internal/interp when classifying
// bindings); any other bare name is looked up as a registered data type.
// Unknown names are an error.
func (b *Builder) ResolveTypeExpr(sc scope, expr ast.TypeExpr) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.TypeRef:
		if _, isParam := sc[e.Name]; isParam && len(e.Args) == 0 {
			return types.Var{Name: e.Name}, nil
		}
		args := make([]types.Type, len(e.Args))
		for i, a := range e.Args {
			t, err := b.ResolveTypeExpr(sc, a)
			if err != nil {
				return nil, err
			}
			args[i] = t
		}
		if e.Name == "List" && len(args) == 1 {
			return types.List{Elem: args[0]}, nil
		}
		if e.Name == "Nat" && len(args) == 0 {
			// The dimension kind is built in, like List: a data variant may
			// declare a Nat field without any data type of that name existing.
			return types.Nat{}, nil
		}
		if _, ok := b.dataTypes.GetType(e.Name); !ok {
			return nil, fmt.Errorf("unknown type %q", e.Name)
		}
		return types.Data{TypeName: e.Name, Args: args}, nil

	case *ast.ListTypeExpr:
		elem, err := b.ResolveTypeExpr(sc, e.Element)
		if err != nil {
			return nil, err
		}
		return types.List{Elem: elem}, nil

	case *ast.NatLit:
		return types.NatValue{K: e.Value}, nil

	case *ast.StringLit:
		return types.StringValue{S: e.Value}, nil

	case *ast.FuncTypeExpr:
		// Function types can appear as higher-order axiom parameter types;
		// the core represents them structurally as a Data "->"  so the
		// generic unifier handles them with no special case.
		params := make([]types.Type, len(e.Params))
		for i, p := range e.Params {
			t, err := b.ResolveTypeExpr(sc, p)
			if err != nil {
				return nil, err
			}
			params[i] = t
		}
		result, err := b.ResolveTypeExpr(sc, e.Result)
		if err != nil {
			return nil, err
		}
		args := append(params, result)
		return types.Data{TypeName: "->", Args: args}, nil

	case *ast.SchemeExpr:
		inner := make(scope, len(sc)+len(e.Params))
		for k, v := range sc {
			inner[k] = v
		}
		var names []string
		for _, p := range e.Params {
			inner[p.Name] = p.Kind
			names = append(names, p.Name)
		}
		body, err := b.ResolveTypeExpr(inner, e.Body)
		if err != nil {
			return nil, err
		}
		return types.ForAll{Vars: names, Body: body}, nil

	default:
		return nil, fmt.Errorf("unsupported type expression %T", expr)
	}
}

// ResolveClosed resolves a TypeExpr with no parameter scope; any bare name
// must refer to a registered data type. Used for `implements` type
// arguments, which must be closed.
func (b *Builder) ResolveClosed(expr ast.TypeExpr) (types.Type, error) {
	return b.ResolveTypeExpr(scope{}, expr)
}
