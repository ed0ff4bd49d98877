package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/context"
	"github.com/eatikrh/kleis/internal/interp"
	"github.com/eatikrh/kleis/internal/types"
)

func typeRef(name string, args ...ast.TypeExpr) *ast.TypeRef {
	return &ast.TypeRef{Name: name, Args: args}
}

func funcType(result ast.TypeExpr, params ...ast.TypeExpr) *ast.FuncTypeExpr {
	return &ast.FuncTypeExpr{Params: params, Result: result}
}

func natLit(k uint64) *ast.NatLit { return &ast.NatLit{Value: k} }

func buildRing(t *testing.T) *context.Builder {
	t.Helper()
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.DataDef{Name: "Real", Variants: []ast.DataVariant{{Name: "R"}}},
		&ast.StructureDef{
			Name:       "Ring",
			TypeParams: []ast.ParamDecl{{Name: "R", Kind: ast.KindType}},
			Operations: []ast.OperationDecl{
				{Name: "add", Signature: funcType(typeRef("R"), typeRef("R"), typeRef("R"))},
				{Name: "zero", Signature: typeRef("R")},
			},
		},
		&ast.ImplementsDef{
			StructureName: "Ring",
			TypeArgs:      []ast.TypeExpr{typeRef("Real")},
			Bindings: []ast.Binding{
				{OpName: "add", Impl: &ast.Object{Name: "add_impl"}},
				{OpName: "zero", Impl: &ast.Object{Name: "zero_impl"}},
			},
		},
	}}
	b, reports := context.FromProgram(prog)
	require.Nil(t, reports)
	return b
}

// matrixExpr builds the TypeExpr for Matrix(m, n, elem).
func matrixExpr(m, n, elem ast.TypeExpr) *ast.TypeRef {
	return typeRef("Matrix", m, n, elem)
}

// buildMatrixAlgebra registers a user-defined, dimension-parameterised
// `Matrix(m: Nat, n: Nat, T)` data type and a `multiply` operation scoped
// over `Nat` parameters m, n, p and a `Type` parameter T, with
// multiply : Matrix(m,n,T) -> Matrix(n,p,T) -> Matrix(m,p,T). The
// interpreter is generic over this: nothing in internal/interp or
// internal/context special-cases the name "Matrix".
func buildMatrixAlgebra(t *testing.T) *context.Builder {
	t.Helper()
	m, n, p, tp := typeRef("m"), typeRef("n"), typeRef("p"), typeRef("T")
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.DataDef{Name: "Real", Variants: []ast.DataVariant{{Name: "R"}}},
		&ast.DataDef{
			Name: "Matrix",
			TypeParams: []ast.ParamDecl{
				{Name: "m", Kind: ast.KindNat},
				{Name: "n", Kind: ast.KindNat},
				{Name: "T", Kind: ast.KindType},
			},
			Variants: []ast.DataVariant{{Name: "Mat"}},
		},
		&ast.StructureDef{
			Name: "MatrixAlgebra",
			Operations: []ast.OperationDecl{
				{
					Name: "multiply",
					Signature: &ast.SchemeExpr{
						Params: []ast.ParamDecl{
							{Name: "m", Kind: ast.KindNat},
							{Name: "n", Kind: ast.KindNat},
							{Name: "p", Kind: ast.KindNat},
							{Name: "T", Kind: ast.KindType},
						},
						Body: funcType(matrixExpr(m, p, tp), matrixExpr(m, n, tp), matrixExpr(n, p, tp)),
					},
				},
			},
		},
	}}
	b, reports := context.FromProgram(prog)
	require.Nil(t, reports)
	return b
}

func TestResolve_Matrix_DimensionConsistency(t *testing.T) {
	b := buildMatrixAlgebra(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	a := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 2}, types.NatValue{K: 3}, real}}
	bb := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 3}, types.NatValue{K: 4}, real}}

	res, reports := in.Resolve("multiply", []types.Type{a, bb}, ast.Pos{})
	require.Nil(t, reports)
	want := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 2}, types.NatValue{K: 4}, real}}
	assert.True(t, res.Result.Equals(want), "got %s, want %s", res.Result, want)
	assert.True(t, res.Bindings.DimBindings["m"].Equals(types.NatValue{K: 2}))
	assert.True(t, res.Bindings.DimBindings["n"].Equals(types.NatValue{K: 3}))
	assert.True(t, res.Bindings.DimBindings["p"].Equals(types.NatValue{K: 4}))
	assert.True(t, res.Bindings.TypeBindings["T"].Equals(real))
}

func TestResolve_Matrix_DimensionMismatch(t *testing.T) {
	b := buildMatrixAlgebra(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	a := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 2}, types.NatValue{K: 3}, real}}
	// b's leading dimension (4) disagrees with a's shared dimension n (3).
	bb := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 4}, types.NatValue{K: 5}, real}}

	_, reports := in.Resolve("multiply", []types.Type{a, bb}, ast.Pos{})
	require.NotEmpty(t, reports)
	assert.Equal(t, "DimensionMismatch", string(reports[0].Kind))
}

func TestResolve_Matrix_DeepPolymorphism(t *testing.T) {
	b := buildMatrixAlgebra(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	// T = Matrix(3,3,Real): multiply dispatches through the same operation
	// with its own type parameter T instantiated to a Matrix itself.
	elem := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 3}, types.NatValue{K: 3}, real}}
	a := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 2}, types.NatValue{K: 2}, elem}}
	bb := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 2}, types.NatValue{K: 2}, elem}}

	res, reports := in.Resolve("multiply", []types.Type{a, bb}, ast.Pos{})
	require.Nil(t, reports)
	want := types.Data{TypeName: "Matrix", Args: []types.Type{types.NatValue{K: 2}, types.NatValue{K: 2}, elem}}
	assert.True(t, res.Result.Equals(want), "got %s, want %s", res.Result, want)
	assert.True(t, res.Bindings.TypeBindings["T"].Equals(elem))
}

// buildTensorOps registers a user-defined `Tensor(i,j,k: Nat, T)` data type
// and a `contract` operation: a new dimension-parameterised data type and
// an operation over it typecheck with no core code change.
func buildTensorOps(t *testing.T) *context.Builder {
	t.Helper()
	i, j, k, tp := typeRef("i"), typeRef("j"), typeRef("k"), typeRef("T")
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.DataDef{Name: "Real", Variants: []ast.DataVariant{{Name: "R"}}},
		&ast.DataDef{
			Name: "Tensor",
			TypeParams: []ast.ParamDecl{
				{Name: "i", Kind: ast.KindNat},
				{Name: "j", Kind: ast.KindNat},
				{Name: "k", Kind: ast.KindNat},
				{Name: "T", Kind: ast.KindType},
			},
			Variants: []ast.DataVariant{{Name: "Ten"}},
		},
		&ast.StructureDef{
			Name: "TensorOps",
			Operations: []ast.OperationDecl{
				{
					Name: "contract",
					Signature: &ast.SchemeExpr{
						Params: []ast.ParamDecl{
							{Name: "i", Kind: ast.KindNat},
							{Name: "j", Kind: ast.KindNat},
							{Name: "k", Kind: ast.KindNat},
							{Name: "T", Kind: ast.KindType},
						},
						Body: funcType(tp, typeRef("Tensor", i, j, k, tp)),
					},
				},
			},
		},
	}}
	b, reports := context.FromProgram(prog)
	require.Nil(t, reports)
	return b
}

func TestResolve_Tensor_UserDefinedExtensibility(t *testing.T) {
	b := buildTensorOps(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	tensor := types.Data{TypeName: "Tensor", Args: []types.Type{
		types.NatValue{K: 3}, types.NatValue{K: 3}, types.NatValue{K: 3}, real,
	}}

	res, reports := in.Resolve("contract", []types.Type{tensor}, ast.Pos{})
	require.Nil(t, reports)
	assert.True(t, res.Result.Equals(real), "got %s, want %s", res.Result, real)
	assert.True(t, res.Bindings.DimBindings["i"].Equals(types.NatValue{K: 3}))
	assert.True(t, res.Bindings.DimBindings["j"].Equals(types.NatValue{K: 3}))
	assert.True(t, res.Bindings.DimBindings["k"].Equals(types.NatValue{K: 3}))
	assert.True(t, res.Bindings.TypeBindings["T"].Equals(real))
}

func TestResolve_UnknownOperation(t *testing.T) {
	b := buildRing(t)
	in := interp.New(b)
	_, reports := in.Resolve("frobnicate", nil, ast.Pos{})
	require.NotEmpty(t, reports)
	assert.Equal(t, "UnknownOperation", string(reports[0].Kind))
}

func TestResolve_BindsStructureParamFromArgs(t *testing.T) {
	b := buildRing(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	res, reports := in.Resolve("add", []types.Type{real, real}, ast.Pos{})
	require.Nil(t, reports)
	assert.True(t, res.Result.Equals(real))
	assert.Equal(t, "Ring", res.Structure)
	assert.True(t, res.Bindings.TypeBindings["R"].Equals(real))
}

func TestResolve_ArityMismatch(t *testing.T) {
	b := buildRing(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	_, reports := in.Resolve("add", []types.Type{real}, ast.Pos{})
	require.NotEmpty(t, reports)
	assert.Equal(t, "ArityMismatch", string(reports[0].Kind))
}

func TestResolve_TypeMismatch(t *testing.T) {
	b := buildRing(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	_, reports := in.Resolve("add", []types.Type{real, types.StringValue{S: "x"}}, ast.Pos{})
	require.NotEmpty(t, reports)
}

func TestResolve_FreshPerCall(t *testing.T) {
	b := buildRing(t)
	in := interp.New(b)
	real := types.Data{TypeName: "Real"}
	str := types.Data{TypeName: "String"}

	res1, reports := in.Resolve("add", []types.Type{real, real}, ast.Pos{})
	require.Nil(t, reports)
	assert.True(t, res1.Result.Equals(real))

	// A second, independent call with different argument types must not
	// be influenced by bindings captured in the first call's Substitution.
	_, reports = in.Resolve("add", []types.Type{str, str}, ast.Pos{})
	require.Nil(t, reports)
}

func TestResolveConstructor_Option(t *testing.T) {
	prog := &ast.Program{Decls: []ast.Decl{
		&ast.DataDef{
			Name:       "Option",
			TypeParams: []ast.ParamDecl{{Name: "T", Kind: ast.KindType}},
			Variants: []ast.DataVariant{
				{Name: "None"},
				{Name: "Some", Fields: []ast.Field{{Name: "value", Type: typeRef("T")}}},
			},
		},
	}}
	b, reports := context.FromProgram(prog)
	require.Nil(t, reports)
	in := interp.New(b)

	real := types.Data{TypeName: "Real"}
	res, reports := in.ResolveConstructor("Option", "Some", []types.Type{real}, ast.Pos{})
	require.Nil(t, reports)
	assert.Equal(t, "Option(Real)", res.Result.String())
}
