package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/engine"
	"github.com/eatikrh/kleis/internal/stdlib"
	"github.com/eatikrh/kleis/internal/types"
)

func natConst(k uint64) *ast.Const {
	return &ast.Const{Value: ast.Literal{Kind: ast.LitNat, Nat: k}}
}

func natList(ks ...uint64) *ast.List {
	elems := make([]ast.Expression, len(ks))
	for i, k := range ks {
		elems[i] = natConst(k)
	}
	return &ast.List{Elements: elems}
}

func TestEngine_WithStdlib_InfersBoolLiteral(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	typ, reports := eng.Infer(&ast.Const{Value: ast.Literal{Kind: ast.LitBool, Bool: true}})
	require.Nil(t, reports)
	assert.Equal(t, "Bool", typ.(types.Data).TypeName)
}

func TestEngine_StructureForOperation(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)
	assert.Equal(t, []string{"Eq"}, eng.StructureForOperation("equals"))
}

func TestEngine_GetAxioms(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)
	axioms := eng.GetAxioms("Eq")
	require.Len(t, axioms, 1)
	assert.Equal(t, "reflexivity", axioms[0].Name)
}

func TestEngine_Load_MergesAdditionalDeclarations(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	reports = eng.Load(&ast.Program{Decls: []ast.Decl{
		&ast.DataDef{Name: "Unit", Variants: []ast.DataVariant{{Name: "unit"}}},
	}})
	require.Nil(t, reports)

	typ, reports := eng.Infer(&ast.Operation{Name: "unit"})
	require.Nil(t, reports)
	assert.Equal(t, "Unit", typ.(types.Data).TypeName)
}

// Stdlib isolation: an engine seeded with an
// explicitly empty stdlib knows no `plus`; the default stdlib resolves it
// through the Numeric structure with no host-code special case.
func TestEngine_StdlibIsolation_Plus(t *testing.T) {
	plusCall := func() *ast.Operation {
		return &ast.Operation{Name: "plus", Args: []ast.Expression{natConst(1), natConst(2)}}
	}

	bare, reports := engine.WithStdlib(&stdlib.Config{SourceOrder: []string{}})
	require.Nil(t, reports)
	_, reports = bare.Infer(plusCall())
	require.NotEmpty(t, reports)
	assert.Equal(t, "UnknownOperation", string(reports[0].Kind))

	full, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)
	typ, reports := full.Infer(plusCall())
	require.Nil(t, reports)
	assert.Equal(t, "Type", typ.(types.Data).TypeName)
	assert.Equal(t, []string{"Numeric"}, full.StructureForOperation("plus"))
}

// A matrix literal's entries list is checked
// against the declared m*n dimensions.
func TestEngine_MatrixLiteral(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	typ, reports := eng.Infer(&ast.Operation{Name: "Matrix", Args: []ast.Expression{
		natConst(2), natConst(2), natList(1, 2, 3, 4),
	}})
	require.Nil(t, reports)
	d := typ.(types.Data)
	assert.Equal(t, "Type", d.TypeName)
	assert.Equal(t, "Matrix", d.Constructor)
	require.Len(t, d.Args, 3)
	assert.Equal(t, types.NatValue{K: 2}, d.Args[0])
	assert.Equal(t, types.NatValue{K: 2}, d.Args[1])
	assert.Equal(t, "Scalar", d.Args[2].(types.Data).Constructor)
}

func TestEngine_MatrixLiteral_EntryCountMismatch(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	_, reports = eng.Infer(&ast.Operation{Name: "Matrix", Args: []ast.Expression{
		natConst(2), natConst(3), natList(1, 2, 3, 4),
	}})
	require.NotEmpty(t, reports)
	assert.Equal(t, "DimensionMismatch", string(reports[0].Kind))
}

func TestEngine_VectorLiteral(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	typ, reports := eng.Infer(&ast.Operation{Name: "Vector", Args: []ast.Expression{
		natConst(3), natList(1, 2, 3),
	}})
	require.Nil(t, reports)
	d := typ.(types.Data)
	assert.Equal(t, "Vector", d.Constructor)
	assert.Equal(t, types.NatValue{K: 3}, d.Args[0])
}

// `define not(b) = match b { True => False |
// False => True }` reads back as Bool -> Bool; dropping the False arm
// makes it non-exhaustive.
func TestEngine_TypeOfFunction_Not(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	notDef := func(arms ...ast.MatchArm) *ast.FunctionDef {
		return &ast.FunctionDef{
			Name:   "not",
			Params: []string{"b"},
			Body:   &ast.Match{Scrutinee: &ast.Object{Name: "b"}, Arms: arms},
		}
	}
	trueArm := ast.MatchArm{
		Pattern: &ast.ConstructorPattern{Constructor: "True"},
		Body:    &ast.Operation{Name: "False"},
	}
	falseArm := ast.MatchArm{
		Pattern: &ast.ConstructorPattern{Constructor: "False"},
		Body:    &ast.Operation{Name: "True"},
	}

	reports = eng.Load(&ast.Program{Decls: []ast.Decl{notDef(trueArm, falseArm)}})
	require.Nil(t, reports)

	typ, reports := eng.TypeOfFunction("not")
	require.Nil(t, reports)
	arrow := typ.(types.Data)
	assert.Equal(t, "->", arrow.TypeName)
	require.Len(t, arrow.Args, 2)
	assert.Equal(t, "Bool", arrow.Args[0].(types.Data).TypeName)
	assert.Equal(t, "Bool", arrow.Args[1].(types.Data).TypeName)
}

func TestEngine_TypeOfFunction_NonExhaustiveMatch(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	reports = eng.Load(&ast.Program{Decls: []ast.Decl{
		&ast.FunctionDef{
			Name:   "not",
			Params: []string{"b"},
			Body: &ast.Match{
				Scrutinee: &ast.Object{Name: "b"},
				Arms: []ast.MatchArm{{
					Pattern: &ast.ConstructorPattern{Constructor: "True"},
					Body:    &ast.Operation{Name: "False"},
				}},
			},
		},
	}})
	require.Nil(t, reports)

	_, reports = eng.TypeOfFunction("not")
	require.NotEmpty(t, reports)
	assert.Equal(t, "NonExhaustiveMatch", string(reports[0].Kind))
	assert.Equal(t, []string{"False"}, reports[0].Data["missing_variants"])
}

// Semigroup's associativity axiom is stored
// verbatim and read back via get_axioms.
func TestEngine_GetAxioms_Semigroup(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)
	axioms := eng.GetAxioms("Semigroup")
	require.Len(t, axioms, 1)
	assert.Equal(t, "associativity", axioms[0].Name)
	assert.Contains(t, axioms[0].Proposition.String(), "compose")
}

// Recovery: two independently broken sub-expressions each
// surface their own diagnostic in one call.
func TestEngine_Infer_MultipleDiagnostics(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	_, reports = eng.Infer(&ast.Operation{Name: "plus", Args: []ast.Expression{
		&ast.Object{Name: "nope1"},
		&ast.Object{Name: "nope2"},
	}})
	require.Len(t, reports, 2)
	assert.Equal(t, "UnboundIdentifier", string(reports[0].Kind))
	assert.Equal(t, "UnboundIdentifier", string(reports[1].Kind))
}

func TestEngine_Load_ConflictLeavesEngineUnchanged(t *testing.T) {
	eng, reports := engine.WithStdlib(nil)
	require.Nil(t, reports)

	reports = eng.Load(&ast.Program{Decls: []ast.Decl{
		&ast.DataDef{Name: "Bool", Variants: []ast.DataVariant{{Name: "Yes"}}},
	}})
	require.NotEmpty(t, reports)

	// Original Bool declaration must still resolve.
	typ, reports := eng.Infer(&ast.Const{Value: ast.Literal{Kind: ast.LitBool, Bool: true}})
	require.Nil(t, reports)
	assert.Equal(t, "True", typ.(types.Data).Constructor)
}
