package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatikrh/kleis/internal/ast"
	"github.com/eatikrh/kleis/internal/registry"
)

func TestDataTypeRegistry_DuplicateName(t *testing.T) {
	r := registry.NewDataTypeRegistry()
	dd := &ast.DataDef{Name: "Option", Variants: []ast.DataVariant{{Name: "None"}}}
	require.NoError(t, r.Register(dd))
	err := r.Register(dd)
	require.Error(t, err)
}

func TestDataTypeRegistry_AmbiguousConstructor(t *testing.T) {
	r := registry.NewDataTypeRegistry()
	require.NoError(t, r.Register(&ast.DataDef{Name: "Option", Variants: []ast.DataVariant{{Name: "None"}}}))
	require.NoError(t, r.Register(&ast.DataDef{Name: "Maybe", Variants: []ast.DataVariant{{Name: "None"}}}))

	_, ok := r.GetVariant("None")
	assert.False(t, ok)

	amb := r.AmbiguousConstructors()
	assert.Equal(t, []string{"Maybe", "Option"}, amb["None"])
}

func TestDataTypeRegistry_IterVariantsDeterministic(t *testing.T) {
	r := registry.NewDataTypeRegistry()
	require.NoError(t, r.Register(&ast.DataDef{Name: "Bool", Variants: []ast.DataVariant{{Name: "True"}, {Name: "False"}}}))
	require.NoError(t, r.Register(&ast.DataDef{Name: "Option", TypeParams: []ast.ParamDecl{{Name: "T"}}, Variants: []ast.DataVariant{
		{Name: "None"},
		{Name: "Some", Fields: []ast.Field{{Name: "value"}}},
	}}))

	vs := r.IterVariants()
	require.Len(t, vs, 4)
	assert.Equal(t, "Bool", vs[0].TypeName)
	assert.Equal(t, "True", vs[0].CtorName)
	assert.Equal(t, 0, vs[0].Arity)
	assert.Equal(t, "Option", vs[2].TypeName)
	assert.Equal(t, "Some", vs[3].CtorName)
	assert.Equal(t, 1, vs[3].Arity)
}

func TestDataTypeRegistry_Clone_Independent(t *testing.T) {
	r := registry.NewDataTypeRegistry()
	require.NoError(t, r.Register(&ast.DataDef{Name: "Bool", Variants: []ast.DataVariant{{Name: "True"}}}))
	clone := r.Clone()
	require.NoError(t, clone.Register(&ast.DataDef{Name: "Other", Variants: []ast.DataVariant{{Name: "X"}}}))

	_, ok := r.GetType("Other")
	assert.False(t, ok, "mutating the clone must not affect the original registry")
}
