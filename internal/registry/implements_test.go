package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eatikrh/kleis/internal/registry"
	"github.com/eatikrh/kleis/internal/types"
)

func TestCanonical_ZeroArgDataCollapsesToBareName(t *testing.T) {
	c, err := registry.Canonical([]types.Type{types.Data{TypeName: "Real", Constructor: "R"}})
	require.NoError(t, err)
	assert.Equal(t, "Real", c)
}

func TestCanonical_RejectsFreeVariable(t *testing.T) {
	_, err := registry.Canonical([]types.Type{types.Var{Name: "t1"}})
	require.Error(t, err)
}

func TestImplementsRegistry_DuplicateKey(t *testing.T) {
	r := registry.NewImplementsRegistry()
	inst := &registry.Instance{StructureName: "Ring", TypeArgs: []types.Type{types.Data{TypeName: "Real"}}}
	require.NoError(t, r.Register(inst))
	err := r.Register(&registry.Instance{StructureName: "Ring", TypeArgs: []types.Type{types.Data{TypeName: "Real"}}})
	require.Error(t, err)
}

func TestImplementsRegistry_AllForStructure_DeclarationOrder(t *testing.T) {
	r := registry.NewImplementsRegistry()
	require.NoError(t, r.Register(&registry.Instance{StructureName: "Ring", TypeArgs: []types.Type{types.Data{TypeName: "Real"}}}))
	require.NoError(t, r.Register(&registry.Instance{StructureName: "Ring", TypeArgs: []types.Type{types.Data{TypeName: "Complex"}}}))

	all := r.AllForStructure("Ring")
	require.Len(t, all, 2)
	assert.Equal(t, "Real", all[0].TypeArgs[0].(types.Data).TypeName)
	assert.Equal(t, "Complex", all[1].TypeArgs[0].(types.Data).TypeName)
}
