package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnify_ConstructorAgnostic(t *testing.T) {
	u := NewUnifier()

	// Constructor identity is not required when the data types agree.
	trueT := Data{TypeName: "Bool", Constructor: "True"}
	falseT := Data{TypeName: "Bool", Constructor: "False"}
	_, err := u.Unify(trueT, falseT, Substitution{})
	require.NoError(t, err)

	someInt := Data{TypeName: "Option", Constructor: "Some", Args: []Type{Data{TypeName: "Int"}}}
	someBool := Data{TypeName: "Option", Constructor: "Some", Args: []Type{Data{TypeName: "Bool"}}}
	_, err = u.Unify(someInt, someBool, Substitution{})
	require.Error(t, err)
	var uerr *UnifyError
	assert.ErrorAs(t, err, &uerr)
}

func TestUnify_Dimension(t *testing.T) {
	u := NewUnifier()
	sub, err := u.Unify(NatValue{K: 3}, NatValue{K: 3}, Substitution{})
	require.NoError(t, err)
	assert.Empty(t, sub)

	_, err = u.Unify(NatValue{K: 3}, NatValue{K: 4}, Substitution{})
	require.Error(t, err)
	var uerr *UnifyError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "DimensionMismatch", uerr.Kind)

	sub, err = u.Unify(Nat{}, NatValue{K: 5}, Substitution{})
	require.NoError(t, err)
	assert.Empty(t, sub)
}

func TestUnify_OccursCheck(t *testing.T) {
	u := NewUnifier()
	v := Var{Name: "a"}
	listOfV := List{Elem: v}
	_, err := u.Unify(v, listOfV, Substitution{})
	require.Error(t, err)
	var uerr *UnifyError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "InfiniteType", uerr.Kind)
}

func TestUnify_VarBinding(t *testing.T) {
	u := NewUnifier()
	v := Var{Name: "a"}
	sub, err := u.Unify(v, Data{TypeName: "Int"}, Substitution{})
	require.NoError(t, err)
	assert.Equal(t, Data{TypeName: "Int"}, sub["a"])
}

func TestInstantiate_FreshensEachCall(t *testing.T) {
	scheme := ForAll{Vars: []string{"a"}, Body: List{Elem: Var{Name: "a"}}}
	t1 := Instantiate(scheme)
	t2 := Instantiate(scheme)
	l1, ok1 := t1.(List)
	l2, ok2 := t2.(List)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.NotEqual(t, l1.Elem.(Var).Name, l2.Elem.(Var).Name)
}
