package types

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Substitution maps type-variable names to types.
type Substitution map[string]Type

// Apply substitutes t through sub.
func Apply(sub Substitution, t Type) Type {
	if len(sub) == 0 {
		return t
	}
	return t.Substitute(sub)
}

// Compose returns a substitution equivalent to applying s2 then s1.
func Compose(s1, s2 Substitution) Substitution {
	result := make(Substitution, len(s1)+len(s2))
	for k, v := range s2 {
		result[k] = v.Substitute(s1)
	}
	for k, v := range s1 {
		if _, exists := result[k]; !exists {
			result[k] = v
		}
	}
	return result
}

var varCounter uint64

// FreshVar allocates a new, monotonically-numbered type variable.
func FreshVar() Var {
	n := atomic.AddUint64(&varCounter, 1)
	return Var{Name: fmt.Sprintf("t%d", n)}
}

// ResetFreshVarCounter is exposed for test determinism only; production
// callers never need it.
func ResetFreshVarCounter() {
	atomic.StoreUint64(&varCounter, 0)
}

// Instantiate replaces a ForAll's bound variables with fresh Vars.
func Instantiate(t Type) Type {
	fa, ok := t.(ForAll)
	if !ok {
		return t
	}
	sub := make(Substitution, len(fa.Vars))
	for _, v := range fa.Vars {
		sub[v] = FreshVar()
	}
	return fa.Body.Substitute(sub)
}

// Generalize closes over the free variables of t that are not already
// bound in env, producing a ForAll scheme.
func Generalize(t Type, envFree map[string]bool) Type {
	free := map[string]bool{}
	collectFreeVars(t, free)
	var vars []string
	for v := range free {
		if !envFree[v] {
			vars = append(vars, v)
		}
	}
	if len(vars) == 0 {
		return t
	}
	sort.Strings(vars)
	return ForAll{Vars: vars, Body: t}
}

func collectFreeVars(t Type, out map[string]bool) {
	switch v := t.(type) {
	case Var:
		out[v.Name] = true
	case Data:
		for _, a := range v.Args {
			collectFreeVars(a, out)
		}
	case List:
		collectFreeVars(v.Elem, out)
	case ForAll:
		inner := map[string]bool{}
		collectFreeVars(v.Body, inner)
		for k := range inner {
			bound := false
			for _, b := range v.Vars {
				if b == k {
					bound = true
					break
				}
			}
			if !bound {
				out[k] = true
			}
		}
	}
}
