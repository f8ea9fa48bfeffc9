package types

import "sort"

// Subst maps type variable ids to their replacement types.
type Subst map[VarID]Type

// Singleton builds a substitution of one binding.
func Singleton(id VarID, t Type) Subst {
	return Subst{id: t}
}

// Apply rewrites t under the substitution. A nil or empty substitution
// returns t unchanged.
func (s Subst) Apply(t Type) Type {
	if len(s) == 0 || t == nil {
		return t
	}
	return t.Apply(s)
}

// Compose returns a substitution equivalent to applying other first,
// then s. Bindings in s win when both map the same variable.
func (s Subst) Compose(other Subst) Subst {
	out := make(Subst, len(s)+len(other))
	for id, t := range other {
		out[id] = s.Apply(t)
	}
	for id, t := range s {
		if _, shadowed := out[id]; !shadowed {
			out[id] = t
		}
	}
	return out
}

// VarSet collects type variables by id.
type VarSet map[VarID]Var

// NewVarSet builds a set from the given variables.
func NewVarSet(vars ...Var) VarSet {
	vs := make(VarSet, len(vars))
	for _, v := range vars {
		vs[v.ID] = v
	}
	return vs
}

// Add inserts v into the set.
func (vs VarSet) Add(v Var) {
	vs[v.ID] = v
}

// Contains reports whether the set holds a variable with the given id.
func (vs VarSet) Contains(id VarID) bool {
	_, ok := vs[id]
	return ok
}

// Union adds every variable of other into vs.
func (vs VarSet) Union(other VarSet) {
	for id, v := range other {
		vs[id] = v
	}
}

// Sorted returns the variables in ascending id order.
func (vs VarSet) Sorted() []Var {
	out := make([]Var, 0, len(vs))
	for _, v := range vs {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FreeVars collects the type variables of t not bound by an enclosing
// quantifier.
func FreeVars(t Type) VarSet {
	acc := make(VarSet)
	freeVars(t, nil, acc)
	return acc
}

// BoundVars collects the variables quantified anywhere inside t.
func BoundVars(t Type) VarSet {
	acc := make(VarSet)
	boundVars(t, acc)
	return acc
}

// The traversals pattern-match the closed variant set explicitly so a
// new type form forces a decision here.

func freeVars(t Type, bound VarSet, acc VarSet) {
	switch ty := t.(type) {
	case Var:
		if !bound.Contains(ty.ID) {
			acc.Add(ty)
		}
	case Con:
		// no variables
	case App:
		freeVars(ty.Fn, bound, acc)
		for _, arg := range ty.Args {
			freeVars(arg, bound, acc)
		}
	case Fun:
		for _, p := range ty.Params {
			freeVars(p, bound, acc)
		}
		freeVars(ty.Result, bound, acc)
	case Forall:
		inner := make(VarSet, len(bound)+len(ty.Vars))
		inner.Union(bound)
		for _, v := range ty.Vars {
			inner.Add(v)
		}
		freeVars(ty.Body, inner, acc)
	}
}

func boundVars(t Type, acc VarSet) {
	switch ty := t.(type) {
	case Var, Con:
		// no binders
	case App:
		boundVars(ty.Fn, acc)
		for _, arg := range ty.Args {
			boundVars(arg, acc)
		}
	case Fun:
		for _, p := range ty.Params {
			boundVars(p, acc)
		}
		boundVars(ty.Result, acc)
	case Forall:
		for _, v := range ty.Vars {
			acc.Add(v)
		}
		boundVars(ty.Body, acc)
	}
}
