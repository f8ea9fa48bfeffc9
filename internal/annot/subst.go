package annot

import "lark/internal/types"

// Substitute rewrites the types stored in value and constructor
// reference info through s and returns the result as a new map. The
// receiver is left untouched; unchanged annotations are shared. Kinds
// pass through even where a variant carries one: kind variables are
// outside this substitution. Entry order is preserved, so a sorted
// map stays sorted.
func (m *Map) Substitute(s types.Subst) *Map {
	out := &Map{
		entries: make([]Entry, len(m.entries)),
		hidden:  m.hidden,
		sorted:  m.sorted,
	}
	copy(out.entries, m.entries)
	if len(s) == 0 {
		return out
	}

	for i := range out.entries {
		ref, ok := out.entries[i].Annot.(Ref)
		if !ok {
			continue
		}
		switch info := ref.Info.(type) {
		case ValueInfo:
			ref.Info = ValueInfo{Type: s.Apply(info.Type)}
		case ConInfo:
			ref.Info = ConInfo{Type: s.Apply(info.Type)}
		default:
			continue
		}
		out.entries[i].Annot = ref
	}
	return out
}

// FreeTypeVars unions the free type variables over every stored value
// and constructor payload. Other variants never contribute.
func (m *Map) FreeTypeVars() types.VarSet {
	acc := make(types.VarSet)
	for _, e := range m.entries {
		if t, ok := substitutableType(e.Annot); ok {
			acc.Union(types.FreeVars(t))
		}
	}
	return acc
}

// BoundTypeVars unions the quantifier-bound variables over the same
// payloads FreeTypeVars visits.
func (m *Map) BoundTypeVars() types.VarSet {
	acc := make(types.VarSet)
	for _, e := range m.entries {
		if t, ok := substitutableType(e.Annot); ok {
			acc.Union(types.BoundVars(t))
		}
	}
	return acc
}

// substitutableType extracts the type payload the substitution pass
// operates on. Substitute and both variable collectors must agree on
// this variant set: exactly Value and Con.
func substitutableType(a Annot) (types.Type, bool) {
	ref, ok := a.(Ref)
	if !ok {
		return nil, false
	}
	switch info := ref.Info.(type) {
	case ValueInfo:
		return info.Type, true
	case ConInfo:
		return info.Type, true
	}
	return nil, false
}
