package annot

import (
	"reflect"
	"testing"

	"lark/internal/names"
	"lark/internal/types"
)

func TestSubstituteRewritesValueAndConstructor(t *testing.T) {
	a := types.Var{ID: 0, Kind: types.Star}

	m := New(nil)
	m.Insert(sp(0, 0, 3), Ref{Name: names.Unqualified("x"), Info: ValueInfo{Type: a}})
	m.Insert(sp(0, 4, 8), Ref{Name: names.Unqualified("Cons"), Info: ConInfo{Type: types.ListOf(a)}})
	m.Sort()

	out := m.Substitute(types.Singleton(0, types.IntType))

	entries := out.Entries()
	if got := entries[0].Annot.(Ref).Info.(ValueInfo).Type; !reflect.DeepEqual(got, types.Type(types.IntType)) {
		t.Errorf("value info type = %v, want int", got)
	}
	if got := entries[1].Annot.(Ref).Info.(ConInfo).Type; !reflect.DeepEqual(got, types.ListOf(types.IntType)) {
		t.Errorf("constructor info type = %v, want list<int>", got)
	}
	if !out.Sorted() {
		t.Error("Substitute dropped the sorted state despite preserving order")
	}
}

func TestSubstituteLeavesOtherVariantsUntouched(t *testing.T) {
	m := New(nil)
	m.Insert(sp(0, 0, 2), Ref{Name: names.Unqualified("list"), Info: TypeConInfo{Kind: types.ArrowKind(types.Star, types.Star)}})
	m.Insert(sp(0, 3, 4), Ref{Name: names.Unqualified("a"), Info: TypeVarInfo{Kind: types.Star}})
	m.Insert(sp(0, 5, 9), Ref{Name: names.Qualified("std/core", "core"), Info: ModuleInfo{}})
	m.Insert(sp(0, 10, 11), Ref{Name: names.Unqualified("*"), Info: KindInfo{}})
	m.Insert(sp(0, 12, 15), Decl{Kind: DeclType, Name: names.Unqualified("list")})
	m.Insert(sp(0, 16, 20), Block{Kind: BlockTypeContext})
	m.Sort()

	// The substitution binds a variable these entries never carry in a
	// substitutable position.
	out := m.Substitute(types.Singleton(0, types.IntType))

	if !reflect.DeepEqual(m.Entries(), out.Entries()) {
		t.Errorf("substitution changed non-value entries:\n before: %v\n after: %v", m.Entries(), out.Entries())
	}
}

func TestSubstituteDoesNotMutateOriginal(t *testing.T) {
	a := types.Var{ID: 0, Kind: types.Star}

	m := New(nil)
	m.Insert(sp(0, 0, 3), Ref{Name: names.Unqualified("x"), Info: ValueInfo{Type: a}})
	m.Sort()

	_ = m.Substitute(types.Singleton(0, types.BoolType))

	got := m.Entries()[0].Annot.(Ref).Info.(ValueInfo).Type
	if !reflect.DeepEqual(got, types.Type(a)) {
		t.Errorf("original map was mutated: type = %v, want the variable", got)
	}
}

func TestSubstituteEmptyMapping(t *testing.T) {
	m := New(nil)
	m.Insert(sp(0, 0, 3), Ref{Name: names.Unqualified("x"), Info: ValueInfo{Type: types.Var{ID: 0, Kind: types.Star}}})
	m.Sort()

	out := m.Substitute(nil)
	if !reflect.DeepEqual(m.Entries(), out.Entries()) {
		t.Error("empty substitution changed the entries")
	}

	// The copy is independent: growing it must not leak backwards.
	out.Insert(sp(0, 9, 10), valueRef("later"))
	if m.Len() != 1 {
		t.Errorf("original Len() = %d after inserting into the copy, want 1", m.Len())
	}
}

func TestFreeTypeVarsRestrictedToSubstitutableVariants(t *testing.T) {
	free := types.Var{ID: 3, Kind: types.Star}

	m := New(nil)
	m.Insert(sp(0, 0, 1), Ref{Name: names.Unqualified("x"), Info: ValueInfo{Type: free}})
	// A type variable occurrence carries a kind, never a type: it must
	// not contribute even though it names a variable.
	m.Insert(sp(0, 2, 3), Ref{Name: names.Unqualified("a"), Info: TypeVarInfo{Kind: types.Star}})
	m.Insert(sp(0, 4, 5), Ref{Name: names.Unqualified("m"), Info: ModuleInfo{}})
	m.Sort()

	got := m.FreeTypeVars()
	if len(got) != 1 || !got.Contains(3) {
		t.Errorf("FreeTypeVars() = %v, want exactly {3}", got)
	}
}

func TestBoundTypeVars(t *testing.T) {
	bound := types.Var{ID: 1, Kind: types.Star}
	scheme := types.Forall{Vars: []types.Var{bound}, Body: types.Fun{Params: []types.Type{bound}, Result: bound}}

	m := New(nil)
	m.Insert(sp(0, 0, 4), Ref{Name: names.Unqualified("id"), Info: ValueInfo{Type: scheme}})
	m.Insert(sp(0, 5, 9), Ref{Name: names.Unqualified("Con"), Info: ConInfo{Type: types.Var{ID: 2, Kind: types.Star}}})
	m.Sort()

	gotBound := m.BoundTypeVars()
	if len(gotBound) != 1 || !gotBound.Contains(1) {
		t.Errorf("BoundTypeVars() = %v, want exactly {1}", gotBound)
	}

	gotFree := m.FreeTypeVars()
	if len(gotFree) != 1 || !gotFree.Contains(2) {
		t.Errorf("FreeTypeVars() = %v, want exactly {2}", gotFree)
	}
}

func TestTraversalAgreementAcrossOperations(t *testing.T) {
	// Substitute, FreeTypeVars, and BoundTypeVars must all visit the
	// same payloads: a map with no value or constructor entries is
	// invisible to all three.
	m := New(nil)
	m.Insert(sp(0, 0, 2), Ref{Name: names.Unqualified("list"), Info: TypeConInfo{Kind: types.ArrowKind(types.Star, types.Star)}})
	m.Insert(sp(0, 3, 4), Ref{Name: names.Unqualified("b"), Info: TypeVarInfo{Kind: types.Star}})
	m.Insert(sp(0, 5, 6), Ref{Name: names.Unqualified("k"), Info: KindInfo{}})
	m.Sort()

	if got := m.FreeTypeVars(); len(got) != 0 {
		t.Errorf("FreeTypeVars() = %v, want empty", got)
	}
	if got := m.BoundTypeVars(); len(got) != 0 {
		t.Errorf("BoundTypeVars() = %v, want empty", got)
	}
	out := m.Substitute(types.Subst{0: types.IntType, 1: types.BoolType, 2: types.StringType})
	if !reflect.DeepEqual(m.Entries(), out.Entries()) {
		t.Error("Substitute touched entries the collectors ignore")
	}
}
