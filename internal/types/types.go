// Package types models the checker's type language: variables,
// constructors, applications, functions, and quantified schemes.
// Annotation payloads carry these values so tooling can render the
// type at a position; the substitution pass rewrites the variables
// once the checker generalizes.
package types

import (
	"fmt"
	"strings"
)

// VarID identifies a type variable across one checker run.
type VarID uint32

// Type is the closed set of type forms.
type Type interface {
	isType()
	// Apply rewrites type variables according to s, returning a new
	// type. Types are immutable; unchanged subtrees may be shared.
	Apply(s Subst) Type
	String() string
}

// Var is a type variable.
type Var struct {
	ID   VarID
	Kind Kind
}

// Con is a named type constructor, like int or list.
type Con struct {
	Name string
	Kind Kind
}

// App applies a constructor to arguments: list<a>, map<k, v>.
type App struct {
	Fn   Type
	Args []Type
}

// Fun is a function type with zero or more parameters.
type Fun struct {
	Params []Type
	Result Type
}

// Forall quantifies Body over Vars.
type Forall struct {
	Vars []Var
	Body Type
}

func (Var) isType()    {}
func (Con) isType()    {}
func (App) isType()    {}
func (Fun) isType()    {}
func (Forall) isType() {}

func (v Var) Apply(s Subst) Type {
	if t, ok := s[v.ID]; ok {
		return t
	}
	return v
}

func (c Con) Apply(Subst) Type {
	return c
}

func (a App) Apply(s Subst) Type {
	if len(s) == 0 {
		return a
	}
	args := make([]Type, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.Apply(s)
	}
	return App{Fn: a.Fn.Apply(s), Args: args}
}

func (f Fun) Apply(s Subst) Type {
	if len(s) == 0 {
		return f
	}
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Apply(s)
	}
	return Fun{Params: params, Result: f.Result.Apply(s)}
}

func (q Forall) Apply(s Subst) Type {
	if len(s) == 0 {
		return q
	}
	// Quantified variables shadow the substitution inside the body.
	inner := s
	copied := false
	for _, v := range q.Vars {
		if _, clash := inner[v.ID]; clash {
			if !copied {
				inner = make(Subst, len(s))
				for id, t := range s {
					inner[id] = t
				}
				copied = true
			}
			delete(inner, v.ID)
		}
	}
	return Forall{Vars: q.Vars, Body: q.Body.Apply(inner)}
}

// varName renders a variable id the way hover output shows it: a..z,
// then a1, b1, and so on.
func varName(id VarID) string {
	letter := byte('a' + id%26)
	round := id / 26
	if round == 0 {
		return string(letter)
	}
	return fmt.Sprintf("%c%d", letter, round)
}

func (v Var) String() string {
	return varName(v.ID)
}

func (c Con) String() string {
	return c.Name
}

func (a App) String() string {
	var sb strings.Builder
	sb.WriteString(a.Fn.String())
	sb.WriteByte('<')
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

func (f Fun) String() string {
	var sb strings.Builder
	if len(f.Params) == 1 {
		if _, nested := f.Params[0].(Fun); !nested {
			sb.WriteString(f.Params[0].String())
		} else {
			sb.WriteByte('(')
			sb.WriteString(f.Params[0].String())
			sb.WriteByte(')')
		}
	} else {
		sb.WriteByte('(')
		for i, p := range f.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteByte(')')
	}
	sb.WriteString(" -> ")
	sb.WriteString(f.Result.String())
	return sb.String()
}

func (q Forall) String() string {
	var sb strings.Builder
	sb.WriteString("forall<")
	for i, v := range q.Vars {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteString("> ")
	sb.WriteString(q.Body.String())
	return sb.String()
}

// Convenience constructors for common builtin types.
var (
	IntType    = Con{Name: "int", Kind: Star}
	BoolType   = Con{Name: "bool", Kind: Star}
	StringType = Con{Name: "string", Kind: Star}
	UnitType   = Con{Name: "()", Kind: Star}
	ListCon    = Con{Name: "list", Kind: ArrowKind(Star, Star)}
)

// ListOf builds list<elem>.
func ListOf(elem Type) Type {
	return App{Fn: ListCon, Args: []Type{elem}}
}
