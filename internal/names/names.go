// Package names defines qualified names as they appear in annotation
// payloads, plus the predicates the store consults when deciding what
// to record: which names are compiler-internal and which literal
// constructors are atomic empty constructs.
package names

import "strings"

// QName is a possibly-qualified name. Module is empty for local names.
type QName struct {
	Module string
	Name   string
}

// Unqualified builds a QName with no module component.
func Unqualified(name string) QName {
	return QName{Name: name}
}

// Qualified builds a module-qualified QName.
func Qualified(module, name string) QName {
	return QName{Module: module, Name: name}
}

func (q QName) String() string {
	if q.Module == "" {
		return q.Name
	}
	return q.Module + "/" + q.Name
}

// IsQualified reports whether the name carries a module component.
func (q QName) IsQualified() bool {
	return q.Module != ""
}

// HiddenFunc decides whether a name is compiler-internal and should be
// suppressed from tooling output. The store consults it at insert time
// only.
type HiddenFunc func(QName) bool

// DefaultHidden suppresses names the compiler synthesizes: anything
// whose local part starts with '@'.
func DefaultHidden(q QName) bool {
	return strings.HasPrefix(q.Name, "@")
}

// NeverHidden keeps every name. Useful for tests and debug dumps.
func NeverHidden(QName) bool {
	return false
}

const (
	// Unit is the name of the unit value constructor.
	Unit = "()"
	// Nil is the name of the empty list constructor.
	Nil = "[]"
)

// IsUnit reports whether q names the unit constructor.
func IsUnit(q QName) bool {
	return q.Name == Unit
}

// IsNil reports whether q names the empty list constructor.
func IsNil(q QName) bool {
	return q.Name == Nil
}

// IsTuple reports whether q names a tuple constructor: "(,)", "(,,)"
// and so on, one comma per extra component.
func IsTuple(q QName) bool {
	n := q.Name
	if len(n) < 3 || n[0] != '(' || n[len(n)-1] != ')' {
		return false
	}
	for _, c := range n[1 : len(n)-1] {
		if c != ',' {
			return false
		}
	}
	return true
}

// IsAtomicLiteral reports whether q names an atomic empty construct:
// unit, the empty list, or any tuple constructor. References to these
// names get a synthetic marker at the end of their span so the closing
// token resolves to the same reference as the opening one.
func IsAtomicLiteral(q QName) bool {
	return IsUnit(q) || IsNil(q) || IsTuple(q)
}
