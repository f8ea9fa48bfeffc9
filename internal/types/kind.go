package types

import "strings"

// Kind classifies type constructors. Base kinds are named; arrows
// build the kinds of parameterized constructors.
type Kind interface {
	isKind()
	String() string
}

// KCon is a named base kind.
type KCon string

// KArrow is a constructor kind: From -> To.
type KArrow struct {
	From Kind
	To   Kind
}

func (KCon) isKind()   {}
func (KArrow) isKind() {}

// Builtin kinds.
const (
	// Star is the kind of value types.
	Star KCon = "*"
	// Row is the kind of effect rows.
	Row KCon = "E"
	// Label is the kind of effect labels.
	Label KCon = "X"
)

func (k KCon) String() string {
	return string(k)
}

func (k KArrow) String() string {
	var sb strings.Builder
	if _, nested := k.From.(KArrow); nested {
		sb.WriteByte('(')
		sb.WriteString(k.From.String())
		sb.WriteByte(')')
	} else {
		sb.WriteString(k.From.String())
	}
	sb.WriteString(" -> ")
	sb.WriteString(k.To.String())
	return sb.String()
}

// ArrowKind folds a parameter list into a right-nested arrow kind
// ending in result.
func ArrowKind(result Kind, params ...Kind) Kind {
	k := result
	for i := len(params) - 1; i >= 0; i-- {
		k = KArrow{From: params[i], To: k}
	}
	return k
}
