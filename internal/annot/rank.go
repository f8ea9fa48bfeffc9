package annot

import "lark/internal/diag"

// Priority ranks order co-located annotations during lookup. The
// numeric spacing is load-bearing: buckets are rank/10, so definition
// references (25) and plain references (20) share a bucket and the
// higher rank wins, while diagnostics sit in buckets of their own and
// always survive next to a reference.
//
// The mapping is one way. A rank never decodes back into a payload;
// there is deliberately no inverse of this function.
const (
	rankDecl      = 0
	rankBlock     = 10
	rankRef       = 20
	rankRefDef    = 25
	rankImplicits = 25
	rankWarning   = 40
	rankError     = 50
)

func rank(a Annot) int {
	switch v := a.(type) {
	case Decl:
		return rankDecl
	case Block:
		return rankBlock
	case Ref:
		if v.IsDef {
			return rankRefDef
		}
		return rankRef
	case Implicits:
		return rankImplicits
	case Diag:
		if v.Severity >= diag.SevError {
			return rankError
		}
		return rankWarning
	}
	panic("annot: unknown annotation variant")
}

func bucket(rank int) int {
	return rank / 10
}
