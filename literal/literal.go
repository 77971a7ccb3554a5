// Package literal extracts required literal byte runs from an
// ast.Expression.
//
// Extraction is best-effort and never affects correctness: package
// prefilter only uses it to skip non-candidate start positions faster
// than probing every byte with the full matcher.
package literal

import (
	"unicode/utf8"

	"github.com/coregx/coregex/ast"
)

// Seq holds one required literal byte sequence.
type Seq struct {
	bytes []byte
}

// IsEmpty reports whether s carries no usable literal.
func (s *Seq) IsEmpty() bool { return s == nil || len(s.bytes) == 0 }

// Bytes returns the literal's byte sequence.
func (s *Seq) Bytes() []byte { return s.bytes }

// ExtractPrefix walks expr's items left to right, collecting a run of
// unquantified (or exactly-once-quantified) literal Character atoms, and
// stops at the first item that is not one, or right after the first
// exactly-once-quantified atom ("a{1}bc" yields "a"). It returns nil when expr does
// not begin with at least one such literal (e.g. it opens with a class, a
// group, or a quantifier other than an exact single occurrence).
func ExtractPrefix(expr ast.Expression) *Seq {
	var buf []byte
	for _, it := range expr.Items {
		match, ok := it.(*ast.Match)
		if !ok {
			break
		}
		if match.Quantifier != nil && !isExactlyOne(match.Quantifier) {
			break
		}
		ch, ok := match.Atom.(ast.Character)
		if !ok {
			break
		}
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], ch.Rune)
		buf = append(buf, tmp[:n]...)
		if match.Quantifier != nil {
			// An exact {1} atom is the last one we can safely fold in:
			// anything after a quantified atom risks the parser having
			// meant something other than plain concatenation next.
			break
		}
	}
	if len(buf) == 0 {
		return nil
	}
	return &Seq{bytes: buf}
}

func isExactlyOne(q *ast.Quantifier) bool {
	return q.Kind == ast.QuantRange && q.HasHi && q.Lo == 1 && q.Hi == 1
}

// ExtractAlternationLiterals returns the flattened branch literals of a
// pattern whose entire expression is one top-level Alternation chain
// (parsed right-associatively per the grammar) where every branch is
// itself a bare run of literal characters with no groups, classes, or
// quantifiers. ok is false if expr is not such a chain, in which case the
// caller should fall back to ExtractPrefix or no prefilter at all.
func ExtractAlternationLiterals(expr ast.Expression) (lits [][]byte, ok bool) {
	if len(expr.Items) != 1 {
		return nil, false
	}
	alt, isAlt := expr.Items[0].(*ast.Alternation)
	if !isAlt {
		return nil, false
	}

	var out [][]byte
	cur := alt
	for {
		lb, ok := literalBytes(cur.Left)
		if !ok {
			return nil, false
		}
		out = append(out, lb)

		if len(cur.Right.Items) == 1 {
			if nextAlt, isAlt := cur.Right.Items[0].(*ast.Alternation); isAlt {
				cur = nextAlt
				continue
			}
		}
		rb, ok := literalBytes(cur.Right)
		if !ok {
			return nil, false
		}
		out = append(out, rb)
		return out, true
	}
}

// literalBytes reports whether expr is entirely a concatenation of plain,
// unquantified literal characters, returning the encoded bytes if so.
func literalBytes(expr ast.Expression) ([]byte, bool) {
	if len(expr.Items) == 0 {
		return nil, false
	}
	var buf []byte
	for _, it := range expr.Items {
		match, ok := it.(*ast.Match)
		if !ok || match.Quantifier != nil {
			return nil, false
		}
		ch, ok := match.Atom.(ast.Character)
		if !ok {
			return nil, false
		}
		var tmp [utf8.UTFMax]byte
		n := utf8.EncodeRune(tmp[:], ch.Rune)
		buf = append(buf, tmp[:n]...)
	}
	return buf, true
}
