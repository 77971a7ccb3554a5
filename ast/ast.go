// Package ast defines the abstract syntax tree produced by package parser
// and consumed by package compiler.
//
// One type per grammar production: Regex, Expression, Group, Match,
// CharacterGroup, Quantifier, Backreference. Nodes are plain data: no
// method does any parsing or compilation work, so the tree can be walked
// freely by both the compiler and tests.
package ast

// Regex is the root of a parsed pattern.
type Regex struct {
	StartAnchored bool // true if the pattern opened with "^"
	Expr          Expression
}

// Expression is an ordered, possibly empty sequence of items (an empty
// Expression, as parsed from "" or "()", matches the empty string). Concatenation is
// implicit in the ordering; Alternation is its own item type so that
// "ab|cd" parses as Alternation(Expression{a,b}, Expression{c,d}) rather
// than folding the "|" into the sequence.
type Expression struct {
	Items []Item
}

// Item is any node that can appear in an Expression's item list.
type Item interface {
	itemNode()
}

// Alternation represents "Left|Right". It is right-associative in the
// tree (a|b|c parses as Alternation(a, Alternation(b, c))) but the
// compiler and matcher always try Left before Right, so evaluation order
// is left-biased regardless of tree shape.
type Alternation struct {
	Left  Expression
	Right Expression
}

func (*Alternation) itemNode() {}

// Group is a parenthesized subexpression. Capturing groups are numbered
// by the parser in the order their opening "(" appears, starting at 1;
// non-capturing groups ("(?:...)") do not consume a number.
type Group struct {
	Inner      Expression
	Capturing  bool
	GroupIndex int // 1-based; 0 when !Capturing
	Quantifier *Quantifier
}

func (*Group) itemNode() {}

// Match is a single atom with an optional quantifier.
type Match struct {
	Atom       MatchItem
	Quantifier *Quantifier
}

func (*Match) itemNode() {}

// Backreference matches the literal text previously captured by group
// Index. A backreference to a group that has not yet closed when the
// matcher reaches it always fails to consume (an empty match), per the
// grammar's forward-reference rule.
type Backreference struct {
	Index int // 1-based
}

func (*Backreference) itemNode() {}

// MatchItem is the atom inside a Match: one character class of input.
type MatchItem interface {
	matchItemNode()
}

// AnyCharacter is ".".
type AnyCharacter struct{}

func (AnyCharacter) matchItemNode() {}

// Character is a single literal scalar value.
type Character struct {
	Rune rune
}

func (Character) matchItemNode() {}

// CharClassKind enumerates the \w \W \d \D shorthands.
type CharClassKind uint8

const (
	ClassWord CharClassKind = iota
	ClassNonWord
	ClassDigit
	ClassNonDigit
)

// CharacterClass is one of the \w \W \d \D shorthands.
type CharacterClass struct {
	Kind CharClassKind
}

func (CharacterClass) matchItemNode() {}

// UnicodeCategory is "\p{Name}", e.g. \p{Lu}, \p{Nd}, \p{Letter}.
type UnicodeCategory struct {
	Name string
}

func (UnicodeCategory) matchItemNode() {}

// CharRange is a single character or an "a-b" range inside a character
// group. A bare character is represented with Lo == Hi.
type CharRange struct {
	Lo, Hi rune
}

// CharGroupItem is one member of a CharacterGroup's item list: either a
// shorthand class, a Unicode category, or a literal/range.
type CharGroupItem struct {
	Class    *CharacterClass  // non-nil for \w \W \d \D
	Category *UnicodeCategory // non-nil for \p{Name}
	Range    *CharRange       // non-nil for a literal char or a-b range
}

// CharacterGroup is "[...]", optionally negated.
type CharacterGroup struct {
	Negated bool
	Items   []CharGroupItem
}

func (CharacterGroup) matchItemNode() {}

// QuantifierKind enumerates the four quantifier shapes of the grammar.
type QuantifierKind uint8

const (
	QuantZeroOrMore QuantifierKind = iota // *
	QuantOneOrMore                        // +
	QuantZeroOrOne                        // ?
	QuantRange                            // {lo} | {lo,} | {lo,hi}
)

// Quantifier describes repetition applied to a Match atom or a Group.
//
// For QuantRange, HasHi is false for the unbounded "{lo,}" form; when
// HasHi is false and Lo == Hi's zero value semantics do not apply — Hi is
// only meaningful when HasHi is true. A bare "{lo}" sets Lo == Hi with
// HasHi == true (compiler treats it as exact repetition).
type Quantifier struct {
	Kind  QuantifierKind
	Lo    int
	Hi    int
	HasHi bool
	Lazy  bool
}

// Exact reports whether this is a "{n}" quantifier (lo == hi, bounded).
func (q Quantifier) Exact() bool {
	return q.Kind == QuantRange && q.HasHi && q.Lo == q.Hi
}
