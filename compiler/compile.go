package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/coregex/ast"
)

// Options mirrors the pattern-wide flags that change what individual
// atom transitions accept.
type Options struct {
	CaseInsensitive          bool
	DotMatchesLineSeparators bool

	// Multiline makes the matcher search each '\n'-separated line as
	// its own window; "^" then matches at the start of every window.
	// No transition changes — the "^" condition is always
	// start-of-window — so the flag is recorded on the Graph for the
	// matcher's outer loop to act on.
	Multiline bool
}

// Compile lowers a parsed pattern into a Graph. pattern is the original
// source text, kept only so compile-time errors (an unknown \p{Name}, a
// backreference to a nonexistent group) can be reported as
// *ast.SyntaxError. The AST carries no source offsets, so those errors
// report position 0 rather than the offset of the offending escape.
func Compile(re *ast.Regex, pattern string, groupCount int, opts Options) (*Graph, error) {
	b := NewBuilder()
	c := &compiling{b: b, pattern: pattern, opts: opts, groupCount: groupCount}

	start, end, err := c.compileExpression(re.Expr)
	if err != nil {
		return nil, err
	}
	match := b.NewMatch()
	if err := b.Patch(end, match); err != nil {
		return nil, err
	}

	if re.StartAnchored {
		start = b.NewMatcher(func(cur *Cursor, _ Context) (int, bool) {
			return 0, cur.AtStart()
		}, nil, start)
	}

	g, err := b.Build(start, groupCount)
	if err != nil {
		return nil, err
	}
	g.Multiline = opts.Multiline
	return g, nil
}

// compiling carries the state threaded through one compile pass.
type compiling struct {
	b          *Builder
	pattern    string
	opts       Options
	groupCount int
}

// fragment is a (start, end) pair not yet wired to a continuation; end
// is always a state with exactly one transition, patchable by the
// caller. builder is the recipe to produce a brand new, independently
// addressed copy of the same fragment — needed by bounded repetition
// ({n}, {n,m}), which concatenates several structurally identical but
// state-distinct copies rather than looping over one.
type builder func() (start, end StateID, err error)

func (c *compiling) compileExpression(expr ast.Expression) (start, end StateID, err error) {
	if len(expr.Items) == 0 {
		id := c.b.NewJoin(InvalidState)
		return id, id, nil
	}

	start, end, err = c.compileItem(expr.Items[0])
	if err != nil {
		return InvalidState, InvalidState, err
	}
	for _, item := range expr.Items[1:] {
		is, ie, err := c.compileItem(item)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if err := c.b.Patch(end, is); err != nil {
			return InvalidState, InvalidState, err
		}
		end = ie
	}
	return start, end, nil
}

func (c *compiling) compileItem(item ast.Item) (start, end StateID, err error) {
	switch n := item.(type) {
	case *ast.Alternation:
		return c.compileAlternation(n)
	case *ast.Group:
		return c.compileGroup(n)
	case *ast.Match:
		return c.compileMatch(n)
	case *ast.Backreference:
		return c.compileBackreference(n)
	default:
		return InvalidState, InvalidState, fmt.Errorf("compiler: unknown item type %T", item)
	}
}

// compileAlternation compiles Left|Right. The Branch's transition order
// (Left first) is what makes the matcher try Left before Right — there
// is no separate priority field, branch order on the state is the whole
// mechanism, greedy quantifiers included.
func (c *compiling) compileAlternation(n *ast.Alternation) (start, end StateID, err error) {
	ls, le, err := c.compileExpression(n.Left)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	rs, re, err := c.compileExpression(n.Right)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	join := c.b.NewJoin(InvalidState)
	if err := c.b.Patch(le, join); err != nil {
		return InvalidState, InvalidState, err
	}
	if err := c.b.Patch(re, join); err != nil {
		return InvalidState, InvalidState, err
	}
	branch := c.b.NewBranch(ls, rs)
	return branch, join, nil
}

// groupBuilder returns a builder that compiles n.Inner fresh and, when
// capturing, wraps it with an opening GroupStart state and a closing
// state whose Perform records the close position under n.GroupIndex.
// Each call produces entirely new states, so invoking it more than once
// (bounded repetition) gives each iteration its own states while all
// iterations still write the same group index — exactly what "last
// iteration wins" requires.
func (c *compiling) groupBuilder(n *ast.Group) builder {
	return func() (start, end StateID, err error) {
		innerStart, innerEnd, err := c.compileExpression(n.Inner)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if !n.Capturing {
			return innerStart, innerEnd, nil
		}
		idx := n.GroupIndex
		opener := c.b.NewGroupStart(idx, innerStart)
		closer := c.b.NewMatcher(
			func(*Cursor, Context) (int, bool) { return 0, true },
			func(cur *Cursor, ctx Context) Context { return ctx.WithClose(idx, cur.Pos) },
			InvalidState,
		)
		if err := c.b.Patch(innerEnd, closer); err != nil {
			return InvalidState, InvalidState, err
		}
		return opener, closer, nil
	}
}

func (c *compiling) compileGroup(n *ast.Group) (start, end StateID, err error) {
	return c.compileQuantified(c.groupBuilder(n), n.Quantifier)
}

func (c *compiling) matchBuilder(n *ast.Match) builder {
	return func() (start, end StateID, err error) {
		id, err := c.compileMatchItem(n.Atom)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		return id, id, nil
	}
}

func (c *compiling) compileMatch(n *ast.Match) (start, end StateID, err error) {
	return c.compileQuantified(c.matchBuilder(n), n.Quantifier)
}

// compileBackreference compiles \N. N must refer to a capturing group
// that exists somewhere in the AST, checked here at compile time. A
// group that exists but hasn't closed yet when the matcher reaches this
// state is a separate, legal case: the transition is then taken as a
// zero-width no-op (forward references match empty). Otherwise it
// requires the upcoming input to equal the group's most recently
// captured text, consuming exactly that many bytes; under
// CaseInsensitive the comparison folds case the same way a literal
// Character atom does.
func (c *compiling) compileBackreference(n *ast.Backreference) (start, end StateID, err error) {
	idx := n.Index
	if idx < 1 || idx > c.groupCount {
		return InvalidState, InvalidState, ast.NewSyntaxError(c.pattern, 0, fmt.Errorf("%w: \\%d", ast.ErrUnknownBackref, idx))
	}
	ci := c.opts.CaseInsensitive
	id := c.b.NewMatcher(func(cur *Cursor, ctx Context) (int, bool) {
		s, e, ok := ctx.Capture(idx)
		if !ok {
			return 0, true
		}
		want := cur.Text[s:e]
		if len(want) == 0 {
			return 0, true
		}
		if cur.Pos+len(want) > cur.End {
			return 0, false
		}
		got := cur.Text[cur.Pos : cur.Pos+len(want)]
		if !runesEqual(got, want, ci) {
			return 0, false
		}
		return len(want), true
	}, nil, InvalidState)
	return id, id, nil
}

// runesEqual compares two byte strings rune by rune, optionally folding
// case the same way compileCharacter folds a literal atom.
func runesEqual(a, b []byte, caseInsensitive bool) bool {
	if !caseInsensitive {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}
	for len(a) > 0 && len(b) > 0 {
		ra, sa := utf8.DecodeRune(a)
		rb, sb := utf8.DecodeRune(b)
		if unicode.ToLower(ra) != unicode.ToLower(rb) {
			return false
		}
		a, b = a[sa:], b[sb:]
	}
	return len(a) == 0 && len(b) == 0
}

// compileQuantified applies a quantifier (or none) to whatever build
// produces.
func (c *compiling) compileQuantified(build builder, q *ast.Quantifier) (start, end StateID, err error) {
	if q == nil {
		return build()
	}
	switch q.Kind {
	case ast.QuantZeroOrMore:
		s, e, err := build()
		if err != nil {
			return InvalidState, InvalidState, err
		}
		return c.wrapStar(s, e, q.Lazy)
	case ast.QuantOneOrMore:
		s, e, err := build()
		if err != nil {
			return InvalidState, InvalidState, err
		}
		return c.wrapPlus(s, e, q.Lazy)
	case ast.QuantZeroOrOne:
		s, e, err := build()
		if err != nil {
			return InvalidState, InvalidState, err
		}
		return c.wrapQuest(s, e, q.Lazy)
	case ast.QuantRange:
		return c.compileRange(build, q)
	default:
		return InvalidState, InvalidState, fmt.Errorf("compiler: unknown quantifier kind %v", q.Kind)
	}
}

func (c *compiling) wrapStar(subStart, subEnd StateID, lazy bool) (start, end StateID, err error) {
	join := c.b.NewJoin(InvalidState)
	branch := c.branch(subStart, join, lazy)
	if err := c.b.Patch(subEnd, branch); err != nil {
		return InvalidState, InvalidState, err
	}
	return branch, join, nil
}

func (c *compiling) wrapPlus(subStart, subEnd StateID, lazy bool) (start, end StateID, err error) {
	join := c.b.NewJoin(InvalidState)
	branch := c.branch(subStart, join, lazy)
	if err := c.b.Patch(subEnd, branch); err != nil {
		return InvalidState, InvalidState, err
	}
	return subStart, join, nil
}

func (c *compiling) wrapQuest(subStart, subEnd StateID, lazy bool) (start, end StateID, err error) {
	join := c.b.NewJoin(InvalidState)
	if err := c.b.Patch(subEnd, join); err != nil {
		return InvalidState, InvalidState, err
	}
	return c.branch(subStart, join, lazy), join, nil
}

// branch builds the continue/exit choice every quantifier is made of:
// greedy tries "continue" first, lazy tries "exit" first.
func (c *compiling) branch(continueTo, exitTo StateID, lazy bool) StateID {
	if lazy {
		return c.b.NewBranch(exitTo, continueTo)
	}
	return c.b.NewBranch(continueTo, exitTo)
}

// compileRange compiles {lo}, {lo,} and {lo,hi}: lo mandatory copies
// concatenated, then either a star of one more copy ({lo,}) or a chain
// of nested optional copies ({lo,hi}), each copy a fresh call to build
// so every iteration gets its own states.
func (c *compiling) compileRange(build builder, q *ast.Quantifier) (start, end StateID, err error) {
	start, end = InvalidState, InvalidState
	for i := 0; i < q.Lo; i++ {
		s, e, err := build()
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if start == InvalidState {
			start, end = s, e
		} else {
			if err := c.b.Patch(end, s); err != nil {
				return InvalidState, InvalidState, err
			}
			end = e
		}
	}

	if !q.HasHi {
		s, e, err := build()
		if err != nil {
			return InvalidState, InvalidState, err
		}
		ss, se, err := c.wrapStar(s, e, q.Lazy)
		if err != nil {
			return InvalidState, InvalidState, err
		}
		if start == InvalidState {
			return ss, se, nil
		}
		if err := c.b.Patch(end, ss); err != nil {
			return InvalidState, InvalidState, err
		}
		return start, se, nil
	}

	extra := q.Hi - q.Lo
	ts, te, err := c.buildOptionalTail(build, extra, q.Lazy)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	if start == InvalidState {
		return ts, te, nil
	}
	if err := c.b.Patch(end, ts); err != nil {
		return InvalidState, InvalidState, err
	}
	return start, te, nil
}

// buildOptionalTail compiles "this atom, 0 to remaining more times",
// innermost copy first: tail(0) is an empty fragment, tail(k) is a
// fresh copy of the atom concatenated with tail(k-1), the whole thing
// wrapped in a quest so the matcher can bail out (or, lazily, skip in)
// at any depth.
func (c *compiling) buildOptionalTail(build builder, remaining int, lazy bool) (start, end StateID, err error) {
	if remaining == 0 {
		id := c.b.NewJoin(InvalidState)
		return id, id, nil
	}
	s, e, err := build()
	if err != nil {
		return InvalidState, InvalidState, err
	}
	innerStart, innerEnd, err := c.buildOptionalTail(build, remaining-1, lazy)
	if err != nil {
		return InvalidState, InvalidState, err
	}
	if err := c.b.Patch(e, innerStart); err != nil {
		return InvalidState, InvalidState, err
	}
	return c.wrapQuest(s, innerEnd, lazy)
}

// --- atom conditions (pattern atom -> Transition.Match) ---

func (c *compiling) compileMatchItem(item ast.MatchItem) (StateID, error) {
	switch n := item.(type) {
	case ast.AnyCharacter:
		return c.compileAnyCharacter(), nil
	case ast.Character:
		return c.compileCharacter(n), nil
	case ast.CharacterClass:
		return c.compileCharacterClass(n), nil
	case ast.UnicodeCategory:
		return c.compileUnicodeCategory(n)
	case ast.CharacterGroup:
		return c.compileCharacterGroup(n)
	default:
		return InvalidState, fmt.Errorf("compiler: unknown match item type %T", item)
	}
}

func (c *compiling) compileAnyCharacter() StateID {
	dotall := c.opts.DotMatchesLineSeparators
	return c.b.NewMatcher(func(cur *Cursor, _ Context) (int, bool) {
		r, size, ok := cur.Peek()
		if !ok {
			return 0, false
		}
		if !dotall && (r == '\n' || r == '\r') {
			return 0, false
		}
		return size, true
	}, nil, InvalidState)
}

// compileCharacter matches one literal rune. Under CaseInsensitive both
// sides are folded with unicode.ToLower, rune by rune and independent of
// locale; multi-rune case foldings (U+00DF against "SS") are not applied.
func (c *compiling) compileCharacter(n ast.Character) StateID {
	ci := c.opts.CaseInsensitive
	want := n.Rune
	wantFold := unicode.ToLower(want)
	return c.b.NewMatcher(func(cur *Cursor, _ Context) (int, bool) {
		r, size, ok := cur.Peek()
		if !ok {
			return 0, false
		}
		if ci {
			if unicode.ToLower(r) != wantFold {
				return 0, false
			}
		} else if r != want {
			return 0, false
		}
		return size, true
	}, nil, InvalidState)
}

func (c *compiling) compileCharacterClass(n ast.CharacterClass) StateID {
	pred := classPredicate(n.Kind)
	return c.b.NewMatcher(func(cur *Cursor, _ Context) (int, bool) {
		r, size, ok := cur.Peek()
		if !ok {
			return 0, false
		}
		return size, pred(r)
	}, nil, InvalidState)
}

func classPredicate(kind ast.CharClassKind) func(rune) bool {
	switch kind {
	case ast.ClassWord:
		return isWordRune
	case ast.ClassNonWord:
		return func(r rune) bool { return !isWordRune(r) }
	case ast.ClassDigit:
		return unicode.IsDigit
	case ast.ClassNonDigit:
		return func(r rune) bool { return !unicode.IsDigit(r) }
	default:
		return func(rune) bool { return false }
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// unicodeTable resolves a \p{Name} category or script name the way
// regexp/syntax does: unicode.Categories first, then unicode.Scripts,
// plus a handful of long-form aliases (Letter, Number, ...) mapped onto
// their one-letter General_Category code.
func unicodeTable(name string) (*unicode.RangeTable, bool) {
	if t, ok := unicode.Categories[name]; ok {
		return t, true
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t, true
	}
	switch strings.ToLower(name) {
	case "letter":
		return unicode.Categories["L"], true
	case "number":
		return unicode.Categories["N"], true
	case "punctuation":
		return unicode.Categories["P"], true
	case "symbol":
		return unicode.Categories["S"], true
	case "mark":
		return unicode.Categories["M"], true
	case "separator":
		return unicode.Categories["Z"], true
	}
	return nil, false
}

func (c *compiling) compileUnicodeCategory(n ast.UnicodeCategory) (StateID, error) {
	table, ok := unicodeTable(n.Name)
	if !ok {
		return InvalidState, ast.NewSyntaxError(c.pattern, 0, fmt.Errorf("%w: %q", ast.ErrUnterminatedClass, n.Name))
	}
	id := c.b.NewMatcher(func(cur *Cursor, _ Context) (int, bool) {
		r, size, ok := cur.Peek()
		if !ok {
			return 0, false
		}
		return size, unicode.Is(table, r)
	}, nil, InvalidState)
	return id, nil
}

type charGroupMember struct {
	pred func(rune) bool
}

func (c *compiling) compileCharacterGroup(n ast.CharacterGroup) (StateID, error) {
	members := make([]charGroupMember, 0, len(n.Items))
	for _, item := range n.Items {
		switch {
		case item.Class != nil:
			members = append(members, charGroupMember{pred: classPredicate(item.Class.Kind)})
		case item.Category != nil:
			table, ok := unicodeTable(item.Category.Name)
			if !ok {
				return InvalidState, ast.NewSyntaxError(c.pattern, 0, fmt.Errorf("%w: %q", ast.ErrUnterminatedClass, item.Category.Name))
			}
			members = append(members, charGroupMember{pred: func(r rune) bool { return unicode.Is(table, r) }})
		case item.Range != nil:
			lo, hi := item.Range.Lo, item.Range.Hi
			members = append(members, charGroupMember{pred: func(r rune) bool { return r >= lo && r <= hi }})
		}
	}
	negated := n.Negated
	ci := c.opts.CaseInsensitive
	id := c.b.NewMatcher(func(cur *Cursor, _ Context) (int, bool) {
		r, size, ok := cur.Peek()
		if !ok {
			return 0, false
		}
		match := charGroupMatches(members, r, ci)
		if negated {
			match = !match
		}
		return size, match
	}, nil, InvalidState)
	return id, nil
}

func charGroupMatches(members []charGroupMember, r rune, ci bool) bool {
	for _, m := range members {
		if m.pred(r) {
			return true
		}
		if ci && (m.pred(unicode.ToUpper(r)) || m.pred(unicode.ToLower(r))) {
			return true
		}
	}
	return false
}
