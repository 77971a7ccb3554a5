package parser

import (
	"errors"
	"testing"

	"github.com/coregx/coregex/ast"
)

func TestParseLiteralsAndConcat(t *testing.T) {
	re, err := Parse("abc")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if re.StartAnchored {
		t.Error("StartAnchored = true, want false")
	}
	if len(re.Expr.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(re.Expr.Items))
	}
	for i, want := range []rune{'a', 'b', 'c'} {
		m, ok := re.Expr.Items[i].(*ast.Match)
		if !ok {
			t.Fatalf("item %d is %T, want *ast.Match", i, re.Expr.Items[i])
		}
		ch, ok := m.Atom.(ast.Character)
		if !ok || ch.Rune != want {
			t.Errorf("item %d atom = %#v, want Character(%q)", i, m.Atom, want)
		}
	}
}

func TestParseStartAnchor(t *testing.T) {
	re, err := Parse("^foo")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !re.StartAnchored {
		t.Error("StartAnchored = false, want true")
	}
	if len(re.Expr.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(re.Expr.Items))
	}
}

func TestParseEmptyPattern(t *testing.T) {
	re, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if re.StartAnchored {
		t.Error("StartAnchored = true for empty pattern")
	}
	if len(re.Expr.Items) != 0 {
		t.Errorf("got %d items, want 0", len(re.Expr.Items))
	}
}

func TestParseGroupCapturingAndNonCapturing(t *testing.T) {
	re, err := Parse("(a)(?:b)(c)")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(re.Expr.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(re.Expr.Items))
	}

	g0 := re.Expr.Items[0].(*ast.Group)
	if !g0.Capturing || g0.GroupIndex != 1 {
		t.Errorf("group 0: Capturing=%v GroupIndex=%d, want true/1", g0.Capturing, g0.GroupIndex)
	}
	g1 := re.Expr.Items[1].(*ast.Group)
	if g1.Capturing || g1.GroupIndex != 0 {
		t.Errorf("group 1 (?:b): Capturing=%v GroupIndex=%d, want false/0", g1.Capturing, g1.GroupIndex)
	}
	g2 := re.Expr.Items[2].(*ast.Group)
	if !g2.Capturing || g2.GroupIndex != 2 {
		t.Errorf("group 2: Capturing=%v GroupIndex=%d, want true/2 (non-capturing must not consume a number)", g2.Capturing, g2.GroupIndex)
	}
}

func TestGroupCount(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"abc", 0},
		{"(a)(?:b)(c(d))", 3},
		{"(a)|(b)", 2},
		{"((((a))))", 4},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.pattern, err)
			}
			if got := GroupCount(re.Expr); got != tt.want {
				t.Errorf("GroupCount(%q) = %d, want %d", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestParseAlternationRightAssociative(t *testing.T) {
	re, err := Parse("a|b|c")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(re.Expr.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(re.Expr.Items))
	}
	top, ok := re.Expr.Items[0].(*ast.Alternation)
	if !ok {
		t.Fatalf("item is %T, want *ast.Alternation", re.Expr.Items[0])
	}
	if len(top.Left.Items) != 1 {
		t.Fatalf("Left has %d items, want 1 (bare 'a')", len(top.Left.Items))
	}
	inner, ok := top.Right.Items[0].(*ast.Alternation)
	if !ok || len(top.Right.Items) != 1 {
		t.Fatalf("Right = %#v, want a single nested Alternation(b, c)", top.Right)
	}
	if len(inner.Left.Items) != 1 || len(inner.Right.Items) != 1 {
		t.Errorf("nested alternation shape unexpected: %#v", inner)
	}
}

func TestParseQuantifiers(t *testing.T) {
	tests := []struct {
		pattern string
		want    ast.Quantifier
	}{
		{"a*", ast.Quantifier{Kind: ast.QuantZeroOrMore}},
		{"a*?", ast.Quantifier{Kind: ast.QuantZeroOrMore, Lazy: true}},
		{"a+", ast.Quantifier{Kind: ast.QuantOneOrMore}},
		{"a+?", ast.Quantifier{Kind: ast.QuantOneOrMore, Lazy: true}},
		{"a?", ast.Quantifier{Kind: ast.QuantZeroOrOne}},
		{"a??", ast.Quantifier{Kind: ast.QuantZeroOrOne, Lazy: true}},
		{"a{3}", ast.Quantifier{Kind: ast.QuantRange, Lo: 3, Hi: 3, HasHi: true}},
		{"a{2,}", ast.Quantifier{Kind: ast.QuantRange, Lo: 2, Hi: 2, HasHi: false}},
		{"a{2,5}", ast.Quantifier{Kind: ast.QuantRange, Lo: 2, Hi: 5, HasHi: true}},
		{"a{2,5}?", ast.Quantifier{Kind: ast.QuantRange, Lo: 2, Hi: 5, HasHi: true, Lazy: true}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Parse(tt.pattern)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.pattern, err)
			}
			m := re.Expr.Items[0].(*ast.Match)
			if m.Quantifier == nil {
				t.Fatalf("Quantifier is nil")
			}
			if *m.Quantifier != tt.want {
				t.Errorf("Quantifier = %+v, want %+v", *m.Quantifier, tt.want)
			}
		})
	}
}

func TestParseCharacterGroup(t *testing.T) {
	re, err := Parse(`[^a-z\d\p{Lu}]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := re.Expr.Items[0].(*ast.Match)
	cg := m.Atom.(ast.CharacterGroup)
	if !cg.Negated {
		t.Error("Negated = false, want true")
	}
	if len(cg.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(cg.Items))
	}
	if cg.Items[0].Range == nil || cg.Items[0].Range.Lo != 'a' || cg.Items[0].Range.Hi != 'z' {
		t.Errorf("item 0 = %+v, want range a-z", cg.Items[0])
	}
	if cg.Items[1].Class == nil || cg.Items[1].Class.Kind != ast.ClassDigit {
		t.Errorf("item 1 = %+v, want \\d", cg.Items[1])
	}
	if cg.Items[2].Category == nil || cg.Items[2].Category.Name != "Lu" {
		t.Errorf("item 2 = %+v, want \\p{Lu}", cg.Items[2])
	}
}

func TestParseTrailingDashIsLiteral(t *testing.T) {
	re, err := Parse(`[a-]`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cg := re.Expr.Items[0].(*ast.Match).Atom.(ast.CharacterGroup)
	if len(cg.Items) != 2 {
		t.Fatalf("got %d items, want 2 ('a' and '-')", len(cg.Items))
	}
	if cg.Items[1].Range == nil || cg.Items[1].Range.Lo != '-' || cg.Items[1].Range.Hi != '-' {
		t.Errorf("item 1 = %+v, want literal '-'", cg.Items[1])
	}
}

func TestParseBackreference(t *testing.T) {
	re, err := Parse(`(ab)\1`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(re.Expr.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(re.Expr.Items))
	}
	br, ok := re.Expr.Items[1].(*ast.Backreference)
	if !ok || br.Index != 1 {
		t.Errorf("item 1 = %#v, want Backreference{Index: 1}", re.Expr.Items[1])
	}
}

func TestParseEscapes(t *testing.T) {
	re, err := Parse(`\(\)\[\]\{\}\|\^\$\.\*\+\?\\`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "()[]{}|^$.*+?\\"
	if len(re.Expr.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(re.Expr.Items), len(want))
	}
	for i, r := range want {
		ch := re.Expr.Items[i].(*ast.Match).Atom.(ast.Character)
		if ch.Rune != r {
			t.Errorf("item %d = %q, want %q", i, ch.Rune, r)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantPos int
		wantErr error
	}{
		{"unmatched open paren", "a(b", 1, ast.ErrUnmatchedOpenParen},
		{"unmatched close paren mid-pattern", "a)b", 1, ast.ErrUnmatchedCloseParen},
		{"unmatched close paren alone", ")", 0, ast.ErrUnmatchedCloseParen},
		{"empty character group", "[]", 0, ast.ErrEmptyCharacterGroup},
		{"unterminated character group", "[abc", 0, ast.ErrUnterminatedClassGroup},
		{"invalid range high less than low", "[z-a]", 4, ast.ErrInvalidRange},
		{"invalid quantifier bounds", "a{5,1}", 1, ast.ErrInvalidQuantifier},
		{"quantifier missing digits", "a{}", 1, ast.ErrInvalidQuantifier},
		{"quantifier unterminated", "a{3", 1, ast.ErrInvalidQuantifier},
		{"unknown escape", `\q`, 0, ast.ErrUnknownEscape},
		{"unterminated unicode category", `\p{Lu`, 0, ast.ErrUnterminatedClass},
		{"unicode category missing braces", `\pL`, 0, ast.ErrUnterminatedClass},
		{"trailing garbage after valid expression", "a*b)", 3, ast.ErrUnmatchedCloseParen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.pattern)
			if err == nil {
				t.Fatalf("Parse(%q): expected error", tt.pattern)
			}
			var synErr *ast.SyntaxError
			if !errors.As(err, &synErr) {
				t.Fatalf("Parse(%q): error %v is not *ast.SyntaxError", tt.pattern, err)
			}
			if synErr.Pos != tt.wantPos {
				t.Errorf("Parse(%q): Pos = %d, want %d", tt.pattern, synErr.Pos, tt.wantPos)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q): errors.Is(%v) = false", tt.pattern, tt.wantErr)
			}
		})
	}
}

func TestParseEmptyGroupMatchesEmptyString(t *testing.T) {
	re, err := Parse("()")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := re.Expr.Items[0].(*ast.Group)
	if len(g.Inner.Items) != 0 {
		t.Errorf("got %d inner items, want 0", len(g.Inner.Items))
	}
}
