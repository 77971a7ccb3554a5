package compiler

import "unicode/utf8"

// Cursor is a position within one search window: the whole input, or —
// when the pattern was compiled multiline — one '\n'-separated line of
// it. Begin and End are absolute offsets into Text, so positions taken
// from a Cursor need no translation back to the full input. It is a
// small value type; the matcher creates a new Cursor per recursion step
// rather than mutating one in place, so sibling backtracking branches
// never see each other's position.
type Cursor struct {
	Text  []byte
	Begin int // window start, inclusive
	End   int // window end, exclusive
	Pos   int
}

// NewCursor returns a Cursor whose window is the whole of text.
func NewCursor(text []byte) Cursor {
	return Cursor{Text: text, End: len(text)}
}

// AtEnd reports whether the cursor has consumed the whole window.
func (c *Cursor) AtEnd() bool {
	return c.Pos >= c.End
}

// AtStart reports whether the cursor is at the start of the window.
func (c *Cursor) AtStart() bool {
	return c.Pos == c.Begin
}

// Peek decodes the rune at the cursor without advancing it. ok is false
// at end of window; a rune is never decoded across the window boundary.
func (c *Cursor) Peek() (r rune, size int, ok bool) {
	if c.AtEnd() {
		return 0, 0, false
	}
	r, size = utf8.DecodeRune(c.Text[c.Pos:c.End])
	return r, size, true
}

// Advance returns a new Cursor n bytes further into the window.
func (c *Cursor) Advance(n int) Cursor {
	return Cursor{Text: c.Text, Begin: c.Begin, End: c.End, Pos: c.Pos + n}
}
