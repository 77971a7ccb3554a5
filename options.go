package coregex

// Options are the pattern-wide flags the grammar exposes alongside the
// pattern text itself.
type Options struct {
	// CaseInsensitive folds case when comparing literal characters,
	// character-group ranges, and backreferences (a backreference's
	// captured text and the upcoming input are compared as already
	// folded, the same as a literal atom).
	CaseInsensitive bool

	// Multiline splits the input on '\n' and searches each line as its
	// own window: matches never cross a line boundary, and "^" matches
	// at the start of every line instead of only the start of input.
	Multiline bool

	// DotMatchesLineSeparators makes "." match '\n' and '\r' in
	// addition to every other rune.
	DotMatchesLineSeparators bool
}
