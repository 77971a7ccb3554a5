// Package coregex implements a backtracking regular expression engine:
// a hand-written recursive-descent parser (package parser) produces an
// AST (package ast), a Thompson-style compiler (package compiler) lowers
// it to a state graph, and a memoized backtracking interpreter (package
// matcher) walks that graph against input. Supported syntax is
// alternation, grouping (capturing and non-capturing), the four
// quantifier shapes with greedy and lazy variants, character classes and
// Unicode categories, backreferences, and the "^" start anchor.
package coregex

import (
	"github.com/coregx/coregex/compiler"
	"github.com/coregx/coregex/matcher"
	"github.com/coregx/coregex/parser"
	"github.com/coregx/coregex/prefilter"
)

// Regex is a compiled pattern. A Regex holds no per-search state, so it
// is safe to use concurrently from multiple goroutines.
type Regex struct {
	pattern    string
	options    Options
	graph      *compiler.Graph
	m          *matcher.Matcher
	groupCount int
}

// Compile parses and compiles pattern under the default Config. Returns
// a *ast.SyntaxError (or a *compiler.BuildError, for an internal
// compiler defect) if pattern is malformed.
func Compile(pattern string, opts Options) (*Regex, error) {
	return CompileWithConfig(pattern, opts, DefaultConfig())
}

// MustCompile is like Compile but panics on error, for patterns known
// valid at init time.
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic("coregex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig is like Compile but lets the caller tune the
// matcher's resource bounds.
func CompileWithConfig(pattern string, opts Options, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	re, err := parser.Parse(pattern)
	if err != nil {
		return nil, err
	}
	groupCount := parser.GroupCount(re.Expr)

	graph, err := compiler.Compile(re, pattern, groupCount, compiler.Options{
		CaseInsensitive:          opts.CaseInsensitive,
		DotMatchesLineSeparators: opts.DotMatchesLineSeparators,
		Multiline:                opts.Multiline,
	})
	if err != nil {
		return nil, err
	}

	// A case-insensitive pattern folds case at compile/match time (see
	// the atom-condition table); the literal extractor reads the AST's
	// original-case characters, so using it as a prefilter here would
	// skip positions a folded match could still start at. Only build one
	// when case folding can't invalidate it.
	var m *matcher.Matcher
	if !opts.CaseInsensitive {
		if pf, ok := prefilter.Build(re.Expr); ok {
			m = matcher.NewWithPrefilter(graph, config, pf)
		}
	}
	if m == nil {
		m = matcher.New(graph, config)
	}

	return &Regex{
		pattern:    pattern,
		options:    opts,
		graph:      graph,
		m:          m,
		groupCount: groupCount,
	}, nil
}

// String returns the source pattern text.
func (r *Regex) String() string {
	return r.pattern
}

// CaptureGroupCount returns the number of capturing groups the pattern
// declared. Group indices in a Match's Groups slice run 1..Count,
// stored at Groups[i-1].
func (r *Regex) CaptureGroupCount() int {
	return r.groupCount
}

// Options returns the flags the pattern was compiled with.
func (r *Regex) Options() Options {
	return r.options
}

// Match reports whether b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	_, ok, err := r.m.Find(b)
	return err == nil && ok
}

// MatchString is Match for a string.
func (r *Regex) MatchString(s string) bool {
	return r.Match([]byte(s))
}

// Find returns the leftmost match in b, or nil if there is none.
func (r *Regex) Find(b []byte) (*matcher.Match, error) {
	m, ok, err := r.m.Find(b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return m, nil
}

// FindAll returns every non-overlapping leftmost match in b, left to
// right.
func (r *Regex) FindAll(b []byte) ([]*matcher.Match, error) {
	return r.m.FindAll(b)
}

// IsMatch is an alias for Match, kept alongside it the way MatchString
// sits alongside Match: same behavior, names chosen for different
// calling conventions.
func (r *Regex) IsMatch(b []byte) bool {
	return r.Match(b)
}

// Matches is an alias for FindAll: every non-overlapping match of the
// pattern against b, each carrying its own full range and ordered
// capture-group ranges.
func (r *Regex) Matches(b []byte) ([]*matcher.Match, error) {
	return r.FindAll(b)
}
