// Package prefilter accelerates the matcher's outer search loop by
// jumping straight to the next byte offset that could possibly begin a
// match, instead of calling into the full backtracking interpreter at
// every position.
//
// A Prefilter never changes which matches are reported — Find only
// narrows candidate start positions; the matcher still runs its normal
// anchored attempt at whatever position Find returns. Four strategies:
// for a top-level literal alternation, a two- or three-way single-byte
// alternation (simd.Memchr2/Memchr3 directly, cheaper than an automaton
// over single bytes) or else an Aho-Corasick automaton over the
// branches; otherwise a single required leading byte (simd.Memchr) or a
// required leading multi-byte run (simd.Index).
package prefilter

import (
	"github.com/coregx/ahocorasick"
	"github.com/coregx/coregex/ast"
	"github.com/coregx/coregex/literal"
	"github.com/coregx/coregex/simd"
)

// Prefilter finds the next byte offset at or after start that could begin
// a match. Callers must still verify with the full matcher; a found
// offset is a candidate, not a confirmed match.
type Prefilter interface {
	Find(haystack []byte, start int) int
}

// Build inspects expr and returns the most effective Prefilter it can
// construct, or ok=false when no exploitable literal exists (e.g. `\d+`
// alone), in which case the outer loop falls back to probing every start
// index.
func Build(expr ast.Expression) (Prefilter, bool) {
	if lits, ok := literal.ExtractAlternationLiterals(expr); ok && len(lits) >= 2 {
		if pf, ok := newSingleByteAlternationPrefilter(lits); ok {
			return pf, true
		}
		if pf, ok := newAhoCorasickPrefilter(lits); ok {
			return pf, true
		}
	}

	seq := literal.ExtractPrefix(expr)
	if seq.IsEmpty() {
		return nil, false
	}
	b := seq.Bytes()
	if len(b) == 1 {
		return memchrPrefilter{needle: b[0]}, true
	}
	return substringPrefilter{needle: b}, true
}

// memchrPrefilter wraps simd.Memchr for a single required leading byte.
type memchrPrefilter struct {
	needle byte
}

func (p memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// substringPrefilter wraps simd.Index for a required leading literal run
// of more than one byte.
type substringPrefilter struct {
	needle []byte
}

func (p substringPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// memchr2Prefilter wraps simd.Memchr2 for a two-branch alternation where
// every branch is exactly one byte (e.g. "a|b"): a single two-lane scan
// finds the next candidate instead of building an automaton for it.
type memchr2Prefilter struct {
	needle1, needle2 byte
}

func (p memchr2Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr2(haystack[start:], p.needle1, p.needle2)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// memchr3Prefilter is memchr2Prefilter for a three-branch single-byte
// alternation (e.g. "a|b|c"), wrapping simd.Memchr3.
type memchr3Prefilter struct {
	needle1, needle2, needle3 byte
}

func (p memchr3Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr3(haystack[start:], p.needle1, p.needle2, p.needle3)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// newSingleByteAlternationPrefilter returns ok=false unless lits is
// exactly two or three branches, each exactly one byte long — the shape
// simd.Memchr2/Memchr3 accept directly, cheaper than building an
// Aho-Corasick automaton over single bytes.
func newSingleByteAlternationPrefilter(lits [][]byte) (Prefilter, bool) {
	if len(lits) != 2 && len(lits) != 3 {
		return nil, false
	}
	for _, lit := range lits {
		if len(lit) != 1 {
			return nil, false
		}
	}
	if len(lits) == 2 {
		return memchr2Prefilter{needle1: lits[0][0], needle2: lits[1][0]}, true
	}
	return memchr3Prefilter{needle1: lits[0][0], needle2: lits[1][0], needle3: lits[2][0]}, true
}

// ahoCorasickPrefilter wraps github.com/coregx/ahocorasick for patterns
// whose entire body is a top-level alternation of literal branches
// (e.g. "cat|dog|bird"): one automaton pass locates the next branch
// occurrence instead of probing each branch at each position.
type ahoCorasickPrefilter struct {
	auto *ahocorasick.Automaton
}

func newAhoCorasickPrefilter(lits [][]byte) (Prefilter, bool) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range lits {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return ahoCorasickPrefilter{auto: auto}, true
}

func (p ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start > len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}
