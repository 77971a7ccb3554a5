// Package matcher interprets a compiler.Graph against input: a
// recursive backtracking walk over (position, state, context) that tries
// each outgoing transition in declared order and backtracks to the next
// one on failure. The per-branch Context (capture bookkeeping,
// open-group starts) is part of the memoization key — two paths that
// reach the same state and position with different captures can still
// diverge on a later backreference — and transitions can consume a
// variable number of bytes, not just zero or one rune.
package matcher

import (
	"unicode/utf8"

	"github.com/coregx/coregex/compiler"
	"github.com/coregx/coregex/prefilter"
)

// Span is a [Start, End) byte-offset range. An unset (never captured)
// span has Start == End == -1.
type Span struct {
	Start, End int
}

// Match is one successful search result: the overall matched range plus
// one Span per capturing group, in group-index order (Groups[0] is
// group 1). Match carries no reference to the text it was found in;
// callers slice the original input themselves.
type Match struct {
	Span
	Groups []Span
}

// Text returns the overall matched slice of input.
func (m Match) Text(input []byte) []byte {
	return input[m.Start:m.End]
}

// GroupText returns the slice of input captured by group index
// (1-based), or nil if that group did not participate in the match.
func (m Match) GroupText(index int, input []byte) []byte {
	if index < 1 || index > len(m.Groups) {
		return nil
	}
	g := m.Groups[index-1]
	if g.Start < 0 {
		return nil
	}
	return input[g.Start:g.End]
}

// Matcher runs searches against one compiled Graph. It holds no
// per-search state itself — every Find call builds its own memo cache —
// so a single Matcher is safe for concurrent use across goroutines.
type Matcher struct {
	graph  *compiler.Graph
	config Config
	pf     prefilter.Prefilter
}

// New returns a Matcher for graph using config, with no prefilter: the
// outer loop probes every start index.
func New(graph *compiler.Graph, config Config) *Matcher {
	return &Matcher{graph: graph, config: config}
}

// NewWithPrefilter is New, but the outer search loop first consults pf to
// jump to the next byte offset that could possibly begin a match. pf is
// a pure acceleration layer: it never changes which matches are found,
// only how many start positions the full matcher has to try. A nil pf
// behaves exactly like New.
func NewWithPrefilter(graph *compiler.Graph, config Config, pf prefilter.Prefilter) *Matcher {
	return &Matcher{graph: graph, config: config, pf: pf}
}

// Find returns the first match in text, trying successive start
// positions left to right within each search window.
func (m *Matcher) Find(text []byte) (*Match, bool, error) {
	for _, w := range m.windows(text) {
		mt, ok, err := m.search(text, w, w.Start)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return mt, true, nil
		}
	}
	return nil, false, nil
}

// FindAll returns every non-overlapping match in text, left to right,
// window by window. An empty match advances the next search position by
// one rune so the scan always terminates.
func (m *Matcher) FindAll(text []byte) ([]*Match, error) {
	var out []*Match
	for _, w := range m.windows(text) {
		pos := w.Start
		for pos <= w.End {
			mt, ok, err := m.search(text, w, pos)
			if err != nil {
				return out, err
			}
			if !ok {
				break
			}
			out = append(out, mt)
			if mt.End > pos {
				pos = mt.End
				continue
			}
			_, size := utf8.DecodeRune(text[pos:w.End])
			if size == 0 {
				size = 1
			}
			pos += size
		}
	}
	return out, nil
}

// windows returns the search windows for text: the whole input, or —
// when the pattern was compiled multiline — one window per
// '\n'-separated line, separators excluded. Windows carry absolute
// offsets into text, so match spans need no translation. The outer
// search loop runs independently within each window; a match never
// crosses a window boundary.
func (m *Matcher) windows(text []byte) []Span {
	if !m.graph.Multiline {
		return []Span{{Start: 0, End: len(text)}}
	}
	var ws []Span
	start := 0
	for i, b := range text {
		if b == '\n' {
			ws = append(ws, Span{Start: start, End: i})
			start = i + 1
		}
	}
	return append(ws, Span{Start: start, End: len(text)})
}

// search tries each start position >= from within window w, in order,
// returning the first one that matches.
func (m *Matcher) search(text []byte, w Span, from int) (*Match, bool, error) {
	for start := from; start <= w.End; start++ {
		if m.pf != nil {
			next := m.pf.Find(text, start)
			if next == -1 || next >= w.End {
				return nil, false, nil
			}
			start = next
		}
		mt, ok, err := m.tryAt(text, w, start)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return mt, true, nil
		}
	}
	return nil, false, nil
}

// tryAt attempts an anchored-at-start match beginning exactly at start
// within window w.
func (m *Matcher) tryAt(text []byte, w Span, start int) (*Match, bool, error) {
	cur := compiler.Cursor{Text: text, Begin: w.Start, End: w.End, Pos: start}
	ctx := compiler.NewContext(m.graph.GroupCount)
	mc := newMemo()
	iters := 0

	res, err := m.step(cur, m.graph.Start, ctx, mc, &iters, 0)
	if err != nil {
		return nil, false, err
	}
	if !res.Matched {
		return nil, false, nil
	}

	groups := make([]Span, m.graph.GroupCount)
	for i := 1; i <= m.graph.GroupCount; i++ {
		if s, e, ok := res.Ctx.Capture(i); ok {
			groups[i-1] = Span{s, e}
		} else {
			groups[i-1] = Span{-1, -1}
		}
	}
	return &Match{Span: Span{Start: start, End: res.End}, Groups: groups}, true, nil
}

// step is the generic recursion: try every transition out of state id,
// in declared order, and return the first that leads to a match. Branch
// order alone decides greedy-vs-lazy and left-vs-right alternation
// priority — step itself has no notion of either.
func (m *Matcher) step(cur compiler.Cursor, id compiler.StateID, ctx compiler.Context, mc *memo, iters *int, depth int) (Result, error) {
	*iters++
	if m.config.MaxIterations > 0 && *iters > m.config.MaxIterations {
		return Result{}, &EngineError{Message: "iteration budget exceeded", Iterations: *iters}
	}
	if m.config.MaxRecursionDepth > 0 && depth > m.config.MaxRecursionDepth {
		return Result{}, &EngineError{Message: "recursion depth budget exceeded", Iterations: *iters}
	}

	state := m.graph.State(id)
	if state.Info != nil {
		// Marking the open-start here, at state entry, rather than at
		// the incoming-transition site, also covers the graph's start
		// state itself (e.g. a pattern beginning "(...)" with no
		// preceding atom) — that state has no incoming edge for a
		// transition-target check to fire on.
		ctx = ctx.WithOpen(state.Info.Index, cur.Pos)
	}
	if state.IsEnd {
		return Result{Matched: true, End: cur.Pos, Ctx: ctx}, nil
	}

	key := newCacheKey(cur.Pos, id, ctx)
	if cached, hit, cycle := mc.enter(key); hit {
		return cached, nil
	} else if cycle {
		return Result{Matched: false}, nil
	}

	var result Result
	for _, t := range state.Transitions {
		n, ok := t.Match(&cur, ctx)
		if !ok {
			continue
		}
		nextCur := cur.Advance(n)
		nextCtx := t.Perform(&cur, ctx)

		res, err := m.step(nextCur, t.Target, nextCtx, mc, iters, depth+1)
		if err != nil {
			return Result{}, err
		}
		if res.Matched {
			result = res
			break
		}
	}

	mc.leave(key, result, m.config.CacheSuccesses)
	return result, nil
}
