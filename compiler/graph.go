// Package compiler lowers an ast.Expression into the state graph the
// matcher interprets: an epsilon-transitioning NFA augmented with
// side-effecting transitions and group-boundary metadata.
//
// The graph is built with a Thompson-style fragment-and-backpatch
// Builder: start/end fragment pairs, an epsilon "join" state left
// dangling and Patch-ed once the continuation is known. Transitions
// carry closures rather than byte ranges — a condition can read the
// matcher's open-group Context, not just compare a byte, which is what
// lets backreferences and capture boundaries share the one transition
// mechanism.
//
// Cursor and Context are defined here rather than in package matcher
// because a Transition's Match/Perform fields must name a concrete type
// for both; matcher imports compiler, not the reverse, so matcher still
// owns the Cursor/Context *instances* while compiler owns the graph
// they walk.
package compiler

import "fmt"

// StateID is a stable identity for a graph state, used as a hash key by
// the matcher's memoization cache. It indexes into Graph.States.
type StateID int32

// InvalidState marks an unpatched or absent target.
const InvalidState StateID = -1

// GroupStart tags a state as the entry point of capturing group Index.
// The matcher's generic recursion step checks this tag on entering the
// state — not the transition it's about to follow — and records the
// group's open position in the Context; the group's closing state
// records the close position through its transition's Perform.
type GroupStart struct {
	Index int
}

// Transition is a single outgoing edge from a State.
//
// Match folds "is this edge allowed here" and "how much input does
// taking it consume" into one call: most atoms consume exactly one
// rune's worth of bytes, zero-width assertions and control-flow edges
// consume zero, and a backreference consumes the length of whatever its
// group last captured — a length only known at match time, not at
// compile time. Giving every edge a single Match function, rather than
// a bool Condition plus a fixed IsEpsilon flag, lets all three share one
// mechanism instead of backreferences needing a special case.
type Transition struct {
	// Match reports whether this transition may be taken from the given
	// cursor position under the given context, and if so how many bytes
	// of input it consumes. It must not mutate cur or ctx. n is 0 for
	// zero-width assertions and epsilon control-flow edges.
	Match func(cur *Cursor, ctx Context) (n int, ok bool)

	// Perform computes the context to carry across this transition. For
	// transitions with no side effect this is the identity function.
	Perform func(cur *Cursor, ctx Context) Context

	// Target is the state this transition leads to.
	Target StateID
}

// State is one node of the graph.
type State struct {
	ID          StateID
	Info        *GroupStart
	IsEnd       bool
	Transitions []*Transition
}

// Graph is the compiled, read-only form of a pattern. It is immutable
// after Build and safe to share across goroutines; every mutable
// per-search concern (Cursor, Context, memo cache) lives outside it.
type Graph struct {
	States     []*State
	Start      StateID
	GroupCount int

	// Multiline records that searches must treat each '\n'-separated
	// line of the input as an independent window: matches never cross a
	// line boundary, and "^" matches at every window start.
	Multiline bool
}

// State returns the state with the given ID.
func (g *Graph) State(id StateID) *State {
	return g.States[id]
}

func (s *State) String() string {
	if s.IsEnd {
		return fmt.Sprintf("State(%d, end)", s.ID)
	}
	return fmt.Sprintf("State(%d, %d transitions)", s.ID, len(s.Transitions))
}
