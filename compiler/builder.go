package compiler

import "fmt"

// BuildError is returned by Builder methods when a caller misuses the
// arena (patches a state that doesn't have the shape being patched, or
// names a state ID that was never allocated).
type BuildError struct {
	Message string
	State   StateID
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("compiler: %s (state %d)", e.Message, e.State)
}

// Builder assembles a Graph incrementally out of fragments: an
// append-only state arena plus backpatching of dangling exits. There is
// no tagged State.kind switch — every state is just an ID and a list of
// Transitions, so "split" and "atom" and "capture boundary" are all the
// same shape, distinguished only by the Transition closures they carry.
type Builder struct {
	states []*State
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{states: make([]*State, 0, 16)}
}

// NewState allocates a state with no transitions yet and returns its ID.
func (b *Builder) NewState() StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, &State{ID: id})
	return id
}

// NewMatch allocates an accepting state.
func (b *Builder) NewMatch() StateID {
	id := b.NewState()
	b.states[id].IsEnd = true
	return id
}

// epsilon is the always-taken, zero-width, identity-context transition
// used for pure control-flow edges (concatenation joins, alternation
// splits, quantifier loops).
func epsilon(target StateID) *Transition {
	return &Transition{
		Match:   func(*Cursor, Context) (int, bool) { return 0, true },
		Perform: func(_ *Cursor, ctx Context) Context { return ctx },
		Target:  target,
	}
}

// NewJoin allocates a single-epsilon-transition state pointed at target
// (which may be InvalidState to be patched in later). This is the
// "dangling join" fragment-exit pattern: every fragment's end is a Join,
// so composing fragments is just Patch-ing the predecessor's Join at the
// successor's start.
func (b *Builder) NewJoin(target StateID) StateID {
	id := b.NewState()
	b.states[id].Transitions = []*Transition{epsilon(target)}
	return id
}

// NewBranch allocates a state with one epsilon transition per target, in
// priority order: transitions earlier in the list are tried first. This
// is how alternation, greedy loops (continue before exit), and lazy
// loops (exit before continue) are all expressed — branch order alone
// decides greediness, there is no separate "greedy" state kind.
func (b *Builder) NewBranch(targets ...StateID) StateID {
	id := b.NewState()
	trs := make([]*Transition, len(targets))
	for i, t := range targets {
		trs[i] = epsilon(t)
	}
	b.states[id].Transitions = trs
	return id
}

// NewGroupStart allocates a state tagged as the entry of capturing group
// index, with a single epsilon transition to target.
func (b *Builder) NewGroupStart(index int, target StateID) StateID {
	id := b.NewJoin(target)
	b.states[id].Info = &GroupStart{Index: index}
	return id
}

// NewMatcher allocates a state with a single transition whose
// admissibility and byte-length are decided by match, optionally
// updating the context via perform (nil means identity).
func (b *Builder) NewMatcher(match func(*Cursor, Context) (int, bool), perform func(*Cursor, Context) Context, target StateID) StateID {
	id := b.NewState()
	if perform == nil {
		perform = func(_ *Cursor, ctx Context) Context { return ctx }
	}
	b.states[id].Transitions = []*Transition{{
		Match:   match,
		Perform: perform,
		Target:  target,
	}}
	return id
}

// Patch retargets a state built by NewJoin or NewGroupStart (any state
// with exactly one transition) to target.
func (b *Builder) Patch(id, target StateID) error {
	if int(id) < 0 || int(id) >= len(b.states) {
		return &BuildError{Message: "state out of bounds", State: id}
	}
	trs := b.states[id].Transitions
	if len(trs) != 1 {
		return &BuildError{Message: "cannot patch a state without exactly one transition", State: id}
	}
	trs[0].Target = target
	return nil
}

// PatchBranch retargets every transition of a state built by NewBranch,
// in order.
func (b *Builder) PatchBranch(id StateID, targets ...StateID) error {
	if int(id) < 0 || int(id) >= len(b.states) {
		return &BuildError{Message: "state out of bounds", State: id}
	}
	trs := b.states[id].Transitions
	if len(trs) != len(targets) {
		return &BuildError{Message: "target count does not match branch width", State: id}
	}
	for i, t := range targets {
		trs[i].Target = t
	}
	return nil
}

// Build finalizes the graph. start is the entry state and groupCount is
// the number of capturing groups the pattern declared.
func (b *Builder) Build(start StateID, groupCount int) (*Graph, error) {
	if int(start) < 0 || int(start) >= len(b.states) {
		return nil, &BuildError{Message: "start state out of bounds", State: start}
	}
	for _, s := range b.states {
		for _, t := range s.Transitions {
			if t.Target != InvalidState && (int(t.Target) < 0 || int(t.Target) >= len(b.states)) {
				return nil, &BuildError{Message: fmt.Sprintf("dangling transition target %d", t.Target), State: s.ID}
			}
		}
	}
	return &Graph{States: b.states, Start: start, GroupCount: groupCount}, nil
}
