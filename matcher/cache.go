package matcher

import (
	"fmt"

	"github.com/coregx/coregex/compiler"
)

// Result is what a (position, state, context) triple resolves to: either
// no match, or a match ending at End with the capture bookkeeping
// accumulated along the way in Ctx.
type Result struct {
	Matched bool
	End     int
	Ctx     compiler.Context
}

type cacheStatus uint8

const (
	statusInProgress cacheStatus = iota
	statusDone
)

type cacheEntry struct {
	status cacheStatus
	result Result
}

// cacheKey identifies one (position, state, open-and-closed-group
// context) triple. ctxKey is compiler.Context.Key(), already reduced to
// a comparable string.
type cacheKey struct {
	pos   int
	state compiler.StateID
	ctx   string
}

func newCacheKey(pos int, state compiler.StateID, ctx compiler.Context) cacheKey {
	return cacheKey{pos: pos, state: state, ctx: ctx.Key()}
}

// memo is the matcher's memoization cache. It doubles as the cycle
// breaker that bounds epsilon loops: a key marked in-progress and
// revisited before it resolves is an epsilon cycle, reported as a
// failure from the second visit. A keyed map rather than a bitset
// because the key is a (position, state, context) triple, not just a
// state.
type memo struct {
	entries map[cacheKey]*cacheEntry
}

func newMemo() *memo {
	return &memo{entries: make(map[cacheKey]*cacheEntry)}
}

// enter records that key is now being explored. hit reports that key
// was already resolved (result is valid); cycle reports that key is
// currently being explored higher up the same recursion (an epsilon
// loop), which the caller must treat as an immediate failure.
func (m *memo) enter(key cacheKey) (result Result, hit, cycle bool) {
	if e, ok := m.entries[key]; ok {
		if e.status == statusInProgress {
			return Result{}, false, true
		}
		return e.result, true, false
	}
	m.entries[key] = &cacheEntry{status: statusInProgress}
	return Result{}, false, false
}

// leave resolves key with result. A failed result is always cached
// (that's what keeps the backtracker polynomial); a successful one is
// only cached when cacheSuccesses is set, since remembering it is sound
// — the same (position, state, context) triple always resolves the same
// way — but costs memory proportional to how much of the search space
// actually succeeds.
func (m *memo) leave(key cacheKey, result Result, cacheSuccesses bool) {
	if result.Matched && !cacheSuccesses {
		delete(m.entries, key)
		return
	}
	m.entries[key] = &cacheEntry{status: statusDone, result: result}
}

func (k cacheKey) String() string {
	return fmt.Sprintf("(%d,%d,%s)", k.pos, k.state, k.ctx)
}
