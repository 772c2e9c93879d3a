package dialog

import "github.com/tripkit-ai/tripkit/tools"

// LoopGuard watches the stream of executed tool calls. Two consecutive
// long-running recompute tools (timeline or route optimization) trip
// the guard: the turn hands off to the editor instead of re-invoking
// the same expensive tool forever. The trigger is a tunable heuristic
// against model misbehavior, not a correctness rule.
type LoopGuard struct {
	prevTieBreaker bool
	tripped        bool
}

// Record notes one executed tool call.
func (g *LoopGuard) Record(toolName string) {
	if tools.IsTieBreaker(toolName) {
		if g.prevTieBreaker {
			g.tripped = true
		}
		g.prevTieBreaker = true
		return
	}
	g.prevTieBreaker = false
}

// Tripped reports whether the guard has fired. Stays set for the rest
// of the turn.
func (g *LoopGuard) Tripped() bool {
	return g.tripped
}
