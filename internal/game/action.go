package game

import "strings"

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// ParseAction converts a wire action name. Unknown names map to Check, which
// never changes chip state.
func ParseAction(name string) Action {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fold":
		return Fold
	case "call":
		return Call
	case "bet":
		return Bet
	case "raise":
		return Raise
	default:
		return Check
	}
}

// Decision is an agent's choice. Amount is the requested total personal bet
// for the round and is only read for Bet and Raise.
type Decision struct {
	Action    Action
	Amount    int
	Reasoning string
}

// ClampTotal bounds a requested bet/raise total. The result is never rejected,
// only moved to the nearest legal value:
//
//   - at least level (a raise below the level becomes a call)
//   - above level but short of level+minRaise is lifted to level+minRaise
//   - at most bet+chips (all-in)
//   - never below bet, so chips only move into the pot
func ClampTotal(requested, bet, chips, level, minRaise int) int {
	total := requested
	if total < level {
		total = level
	}
	if total > level && total < level+minRaise {
		total = level + minRaise
	}
	if limit := bet + chips; total > limit {
		total = limit
	}
	if total < bet {
		total = bet
	}
	return total
}

// Outcome describes how a decision was applied
type Outcome struct {
	Action Action // Action as applied (unknown actions become Check)
	ToCall int    // Amount owed before the action
	Paid   int    // Chips moved from stack to bet
	Total  int    // Player's round bet after the action
	Raised bool   // Action lifted the round's bet level
	AllIn  bool
}
