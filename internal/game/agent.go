package game

import (
	"context"

	"github.com/lox/holdem-table/internal/deck"
)

// ActionRequest is the read-only view of the table given to the player who must act
type ActionRequest struct {
	Seat       int
	Name       string
	Stage      Stage
	HoleCards  []deck.Card
	Community  []deck.Card
	Pot        int // Collected pot, excluding the current round's bets
	CurrentBet int // Bet level of the round
	ToCall     int
	MinRaise   int // Minimum raise increment over CurrentBet
	Chips      int
	Bet        int // Player's own bet this round
	BigBlind   int
}

// MaxTotal is the largest total bet the player can make (all-in)
func (r ActionRequest) MaxTotal() int {
	return r.Chips + r.Bet
}

// Agent represents any entity (human or bot) that can make decisions for a
// seat. Agents receive an immutable view and return a decision; the engine
// applies it.
type Agent interface {
	// MakeDecision returns the decision for the request. An error aborts the
	// hand loop and is only expected when ctx is cancelled.
	MakeDecision(ctx context.Context, req ActionRequest) (Decision, error)
}

// AgentFunc adapts a function to the Agent interface
type AgentFunc func(ctx context.Context, req ActionRequest) (Decision, error)

// MakeDecision calls f
func (f AgentFunc) MakeDecision(ctx context.Context, req ActionRequest) (Decision, error) {
	return f(ctx, req)
}
