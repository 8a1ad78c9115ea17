package game

import "github.com/lox/holdem-table/internal/deck"

// Status is the display label for a player's state within a hand
type Status string

const (
	StatusNone  Status = ""
	StatusFold  Status = "FOLD"
	StatusAllIn Status = "ALL-IN"
)

// Player represents a seat at the table. Chips persist across hands; the
// remaining fields are reset at the start of each hand.
type Player struct {
	Seat  int
	Name  string
	IsBot bool
	Chips int

	Hand   []deck.Card
	Bet    int // Current round bet, not yet collected into the pot
	InHand bool
	AllIn  bool
	Status Status
}

// NewPlayer creates a new player
func NewPlayer(seat int, name string, chips int, isBot bool) *Player {
	return &Player{
		Seat:  seat,
		Name:  name,
		IsBot: isBot,
		Chips: chips,
	}
}

// ResetForHand clears per-hand state
func (p *Player) ResetForHand() {
	p.Hand = p.Hand[:0]
	p.Bet = 0
	p.InHand = true
	p.AllIn = false
	p.Status = StatusNone
}

// CanAct returns true if the player still has a decision to make this hand
func (p *Player) CanAct() bool {
	return p.InHand && !p.AllIn
}

// pay moves up to amount chips from the stack into the current bet and
// returns what was actually paid.
func (p *Player) pay(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.Bet += amount
	if p.Chips == 0 && p.InHand {
		p.AllIn = true
		p.Status = StatusAllIn
	}
	return amount
}

func (p *Player) fold() {
	p.InHand = false
	p.Status = StatusFold
}
