package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/holdem-table/internal/deck"
)

var (
	// ErrTableFull is returned when seating a player at a full table
	ErrTableFull = errors.New("table is full")
	// ErrNotEnoughPlayers is returned when fewer than two players have chips
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
)

// Stage is the phase of a hand
type Stage int

const (
	Idle Stage = iota
	PreFlop
	Flop
	Turn
	River
	Showdown
)

// String returns the string representation of a stage
func (s Stage) String() string {
	switch s {
	case Idle:
		return "Idle"
	case PreFlop:
		return "Pre-Flop"
	case Flop:
		return "Flop"
	case Turn:
		return "Turn"
	case River:
		return "River"
	case Showdown:
		return "Showdown"
	default:
		return "Unknown"
	}
}

// reveal is the number of community cards dealt when the stage begins
func (s Stage) reveal() int {
	switch s {
	case Flop:
		return 3
	case Turn, River:
		return 1
	default:
		return 0
	}
}

// TableConfig holds the fixed parameters of a table
type TableConfig struct {
	MaxSeats   int // 2 to 4, defaults to 4
	SmallBlind int
	BigBlind   int
}

// Table represents a poker table. It is not safe for concurrent use; the
// Engine owns it.
type Table struct {
	maxSeats   int
	smallBlind int
	bigBlind   int

	players []*Player
	dealer  int // index into players
	current int // index into players of the seat to act

	deck       *deck.Deck
	newDeck    func() *deck.Deck
	community  []deck.Card
	pot        int
	currentBet int
	minRaise   int
	stage      Stage
	handNumber int
}

// NewTable creates a new table. Every hand gets a fresh deck shuffled by rng.
func NewTable(cfg TableConfig, rng *rand.Rand) *Table {
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = 4
	}
	return &Table{
		maxSeats:   cfg.MaxSeats,
		smallBlind: cfg.SmallBlind,
		bigBlind:   cfg.BigBlind,
		players:    make([]*Player, 0, cfg.MaxSeats),
		dealer:     -1,
		newDeck:    func() *deck.Deck { return deck.NewDeck(rng) },
		community:  make([]deck.Card, 0, 5),
		minRaise:   cfg.BigBlind,
		stage:      Idle,
	}
}

// AddPlayer seats a player
func (t *Table) AddPlayer(p *Player) error {
	if len(t.players) >= t.maxSeats {
		return fmt.Errorf("%w: %d seats", ErrTableFull, t.maxSeats)
	}
	t.players = append(t.players, p)
	return nil
}

// SetDealer places the button so that the next hand's dealer is the seat
// after index.
func (t *Table) SetDealer(index int) {
	t.dealer = index
}

// Players returns the seated players in seat order
func (t *Table) Players() []*Player {
	return t.players
}

// Pot returns the collected pot
func (t *Table) Pot() int {
	return t.pot
}

// Stage returns the current stage
func (t *Table) Stage() Stage {
	return t.stage
}

// PlayersWithChips counts players that can play another hand
func (t *Table) PlayersWithChips() int {
	n := 0
	for _, p := range t.players {
		if p.Chips > 0 {
			n++
		}
	}
	return n
}

// NextActiveSeat returns the index of the first player after from, wrapping
// around, who is still in the hand and not all-in. If nobody qualifies it
// returns from unchanged.
func (t *Table) NextActiveSeat(from int) int {
	n := len(t.players)
	if n == 0 {
		return from
	}
	i := from
	for step := 0; step < n; step++ {
		i = (i + 1) % n
		if i < 0 {
			i += n
		}
		if t.players[i].CanAct() {
			return i
		}
	}
	return from
}

// StartHand removes busted players, resets per-hand state, takes a fresh
// deck and moves the button.
func (t *Table) StartHand() error {
	remaining := t.players[:0]
	for _, p := range t.players {
		if p.Chips > 0 {
			remaining = append(remaining, p)
		}
	}
	t.players = remaining

	if len(t.players) < 2 {
		t.stage = Idle
		return ErrNotEnoughPlayers
	}

	for _, p := range t.players {
		p.ResetForHand()
	}

	t.handNumber++
	t.deck = t.newDeck()
	t.community = t.community[:0]
	t.pot = 0
	t.currentBet = 0
	t.minRaise = t.bigBlind
	t.stage = PreFlop
	t.dealer = (t.dealer + 1) % len(t.players)
	t.current = t.dealer
	return nil
}

// Blinds records who posted what
type Blinds struct {
	SmallSeat   int
	SmallAmount int
	BigSeat     int
	BigAmount   int
}

// PostBlinds takes the blinds from the two seats after the button and puts
// the action on the seat after the big blind. Short stacks post what they
// have and are all-in.
func (t *Table) PostBlinds() Blinds {
	sb := t.NextActiveSeat(t.dealer)
	sbPaid := t.players[sb].pay(t.smallBlind)

	bb := t.NextActiveSeat(sb)
	bbPaid := t.players[bb].pay(t.bigBlind)

	// A short big blind sets a lower level
	t.currentBet = t.players[bb].Bet
	if sbBet := t.players[sb].Bet; sbBet > t.currentBet {
		t.currentBet = sbBet
	}
	t.minRaise = t.bigBlind
	t.current = t.NextActiveSeat(bb)

	return Blinds{SmallSeat: sb, SmallAmount: sbPaid, BigSeat: bb, BigAmount: bbPaid}
}

// DealHoleCards deals two cards to every player in the hand, one at a time
func (t *Table) DealHoleCards() {
	for round := 0; round < 2; round++ {
		for _, p := range t.players {
			if p.InHand {
				p.Hand = append(p.Hand, t.mustDeal())
			}
		}
	}
}

// BeginStreet enters stage. Streets after pre-flop clear the round's bets and
// start the action left of the button. Community cards are revealed after a
// burn.
func (t *Table) BeginStreet(stage Stage) {
	t.stage = stage

	if stage != PreFlop {
		t.currentBet = 0
		t.minRaise = t.bigBlind
		for _, p := range t.players {
			p.Bet = 0
		}
		t.current = t.NextActiveSeat(t.dealer)
	}

	if n := stage.reveal(); n > 0 {
		t.mustDeal() // burn
		for i := 0; i < n; i++ {
			t.community = append(t.community, t.mustDeal())
		}
	}
}

// mustDeal panics when the deck runs out. With at most four seats a hand
// draws 2*4+3+5 cards, so exhaustion means the table state is corrupt.
func (t *Table) mustDeal() deck.Card {
	c, err := t.deck.Deal()
	if err != nil {
		panic(fmt.Sprintf("hand %d: %v", t.handNumber, err))
	}
	return c
}

// Apply resolves a decision for the player at index seat. Amounts are
// clamped, never rejected.
func (t *Table) Apply(seat int, d Decision) Outcome {
	p := t.players[seat]
	toCall := t.currentBet - p.Bet
	if toCall < 0 {
		toCall = 0
	}
	out := Outcome{Action: d.Action, ToCall: toCall}

	switch d.Action {
	case Fold:
		p.fold()
	case Call:
		out.Paid = p.pay(toCall)
	case Bet, Raise:
		total := ClampTotal(d.Amount, p.Bet, p.Chips, t.currentBet, t.minRaise)
		out.Paid = p.pay(total - p.Bet)
		if p.Bet > t.currentBet {
			t.minRaise = p.Bet - t.currentBet
			t.currentBet = p.Bet
			out.Raised = true
		}
	case Check:
	default:
		out.Action = Check
	}

	out.Total = p.Bet
	out.AllIn = p.AllIn
	return out
}

// CollectBets moves every round bet into the pot
func (t *Table) CollectBets() {
	for _, p := range t.players {
		t.pot += p.Bet
		p.Bet = 0
	}
}

// Contenders returns the players still contesting the pot
func (t *Table) Contenders() []*Player {
	var out []*Player
	for _, p := range t.players {
		if p.InHand {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) contenderCount() int {
	n := 0
	for _, p := range t.players {
		if p.InHand {
			n++
		}
	}
	return n
}

func (t *Table) canActCount() int {
	n := 0
	for _, p := range t.players {
		if p.CanAct() {
			n++
		}
	}
	return n
}

// betsMatched reports whether every contender who can still act has put in
// the highest bet of the round.
func (t *Table) betsMatched() bool {
	highest := 0
	for _, p := range t.players {
		if p.InHand && p.Bet > highest {
			highest = p.Bet
		}
	}
	for _, p := range t.players {
		if p.InHand && !p.AllIn && p.Bet != highest {
			return false
		}
	}
	return true
}

// requestFor builds the view of the table handed to the agent at index seat
func (t *Table) requestFor(seat int) ActionRequest {
	p := t.players[seat]
	return ActionRequest{
		Seat:       p.Seat,
		Name:       p.Name,
		Stage:      t.stage,
		HoleCards:  append([]deck.Card(nil), p.Hand...),
		Community:  append([]deck.Card(nil), t.community...),
		Pot:        t.pot,
		CurrentBet: t.currentBet,
		ToCall:     t.currentBet - p.Bet,
		MinRaise:   t.minRaise,
		Chips:      p.Chips,
		Bet:        p.Bet,
		BigBlind:   t.bigBlind,
	}
}

// String returns a string representation of the table state
func (t *Table) String() string {
	acting := "None"
	if t.current >= 0 && t.current < len(t.players) {
		acting = t.players[t.current].Name
	}
	return fmt.Sprintf("Hand #%d - %s - Pot: %d - Action on: %s", t.handNumber, t.stage, t.pot, acting)
}
