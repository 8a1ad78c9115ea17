package game

import (
	"fmt"
	"sort"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
)

// SplitPolicy decides what happens to chips that do not divide evenly
// between showdown co-winners.
type SplitPolicy int

const (
	// SplitFloor gives every co-winner pot/n and drops the remainder
	SplitFloor SplitPolicy = iota
	// SplitRemainderToDealerLeft gives the odd chips, one each, to co-winners
	// in seat order starting left of the button
	SplitRemainderToDealerLeft
)

func (s SplitPolicy) String() string {
	switch s {
	case SplitFloor:
		return "floor"
	case SplitRemainderToDealerLeft:
		return "dealer-left"
	default:
		return "unknown"
	}
}

// ParseSplitPolicy maps a config name to a policy
func ParseSplitPolicy(name string) (SplitPolicy, error) {
	switch name {
	case "", "floor":
		return SplitFloor, nil
	case "dealer-left":
		return SplitRemainderToDealerLeft, nil
	default:
		return SplitFloor, fmt.Errorf("unknown split policy %q", name)
	}
}

// SplitPot divides pot between n winners by floor division
func SplitPot(pot, n int) (share, remainder int) {
	if n <= 0 {
		return 0, pot
	}
	return pot / n, pot % n
}

// Payout is the amount awarded to one player
type Payout struct {
	Seat     int
	Name     string
	Amount   int
	HandName string // empty when the pot was won uncontested
}

// ShowdownEntry is a contender's best hand at showdown
type ShowdownEntry struct {
	Seat      int
	Name      string
	HoleCards []deck.Card
	Hand      evaluator.Hand
}

// AwardUncontested gives the pot to the only remaining contender
func (t *Table) AwardUncontested() (Payout, bool) {
	contenders := t.Contenders()
	if len(contenders) != 1 {
		return Payout{}, false
	}
	winner := contenders[0]
	payout := Payout{Seat: winner.Seat, Name: winner.Name, Amount: t.pot}
	winner.Chips += t.pot
	t.pot = 0
	return payout, true
}

// Showdown evaluates every contender against the board, finds all players
// holding the best hand and splits the pot between them.
func (t *Table) Showdown(policy SplitPolicy) ([]ShowdownEntry, []Payout) {
	t.stage = Showdown

	var entries []ShowdownEntry
	var winners []int // indexes into t.players
	var best evaluator.Hand

	for i, p := range t.players {
		if !p.InHand {
			continue
		}
		cards := append(append([]deck.Card(nil), p.Hand...), t.community...)
		hand := evaluator.MustEvaluate(cards)
		entries = append(entries, ShowdownEntry{
			Seat:      p.Seat,
			Name:      p.Name,
			HoleCards: append([]deck.Card(nil), p.Hand...),
			Hand:      hand,
		})

		switch cmp := hand.Compare(best); {
		case len(winners) == 0 || cmp > 0:
			best = hand
			winners = []int{i}
		case cmp == 0:
			winners = append(winners, i)
		}
	}

	if len(winners) == 0 {
		return entries, nil
	}

	share, remainder := SplitPot(t.pot, len(winners))
	amounts := make(map[int]int, len(winners))
	for _, i := range winners {
		amounts[i] = share
	}
	if policy == SplitRemainderToDealerLeft {
		n := len(t.players)
		order := append([]int(nil), winners...)
		sort.Slice(order, func(a, b int) bool {
			return (order[a]-t.dealer-1+n)%n < (order[b]-t.dealer-1+n)%n
		})
		for k := 0; k < remainder; k++ {
			amounts[order[k%len(order)]]++
		}
	}

	payouts := make([]Payout, 0, len(winners))
	for _, i := range winners {
		p := t.players[i]
		p.Chips += amounts[i]
		payouts = append(payouts, Payout{Seat: p.Seat, Name: p.Name, Amount: amounts[i], HandName: best.Name()})
	}
	t.pot = 0
	return entries, payouts
}
