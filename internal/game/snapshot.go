package game

import "github.com/lox/holdem-table/internal/deck"

// PlayerSnapshot is a copy of one player's public and private state
type PlayerSnapshot struct {
	Seat   int
	Name   string
	Chips  int
	IsBot  bool
	Hand   []deck.Card
	Bet    int
	InHand bool
	Status Status
}

// Snapshot is a point-in-time copy of the table. It holds every hole card;
// use CardsVisible before showing them to a viewer.
type Snapshot struct {
	HandNumber         int
	Players            []PlayerSnapshot
	CommunityCards     []deck.Card
	Pot                int
	DealerPos          int
	CurrentPlayerIndex int
	Stage              Stage
	ShowAll            bool
}

// Snapshot copies the table state. showAll marks the snapshot as a showdown
// reveal.
func (t *Table) Snapshot(showAll bool) Snapshot {
	s := Snapshot{
		HandNumber:         t.handNumber,
		Players:            make([]PlayerSnapshot, len(t.players)),
		CommunityCards:     append([]deck.Card(nil), t.community...),
		Pot:                t.pot,
		DealerPos:          t.dealer,
		CurrentPlayerIndex: t.current,
		Stage:              t.stage,
		ShowAll:            showAll,
	}
	for i, p := range t.players {
		s.Players[i] = PlayerSnapshot{
			Seat:   p.Seat,
			Name:   p.Name,
			Chips:  p.Chips,
			IsBot:  p.IsBot,
			Hand:   append([]deck.Card(nil), p.Hand...),
			Bet:    p.Bet,
			InHand: p.InHand,
			Status: p.Status,
		}
	}
	return s
}

// CardsVisible reports whether the hole cards of player i may be shown to
// the controller of viewerSeat. Cards are visible at showdown or to their
// owner.
func (s Snapshot) CardsVisible(i, viewerSeat int) bool {
	if i < 0 || i >= len(s.Players) {
		return false
	}
	return s.ShowAll || s.Players[i].Seat == viewerSeat
}
