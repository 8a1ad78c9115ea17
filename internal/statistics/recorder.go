package statistics

import (
	"sync"

	"github.com/lox/holdem-table/internal/game"
)

// Recorder follows a table's events and records each hand for one player.
// It is safe to read while the engine publishes.
type Recorder struct {
	player string

	mu       sync.Mutex
	stats    *Statistics
	hand     int
	seated   bool
	start    int
	position int
	street   game.Stage
	chips    int
}

// NewRecorder tracks player at a table with the given big blind
func NewRecorder(player string, bigBlind int) *Recorder {
	return &Recorder{player: player, stats: New(bigBlind)}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e := event.(type) {
	case game.StateEvent:
		r.observe(e.Snapshot)
	case game.StreetChangeEvent:
		r.street = e.Stage
	case game.HandEndEvent:
		if !r.seated || e.Result == nil {
			return
		}
		r.stats.Add(HandResult{
			HandNumber:     e.Result.Number,
			NetBB:          r.stats.inBB(r.chips - r.start),
			Position:       r.position,
			WentToShowdown: r.shownDown(e.Result),
			FinalPotSize:   e.Result.Pot,
			StreetReached:  r.street.String(),
		})
		r.seated = false
	}
}

// observe notes the player's stack. The first snapshot of a hand is taken
// before the blinds, so it holds the starting stack.
func (r *Recorder) observe(s game.Snapshot) {
	idx := -1
	for i, p := range s.Players {
		if p.Name == r.player {
			idx = i
			break
		}
	}

	if s.HandNumber != r.hand {
		r.hand = s.HandNumber
		r.seated = idx >= 0
		r.street = game.PreFlop
		if idx >= 0 {
			p := s.Players[idx]
			r.start = p.Chips + p.Bet
			r.position = (idx - s.DealerPos + len(s.Players)) % len(s.Players)
		}
	}
	if idx >= 0 {
		r.chips = s.Players[idx].Chips + s.Players[idx].Bet
	}
}

func (r *Recorder) shownDown(result *game.HandResult) bool {
	for _, entry := range result.Showdown {
		if entry.Name == r.player {
			return true
		}
	}
	return false
}

// Summary returns the headline numbers so far
func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.Summary(r.player)
}
