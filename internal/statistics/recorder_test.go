package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-table/internal/game"
)

func state(hand, dealer int, stacks ...int) game.StateEvent {
	names := []string{"You", "Bot Alice", "Bot Bob"}
	s := game.Snapshot{HandNumber: hand, DealerPos: dealer}
	for i, chips := range stacks {
		s.Players = append(s.Players, game.PlayerSnapshot{Seat: i, Name: names[i], Chips: chips})
	}
	return game.NewStateEvent(s)
}

func recorded(r *Recorder) *Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func TestRecorderTracksNetResult(t *testing.T) {
	r := NewRecorder("You", 20)

	// Hand 1: the human is one seat after the button and wins 60 at showdown
	r.OnEvent(state(1, 2, 1000, 1000, 1000))
	r.OnEvent(game.NewStreetChangeEvent(game.Flop, nil))
	r.OnEvent(game.NewStreetChangeEvent(game.River, nil))
	r.OnEvent(state(1, 2, 1060, 970, 970))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{
		Number:       1,
		Pot:          90,
		ShowdownType: "showdown",
		Showdown:     []game.ShowdownEntry{{Name: "You"}, {Name: "Bot Bob"}},
	}))

	// Hand 2: the human folds the small blind
	r.OnEvent(state(2, 0, 1060, 970, 970))
	r.OnEvent(state(2, 0, 1050, 990, 960))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{Number: 2, Pot: 30, ShowdownType: "fold"}))

	stats := recorded(r)
	require.Equal(t, 2, stats.Hands)
	assert.Equal(t, []float64{3, -0.5}, stats.Values)
	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Equal(t, 1, stats.Positions[1].Hands)
	assert.Equal(t, 1, stats.Positions[0].Hands)
	assert.Equal(t, 90, stats.MaxPotChips)
	require.NoError(t, stats.Validate())

	sum := r.Summary()
	assert.Equal(t, "You", sum.Player)
	assert.InDelta(t, 2.5, sum.NetBB, 1e-9)
	assert.Equal(t, map[int]float64{0: -0.5, 1: 3}, sum.PositionMeanBB)
	assert.True(t, sum.Consistent)
}

func TestRecorderPositionFollowsButton(t *testing.T) {
	r := NewRecorder("You", 20)
	r.OnEvent(state(1, 0, 1000, 1000))
	r.OnEvent(game.NewStreetChangeEvent(game.Turn, nil))
	r.OnEvent(state(1, 0, 1000, 1000))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{Number: 1}))

	// A new hand starts back at pre-flop
	r.OnEvent(state(2, 1, 1000, 1000))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{Number: 2}))

	stats := recorded(r)
	require.Equal(t, 2, stats.Hands)
	assert.Equal(t, 0, stats.NonShowdownWins)
	assert.Equal(t, 1, stats.Positions[0].Hands)
	assert.Equal(t, 1, stats.Positions[1].Hands)
}

func TestRecorderIgnoresHandsWithoutPlayer(t *testing.T) {
	r := NewRecorder("Nobody", 20)
	r.OnEvent(state(1, 0, 1000, 1000))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{Number: 1}))

	assert.Zero(t, recorded(r).Hands)
}

func TestRecorderIgnoresDuplicateHandEnd(t *testing.T) {
	r := NewRecorder("You", 20)
	r.OnEvent(state(1, 0, 1000, 1000))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{Number: 1}))
	r.OnEvent(game.NewHandEndEvent(&game.HandResult{Number: 1}))

	assert.Equal(t, 1, recorded(r).Hands)
}
