package game

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// testTableOption configures test table creation
type testTableOption func(*testTableBuilder)

type testTableBuilder struct {
	seed   int64
	config TableConfig
	chips  []int
	names  []string
}

func withSeed(seed int64) testTableOption {
	return func(b *testTableBuilder) { b.seed = seed }
}

func withBlinds(small, big int) testTableOption {
	return func(b *testTableBuilder) {
		b.config.SmallBlind = small
		b.config.BigBlind = big
	}
}

func withPlayers(names ...string) testTableOption {
	return func(b *testTableBuilder) { b.names = names }
}

func withChips(chips ...int) testTableOption {
	return func(b *testTableBuilder) { b.chips = chips }
}

// newTestTable creates a table with four 1000-chip players and 10/20 blinds
func newTestTable(t *testing.T, opts ...testTableOption) *Table {
	t.Helper()

	b := &testTableBuilder{
		seed:   42,
		config: TableConfig{MaxSeats: 4, SmallBlind: 10, BigBlind: 20},
		names:  []string{"You", "Bot Alice", "Bot Bob", "Bot Charlie"},
	}
	for _, opt := range opts {
		opt(b)
	}

	table := NewTable(b.config, randutil.New(b.seed))
	for i, name := range b.names {
		chips := 1000
		if i < len(b.chips) {
			chips = b.chips[i]
		}
		require.NoError(t, table.AddPlayer(NewPlayer(i, name, chips, i != 0)))
	}
	return table
}

// totalChips counts every chip on the table, wherever it is
func totalChips(table *Table) int {
	total := table.pot
	for _, p := range table.players {
		total += p.Chips + p.Bet
	}
	return total
}

// scriptedAgent plays a fixed list of decisions, then checks or folds
type scriptedAgent struct {
	mu        sync.Mutex
	decisions []Decision
	requests  []ActionRequest
}

func script(decisions ...Decision) *scriptedAgent {
	return &scriptedAgent{decisions: decisions}
}

func (a *scriptedAgent) MakeDecision(ctx context.Context, req ActionRequest) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests = append(a.requests, req)
	if len(a.decisions) == 0 {
		if req.ToCall > 0 {
			return Decision{Action: Fold}, nil
		}
		return Decision{Action: Check}, nil
	}
	d := a.decisions[0]
	a.decisions = a.decisions[1:]
	return d, nil
}

func (a *scriptedAgent) Requests() []ActionRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ActionRequest(nil), a.requests...)
}

// shoveAgent always moves all-in
var shoveAgent = AgentFunc(func(ctx context.Context, req ActionRequest) (Decision, error) {
	return Decision{Action: Raise, Amount: req.MaxTotal()}, ctx.Err()
})

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *recorder) OnEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]GameEvent(nil), r.events...)
}

func (r *recorder) Logs() []string {
	var out []string
	for _, e := range r.Events() {
		if l, ok := e.(LogEvent); ok {
			out = append(out, l.Message)
		}
	}
	return out
}

func (r *recorder) Countdown() []int {
	var out []int
	for _, e := range r.Events() {
		if te, ok := e.(TimerEvent); ok {
			out = append(out, te.Countdown)
		}
	}
	return out
}

func cards(t *testing.T, s string) []deck.Card {
	t.Helper()
	c, err := deck.ParseCards(s)
	require.NoError(t, err)
	return c
}
