package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-table/internal/game"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

type eventLog struct {
	mu     sync.Mutex
	events []game.GameEvent
}

func (l *eventLog) OnEvent(e game.GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) actionNeeded() []game.ActionRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []game.ActionRequest
	for _, e := range l.events {
		if an, ok := e.(game.ActionNeededEvent); ok {
			out = append(out, an.Request)
		}
	}
	return out
}

type decisionResult struct {
	decision game.Decision
	err      error
}

func decide(ctx context.Context, h *HumanAgent, req game.ActionRequest) <-chan decisionResult {
	out := make(chan decisionResult, 1)
	go func() {
		d, err := h.MakeDecision(ctx, req)
		out <- decisionResult{d, err}
	}()
	return out
}

func waitPending(t *testing.T, h *HumanAgent) game.ActionRequest {
	t.Helper()
	var req game.ActionRequest
	require.Eventually(t, func() bool {
		var ok bool
		req, ok = h.Pending()
		return ok
	}, 5*time.Second, time.Millisecond)
	return req
}

func TestCheckOrFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, game.Fold, CheckOrFold(game.ActionRequest{ToCall: 20}).Action)
	assert.Equal(t, game.Check, CheckOrFold(game.ActionRequest{}).Action)
}

func TestHumanAgentSubmit(t *testing.T) {
	t.Parallel()

	bus := game.NewEventBus()
	events := &eventLog{}
	bus.Subscribe(events)
	human := NewHumanAgent(bus, quartz.NewMock(t), 0, nil, quietLogger())

	assert.False(t, human.Submit(0, game.Decision{Action: game.Call}), "no wait open")

	result := decide(context.Background(), human, game.ActionRequest{Seat: 0, Name: "You", ToCall: 20})
	req := waitPending(t, human)
	assert.Equal(t, 20, req.ToCall)

	assert.False(t, human.Submit(1, game.Decision{Action: game.Fold}), "wrong seat")
	assert.True(t, human.Submit(0, game.Decision{Action: game.Raise, Amount: 80}))
	assert.False(t, human.Submit(0, game.Decision{Action: game.Fold}), "already fulfilled")

	r := <-result
	require.NoError(t, r.err)
	assert.Equal(t, game.Decision{Action: game.Raise, Amount: 80}, r.decision)

	_, pending := human.Pending()
	assert.False(t, pending)
	require.Len(t, events.actionNeeded(), 1)
	assert.Equal(t, "You", events.actionNeeded()[0].Name)
}

func TestHumanAgentTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		toCall int
		want   game.Action
	}{
		{"folds facing a bet", 20, game.Fold},
		{"checks when free", 0, game.Check},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			mClock := quartz.NewMock(t)
			human := NewHumanAgent(game.NewEventBus(), mClock, 30*time.Second, CheckOrFold, quietLogger())

			result := decide(ctx, human, game.ActionRequest{Seat: 0, ToCall: tt.toCall})
			waitPending(t, human)

			mClock.Advance(29 * time.Second).MustWait(ctx)
			_, pending := human.Pending()
			assert.True(t, pending, "still waiting before the deadline")

			mClock.Advance(time.Second).MustWait(ctx)
			r := <-result
			require.NoError(t, r.err)
			assert.Equal(t, tt.want, r.decision.Action)
			assert.Equal(t, "timeout", r.decision.Reasoning)

			assert.False(t, human.Submit(0, game.Decision{Action: game.Call}), "late submission dropped")
		})
	}
}

func TestHumanAgentCancelled(t *testing.T) {
	t.Parallel()

	human := NewHumanAgent(game.NewEventBus(), quartz.NewMock(t), 0, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	result := decide(ctx, human, game.ActionRequest{Seat: 0})
	waitPending(t, human)
	cancel()

	r := <-result
	assert.ErrorIs(t, r.err, context.Canceled)
	_, pending := human.Pending()
	assert.False(t, pending)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Pacing = game.Pacing{}
	cfg.Bots = []BotSeat{{Name: "Bot Alice", Strategy: "fold", Chips: 1000}}
	return cfg
}

func humanOf(m *Manager) *HumanAgent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.human
}

func TestManagerConnectAndReconnect(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfig(), quietLogger())
	t.Cleanup(m.Close)

	att, err := m.Connect("conn-a")
	require.NoError(t, err)
	assert.True(t, att.Created)
	assert.Equal(t, "conn-a", m.ConnID())

	human := humanOf(m)
	req := waitPending(t, human)
	assert.Equal(t, HumanSeat, req.Seat)
	assert.Equal(t, "You", req.Name)

	att, err = m.Connect("conn-b")
	require.NoError(t, err)
	assert.False(t, att.Created, "existing table reused")
	require.NotNil(t, att.State)
	require.NotNil(t, att.Pending, "open wait re-delivered")
	assert.Equal(t, req, *att.Pending)
	assert.Len(t, att.State.Players, 2)

	assert.False(t, m.Submit("conn-a", game.Decision{Action: game.Fold}), "stale connection")
	assert.True(t, m.Submit("conn-b", game.Decision{Action: game.Call}))
	assert.False(t, m.Submit("conn-b", game.Decision{Action: game.Call}), "no second action for one wait")

	m.Disconnect("conn-a")
	assert.Equal(t, "conn-b", m.ConnID(), "stale disconnect ignored")
	m.Disconnect("conn-b")
	assert.Empty(t, m.ConnID())

	state, ok := m.lastState()
	require.True(t, ok)
	assert.Equal(t, "You", state.Players[0].Name)
}

func TestManagerNewTableAfterGameOver(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HumanChips = 20
	cfg.ActionTimeout = time.Millisecond
	cfg.Bots = []BotSeat{{Name: "Bot Alice", Strategy: "call", Chips: 1000}}

	m := NewManager(cfg, quietLogger())
	t.Cleanup(m.Close)

	att, err := m.Connect("conn-a")
	require.NoError(t, err)
	require.True(t, att.Created)

	require.Eventually(t, m.Finished, 10*time.Second, time.Millisecond)

	sum, ok := m.Stats()
	require.True(t, ok)
	assert.Equal(t, "You", sum.Player)
	assert.Positive(t, sum.Hands)
	// The human either busts or takes every chip
	assert.Contains(t, []float64{-1, 50}, sum.NetBB)

	att, err = m.Connect("conn-b")
	require.NoError(t, err)
	assert.True(t, att.Created, "finished game replaced")
	assert.False(t, m.Finished())
}

func TestManagerClosed(t *testing.T) {
	t.Parallel()

	m := NewManager(testConfig(), quietLogger())
	m.Close()

	_, err := m.Connect("conn-a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.Submit("conn-a", game.Decision{}))
}
