package game

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/holdem-table/internal/deck"
)

// ErrAlreadyRunning is returned when Run is called on a running engine
var ErrAlreadyRunning = errors.New("engine already running")

// Pacing controls the artificial delays that make the table watchable
type Pacing struct {
	HandStartDelay    time.Duration // After announcing a new hand
	BotDelay          time.Duration // Before a bot decides
	ActionDelay       time.Duration // After any action is applied
	IntermissionTick  time.Duration // Between countdown ticks
	IntermissionTicks int           // Countdown starts here and ends at 0
}

// DefaultPacing returns the pacing used by the server
func DefaultPacing() Pacing {
	return Pacing{
		HandStartDelay:    time.Second,
		BotDelay:          1500 * time.Millisecond,
		ActionDelay:       time.Second,
		IntermissionTick:  time.Second,
		IntermissionTicks: 5,
	}
}

// HandResult contains the results of a completed hand
type HandResult struct {
	ID           string
	Number       int
	Pot          int
	ShowdownType string // "fold" or "showdown"
	Winners      []Payout
	Showdown     []ShowdownEntry
	Board        []deck.Card
}

// Engine drives the hand loop and the betting rounds for one table. All table
// mutation happens on the goroutine calling Run or PlayHand.
type Engine struct {
	table   *Table
	agents  map[int]Agent // keyed by Player.Seat
	bus     EventBus
	clock   quartz.Clock
	logger  *log.Logger
	pacing  Pacing
	split   SplitPolicy
	running atomic.Bool
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock sets the clock used for pacing and the intermission
func WithClock(clock quartz.Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

// WithPacing overrides the default delays
func WithPacing(p Pacing) EngineOption {
	return func(e *Engine) { e.pacing = p }
}

// WithSplitPolicy sets how odd chips are handled on split pots
func WithSplitPolicy(policy SplitPolicy) EngineOption {
	return func(e *Engine) { e.split = policy }
}

// WithEventBus publishes events on bus instead of a private one
func WithEventBus(bus EventBus) EngineOption {
	return func(e *Engine) { e.bus = bus }
}

// NewEngine creates an engine for table
func NewEngine(table *Table, logger *log.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		table:  table,
		agents: make(map[int]Agent),
		clock:  quartz.NewReal(),
		logger: logger.WithPrefix("engine"),
		pacing: DefaultPacing(),
		split:  SplitFloor,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = NewEventBus()
	}
	return e
}

// Seat adds a player to the table and assigns the agent that decides for it
func (e *Engine) Seat(p *Player, agent Agent) error {
	if agent == nil {
		return fmt.Errorf("seat %d: nil agent", p.Seat)
	}
	if _, taken := e.agents[p.Seat]; taken {
		return fmt.Errorf("seat %d already taken", p.Seat)
	}
	if err := e.table.AddPlayer(p); err != nil {
		return err
	}
	e.agents[p.Seat] = agent
	return nil
}

// EventBus returns the bus the engine publishes on
func (e *Engine) EventBus() EventBus {
	return e.bus
}

// isRunning reports whether Run is in progress
func (e *Engine) isRunning() bool {
	return e.running.Load()
}

// Run plays hands until fewer than two players have chips or ctx is done.
// It returns nil when the game ends normally.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer e.running.Store(false)

	for {
		if _, err := e.PlayHand(ctx); err != nil {
			if errors.Is(err, ErrNotEnoughPlayers) {
				break
			}
			return err
		}

		if err := e.intermission(ctx); err != nil {
			return err
		}

		if e.table.PlayersWithChips() < 2 {
			break
		}
	}

	winner := ""
	for _, p := range e.table.Players() {
		if p.Chips > 0 {
			winner = p.Name
		}
	}
	e.logger.Info("Game over", "winner", winner)
	e.logf("Game Over! Please refresh to start a new game.")
	e.bus.Publish(NewGameOverEvent(winner))
	return nil
}

// intermission counts down between hands, publishing one tick per interval
func (e *Engine) intermission(ctx context.Context) error {
	ticks := e.pacing.IntermissionTicks
	if ticks <= 0 {
		return ctx.Err()
	}
	e.logf("--- Next hand in %d seconds ---", int((time.Duration(ticks) * e.pacing.IntermissionTick).Seconds()))
	for i := ticks; i > 0; i-- {
		e.bus.Publish(NewTimerEvent(i))
		if err := e.sleep(ctx, e.pacing.IntermissionTick); err != nil {
			return err
		}
	}
	e.bus.Publish(NewTimerEvent(0))
	return nil
}

// PlayHand runs a complete hand from start to finish and returns the result
func (e *Engine) PlayHand(ctx context.Context) (*HandResult, error) {
	t := e.table
	if err := t.StartHand(); err != nil {
		return nil, err
	}

	result := &HandResult{
		ID:     uuid.NewString(),
		Number: t.handNumber,
	}
	logger := e.logger.With("hand", t.handNumber)
	logger.Debug("Starting hand", "id", result.ID, "dealer", t.players[t.dealer].Name)

	e.logf("--- New Hand Starting ---")
	e.publishState(false)
	if err := e.sleep(ctx, e.pacing.HandStartDelay); err != nil {
		return nil, err
	}

	blinds := t.PostBlinds()
	e.logf("%s posts small blind of %d", t.players[blinds.SmallSeat].Name, blinds.SmallAmount)
	e.logf("%s posts big blind of %d", t.players[blinds.BigSeat].Name, blinds.BigAmount)
	t.DealHoleCards()
	e.bus.Publish(NewHandStartEvent(result.ID, result.Number, t.players[t.dealer].Name, blinds))

	contested := true
	for _, stage := range []Stage{PreFlop, Flop, Turn, River} {
		ok, err := e.bettingRound(ctx, stage)
		if err != nil {
			return nil, err
		}
		if !ok {
			contested = false
			break
		}
	}

	result.Pot = t.pot
	result.Board = append([]deck.Card(nil), t.community...)

	if contested {
		e.logf("--- Showdown ---")
		entries, payouts := t.Showdown(e.split)
		e.publishState(true)
		for _, entry := range entries {
			e.logf("%s has: %s", entry.Name, entry.Hand.Name())
		}
		for _, w := range payouts {
			e.logf("%s wins %d with %s", w.Name, w.Amount, w.HandName)
		}
		result.ShowdownType = "showdown"
		result.Showdown = entries
		result.Winners = payouts
	} else {
		payout, ok := t.AwardUncontested()
		if ok {
			e.logf("%s wins the pot of %d!", payout.Name, payout.Amount)
			result.Winners = []Payout{payout}
		} else {
			logger.Warn("No single contender to award the pot to", "pot", t.pot)
		}
		result.ShowdownType = "fold"
		e.publishState(false)
	}

	logger.Debug("Hand complete", "pot", result.Pot, "type", result.ShowdownType, "winners", len(result.Winners))
	e.bus.Publish(NewHandEndEvent(result))
	return result, nil
}

// bettingRound runs one street. It reports whether two or more players are
// still contesting the pot.
func (e *Engine) bettingRound(ctx context.Context, stage Stage) (bool, error) {
	t := e.table
	t.BeginStreet(stage)
	e.logf("--- %s ---", stage)
	e.bus.Publish(NewStreetChangeEvent(stage, t.community))

	// Nobody left to bet against
	if t.canActCount() < 2 && t.currentBet == 0 {
		t.CollectBets()
		e.publishState(false)
		return t.contenderCount() >= 2, nil
	}

	n := len(t.players)
	starter := t.current

	for t.contenderCount() > 1 {
		p := t.players[t.current]

		if !p.CanAct() {
			next := t.NextActiveSeat(t.current)
			if next == t.current || reaches(t.current, next, starter, n) {
				break
			}
			t.current = next
			continue
		}

		out, err := e.act(ctx, t.current)
		if err != nil {
			return false, err
		}
		if out.Raised {
			starter = t.current
		}

		next := t.NextActiveSeat(t.current)
		if next == t.current {
			// Only this player can still act. Ask again only if they have
			// not matched the bet.
			if t.betsMatched() || !p.CanAct() {
				break
			}
			continue
		}
		closed := reaches(t.current, next, starter, n)
		t.current = next
		if closed && t.betsMatched() {
			break
		}
	}

	t.CollectBets()
	e.publishState(false)
	return t.contenderCount() >= 2, nil
}

// act asks the agent for the player at index seat and applies the decision
func (e *Engine) act(ctx context.Context, seat int) (Outcome, error) {
	t := e.table
	p := t.players[seat]
	agent, ok := e.agents[p.Seat]
	if !ok {
		return Outcome{}, fmt.Errorf("no agent for seat %d", p.Seat)
	}

	e.logf("Turn for %s.", p.Name)
	e.publishState(false)

	if p.IsBot {
		if err := e.sleep(ctx, e.pacing.BotDelay); err != nil {
			return Outcome{}, err
		}
	}

	decision, err := agent.MakeDecision(ctx, t.requestFor(seat))
	if err != nil {
		return Outcome{}, fmt.Errorf("%s decision: %w", p.Name, err)
	}

	out := t.Apply(seat, decision)
	e.narrate(p, out)
	e.bus.Publish(NewPlayerActionEvent(p.Seat, p.Name, t.stage, out, decision.Reasoning))
	e.publishState(false)

	if err := e.sleep(ctx, e.pacing.ActionDelay); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (e *Engine) narrate(p *Player, out Outcome) {
	switch out.Action {
	case Fold:
		e.logf("%s folds.", p.Name)
	case Check:
		e.logf("%s checks.", p.Name)
	case Call:
		e.logf("%s calls %d.", p.Name, out.Paid)
	case Bet, Raise:
		verb := "raises"
		if out.ToCall == 0 {
			verb = "bets"
		}
		e.logf("%s %s to %d.", p.Name, verb, out.Total)
	}
}

// reaches reports whether moving forward around the table from from to to
// lands on or steps over target.
func reaches(from, to, target, n int) bool {
	dist := func(a, b int) int {
		d := ((b-a)%n + n) % n
		if d == 0 {
			d = n
		}
		return d
	}
	return dist(from, target) <= dist(from, to)
}

func (e *Engine) publishState(showAll bool) {
	e.bus.Publish(NewStateEvent(e.table.Snapshot(showAll)))
}

// logf narrates to subscribers and the debug log
func (e *Engine) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	e.logger.Debug(msg)
	e.bus.Publish(NewLogEvent(msg))
}

// sleep waits for d on the engine clock or until ctx is done
func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := e.clock.NewTimer(d, "engine", "sleep")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
