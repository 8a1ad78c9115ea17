// Package session owns the single table a server hosts. It seats the human
// and the bots, runs the engine, and ties the current websocket connection
// to the human seat.
package session

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-table/internal/bot"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/internal/statistics"
)

// HumanSeat is the seat number of the human player
const HumanSeat = 0

// BotSeat describes one automated opponent
type BotSeat struct {
	Name     string
	Strategy string
	Chips    int
}

// Config describes the table a Manager creates
type Config struct {
	HumanName     string
	HumanChips    int
	Bots          []BotSeat
	SmallBlind    int
	BigBlind      int
	Seed          int64
	ActionTimeout time.Duration // zero waits for the human indefinitely
	SplitPolicy   game.SplitPolicy
	Pacing        game.Pacing
}

// DefaultConfig returns the classic table: "You" against three bots
func DefaultConfig() Config {
	return Config{
		HumanName:  "You",
		HumanChips: 1000,
		Bots: []BotSeat{
			{Name: "Bot Alice", Strategy: bot.StrategyHeuristic, Chips: 1000},
			{Name: "Bot Bob", Strategy: bot.StrategyHeuristic, Chips: 1000},
			{Name: "Bot Charlie", Strategy: bot.StrategyHeuristic, Chips: 1000},
		},
		SmallBlind: 10,
		BigBlind:   20,
		Seed:       time.Now().UnixNano(),
		Pacing:     game.DefaultPacing(),
	}
}

// Attachment is what a newly connected client needs to catch up
type Attachment struct {
	Created bool                // A fresh table was created for this connection
	State   *game.Snapshot      // Latest table state, nil before the first hand
	Pending *game.ActionRequest // Open wait on the human seat, if any
}

// Manager owns the table and engine for one human player
type Manager struct {
	cfg    Config
	logger *log.Logger
	clock  quartz.Clock
	bus    *game.SimpleEventBus
	rng    *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	connID   string
	engine   *game.Engine
	human    *HumanAgent
	last     *game.Snapshot
	finished bool
	tables   int

	stats       *statistics.Recorder
	unsubscribe func()
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock for engine pacing and human timeouts
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// NewManager creates a manager. No table exists until the first Connect.
func NewManager(cfg Config, logger *log.Logger, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:    cfg,
		logger: logger.WithPrefix("session"),
		clock:  quartz.NewReal(),
		bus:    game.NewEventBus(),
		rng:    randutil.New(cfg.Seed),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.bus.Subscribe(m)
	return m
}

// EventBus returns the bus every table this manager creates publishes on
func (m *Manager) EventBus() game.EventBus {
	return m.bus
}

// Connect associates connID with the human seat, replacing any previous
// connection. The first connection, and the first after a finished game,
// creates a table and starts play.
func (m *Manager) Connect(connID string) (Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ctx.Err(); err != nil {
		return Attachment{}, fmt.Errorf("session closed: %w", err)
	}

	previous := m.connID
	m.connID = connID

	var att Attachment
	if m.engine == nil || m.finished {
		if err := m.startTable(); err != nil {
			return Attachment{}, err
		}
		att.Created = true
		m.logger.Info("Created table", "conn", connID, "tables", m.tables)
	} else {
		m.logger.Info("Re-associated human seat", "conn", connID, "previous", previous)
	}

	if m.last != nil {
		s := *m.last
		att.State = &s
	}
	if req, ok := m.human.Pending(); ok {
		att.Pending = &req
	}
	return att, nil
}

// startTable builds a new table and engine and starts the hand loop. Caller
// holds m.mu.
func (m *Manager) startTable() error {
	cfg := m.cfg
	table := game.NewTable(game.TableConfig{
		MaxSeats:   1 + len(cfg.Bots),
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
	}, randutil.New(m.rng.Int64()))

	engine := game.NewEngine(table, m.logger,
		game.WithClock(m.clock),
		game.WithPacing(cfg.Pacing),
		game.WithSplitPolicy(cfg.SplitPolicy),
		game.WithEventBus(m.bus))

	human := NewHumanAgent(m.bus, m.clock, cfg.ActionTimeout, CheckOrFold, m.logger)
	if err := engine.Seat(game.NewPlayer(HumanSeat, cfg.HumanName, cfg.HumanChips, false), human); err != nil {
		return fmt.Errorf("seating %s: %w", cfg.HumanName, err)
	}
	for i, b := range cfg.Bots {
		agent, err := bot.New(b.Strategy, m.logger.With("bot", b.Name), randutil.New(m.rng.Int64()))
		if err != nil {
			return fmt.Errorf("creating %s: %w", b.Name, err)
		}
		if err := engine.Seat(game.NewPlayer(i+1, b.Name, b.Chips, true), agent); err != nil {
			return fmt.Errorf("seating %s: %w", b.Name, err)
		}
	}
	table.SetDealer(m.rng.IntN(len(table.Players())))

	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.stats = statistics.NewRecorder(cfg.HumanName, cfg.BigBlind)
	m.unsubscribe = m.bus.Subscribe(m.stats)

	m.engine = engine
	m.human = human
	m.last = nil
	m.finished = false
	m.tables++

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := engine.Run(m.ctx); err != nil && m.ctx.Err() == nil {
			m.logger.Error("Engine stopped", "error", err)
		}
		m.mu.Lock()
		m.finished = true
		m.mu.Unlock()
	}()
	return nil
}

// Disconnect forgets connID if it is still the human's connection. Play
// continues; the human's turns wait or time out.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connID == connID {
		m.connID = ""
		m.logger.Info("Human disconnected", "conn", connID)
	}
}

// Submit delivers a decision from connID. Decisions from stale connections,
// or when the human is not being waited on, are dropped.
func (m *Manager) Submit(connID string, d game.Decision) bool {
	m.mu.Lock()
	human := m.human
	current := m.connID
	m.mu.Unlock()

	if human == nil || connID != current {
		return false
	}
	accepted := human.Submit(HumanSeat, d)
	if !accepted {
		m.logger.Debug("Ignored action outside the human's turn", "conn", connID, "action", d.Action)
	}
	return accepted
}

// ConnID returns the connection currently controlling the human seat
func (m *Manager) ConnID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connID
}

// lastState returns the latest table snapshot
func (m *Manager) lastState() (game.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return game.Snapshot{}, false
	}
	return *m.last, true
}

// Finished reports whether the current game has ended
func (m *Manager) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished
}

// OnEvent caches the latest state for reconnecting clients
func (m *Manager) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.StateEvent:
		m.mu.Lock()
		s := e.Snapshot
		m.last = &s
		m.mu.Unlock()
	case game.GameOverEvent:
		sum, ok := m.Stats()
		if !ok {
			m.logger.Info("Game finished", "winner", e.Winner)
			return
		}
		m.logger.Info("Game finished", "winner", e.Winner,
			"hands", sum.Hands, "net_bb", sum.NetBB, "mean_bb", sum.MeanBB,
			"median_bb", sum.MedianBB, "ci95", fmt.Sprintf("%.2f..%.2f", sum.CI95Low, sum.CI95High),
			"positions", sum.PositionMeanBB)
		if !sum.Consistent {
			m.logger.Warn("Inconsistent session statistics", "problem", sum.Problem)
		}
	}
}

// Stats returns the human's results for the current game
func (m *Manager) Stats() (statistics.Summary, bool) {
	m.mu.Lock()
	rec := m.stats
	m.mu.Unlock()

	if rec == nil {
		return statistics.Summary{}, false
	}
	return rec.Summary(), true
}

// Close stops the engine and waits for it to exit
func (m *Manager) Close() {
	m.cancel()
	m.wg.Wait()
}
