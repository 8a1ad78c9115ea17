package game

import (
	"sync"
	"time"

	"github.com/lox/holdem-table/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
	EventTypeState        EventType = "state"
	EventTypeLog          EventType = "log"
	EventTypeActionNeeded EventType = "action_needed"
	EventTypeTimer        EventType = "timer"
	EventTypeGameOver     EventType = "game_over"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a poker game
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartEvent is published once blinds are posted and cards dealt
type HandStartEvent struct {
	HandID     string
	HandNumber int
	Dealer     string
	Blinds     Blinds
	timestamp  time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }

// NewHandStartEvent creates a new hand start event
func NewHandStartEvent(handID string, number int, dealer string, blinds Blinds) HandStartEvent {
	return HandStartEvent{
		HandID:     handID,
		HandNumber: number,
		Dealer:     dealer,
		Blinds:     blinds,
		timestamp:  time.Now(),
	}
}

// PlayerActionEvent is published after a decision has been applied
type PlayerActionEvent struct {
	Seat      int
	Name      string
	Stage     Stage
	Outcome   Outcome
	Reasoning string
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// NewPlayerActionEvent creates a new player action event
func NewPlayerActionEvent(seat int, name string, stage Stage, out Outcome, reasoning string) PlayerActionEvent {
	return PlayerActionEvent{
		Seat:      seat,
		Name:      name,
		Stage:     stage,
		Outcome:   out,
		Reasoning: reasoning,
		timestamp: time.Now(),
	}
}

// StreetChangeEvent is published when a betting round begins
type StreetChangeEvent struct {
	Stage          Stage
	CommunityCards []deck.Card
	timestamp      time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }

// NewStreetChangeEvent creates a new street change event
func NewStreetChangeEvent(stage Stage, communityCards []deck.Card) StreetChangeEvent {
	return StreetChangeEvent{
		Stage:          stage,
		CommunityCards: append([]deck.Card(nil), communityCards...),
		timestamp:      time.Now(),
	}
}

// HandEndEvent is published when a hand completes
type HandEndEvent struct {
	Result    *HandResult
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }

// NewHandEndEvent creates a new hand end event
func NewHandEndEvent(result *HandResult) HandEndEvent {
	return HandEndEvent{Result: result, timestamp: time.Now()}
}

// StateEvent carries a full table snapshot. Snapshots hold every hole card
// and must be redacted before leaving the process.
type StateEvent struct {
	Snapshot  Snapshot
	timestamp time.Time
}

func (e StateEvent) EventType() EventType { return EventTypeState }
func (e StateEvent) Timestamp() time.Time { return e.timestamp }

// NewStateEvent creates a new state event
func NewStateEvent(s Snapshot) StateEvent {
	return StateEvent{Snapshot: s, timestamp: time.Now()}
}

// LogEvent is a line of table narration
type LogEvent struct {
	Message   string
	timestamp time.Time
}

func (e LogEvent) EventType() EventType { return EventTypeLog }
func (e LogEvent) Timestamp() time.Time { return e.timestamp }

// NewLogEvent creates a new log event
func NewLogEvent(message string) LogEvent {
	return LogEvent{Message: message, timestamp: time.Now()}
}

// ActionNeededEvent is published when the hand loop is waiting on an
// external decision for a seat
type ActionNeededEvent struct {
	Request   ActionRequest
	timestamp time.Time
}

func (e ActionNeededEvent) EventType() EventType { return EventTypeActionNeeded }
func (e ActionNeededEvent) Timestamp() time.Time { return e.timestamp }

// NewActionNeededEvent creates a new action needed event
func NewActionNeededEvent(req ActionRequest) ActionNeededEvent {
	return ActionNeededEvent{Request: req, timestamp: time.Now()}
}

// TimerEvent is one tick of the countdown between hands
type TimerEvent struct {
	Countdown int
	timestamp time.Time
}

func (e TimerEvent) EventType() EventType { return EventTypeTimer }
func (e TimerEvent) Timestamp() time.Time { return e.timestamp }

// NewTimerEvent creates a new timer event
func NewTimerEvent(countdown int) TimerEvent {
	return TimerEvent{Countdown: countdown, timestamp: time.Now()}
}

// GameOverEvent is published when fewer than two players have chips
type GameOverEvent struct {
	Winner    string // empty if nobody has chips
	timestamp time.Time
}

func (e GameOverEvent) EventType() EventType { return EventTypeGameOver }
func (e GameOverEvent) Timestamp() time.Time { return e.timestamp }

// NewGameOverEvent creates a new game over event
func NewGameOverEvent(winner string) GameOverEvent {
	return GameOverEvent{Winner: winner, timestamp: time.Now()}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to the EventSubscriber interface
type SubscriberFunc func(event GameEvent)

// OnEvent calls f
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is an in-memory event bus. Publish delivers synchronously
// on the caller's goroutine, in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make(map[int]EventSubscriber),
	}
}

// Subscribe adds a subscriber and returns a function that removes it
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()

		delete(bus.subscribers, id)
		for i, sid := range bus.order {
			if sid == id {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, sub := range subs {
		sub.OnEvent(event)
	}
}
