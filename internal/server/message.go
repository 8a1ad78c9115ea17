package server

import (
	"encoding/json"
	"time"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/game"
)

// MessageType identifies a websocket message
type MessageType string

// Client → server
const (
	MessageTypePlayerAction MessageType = "player_action"
)

// Server → client
const (
	MessageTypeGameStateUpdate MessageType = "game_state_update"
	MessageTypeYourTurn        MessageType = "your_turn"
	MessageTypeLogMessage      MessageType = "log_message"
	MessageTypeTimerUpdate     MessageType = "timer_update"
	MessageTypeError           MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// PlayerActionData is the human's decision. Amount is the requested total
// bet for bet and raise.
type PlayerActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Decision converts the wire action. Unknown actions become checks.
func (d PlayerActionData) Decision() game.Decision {
	return game.Decision{Action: game.ParseAction(d.Action), Amount: d.Amount}
}

// CardData is a face-up card, or {} for a hidden one
type CardData struct {
	Suit  string `json:"suit,omitempty"`
	Rank  string `json:"rank,omitempty"`
	Color string `json:"color,omitempty"`
}

// CardDataFromDeck converts a card for the wire
func CardDataFromDeck(c deck.Card) CardData {
	return CardData{Suit: c.Suit.String(), Rank: c.Rank.String(), Color: c.Color()}
}

func cardsData(cards []deck.Card) []CardData {
	out := make([]CardData, len(cards))
	for i, c := range cards {
		out[i] = CardDataFromDeck(c)
	}
	return out
}

// PlayerData is one seat in a state update
type PlayerData struct {
	Name   string     `json:"name"`
	Chips  int        `json:"chips"`
	IsBot  bool       `json:"isBot"`
	Hand   []CardData `json:"hand"`
	Bet    int        `json:"bet"`
	InHand bool       `json:"inHand"`
	Status string     `json:"status"`
}

// GameStateData is the full table view sent to a client
type GameStateData struct {
	Players            []PlayerData `json:"players"`
	CommunityCards     []CardData   `json:"communityCards"`
	Pot                int          `json:"pot"`
	DealerPos          int          `json:"dealerPos"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	Stage              string       `json:"stage"`
}

// GameStateFromSnapshot builds the view of s seen by the controller of
// viewerSeat. Hole cards the viewer may not see are sent as empty
// placeholders so the client still knows how many there are.
func GameStateFromSnapshot(s game.Snapshot, viewerSeat int) GameStateData {
	data := GameStateData{
		Players:            make([]PlayerData, len(s.Players)),
		CommunityCards:     cardsData(s.CommunityCards),
		Pot:                s.Pot,
		DealerPos:          s.DealerPos,
		CurrentPlayerIndex: s.CurrentPlayerIndex,
		Stage:              s.Stage.String(),
	}
	for i, p := range s.Players {
		hand := make([]CardData, len(p.Hand))
		if s.CardsVisible(i, viewerSeat) {
			hand = cardsData(p.Hand)
		}
		data.Players[i] = PlayerData{
			Name:   p.Name,
			Chips:  p.Chips,
			IsBot:  p.IsBot,
			Hand:   hand,
			Bet:    p.Bet,
			InHand: p.InHand,
			Status: string(p.Status),
		}
	}
	return data
}

// YourTurnData prompts the human to act
type YourTurnData struct {
	ToCall   int `json:"toCall"`
	MinRaise int `json:"minRaise"`
	Chips    int `json:"chips"`
}

// YourTurnFromRequest converts a pending request
func YourTurnFromRequest(req game.ActionRequest) YourTurnData {
	return YourTurnData{ToCall: req.ToCall, MinRaise: req.MinRaise, Chips: req.Chips}
}

// TimerData is one intermission tick
type TimerData struct {
	Countdown int `json:"countdown"`
}

// ErrorData reports a problem with a client message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
