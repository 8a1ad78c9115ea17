package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
	"github.com/lox/holdem-table/internal/game"
)

// HeuristicBot plays tiers of starting hands pre-flop and its made hand
// category after the flop. It is the default opponent.
type HeuristicBot struct {
	logger *log.Logger
}

// NewHeuristicBot creates a new HeuristicBot instance
func NewHeuristicBot(logger *log.Logger) *HeuristicBot {
	return &HeuristicBot{logger: logger}
}

// MakeDecision implements game.Agent
func (b *HeuristicBot) MakeDecision(ctx context.Context, req game.ActionRequest) (game.Decision, error) {
	if err := done(ctx); err != nil {
		return game.Decision{}, err
	}

	var d game.Decision
	if req.Stage == game.PreFlop || len(req.Community) == 0 {
		d = b.preFlop(req)
	} else {
		d = b.postFlop(req)
	}

	b.logger.Debug("Bot decision",
		"player", req.Name,
		"stage", req.Stage,
		"hole", req.HoleCards,
		"to_call", req.ToCall,
		"action", d.Action,
		"amount", d.Amount,
		"reasoning", d.Reasoning)
	return d, nil
}

func (b *HeuristicBot) preFlop(req game.ActionRequest) game.Decision {
	if len(req.HoleCards) != 2 {
		return checkOrFold(req, "no hole cards")
	}
	hi, lo := req.HoleCards[0], req.HoleCards[1]
	if lo.Value() > hi.Value() {
		hi, lo = lo, hi
	}
	pair := hi.Rank == lo.Rank

	switch {
	case pair && hi.Rank >= deck.Jack, hi.Rank == deck.Ace && lo.Rank == deck.King:
		step := max(req.MinRaise, req.BigBlind)
		return raiseTo(req, req.CurrentBet+step*2, "premium starting hand")
	case pair && hi.Rank >= deck.Eight, hi.Rank == deck.Ace && lo.Rank == deck.Queen:
		return checkOrCall(req, "playable starting hand")
	case pair && req.ToCall > 0 && req.ToCall*10 < req.Chips:
		return game.Decision{Action: game.Call, Reasoning: "cheap set mining"}
	default:
		return checkOrFold(req, "weak starting hand")
	}
}

func (b *HeuristicBot) postFlop(req game.ActionRequest) game.Decision {
	cards := append(append([]deck.Card(nil), req.HoleCards...), req.Community...)
	hand, err := evaluator.Evaluate(cards)
	if err != nil {
		b.logger.Warn("Cannot evaluate hand", "player", req.Name, "error", err)
		return checkOrFold(req, "unknown hand")
	}
	strength := hand.Rank

	if req.ToCall == 0 {
		if strength >= evaluator.ThreeOfAKind {
			amount := max(req.BigBlind, min(req.Chips, req.Pot*3/4))
			return game.Decision{Action: game.Bet, Amount: amount, Reasoning: "value bet with " + hand.Name()}
		}
		return game.Decision{Action: game.Check, Reasoning: "nothing to bet with " + hand.Name()}
	}

	switch {
	case req.ToCall*10 > req.Chips*3:
		return game.Decision{Action: game.Fold, Reasoning: "bet too large"}
	case strength >= evaluator.Straight:
		step := max(req.MinRaise, req.ToCall)
		return raiseTo(req, req.CurrentBet+step*2, "raise with "+hand.Name())
	case strength >= evaluator.TwoPair:
		return game.Decision{Action: game.Call, Reasoning: "call with " + hand.Name()}
	default:
		return game.Decision{Action: game.Fold, Reasoning: "fold " + hand.Name()}
	}
}
