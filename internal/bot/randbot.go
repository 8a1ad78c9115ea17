package bot

import (
	"context"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-table/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) MakeDecision(ctx context.Context, req game.ActionRequest) (game.Decision, error) {
	if err := done(ctx); err != nil {
		return game.Decision{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var choices []game.Action
	if req.ToCall > 0 {
		choices = []game.Action{game.Fold, game.Call}
	} else {
		choices = []game.Action{game.Check}
	}

	minTotal := req.CurrentBet + req.MinRaise
	maxTotal := req.MaxTotal()
	if maxTotal > req.CurrentBet {
		choices = append(choices, game.Raise)
	}

	action := choices[r.rng.IntN(len(choices))]
	if action != game.Raise {
		return game.Decision{Action: action, Reasoning: "rand-bot random action"}, nil
	}

	amount := maxTotal
	if maxTotal > minTotal {
		amount = minTotal + r.rng.IntN(maxTotal-minTotal+1)
	}
	return game.Decision{Action: game.Raise, Amount: amount, Reasoning: "rand-bot random raise"}, nil
}
