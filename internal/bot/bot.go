// Package bot provides the automated players that fill the table. Every
// strategy implements game.Agent and sees only the ActionRequest for its
// seat, so strategies can be swapped without touching the engine.
package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-table/internal/game"
)

// Strategy names accepted by New
const (
	StrategyHeuristic = "heuristic"
	StrategyCall      = "call"
	StrategyFold      = "fold"
	StrategyRandom    = "random"
)

type factory func(logger *log.Logger, rng *rand.Rand) game.Agent

var strategies = map[string]factory{
	StrategyHeuristic: func(logger *log.Logger, _ *rand.Rand) game.Agent { return NewHeuristicBot(logger) },
	StrategyCall:      func(logger *log.Logger, _ *rand.Rand) game.Agent { return NewCallBot(logger) },
	StrategyFold:      func(logger *log.Logger, _ *rand.Rand) game.Agent { return NewFoldBot(logger) },
	StrategyRandom:    func(logger *log.Logger, rng *rand.Rand) game.Agent { return NewRandBot(rng, logger) },
}

// New creates a bot for the named strategy. An empty name selects the
// heuristic bot.
func New(strategy string, logger *log.Logger, rng *rand.Rand) (game.Agent, error) {
	if strategy == "" {
		strategy = StrategyHeuristic
	}
	f, ok := strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q (valid: %v)", strategy, Strategies())
	}
	return f(logger.WithPrefix(strategy+"-bot"), rng), nil
}

// Strategies returns the known strategy names, sorted
func Strategies() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether strategy names a known bot
func Valid(strategy string) bool {
	if strategy == "" {
		return true
	}
	_, ok := strategies[strategy]
	return ok
}

// checkOrCall continues without raising
func checkOrCall(req game.ActionRequest, reasoning string) game.Decision {
	if req.ToCall > 0 {
		return game.Decision{Action: game.Call, Reasoning: reasoning}
	}
	return game.Decision{Action: game.Check, Reasoning: reasoning}
}

// checkOrFold gives up unless it is free to continue
func checkOrFold(req game.ActionRequest, reasoning string) game.Decision {
	if req.ToCall > 0 {
		return game.Decision{Action: game.Fold, Reasoning: reasoning}
	}
	return game.Decision{Action: game.Check, Reasoning: reasoning}
}

// raiseTo builds a raise capped at the player's stack
func raiseTo(req game.ActionRequest, total int, reasoning string) game.Decision {
	if limit := req.MaxTotal(); total > limit {
		total = limit
	}
	return game.Decision{Action: game.Raise, Amount: total, Reasoning: reasoning}
}

func done(ctx context.Context) error {
	return ctx.Err()
}
