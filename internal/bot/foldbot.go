package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-table/internal/game"
)

// FoldBot is a simple bot that always folds (or checks when possible)
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) MakeDecision(ctx context.Context, req game.ActionRequest) (game.Decision, error) {
	if err := done(ctx); err != nil {
		return game.Decision{}, err
	}
	return checkOrFold(req, "fold-bot"), nil
}
