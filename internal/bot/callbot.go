package bot

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-table/internal/game"
)

// CallBot is a calling station: it checks or calls every street
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) MakeDecision(ctx context.Context, req game.ActionRequest) (game.Decision, error) {
	if err := done(ctx); err != nil {
		return game.Decision{}, err
	}
	return checkOrCall(req, "call-bot"), nil
}
