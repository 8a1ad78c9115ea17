package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-table/internal/game"
)

// TimeoutPolicy chooses the decision for a human who did not act in time
type TimeoutPolicy func(req game.ActionRequest) game.Decision

// CheckOrFold checks when that is free and folds otherwise
func CheckOrFold(req game.ActionRequest) game.Decision {
	if req.ToCall > 0 {
		return game.Decision{Action: game.Fold, Reasoning: "timeout"}
	}
	return game.Decision{Action: game.Check, Reasoning: "timeout"}
}

// HumanAgent parks the hand loop until a remote player submits a decision
type HumanAgent struct {
	slot    *game.ActionSlot
	bus     game.EventBus
	clock   quartz.Clock
	timeout time.Duration // zero waits until the context ends
	policy  TimeoutPolicy
	logger  *log.Logger
}

// NewHumanAgent creates a human agent that announces each wait on bus
func NewHumanAgent(bus game.EventBus, clock quartz.Clock, timeout time.Duration, policy TimeoutPolicy, logger *log.Logger) *HumanAgent {
	if policy == nil {
		policy = CheckOrFold
	}
	return &HumanAgent{
		slot:    game.NewActionSlot(),
		bus:     bus,
		clock:   clock,
		timeout: timeout,
		policy:  policy,
		logger:  logger.WithPrefix("human"),
	}
}

// MakeDecision implements game.Agent
func (h *HumanAgent) MakeDecision(ctx context.Context, req game.ActionRequest) (game.Decision, error) {
	var expired chan struct{}
	if h.timeout > 0 {
		expired = make(chan struct{})
		timer := h.clock.AfterFunc(h.timeout, func() { close(expired) }, "human", "timeout")
		defer timer.Stop()
	}

	decisions := h.slot.Open(req)
	defer h.slot.Close()

	h.logger.Debug("Waiting for decision", "player", req.Name, "to_call", req.ToCall, "timeout", h.timeout)
	h.bus.Publish(game.NewActionNeededEvent(req))

	select {
	case d := <-decisions:
		h.logger.Debug("Received decision", "player", req.Name, "action", d.Action, "amount", d.Amount)
		return d, nil
	case <-expired:
		h.slot.Close()
		// A decision that beat the close still wins
		select {
		case d := <-decisions:
			return d, nil
		default:
		}
		d := h.policy(req)
		h.logger.Info("Decision timeout", "player", req.Name, "action", d.Action)
		h.bus.Publish(game.NewLogEvent(req.Name + " ran out of time."))
		return d, nil
	case <-ctx.Done():
		return game.Decision{}, ctx.Err()
	}
}

// Submit delivers a decision for seat. It reports false when the agent is not
// waiting on that seat.
func (h *HumanAgent) Submit(seat int, d game.Decision) bool {
	return h.slot.Fulfil(seat, d)
}

// Pending returns the request the agent is waiting on, if any
func (h *HumanAgent) Pending() (game.ActionRequest, bool) {
	return h.slot.Pending()
}
